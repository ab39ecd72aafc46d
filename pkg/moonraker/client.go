// Package moonraker is the HTTP client for the Moonraker controller API.
// Each call opens a session bounded by the configured timeout and releases
// it on every exit path; no connection state is held between calls.
package moonraker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shaker-host/pkg/config"
	"shaker-host/pkg/errors"
	"shaker-host/pkg/log"
)

// Result is the controller's decoded JSON response, passed through verbatim.
type Result map[string]any

// API is the controller surface the dispatcher depends on.
type API interface {
	// SendGCode posts a command script to the controller.
	SendGCode(ctx context.Context, script string) (Result, error)

	// PrinterInfo fetches the controller status blob.
	PrinterInfo(ctx context.Context) (Result, error)
}

// Client talks to a Moonraker instance over HTTP.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for the configured controller.
func NewClient(cfg config.Controller) *Client {
	timeout := time.Duration(cfg.TimeoutSec * float64(time.Second))
	return &Client{
		baseURL: cfg.BaseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.GetLogger("moonraker"),
	}
}

// do performs one bounded request and maps the outcome onto the error
// taxonomy. The response body is always drained and closed.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.InternalError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("controller unreachable")
		return nil, errors.ConnectionError(c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ConnectionError(c.baseURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("controller error %d on %s %s", resp.StatusCode, method, path)
		return nil, errors.DeviceResponseError(resp.StatusCode, string(data))
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.InternalError(fmt.Errorf("decode controller response: %w", err))
	}
	return result, nil
}

// SendGCode posts a command script to /printer/gcode/script.
func (c *Client) SendGCode(ctx context.Context, script string) (Result, error) {
	payload, err := json.Marshal(map[string]string{"script": script})
	if err != nil {
		return nil, errors.InternalError(err)
	}
	return c.do(ctx, http.MethodPost, "/printer/gcode/script", payload)
}

// PrinterInfo fetches /printer/info and returns the status blob unmodified.
func (c *Client) PrinterInfo(ctx context.Context) (Result, error) {
	return c.do(ctx, http.MethodGet, "/printer/info", nil)
}
