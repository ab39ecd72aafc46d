// Package server exposes the shaker host HTTP API: one endpoint per motion
// pattern, the controller prepare/pause operations, the telemetry websocket
// proxy and the metrics endpoint. Routing is thin; all behavior lives in the
// dispatcher and relay.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"shaker-host/pkg/config"
	"shaker-host/pkg/errors"
	"shaker-host/pkg/log"
	"shaker-host/pkg/metrics"
	"shaker-host/pkg/relay"
	"shaker-host/pkg/shaker"
)

// Server is the shaker host HTTP API server.
type Server struct {
	cfg        *config.Config
	dispatcher *shaker.Dispatcher
	relay      *relay.Relay
	logger     *log.Logger
	wsUpgrader websocket.Upgrader
	httpServer *http.Server
}

// New creates the API server.
func New(cfg *config.Config, dispatcher *shaker.Dispatcher, telemetry *relay.Relay) *Server {
	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		relay:      telemetry,
		logger:     log.GetLogger("server"),
		wsUpgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Frontends connect from arbitrary origins
			},
		},
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/shaker/orbital", s.handleOrbital)
	mux.HandleFunc("/shaker/linear", s.handleLinear)
	mux.HandleFunc("/shaker/3d", s.handleHelical)
	mux.HandleFunc("/printer/run", s.handleRun)
	mux.HandleFunc("/printer/pause", s.handlePause)
	mux.HandleFunc("/websocket", s.handleWebsocket)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}

// Start serves the API until Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket sessions are long-lived
	}
	s.logger.Info("listening on %s", s.cfg.ListenAddr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// envelope is the uniform response wrapper.
type envelope struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
	Detail    string      `json:"detail,omitempty"`
}

// writeSuccess writes the success envelope.
func (s *Server) writeSuccess(w http.ResponseWriter, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// writeError maps an error onto the error envelope and its HTTP status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.StatusCode(err)
	code := string(errors.ErrInternal)
	message := "internal error"
	detail := err.Error()
	if devErr, ok := err.(*errors.DeviceError); ok {
		code = string(devErr.Code)
		message = devErr.Message
		detail = devErr.Detail
	}

	s.logger.WithFields(log.Fields{"code": code, "status": status}).Warn(detail)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		Status:    "error",
		ErrorCode: code,
		Message:   message,
		Detail:    detail,
	})
}

// requireMethod rejects other HTTP methods.
func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// handleMetrics serves the Prometheus text exposition.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.Write([]byte(metrics.Global().Registry().Gather()))
}

// handleWebsocket upgrades the client and bridges it to the controller's
// telemetry socket for the lifetime of the session.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	// Bridge owns both connections from here; disconnects are a normal
	// session end.
	s.relay.Bridge(conn)
}
