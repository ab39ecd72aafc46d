// Unified error handling for the shaker host
//
// Copyright (C) 2026  Shaker Host Project
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// ErrConnection means the controller is unreachable or timed out.
	ErrConnection ErrorCode = "CONTROLLER_CONNECTION"

	// ErrDeviceResponse means the controller answered with a 4xx/5xx.
	ErrDeviceResponse ErrorCode = "CONTROLLER_RESPONSE"

	// ErrValidation means a request failed input validation.
	ErrValidation ErrorCode = "VALIDATION"

	// ErrInternal covers unexpected failures during encoding or dispatch.
	ErrInternal ErrorCode = "INTERNAL"
)

// DeviceError is the unified error type for the shaker host.
type DeviceError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Detail carries the controller's response text or other debugging aid
	Detail string

	// StatusCode is the HTTP status this error maps to when surfaced
	StatusCode int

	// Err wraps the underlying error
	Err error
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// SetDetail sets the debugging detail
func (e *DeviceError) SetDetail(detail string) *DeviceError {
	e.Detail = detail
	return e
}

// New creates a new DeviceError
func New(code ErrorCode, message string) *DeviceError {
	return &DeviceError{
		Code:       code,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *DeviceError {
	e := New(code, message)
	e.Err = err
	return e
}

// ConnectionError creates an error for an unreachable controller.
// Always maps to 503 regardless of the transport failure mode.
func ConnectionError(baseURL string, err error) *DeviceError {
	e := Wrap(err, ErrConnection, "cannot reach controller")
	e.StatusCode = http.StatusServiceUnavailable
	e.Detail = fmt.Sprintf("connection failed, check URL: %s", baseURL)
	return e
}

// DeviceResponseError creates an error for a controller 4xx/5xx response.
// The controller's own status code and body text are preserved.
func DeviceResponseError(statusCode int, body string) *DeviceError {
	e := New(ErrDeviceResponse, "controller rejected request")
	e.StatusCode = statusCode
	e.Detail = fmt.Sprintf("controller error (%d): %s", statusCode, strings.TrimSpace(body))
	return e
}

// ValidationError creates an error for invalid request input.
func ValidationError(field, reason string) *DeviceError {
	e := New(ErrValidation, fmt.Sprintf("invalid value for '%s'", field))
	e.StatusCode = http.StatusBadRequest
	e.Detail = reason
	return e
}

// InternalError creates an error for an unexpected failure.
func InternalError(err error) *DeviceError {
	e := Wrap(err, ErrInternal, "internal error")
	if err != nil {
		e.Detail = fmt.Sprintf("unexpected: %T - %v", err, err)
	}
	return e
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if devErr, ok := err.(*DeviceError); ok {
		return devErr.Code == code
	}
	return false
}

// IsConnection checks if error is a controller connection error
func IsConnection(err error) bool {
	return Is(err, ErrConnection)
}

// IsDeviceResponse checks if error is a controller response error
func IsDeviceResponse(err error) bool {
	return Is(err, ErrDeviceResponse)
}

// IsHomingRequired reports whether the controller rejected a command because
// the axes have not been homed. Klipper signals this only through the message
// text, so detection is a case-insensitive substring match.
func IsHomingRequired(err error) bool {
	devErr, ok := err.(*DeviceError)
	if !ok || devErr.Code != ErrDeviceResponse {
		return false
	}
	detail := strings.ToLower(devErr.Detail)
	return strings.Contains(detail, "must home axis first") ||
		strings.Contains(detail, "must home")
}

// StatusCode returns the HTTP status an error surfaces as. Unknown error
// types map to 500.
func StatusCode(err error) int {
	if devErr, ok := err.(*DeviceError); ok && devErr.StatusCode != 0 {
		return devErr.StatusCode
	}
	return http.StatusInternalServerError
}
