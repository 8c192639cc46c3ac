package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations.
var (
	// ErrNotFound is returned when the backend reports 404 for a resource.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the session token is missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError carries a non-2xx response. Message is the server-provided
// message when the body had one, otherwise a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: request failed: status %d", e.Status)
}

// ServerMessage extracts the server-side message from an error chain.
// Failures without one (network errors, non-API errors, bodies the
// backend sent without a message) fall back to the error text so the
// caller always has something to show.
func ServerMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// errorResponse mirrors the backend's error body shape.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
