package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound = errors.New("not found")
	ErrOffline  = errors.New("offline")
	ErrInvalid  = errors.New("invalid input")
)

// ValidationError is a local validation failure, raised before any remote
// call is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// APIError represents a failure talking to the remote service
type APIError struct {
	Op         string // Operation: "list", "create", "update", etc.
	TaskID     string // Optional: specific task ID
	StatusCode int    // HTTP status, 0 for transport failures
	Message    string // Server-supplied or human-readable context
	Err        error  // Underlying error
}

func (e *APIError) Error() string {
	switch {
	case e.TaskID != "" && e.Message != "":
		return fmt.Sprintf("api %s [%s]: %s", e.Op, e.TaskID, e.Message)
	case e.TaskID != "":
		return fmt.Sprintf("api %s [%s]: %v", e.Op, e.TaskID, e.Err)
	case e.Message != "":
		return fmt.Sprintf("api %s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("api %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("api %s failed", e.Op)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the server answered 404 for this call.
func (e *APIError) NotFound() bool {
	return e.StatusCode == 404
}
