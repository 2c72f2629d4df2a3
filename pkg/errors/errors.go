// Package errors provides the structured error domain for ObjectSink writers.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents a structured error code for ObjectSink operations.
type ErrorCode string

const (
	// ErrCodeExternal is the uniform wrapper for any failure surfaced by a
	// storage backend or buffered writer. The adapter does not distinguish
	// transient from permanent failures; the original error is carried as
	// the cause.
	ErrCodeExternal ErrorCode = "EXTERNAL"

	// Configuration errors
	ErrCodeInvalidConfig    ErrorCode = "INVALID_CONFIG"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// State errors
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	ErrCodeWriterClosed ErrorCode = "WRITER_CLOSED"

	// Storage errors
	ErrCodeObjectNotFound ErrorCode = "OBJECT_NOT_FOUND"
	ErrCodeStorageWrite   ErrorCode = "STORAGE_WRITE"
)

// SinkError represents a structured error with an optional underlying cause.
type SinkError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Operation string    `json:"operation,omitempty"`
	Cause     error     `json:"-"` // Not serialized to avoid circular refs
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e *SinkError) Error() string {
	if e.Operation != "" {
		if e.Cause != nil {
			return fmt.Sprintf("[%s] %s: %s: %s", e.Operation, e.Code, e.Message, e.Cause.Error())
		}
		return fmt.Sprintf("[%s] %s: %s", e.Operation, e.Code, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error wrapping compatibility.
func (e *SinkError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error (for errors.Is compatibility).
func (e *SinkError) Is(target error) bool {
	if sinkErr, ok := target.(*SinkError); ok {
		return e.Code == sinkErr.Code
	}
	return false
}

// WithOperation sets the operation for an error
func (e *SinkError) WithOperation(operation string) *SinkError {
	e.Operation = operation
	return e
}

// NewError creates a new ObjectSink error with the given code and message.
func NewError(code ErrorCode, message string) *SinkError {
	return &SinkError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// External wraps a failure from the storage layer as the single uniform
// backend error kind. The cause is preserved and reachable through
// errors.Unwrap; no classification or retry decision is attached.
func External(cause error) *SinkError {
	return &SinkError{
		Code:      ErrCodeExternal,
		Message:   "external backend error",
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// IsExternal reports whether err is (or wraps) an external backend error.
func IsExternal(err error) bool {
	sinkErr, ok := err.(*SinkError)
	return ok && sinkErr.Code == ErrCodeExternal
}
