package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

// TestExternalWrapping tests that External preserves the cause chain
func TestExternalWrapping(t *testing.T) {
	cause := stderrors.New("connection reset by peer")
	err := External(cause)

	if err.Code != ErrCodeExternal {
		t.Errorf("expected code %s, got %s", ErrCodeExternal, err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the original cause")
	}
	if got := stderrors.Unwrap(err); got != cause {
		t.Errorf("expected Unwrap to return the cause, got %v", got)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("expected message to include cause, got %q", err.Error())
	}
}

// TestExternalThroughFmtWrap tests cause visibility across an extra fmt layer
func TestExternalThroughFmtWrap(t *testing.T) {
	cause := stderrors.New("access denied")
	wrapped := fmt.Errorf("flush failed: %w", External(cause))

	var sinkErr *SinkError
	if !stderrors.As(wrapped, &sinkErr) {
		t.Fatal("expected errors.As to find SinkError")
	}
	if sinkErr.Code != ErrCodeExternal {
		t.Errorf("expected EXTERNAL code, got %s", sinkErr.Code)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("expected cause to remain reachable")
	}
}

// TestErrorCodeMatching tests errors.Is matching by code
func TestErrorCodeMatching(t *testing.T) {
	tests := []struct {
		name   string
		err    *SinkError
		target *SinkError
		match  bool
	}{
		{
			name:   "same code matches",
			err:    NewError(ErrCodeWriterClosed, "write after shutdown"),
			target: NewError(ErrCodeWriterClosed, ""),
			match:  true,
		},
		{
			name:   "different codes do not match",
			err:    NewError(ErrCodeInvalidState, "already committed"),
			target: NewError(ErrCodeExternal, ""),
			match:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stderrors.Is(tt.err, tt.target); got != tt.match {
				t.Errorf("errors.Is = %v, want %v", got, tt.match)
			}
		})
	}
}

// TestErrorString tests the formatted error message
func TestErrorString(t *testing.T) {
	err := NewError(ErrCodeInvalidConfig, "part size too small").WithOperation("Validate")
	want := "[Validate] INVALID_CONFIG: part size too small"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

// TestIsExternal tests classification helper
func TestIsExternal(t *testing.T) {
	if !IsExternal(External(stderrors.New("x"))) {
		t.Error("expected IsExternal true for External error")
	}
	if IsExternal(NewError(ErrCodeWriterClosed, "closed")) {
		t.Error("expected IsExternal false for non-external code")
	}
	if IsExternal(stderrors.New("plain")) {
		t.Error("expected IsExternal false for plain error")
	}
}
