package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSucceedsFirstAttempt tests that a successful call is not retried
func TestSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	r := New(Config{MaxAttempts: 3, InitialDelay: time.Millisecond, Jitter: false})

	err := r.Do(func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

// TestRetriesUntilSuccess tests recovery after transient failures
func TestRetriesUntilSuccess(t *testing.T) {
	calls := 0
	transient := errors.New("timeout")
	r := New(Config{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Jitter: false})

	err := r.Do(func() error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

// TestExhaustsAttempts tests that the last error is wrapped when attempts run out
func TestExhaustsAttempts(t *testing.T) {
	permanent := errors.New("bucket not found")
	calls := 0
	r := New(Config{MaxAttempts: 3, InitialDelay: time.Millisecond, Jitter: false})

	err := r.Do(func() error {
		calls++
		return permanent
	})

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, permanent) {
		t.Error("expected wrapped error to unwrap to the last failure")
	}
}

// TestIsRetryablePredicate tests that non-retryable errors fail fast
func TestIsRetryablePredicate(t *testing.T) {
	fatal := errors.New("access denied")
	calls := 0
	r := New(Config{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
		Jitter:       false,
		IsRetryable:  func(err error) bool { return !errors.Is(err, fatal) },
	})

	err := r.Do(func() error {
		calls++
		return fatal
	})

	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call for non-retryable error, got %d", calls)
	}
}

// TestContextCancellation tests that cancellation stops the retry loop
func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Config{MaxAttempts: 5, InitialDelay: 50 * time.Millisecond, Jitter: false})
	err := r.DoWithContext(ctx, func(ctx context.Context) error {
		return errors.New("should not matter")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestCalculateDelayCap tests the exponential backoff cap
func TestCalculateDelayCap(t *testing.T) {
	r := New(Config{
		MaxAttempts:  10,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		Jitter:       false,
	})

	if d := r.calculateDelay(1); d != 100*time.Millisecond {
		t.Errorf("attempt 1: expected 100ms, got %v", d)
	}
	if d := r.calculateDelay(2); d != 200*time.Millisecond {
		t.Errorf("attempt 2: expected 200ms, got %v", d)
	}
	if d := r.calculateDelay(8); d != time.Second {
		t.Errorf("attempt 8: expected cap at 1s, got %v", d)
	}
}

// TestOnRetryCallback tests the retry callback invocations
func TestOnRetryCallback(t *testing.T) {
	var attempts []int
	r := New(Config{MaxAttempts: 3, InitialDelay: time.Millisecond, Jitter: false}).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		})

	_ = r.Do(func() error { return errors.New("always fails") })

	if len(attempts) != 2 {
		t.Fatalf("expected 2 retry callbacks, got %d", len(attempts))
	}
	if attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("unexpected callback attempts: %v", attempts)
	}
}
