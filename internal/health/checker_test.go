package health

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/objectsink/objectsink/internal/storage/memory"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		CheckInterval: 10 * time.Millisecond,
		Timeout:       time.Second,
		MaxFailures:   3,
	}
}

func TestNoChecksIsHealthy(t *testing.T) {
	c := New(testConfig(), nil)
	if got := c.Overall(); got != StatusHealthy {
		t.Errorf("expected healthy with no checks, got %s", got)
	}
}

func TestHealthyCheck(t *testing.T) {
	c := New(testConfig(), nil)
	c.Register("store", func(ctx context.Context) error { return nil })
	c.RunOnce(context.Background())

	if got := c.Overall(); got != StatusHealthy {
		t.Errorf("expected healthy, got %s", got)
	}
	results := c.Results()
	if r, ok := results["store"]; !ok || r.Status != StatusHealthy {
		t.Errorf("unexpected result: %+v", results)
	}
}

func TestDegradedThenUnavailable(t *testing.T) {
	c := New(testConfig(), nil)
	c.Register("store", func(ctx context.Context) error {
		return fmt.Errorf("connection refused")
	})

	ctx := context.Background()
	c.RunOnce(ctx)
	if got := c.Overall(); got != StatusDegraded {
		t.Errorf("expected degraded after one failure, got %s", got)
	}

	c.RunOnce(ctx)
	c.RunOnce(ctx)
	if got := c.Overall(); got != StatusUnavailable {
		t.Errorf("expected unavailable after three failures, got %s", got)
	}

	r := c.Results()["store"]
	if r.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestRecoveryResetsFailures(t *testing.T) {
	c := New(testConfig(), nil)
	fail := true
	c.Register("store", func(ctx context.Context) error {
		if fail {
			return fmt.Errorf("transient")
		}
		return nil
	})

	ctx := context.Background()
	c.RunOnce(ctx)
	c.RunOnce(ctx)

	fail = false
	c.RunOnce(ctx)
	if got := c.Overall(); got != StatusHealthy {
		t.Errorf("expected healthy after recovery, got %s", got)
	}

	// Failure counting starts over after a success.
	fail = true
	c.RunOnce(ctx)
	if got := c.Overall(); got != StatusDegraded {
		t.Errorf("expected degraded, got %s", got)
	}
}

func TestStartStop(t *testing.T) {
	c := New(testConfig(), nil)
	ran := make(chan struct{}, 16)
	c.Register("tick", func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.Start(ctx)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("check never ran after Start")
	}
	c.Stop()

	// Stop again is a no-op.
	c.Stop()
}

func TestDisabledCheckerDoesNotStart(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	c := New(cfg, nil)
	ran := false
	c.Register("never", func(ctx context.Context) error {
		ran = true
		return nil
	})

	c.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	if ran {
		t.Error("disabled checker must not run checks")
	}
}

func TestStoreCheck(t *testing.T) {
	check := StoreCheck(memory.New())
	if err := check(context.Background()); err != nil {
		t.Errorf("store check against memory backend failed: %v", err)
	}
}
