// Package health runs periodic liveness checks against the storage
// backend and tracks the most recent results.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/objectsink/objectsink/pkg/types"
)

// Status represents the health of a checked component
type Status string

const (
	StatusHealthy     Status = "healthy"
	StatusDegraded    Status = "degraded"
	StatusUnavailable Status = "unavailable"
)

// Config represents health checker configuration
type Config struct {
	Enabled       bool          `yaml:"enabled"`
	CheckInterval time.Duration `yaml:"check_interval"`
	Timeout       time.Duration `yaml:"timeout"`

	// MaxFailures is the number of consecutive failures after which a
	// component is reported unavailable rather than degraded.
	MaxFailures int `yaml:"max_failures"`
}

// DefaultConfig returns sensible health checker defaults
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		CheckInterval: 30 * time.Second,
		Timeout:       10 * time.Second,
		MaxFailures:   3,
	}
}

// CheckFunc probes a single component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// Result is the outcome of the most recent run of one check.
type Result struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Checker runs registered checks on an interval and keeps the latest
// result per check.
type Checker struct {
	mu          sync.RWMutex
	config      *Config
	logger      *slog.Logger
	checks      map[string]CheckFunc
	results     map[string]Result
	consecutive map[string]int
	stopCh      chan struct{}
	started     bool
}

// New creates a health checker with the given configuration
func New(config *Config, logger *slog.Logger) *Checker {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		config:      config,
		logger:      logger,
		checks:      make(map[string]CheckFunc),
		results:     make(map[string]Result),
		consecutive: make(map[string]int),
	}
}

// Register adds a named check. Registering an existing name replaces it.
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = fn
}

// Start begins periodic checking. It runs all checks once immediately
// so results are available before the first interval elapses.
func (c *Checker) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || !c.config.Enabled {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.stopCh = make(chan struct{})
	c.mu.Unlock()

	c.RunOnce(ctx)

	go func() {
		ticker := time.NewTicker(c.config.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.RunOnce(ctx)
			case <-c.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts periodic checking
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.started = false
	close(c.stopCh)
}

// RunOnce runs every registered check and records the results
func (c *Checker) RunOnce(ctx context.Context) {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	for name, fn := range checks {
		c.run(ctx, name, fn)
	}
}

func (c *Checker) run(ctx context.Context, name string, fn CheckFunc) {
	checkCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	err := fn(checkCtx)
	result := Result{
		Name:      name,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.consecutive[name]++
		result.Error = err.Error()
		result.Status = StatusDegraded
		if c.consecutive[name] >= c.config.MaxFailures {
			result.Status = StatusUnavailable
		}
		c.logger.Warn("health check failed",
			"check", name,
			"consecutive", c.consecutive[name],
			"error", err)
	} else {
		c.consecutive[name] = 0
		result.Status = StatusHealthy
	}
	c.results[name] = result
}

// Results returns a copy of the latest result for every check
func (c *Checker) Results() map[string]Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Result, len(c.results))
	for name, r := range c.results {
		out[name] = r
	}
	return out
}

// Overall reduces all check results to a single status. With no
// registered checks it reports healthy.
func (c *Checker) Overall() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	overall := StatusHealthy
	for _, r := range c.results {
		switch r.Status {
		case StatusUnavailable:
			return StatusUnavailable
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

// StoreCheck returns a check that probes store with a minimal list
// request.
func StoreCheck(store types.ObjectStore) CheckFunc {
	return func(ctx context.Context) error {
		_, err := store.ListObjects(ctx, "", 1)
		return err
	}
}
