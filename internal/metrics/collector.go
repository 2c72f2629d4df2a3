// Package metrics provides Prometheus instrumentation for the upload path:
// bytes accepted by buffered writers, parts uploaded, and commit outcomes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config represents metrics configuration
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// DefaultConfig returns the default metrics configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: "objectsink",
	}
}

// Collector implements metrics collection for the streaming upload path.
// A nil *Collector is valid and records nothing, so callers do not need to
// guard instrumentation sites.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	bytesAccepted  *prometheus.CounterVec
	partsUploaded  *prometheus.CounterVec
	partSize       prometheus.Histogram
	partDuration   prometheus.Histogram
	commits        *prometheus.CounterVec
	commitDuration prometheus.Histogram
	aborts         prometheus.Counter
}

// NewCollector creates a new metrics collector with its own registry.
func NewCollector(config *Config) (*Collector, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if !config.Enabled {
		return nil, nil
	}

	c := &Collector{
		config:   config,
		registry: prometheus.NewRegistry(),
	}

	c.bytesAccepted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "bytes_accepted_total",
		Help:      "Total bytes accepted by buffered storage writers.",
	}, []string{"path"})

	c.partsUploaded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "parts_uploaded_total",
		Help:      "Total multipart upload parts sent to the backend.",
	}, []string{"path"})

	c.partSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "part_size_bytes",
		Help:      "Size distribution of uploaded parts.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 10), // 1KiB .. ~256MiB
	})

	c.partDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "part_upload_duration_seconds",
		Help:      "Latency of individual part uploads.",
		Buckets:   prometheus.DefBuckets,
	})

	c.commits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "commits_total",
		Help:      "Object commits by outcome.",
	}, []string{"outcome"})

	c.commitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "commit_duration_seconds",
		Help:      "Latency of flush-and-commit operations.",
		Buckets:   prometheus.DefBuckets,
	})

	c.aborts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "aborts_total",
		Help:      "Multipart uploads aborted without a commit.",
	})

	collectors := []prometheus.Collector{
		c.bytesAccepted,
		c.partsUploaded,
		c.partSize,
		c.partDuration,
		c.commits,
		c.commitDuration,
		c.aborts,
	}
	for _, collector := range collectors {
		if err := c.registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Handler returns an HTTP handler exposing the collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// RecordBytesAccepted records bytes buffered for the given destination path.
func (c *Collector) RecordBytesAccepted(path string, n int) {
	if c == nil {
		return
	}
	c.bytesAccepted.With(prometheus.Labels{"path": path}).Add(float64(n))
}

// RecordPartUploaded records one completed part upload.
func (c *Collector) RecordPartUploaded(path string, size int64, duration time.Duration) {
	if c == nil {
		return
	}
	c.partsUploaded.With(prometheus.Labels{"path": path}).Inc()
	c.partSize.Observe(float64(size))
	c.partDuration.Observe(duration.Seconds())
}

// RecordCommit records a flush-and-commit attempt and its outcome.
func (c *Collector) RecordCommit(duration time.Duration, success bool) {
	if c == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "error"
	}
	c.commits.With(prometheus.Labels{"outcome": outcome}).Inc()
	c.commitDuration.Observe(duration.Seconds())
}

// RecordAbort records one aborted multipart upload.
func (c *Collector) RecordAbort() {
	if c == nil {
		return
	}
	c.aborts.Inc()
}

// Registry exposes the underlying registry for test gathering.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
