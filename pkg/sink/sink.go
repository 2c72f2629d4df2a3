// Package sink assembles a storage backend, metrics, and writer settings
// from configuration and opens object writers against them.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/objectsink/objectsink/internal/bufwriter"
	"github.com/objectsink/objectsink/internal/config"
	"github.com/objectsink/objectsink/internal/metrics"
	"github.com/objectsink/objectsink/internal/storage/memory"
	"github.com/objectsink/objectsink/internal/storage/minio"
	"github.com/objectsink/objectsink/internal/storage/s3"
	"github.com/objectsink/objectsink/pkg/types"
	"github.com/objectsink/objectsink/pkg/utils"
	"github.com/objectsink/objectsink/pkg/writer"
)

// Sink owns a configured storage backend and hands out object writers
// targeting it. A single Sink may serve many concurrent writers; each
// writer is itself single-stream.
type Sink struct {
	config    *config.Configuration
	store     types.ObjectStore
	collector *metrics.Collector
	logger    *slog.Logger

	partSize    int64
	concurrency int
}

// New validates cfg, builds the configured backend, and returns a Sink
// ready to open writers.
func New(ctx context.Context, cfg *config.Configuration, logger *slog.Logger) (*Sink, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing %s backend: %w", cfg.Storage.Backend, err)
	}

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled:   cfg.Metrics.Enabled,
		Namespace: cfg.Metrics.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing metrics: %w", err)
	}

	partSize, err := cfg.PartSizeBytes()
	if err != nil {
		return nil, err
	}

	logger.Info("sink initialized",
		"backend", cfg.Storage.Backend,
		"bucket", cfg.Storage.Bucket,
		"part_size", partSize,
		"concurrency", cfg.Writer.Concurrency)

	return &Sink{
		config:      cfg,
		store:       store,
		collector:   collector,
		logger:      logger,
		partSize:    partSize,
		concurrency: cfg.Writer.Concurrency,
	}, nil
}

func buildStore(ctx context.Context, cfg *config.Configuration, logger *slog.Logger) (types.ObjectStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendS3:
		return s3.NewBackend(ctx, cfg.Storage.Bucket, &cfg.Storage.S3, logger)
	case config.BackendMinio:
		return minio.NewBackend(cfg.Storage.Bucket, &cfg.Storage.Minio, logger)
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Storage.Backend)
	}
}

// Open returns a writer that streams a single object to path. The writer
// must be finished with Complete (or discarded via IntoInner and aborted)
// before the object becomes visible.
func (s *Sink) Open(path string) (*writer.ObjectWriter, error) {
	path = utils.CleanKey(path)
	if err := utils.ValidateObjectKey(path); err != nil {
		return nil, err
	}

	bw := bufwriter.NewWithConfig(s.store, path, &bufwriter.Config{
		PartSize:    s.partSize,
		Concurrency: s.concurrency,
		Retry:       s.config.Retry,
		Metrics:     s.collector,
		Logger:      s.logger,
	})
	return writer.FromBufferedWriter(bw), nil
}

// Store exposes the underlying backend, mainly for tests and for callers
// that need read-side access to finished objects.
func (s *Sink) Store() types.ObjectStore {
	return s.store
}

// MetricsHandler returns an HTTP handler serving the sink's metrics.
// It is safe to call when metrics are disabled.
func (s *Sink) MetricsHandler() http.Handler {
	return s.collector.Handler()
}

// Close releases backend resources. Writers opened from this Sink must
// be finished before Close.
func (s *Sink) Close() error {
	type closer interface{ Close() error }
	if c, ok := s.store.(closer); ok {
		return c.Close()
	}
	return nil
}
