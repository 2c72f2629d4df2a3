// Package bufwriter implements the buffered storage writer that batches
// arbitrary-sized chunks into backend part uploads.
//
// Data is accumulated until it crosses the configured part size. Small
// streams are committed with a single whole-object put; once the threshold
// is crossed the writer switches to a multipart upload and sends full parts
// with bounded concurrency while the caller keeps appending. Shutdown sends
// the final partial part, waits for in-flight uploads, and completes the
// upload. Retry policy for part uploads lives here, not in the adapter that
// wraps this writer.
//
// A BufWriter serves a single caller; it provides no synchronization for
// concurrent Put or Shutdown calls on the same instance.
package bufwriter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/objectsink/objectsink/internal/metrics"
	"github.com/objectsink/objectsink/pkg/errors"
	"github.com/objectsink/objectsink/pkg/retry"
	"github.com/objectsink/objectsink/pkg/types"
)

const (
	// DefaultPartSize mirrors common object-store buffered writer defaults.
	// S3 requires parts of at least 5 MiB except the last.
	DefaultPartSize = 10 * 1024 * 1024

	// MinPartSize is the smallest part size accepted by S3-compatible backends.
	MinPartSize = 5 * 1024 * 1024

	// DefaultConcurrency bounds in-flight part uploads per writer.
	DefaultConcurrency = 8
)

// Config represents buffered writer configuration
type Config struct {
	// PartSize is the buffering threshold and the size of uploaded parts.
	PartSize int64 `yaml:"part_size"`

	// Concurrency is the maximum number of in-flight part uploads.
	Concurrency int `yaml:"concurrency"`

	// Retry configures per-part upload retries.
	Retry retry.Config `yaml:"retry"`

	// Metrics receives upload instrumentation; nil disables it.
	Metrics *metrics.Collector `yaml:"-"`

	// Logger used for upload lifecycle events; nil falls back to slog.Default.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns the default buffered writer configuration
func DefaultConfig() *Config {
	return &Config{
		PartSize:    DefaultPartSize,
		Concurrency: DefaultConcurrency,
		Retry:       retry.DefaultConfig(),
	}
}

// BufWriter buffers chunks bound for one destination path and commits them
// as a single object on Shutdown.
type BufWriter struct {
	store   types.ObjectStore
	path    string
	config  *Config
	retryer *retry.Retryer
	logger  *slog.Logger

	buf      []byte
	uploadID string
	nextPart int
	group    *errgroup.Group

	mu        sync.Mutex
	parts     []types.Part
	uploadErr error
	closed    bool
}

var _ types.BufferedWriter = (*BufWriter)(nil)
var _ types.Aborter = (*BufWriter)(nil)

// New creates a buffered writer for the given store and destination path
// with default batching parameters. No I/O is performed at construction.
func New(store types.ObjectStore, path string) *BufWriter {
	return NewWithConfig(store, path, nil)
}

// NewWithConfig creates a buffered writer with explicit configuration.
// A nil config, or zero fields within it, fall back to defaults.
func NewWithConfig(store types.ObjectStore, path string, cfg *Config) *BufWriter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.PartSize <= 0 {
		cfg.PartSize = DefaultPartSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BufWriter{
		store:    store,
		path:     path,
		config:   cfg,
		retryer:  retry.New(cfg.Retry),
		logger:   logger,
		nextPart: 1,
	}
}

// Path returns the destination path this writer is bound to.
func (w *BufWriter) Path() string {
	return w.path
}

// BytesBuffered returns the number of bytes currently held in the buffer.
func (w *BufWriter) BytesBuffered() int64 {
	return int64(len(w.buf))
}

// Put accepts a chunk of any size, buffering it and dispatching full parts
// once the part-size threshold is crossed. A failure from a previously
// dispatched part surfaces on the next call.
func (w *BufWriter) Put(ctx context.Context, p []byte) error {
	if w.isClosed() {
		return errors.NewError(errors.ErrCodeWriterClosed, "put after shutdown").WithOperation("Put")
	}
	if err := w.firstError(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.buf = append(w.buf, p...)
	w.config.Metrics.RecordBytesAccepted(w.path, len(p))

	for int64(len(w.buf)) >= w.config.PartSize {
		if err := w.dispatchPart(ctx, w.config.PartSize); err != nil {
			return err
		}
	}

	return w.firstError()
}

// Shutdown flushes buffered bytes and durably commits the object. Small
// streams that never crossed the part threshold are written with a single
// put; otherwise the remaining bytes become the final part and the multipart
// upload is completed. A failed commit aborts the upload before returning.
func (w *BufWriter) Shutdown(ctx context.Context) error {
	if w.isClosed() {
		return errors.NewError(errors.ErrCodeWriterClosed, "shutdown after shutdown").WithOperation("Shutdown")
	}
	w.setClosed()

	start := time.Now()
	err := w.commit(ctx)
	w.config.Metrics.RecordCommit(time.Since(start), err == nil)
	if err != nil {
		w.abortUpload()
		return err
	}

	w.logger.Debug("object committed",
		"path", w.path,
		"multipart", w.uploadID != "",
		"duration", time.Since(start))
	return nil
}

// Abort discards buffered data and any in-progress multipart upload.
// It is safe to call after a failed Shutdown.
func (w *BufWriter) Abort(ctx context.Context) error {
	w.setClosed()
	w.buf = nil

	if w.uploadID == "" {
		return nil
	}
	if w.group != nil {
		_ = w.group.Wait()
	}

	w.config.Metrics.RecordAbort()
	if err := w.store.AbortMultipartUpload(ctx, w.path, w.uploadID); err != nil {
		return fmt.Errorf("aborting upload %s: %w", w.uploadID, err)
	}
	return nil
}

func (w *BufWriter) commit(ctx context.Context) error {
	if err := w.firstError(); err != nil {
		return err
	}

	// Whole-object path: the threshold was never crossed.
	if w.uploadID == "" {
		return w.store.PutObject(ctx, w.path, w.buf)
	}

	if len(w.buf) > 0 {
		if err := w.dispatchPart(ctx, int64(len(w.buf))); err != nil {
			return err
		}
	}

	if err := w.group.Wait(); err != nil {
		return err
	}
	if err := w.firstError(); err != nil {
		return err
	}

	w.mu.Lock()
	parts := make([]types.Part, len(w.parts))
	copy(parts, w.parts)
	w.mu.Unlock()
	sort.Slice(parts, func(i, j int) bool { return parts[i].Number < parts[j].Number })

	return w.store.CompleteMultipartUpload(ctx, w.path, w.uploadID, parts)
}

// dispatchPart cuts n leading bytes from the buffer and uploads them as the
// next part, starting the multipart upload on first use. Go blocks when the
// concurrency limit is reached, which is the natural backpressure point.
func (w *BufWriter) dispatchPart(ctx context.Context, n int64) error {
	if w.uploadID == "" {
		uploadID, err := w.store.CreateMultipartUpload(ctx, w.path)
		if err != nil {
			return err
		}
		w.uploadID = uploadID
		w.group = &errgroup.Group{}
		w.group.SetLimit(w.config.Concurrency)
		w.logger.Debug("multipart upload started", "path", w.path, "upload_id", uploadID)
	}

	data := w.buf[:n:n]
	rest := make([]byte, int64(len(w.buf))-n)
	copy(rest, w.buf[n:])
	w.buf = rest

	partNumber := w.nextPart
	w.nextPart++

	w.group.Go(func() error {
		return w.uploadPart(ctx, partNumber, data)
	})
	return nil
}

func (w *BufWriter) uploadPart(ctx context.Context, partNumber int, data []byte) error {
	start := time.Now()

	var part types.Part
	err := w.retryer.DoWithContext(ctx, func(ctx context.Context) error {
		var uploadErr error
		part, uploadErr = w.store.UploadPart(ctx, w.path, w.uploadID, partNumber, data)
		return uploadErr
	})
	if err != nil {
		w.setError(fmt.Errorf("uploading part %d: %w", partNumber, err))
		return err
	}

	w.mu.Lock()
	w.parts = append(w.parts, part)
	w.mu.Unlock()

	w.config.Metrics.RecordPartUploaded(w.path, part.Size, time.Since(start))
	return nil
}

func (w *BufWriter) abortUpload() {
	if w.uploadID == "" {
		return
	}
	// Best-effort cleanup with a fresh context: the caller's context may
	// already be canceled, and leaking an upload costs storage.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w.config.Metrics.RecordAbort()
	if err := w.store.AbortMultipartUpload(ctx, w.path, w.uploadID); err != nil {
		w.logger.Warn("failed to abort multipart upload",
			"path", w.path,
			"upload_id", w.uploadID,
			"error", err)
	}
}

func (w *BufWriter) firstError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.uploadErr
}

func (w *BufWriter) setError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.uploadErr == nil {
		w.uploadErr = err
	}
}

func (w *BufWriter) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *BufWriter) setClosed() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}
