package writer

import (
	"context"

	"github.com/objectsink/objectsink/internal/bufwriter"
	"github.com/objectsink/objectsink/pkg/errors"
	"github.com/objectsink/objectsink/pkg/types"
)

// FileWriter is the capability a format writer needs to persist its output:
// push ordered byte chunks, then signal end of stream exactly once.
type FileWriter interface {
	// Write forwards one chunk. Success means the chunk was accepted, not
	// that it has reached the backend.
	Write(ctx context.Context, p []byte) error

	// Complete flushes buffered bytes and durably commits the object.
	Complete(ctx context.Context) error
}

// ObjectWriter adapts a buffered storage writer to the FileWriter contract.
//
// An ObjectWriter owns exactly one buffered writer bound to one destination
// path. It forwards chunks in call order, performs no buffering, reordering,
// or retries of its own, and wraps every storage-layer failure uniformly as
// an external backend error. Recovery policy belongs to the inner writer or
// the caller; a failed Write or Complete terminates the stream.
//
// Operations must not overlap: at most one Write or Complete may be in
// flight at a time, and nothing may be called after Complete returns. The
// adapter adds no locking; the sequential-use contract is the caller's to
// uphold, and violations are governed by the inner writer's state machine.
type ObjectWriter struct {
	w types.BufferedWriter
}

var _ FileWriter = (*ObjectWriter)(nil)

// New creates an ObjectWriter that writes to the given path in store,
// using a buffered writer with default batching parameters. No I/O is
// performed at construction.
//
// To tune part size or upload concurrency, build the buffered writer
// yourself and use FromBufferedWriter.
func New(store types.ObjectStore, path string) *ObjectWriter {
	return FromBufferedWriter(bufwriter.New(store, path))
}

// FromBufferedWriter wraps an already-configured buffered writer as-is.
func FromBufferedWriter(w types.BufferedWriter) *ObjectWriter {
	return &ObjectWriter{w: w}
}

// Write forwards p to the inner writer. The inner writer may buffer the
// chunk without a network call; p is not retained past the call, so the
// caller may reuse its buffer once Write returns.
func (o *ObjectWriter) Write(ctx context.Context, p []byte) error {
	if err := o.w.Put(ctx, p); err != nil {
		return errors.External(err)
	}
	return nil
}

// Complete signals end of stream, causing the inner writer to flush and
// commit. Success means the backend confirmed the object durably; on
// failure the object's state is whatever the backend left behind.
func (o *ObjectWriter) Complete(ctx context.Context) error {
	if err := o.w.Shutdown(ctx); err != nil {
		return errors.External(err)
	}
	return nil
}

// IntoInner consumes the adapter and returns the inner buffered writer for
// inspection or reuse. It performs no I/O.
func (o *ObjectWriter) IntoInner() types.BufferedWriter {
	return o.w
}
