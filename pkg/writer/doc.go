/*
Package writer adapts object storage to the streaming file-writer contract
used by columnar file-format serializers.

A format writer produces ordered byte chunks (encoded pages, then a footer)
and needs somewhere to put them. An ObjectWriter gives it a destination
object without requiring an in-memory buffer or a local file:

	store := memory.New() // or the S3/MinIO backends
	w := writer.New(store, "warehouse/events.parquet")

	for _, page := range pages {
		if err := w.Write(ctx, page); err != nil {
			return err
		}
	}
	if err := w.Complete(ctx); err != nil {
		return err
	}

The adapter is a pure translation layer. Chunks are forwarded to the
buffered storage writer in call order; batching into part uploads, retry,
and backend concurrency all live below it, and every failure it sees is
surfaced immediately as a single uniform error kind with the original cause
attached:

	if err := w.Write(ctx, page); err != nil {
		var sinkErr *errors.SinkError
		if stderrors.As(err, &sinkErr) {
			// sinkErr.Code == errors.ErrCodeExternal
			// stderrors.Unwrap reaches the backend failure
		}
	}

A failed Write or Complete terminates the stream; there is no resumption or
partial-recovery path at this layer.
*/
package writer
