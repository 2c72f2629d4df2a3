package types

import (
	"context"
)

// ObjectStore defines the interface for path-addressed object storage backends.
//
// Implementations must support both whole-object writes and the multipart
// upload call set; the buffered writer decides which path to take based on
// the amount of data streamed through it.
type ObjectStore interface {
	// Object operations
	GetObject(ctx context.Context, key string, offset, size int64) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte) error
	DeleteObject(ctx context.Context, key string) error
	HeadObject(ctx context.Context, key string) (*ObjectInfo, error)

	// List operations
	ListObjects(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error)

	// Multipart upload operations
	CreateMultipartUpload(ctx context.Context, key string) (string, error)
	UploadPart(ctx context.Context, key, uploadID string, partNumber int, data []byte) (Part, error)
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []Part) error
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
}

// BufferedWriter defines the buffered storage writer contract consumed by the
// object writer adapter: accept bytes, then flush and commit exactly once.
//
// Put accepts a chunk of any size, possibly buffering it without a network
// call. Shutdown flushes buffered bytes and durably commits the object; it is
// terminal, and the writer's own state machine governs calls made after it.
// Implementations are not required to be safe for concurrent callers.
type BufferedWriter interface {
	Put(ctx context.Context, p []byte) error
	Shutdown(ctx context.Context) error
}

// Aborter is optionally implemented by buffered writers that can discard an
// in-progress upload and release backend resources.
type Aborter interface {
	Abort(ctx context.Context) error
}
