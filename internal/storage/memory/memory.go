// Package memory provides a deterministic in-memory ObjectStore used by
// tests and local development. It mirrors the multipart semantics of the S3
// backend: parts are invisible until the upload is completed, and completing
// an upload concatenates parts in part-number order.
package memory

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/objectsink/objectsink/pkg/errors"
	"github.com/objectsink/objectsink/pkg/types"
)

// Store implements types.ObjectStore backed by process memory.
type Store struct {
	mu      sync.RWMutex
	objects map[string]*object
	uploads map[string]*upload
}

type object struct {
	data     []byte
	modified time.Time
	etag     string
}

type upload struct {
	key   string
	parts map[int][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		objects: make(map[string]*object),
		uploads: make(map[string]*upload),
	}
}

// GetObject returns object bytes for key, honoring an optional range.
// size <= 0 reads to the end of the object.
func (s *Store) GetObject(ctx context.Context, key string, offset, size int64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[key]
	if !exists {
		return nil, errors.NewError(errors.ErrCodeObjectNotFound, fmt.Sprintf("object %q not found", key))
	}

	if offset < 0 || offset > int64(len(obj.data)) {
		return nil, fmt.Errorf("offset %d out of range for object of %d bytes", offset, len(obj.data))
	}

	end := int64(len(obj.data))
	if size > 0 && offset+size < end {
		end = offset + size
	}

	out := make([]byte, end-offset)
	copy(out, obj.data[offset:end])
	return out, nil
}

// PutObject stores data at key, overwriting any existing object.
func (s *Store) PutObject(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)

	s.objects[key] = &object{
		data:     buf,
		modified: time.Now(),
		etag:     computeETag(buf),
	}
	return nil
}

// DeleteObject removes the object at key. Deleting a missing key is not an error.
func (s *Store) DeleteObject(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

// HeadObject returns metadata for the object at key.
func (s *Store) HeadObject(ctx context.Context, key string) (*types.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[key]
	if !exists {
		return nil, errors.NewError(errors.ErrCodeObjectNotFound, fmt.Sprintf("object %q not found", key))
	}

	return &types.ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		LastModified: obj.modified,
		ETag:         obj.etag,
	}, nil
}

// ListObjects returns objects whose keys begin with prefix, sorted by key.
func (s *Store) ListObjects(ctx context.Context, prefix string, limit int) ([]types.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	infos := make([]types.ObjectInfo, 0, len(keys))
	for _, key := range keys {
		obj := s.objects[key]
		infos = append(infos, types.ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
			ETag:         obj.etag,
		})
	}
	return infos, nil
}

// CreateMultipartUpload starts a multipart upload for key and returns its upload ID.
func (s *Store) CreateMultipartUpload(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	uploadID := uuid.NewString()
	s.uploads[uploadID] = &upload{
		key:   key,
		parts: make(map[int][]byte),
	}
	return uploadID, nil
}

// UploadPart stores one part of an in-progress upload. Parts are not visible
// through GetObject until the upload completes.
func (s *Store) UploadPart(ctx context.Context, key, uploadID string, partNumber int, data []byte) (types.Part, error) {
	if err := ctx.Err(); err != nil {
		return types.Part{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	up, exists := s.uploads[uploadID]
	if !exists {
		return types.Part{}, fmt.Errorf("upload %q not found", uploadID)
	}
	if up.key != key {
		return types.Part{}, fmt.Errorf("upload %q belongs to key %q, not %q", uploadID, up.key, key)
	}
	if partNumber < 1 {
		return types.Part{}, fmt.Errorf("part number must be >= 1, got %d", partNumber)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	up.parts[partNumber] = buf

	return types.Part{
		Number: partNumber,
		ETag:   computeETag(buf),
		Size:   int64(len(buf)),
	}, nil
}

// CompleteMultipartUpload concatenates the named parts in part-number order
// and commits the result as a single object.
func (s *Store) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []types.Part) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	up, exists := s.uploads[uploadID]
	if !exists {
		return fmt.Errorf("upload %q not found", uploadID)
	}
	if up.key != key {
		return fmt.Errorf("upload %q belongs to key %q, not %q", uploadID, up.key, key)
	}

	sorted := make([]types.Part, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	var total int
	for _, part := range sorted {
		data, ok := up.parts[part.Number]
		if !ok {
			return fmt.Errorf("part %d of upload %q was never uploaded", part.Number, uploadID)
		}
		total += len(data)
	}

	buf := make([]byte, 0, total)
	for _, part := range sorted {
		buf = append(buf, up.parts[part.Number]...)
	}

	s.objects[key] = &object{
		data:     buf,
		modified: time.Now(),
		etag:     computeETag(buf),
	}
	delete(s.uploads, uploadID)
	return nil
}

// AbortMultipartUpload discards an in-progress upload and its parts.
func (s *Store) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.uploads, uploadID)
	return nil
}

// UploadCount returns the number of in-progress multipart uploads.
func (s *Store) UploadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.uploads)
}

func computeETag(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
