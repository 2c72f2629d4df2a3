// Package minio implements the ObjectStore interface over MinIO and other
// S3-compatible services using the minio-go client. The low-level Core API
// is used for the multipart call set.
package minio

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/objectsink/objectsink/pkg/errors"
	"github.com/objectsink/objectsink/pkg/types"
)

// Config represents MinIO backend configuration
type Config struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	Region          string `yaml:"region"`
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return fmt.Errorf("access_key_id and secret_access_key are required")
	}
	return nil
}

// Backend implements the MinIO object storage backend
type Backend struct {
	core   *minio.Core
	bucket string
	logger *slog.Logger
}

var _ types.ObjectStore = (*Backend)(nil)

// NewBackend creates a new MinIO backend bound to one bucket
func NewBackend(bucket string, cfg *Config, logger *slog.Logger) (*Backend, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}
	if cfg == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidConfig, "minio config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidConfig, err.Error())
	}
	if logger == nil {
		logger = slog.Default()
	}

	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Backend{
		core:   core,
		bucket: bucket,
		logger: logger,
	}, nil
}

// GetObject retrieves an object or byte range
func (b *Backend) GetObject(ctx context.Context, key string, offset, size int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	if offset > 0 || size > 0 {
		if size > 0 {
			if err := opts.SetRange(offset, offset+size-1); err != nil {
				return nil, fmt.Errorf("invalid range: %w", err)
			}
		} else {
			if err := opts.SetRange(offset, 0); err != nil {
				return nil, fmt.Errorf("invalid range: %w", err)
			}
		}
	}

	obj, err := b.core.Client.GetObject(ctx, b.bucket, key, opts)
	if err != nil {
		return nil, b.translateError(err, "GetObject", key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, b.translateError(err, "GetObject", key)
	}
	return data, nil
}

// PutObject stores a whole object
func (b *Backend) PutObject(ctx context.Context, key string, data []byte) error {
	_, err := b.core.Client.PutObject(ctx, b.bucket, key,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return b.translateError(err, "PutObject", key)
	}
	return nil
}

// DeleteObject removes an object
func (b *Backend) DeleteObject(ctx context.Context, key string) error {
	if err := b.core.Client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return b.translateError(err, "DeleteObject", key)
	}
	return nil
}

// HeadObject retrieves object metadata without the body
func (b *Backend) HeadObject(ctx context.Context, key string) (*types.ObjectInfo, error) {
	stat, err := b.core.Client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, b.translateError(err, "HeadObject", key)
	}

	return &types.ObjectInfo{
		Key:          key,
		Size:         stat.Size,
		LastModified: stat.LastModified,
		ETag:         stat.ETag,
		ContentType:  stat.ContentType,
		Metadata:     stat.UserMetadata,
	}, nil
}

// ListObjects lists objects under a key prefix
func (b *Backend) ListObjects(ctx context.Context, prefix string, limit int) ([]types.ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	infos := make([]types.ObjectInfo, 0)
	for obj := range b.core.Client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, b.translateError(obj.Err, "ListObjects", prefix)
		}
		infos = append(infos, types.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ETag:         obj.ETag,
		})
		if limit > 0 && len(infos) >= limit {
			break
		}
	}
	return infos, nil
}

// CreateMultipartUpload starts a multipart upload and returns its ID
func (b *Backend) CreateMultipartUpload(ctx context.Context, key string) (string, error) {
	uploadID, err := b.core.NewMultipartUpload(ctx, b.bucket, key, minio.PutObjectOptions{})
	if err != nil {
		return "", b.translateError(err, "CreateMultipartUpload", key)
	}

	b.logger.Debug("multipart upload created", "key", key, "upload_id", uploadID)
	return uploadID, nil
}

// UploadPart uploads one part of a multipart upload
func (b *Backend) UploadPart(ctx context.Context, key, uploadID string, partNumber int, data []byte) (types.Part, error) {
	part, err := b.core.PutObjectPart(ctx, b.bucket, key, uploadID, partNumber,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectPartOptions{})
	if err != nil {
		return types.Part{}, b.translateError(err, "UploadPart", key)
	}

	return types.Part{
		Number: part.PartNumber,
		ETag:   part.ETag,
		Size:   part.Size,
	}, nil
}

// CompleteMultipartUpload commits all uploaded parts as a single object
func (b *Backend) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []types.Part) error {
	completed := make([]minio.CompletePart, 0, len(parts))
	for _, part := range parts {
		completed = append(completed, minio.CompletePart{
			PartNumber: part.Number,
			ETag:       part.ETag,
		})
	}

	_, err := b.core.CompleteMultipartUpload(ctx, b.bucket, key, uploadID, completed, minio.PutObjectOptions{})
	if err != nil {
		return b.translateError(err, "CompleteMultipartUpload", key)
	}

	b.logger.Debug("multipart upload completed", "key", key, "upload_id", uploadID, "parts", len(parts))
	return nil
}

// AbortMultipartUpload cancels a multipart upload and discards its parts
func (b *Backend) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	if err := b.core.AbortMultipartUpload(ctx, b.bucket, key, uploadID); err != nil {
		return b.translateError(err, "AbortMultipartUpload", key)
	}
	return nil
}

// translateError maps minio failures onto the sink error domain
func (b *Backend) translateError(err error, operation, key string) error {
	var resp minio.ErrorResponse
	if stderrors.As(err, &resp) && resp.Code == "NoSuchKey" {
		return errors.NewError(errors.ErrCodeObjectNotFound,
			fmt.Sprintf("object %q not found", key)).WithOperation(operation)
	}

	sinkErr := errors.NewError(errors.ErrCodeStorageWrite,
		fmt.Sprintf("minio %s failed for %q", operation, key)).WithOperation(operation)
	sinkErr.Cause = err
	return sinkErr
}
