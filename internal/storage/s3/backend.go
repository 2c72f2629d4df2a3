// Package s3 implements the ObjectStore interface over Amazon S3 and
// S3-compatible services using aws-sdk-go-v2.
package s3

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/objectsink/objectsink/pkg/errors"
	"github.com/objectsink/objectsink/pkg/types"
)

// Backend implements the S3 object storage backend
type Backend struct {
	bucket string
	config *Config
	pool   *ConnectionPool
	logger *slog.Logger
}

var _ types.ObjectStore = (*Backend)(nil)

// NewBackend creates a new S3 backend bound to one bucket
func NewBackend(ctx context.Context, bucket string, cfg *Config, logger *slog.Logger) (*Backend, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidConfig, err.Error())
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Load AWS configuration
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMaxAttempts(cfg.MaxRetries),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	factory := func() (*s3.Client, error) {
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			if cfg.ForcePathStyle {
				o.UsePathStyle = true
			}
		}), nil
	}

	pool, err := NewConnectionPool(cfg.PoolSize, factory)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &Backend{
		bucket: bucket,
		config: cfg,
		pool:   pool,
		logger: logger,
	}, nil
}

// GetObject retrieves an object or byte range from S3
func (b *Backend) GetObject(ctx context.Context, key string, offset, size int64) ([]byte, error) {
	// Build range header if needed
	var rangeHeader *string
	if offset > 0 || size > 0 {
		if size > 0 {
			rangeHeader = aws.String(fmt.Sprintf("bytes=%d-%d", offset, offset+size-1))
		} else {
			rangeHeader = aws.String(fmt.Sprintf("bytes=%d-", offset))
		}
	}

	client := b.pool.Get()
	defer b.pool.Put(client)

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Range:  rangeHeader,
	})
	if err != nil {
		return nil, b.translateError(err, "GetObject", key)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

// PutObject stores a whole object in S3
func (b *Backend) PutObject(ctx context.Context, key string, data []byte) error {
	client := b.pool.Get()
	defer b.pool.Put(client)

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return b.translateError(err, "PutObject", key)
	}
	return nil
}

// DeleteObject removes an object from S3
func (b *Backend) DeleteObject(ctx context.Context, key string) error {
	client := b.pool.Get()
	defer b.pool.Put(client)

	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return b.translateError(err, "DeleteObject", key)
	}
	return nil
}

// HeadObject retrieves object metadata without the body
func (b *Backend) HeadObject(ctx context.Context, key string) (*types.ObjectInfo, error) {
	client := b.pool.Get()
	defer b.pool.Put(client)

	result, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, b.translateError(err, "HeadObject", key)
	}

	info := &types.ObjectInfo{
		Key:      key,
		Size:     aws.ToInt64(result.ContentLength),
		ETag:     aws.ToString(result.ETag),
		Metadata: result.Metadata,
	}
	if result.LastModified != nil {
		info.LastModified = *result.LastModified
	}
	if result.ContentType != nil {
		info.ContentType = *result.ContentType
	}
	return info, nil
}

// ListObjects lists objects under a key prefix
func (b *Backend) ListObjects(ctx context.Context, prefix string, limit int) ([]types.ObjectInfo, error) {
	client := b.pool.Get()
	defer b.pool.Put(client)

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	}
	if limit > 0 {
		input.MaxKeys = aws.Int32(int32(limit))
	}

	result, err := client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, b.translateError(err, "ListObjects", prefix)
	}

	infos := make([]types.ObjectInfo, 0, len(result.Contents))
	for _, obj := range result.Contents {
		info := types.ObjectInfo{
			Key:  aws.ToString(obj.Key),
			Size: aws.ToInt64(obj.Size),
			ETag: aws.ToString(obj.ETag),
		}
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// CreateMultipartUpload starts a multipart upload and returns its ID
func (b *Backend) CreateMultipartUpload(ctx context.Context, key string) (string, error) {
	client := b.pool.Get()
	defer b.pool.Put(client)

	result, err := client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", b.translateError(err, "CreateMultipartUpload", key)
	}

	b.logger.Debug("multipart upload created", "key", key, "upload_id", aws.ToString(result.UploadId))
	return aws.ToString(result.UploadId), nil
}

// UploadPart uploads one part of a multipart upload
func (b *Backend) UploadPart(ctx context.Context, key, uploadID string, partNumber int, data []byte) (types.Part, error) {
	client := b.pool.Get()
	defer b.pool.Put(client)

	result, err := client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		UploadId:      aws.String(uploadID),
		PartNumber:    aws.Int32(int32(partNumber)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return types.Part{}, b.translateError(err, "UploadPart", key)
	}

	return types.Part{
		Number: partNumber,
		ETag:   aws.ToString(result.ETag),
		Size:   int64(len(data)),
	}, nil
}

// CompleteMultipartUpload commits all uploaded parts as a single object
func (b *Backend) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []types.Part) error {
	client := b.pool.Get()
	defer b.pool.Put(client)

	completed := make([]s3types.CompletedPart, 0, len(parts))
	for _, part := range parts {
		completed = append(completed, s3types.CompletedPart{
			PartNumber: aws.Int32(int32(part.Number)),
			ETag:       aws.String(part.ETag),
		})
	}

	_, err := client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(b.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &s3types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return b.translateError(err, "CompleteMultipartUpload", key)
	}

	b.logger.Debug("multipart upload completed", "key", key, "upload_id", uploadID, "parts", len(parts))
	return nil
}

// AbortMultipartUpload cancels a multipart upload and discards its parts
func (b *Backend) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	client := b.pool.Get()
	defer b.pool.Put(client)

	_, err := client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(b.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return b.translateError(err, "AbortMultipartUpload", key)
	}
	return nil
}

// Close releases pooled client resources
func (b *Backend) Close() error {
	return b.pool.Close()
}

// translateError maps SDK failures onto the sink error domain
func (b *Backend) translateError(err error, operation, key string) error {
	var noSuchKey *s3types.NoSuchKey
	var notFound *s3types.NotFound
	if stderrors.As(err, &noSuchKey) || stderrors.As(err, &notFound) {
		return errors.NewError(errors.ErrCodeObjectNotFound,
			fmt.Sprintf("object %q not found", key)).WithOperation(operation)
	}

	sinkErr := errors.NewError(errors.ErrCodeStorageWrite,
		fmt.Sprintf("s3 %s failed for %q", operation, key)).WithOperation(operation)
	sinkErr.Cause = err
	return sinkErr
}
