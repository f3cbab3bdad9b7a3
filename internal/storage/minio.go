package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/drivehub/drive-backend/internal/pkg/logger"
)

// Store is the object storage gateway. Keys are opaque strings chosen by
// the caller; the store never parses them.
type Store struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewStore creates a store bound to a single bucket
func NewStore(client *minio.Client, bucket string, lgr *logger.Logger) *Store {
	if lgr == nil {
		lgr = logger.L()
	}
	return &Store{
		client: client,
		bucket: bucket,
		logger: lgr,
	}
}

// EnsureBucket creates the backing bucket if it does not exist yet
func (s *Store) EnsureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: failed to check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("storage: failed to create bucket %q: %w", s.bucket, err)
	}

	s.logger.Info("bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Put uploads a blob under the given key and returns its remote URL
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %q failed: %w", key, err)
	}

	s.logger.Info("object uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size),
		zap.String("etag", info.ETag),
	)

	return s.URL(key), nil
}

// Get returns a readable stream for the blob at key. The object is
// stat-checked first so a missing key fails here rather than on first read.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("storage: get %q: %w", key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("storage: stat %q failed: %w", key, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: get %q failed: %w", key, err)
	}

	return obj, nil
}

// Delete removes the blob at key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: delete %q failed: %w", key, err)
	}

	s.logger.Info("object deleted",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
	)

	return nil
}

// Exists reports whether a blob is stored under key
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %q failed: %w", key, err)
	}
	return true, nil
}

// URL derives the public URL of the blob at key
func (s *Store) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key)
}
