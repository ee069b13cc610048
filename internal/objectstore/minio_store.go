// Package objectstore provides the artifact store gateways used by the
// narration service: a MinIO-backed store for deployments and a NATS
// JetStream store for development and tests.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
)

// MinioStore implements the core.ObjectStore interface on a MinIO (or any
// S3-compatible) bucket. Playable URLs are presigned GET URLs.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

// NewMinio creates a MinioStore on the given bucket, creating the bucket
// if it does not exist yet.
func NewMinio(
	ctx context.Context,
	client *minio.Client,
	bucket string,
	urlExpiry time.Duration,
) (*MinioStore, error) {
	// Use a "create-first" approach.
	err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, existsErr := client.BucketExists(ctx, bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to create bucket '%s': %w", bucket, err)
		}
	}

	return &MinioStore{
		client:    client,
		bucket:    bucket,
		urlExpiry: urlExpiry,
	}, nil
}

// Upload stores data at path, overwriting any existing object, and
// returns a presigned URL for it.
func (s *MinioStore) Upload(
	ctx context.Context,
	path string,
	data []byte,
	contentType string,
) (string, error) {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		path,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to put object '%s' to bucket '%s': %w", path, s.bucket, err)
	}

	return s.URL(ctx, path)
}

// URL resolves a presigned GET URL for an existing object.
func (s *MinioStore) URL(ctx context.Context, path string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, path, s.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign URL for object '%s': %w", path, err)
	}

	return presigned.String(), nil
}

// Exists reports whether an object is present at path. A missing object
// is (false, nil); any other stat failure is returned as an error.
func (s *MinioStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == http.StatusNotFound {
			return false, nil
		}

		return false, fmt.Errorf("failed to stat object '%s' in bucket '%s': %w", path, s.bucket, err)
	}

	return true, nil
}
