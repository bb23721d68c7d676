// Package storage keeps uploaded avatars in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/pkg/config"
)

// PublicPrefix is the key prefix readable without credentials.
const PublicPrefix = "avatars/"

// ObjectStore stores objects and exposes their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// MinIOStore implements ObjectStore on MinIO
type MinIOStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

// NewMinIOStore connects to MinIO and makes sure the bucket exists with a
// public read policy on PublicPrefix. Bootstrap is retried while MinIO starts.
func NewMinIOStore(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	baseURL := cfg.PublicURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint
	}

	s := &MinIOStore{
		client:  client,
		bucket:  cfg.BucketName,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(func() error { return s.ensureBucket(ctx) }, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	if logger != nil {
		logger.Info("✅ Object storage ready", zap.String("bucket", s.bucket))
	}
	return s, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/%s*"]
			}
		]
	}`, s.bucket, PublicPrefix)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// Put uploads an object
func (s *MinIOStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// PublicURL is the unauthenticated URL of key.
func (s *MinIOStore) PublicURL(key string) string {
	return ObjectURL(s.baseURL, s.bucket, key)
}

// Ping checks that the bucket is reachable.
func (s *MinIOStore) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}
	return nil
}

// ObjectURL joins base, bucket and an escaped key in path style.
func ObjectURL(baseURL, bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(baseURL, "/") + "/" + bucket + "/" + strings.Join(parts, "/")
}
