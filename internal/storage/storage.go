// Package storage wraps the S3-compatible object store used for analyzed
// documents. Any MinIO or AWS S3 endpoint works.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"paceup/internal/config"
	"paceup/internal/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store uploads objects and derives public URLs for them.
type Store interface {
	Upload(ctx context.Context, prefix, filename, contentType string, data []byte) (*Object, error)
}

// Object describes a stored object.
type Object struct {
	Key  string
	URL  string
	Size int64
}

type s3Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// New connects to the configured S3 endpoint. Returns an error when storage
// is not configured; callers that can run without storage should check
// cfg.StorageConfigured() first.
func New(cfg *config.Config) (Store, error) {
	if !cfg.StorageConfigured() {
		return nil, fmt.Errorf("object storage is not configured")
	}
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object storage: %w", err)
	}
	publicURL := cfg.StoragePublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.StorageEndpoint, cfg.StorageBucket)
	}
	return &s3Store{
		client:    client,
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet. Safe to call on
// every startup.
func EnsureBucket(ctx context.Context, store Store) error {
	s, ok := store.(*s3Store)
	if !ok {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %q: %w", s.bucket, err)
	}
	return nil
}

func (s *s3Store) Upload(ctx context.Context, prefix, filename, contentType string, data []byte) (*Object, error) {
	key := objectKey(prefix, filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, models.NewUnavailableError("object storage", err)
	}
	return &Object{
		Key:  key,
		URL:  s.publicURL + "/" + key,
		Size: int64(len(data)),
	}, nil
}

// objectKey namespaces uploads by prefix and randomizes the name so two
// uploads of the same file never collide.
func objectKey(prefix, filename string) string {
	name := strings.ReplaceAll(filename, " ", "_")
	if name == "" {
		name = "upload"
	}
	return fmt.Sprintf("%s/%s-%s", strings.Trim(prefix, "/"), uuid.NewString(), name)
}
