package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
)

// ObjectStorage holds complaint attachment bodies.
type ObjectStorage interface {
	Enabled() bool
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// PresignGet returns a short-lived download URL that names the file as filename.
	PresignGet(ctx context.Context, key, filename string) (string, error)
}

type minioStorage struct {
	client *minio.Client
	bucket string
	region string
	expiry time.Duration
}

// NewObjectStorage connects to the configured S3 compatible endpoint. An
// empty endpoint yields a storage that rejects every call.
func NewObjectStorage(conf *config.Config) (ObjectStorage, error) {
	cfg := conf.Storage
	if cfg.Endpoint == "" {
		return disabledStorage{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("new minio client: %w", err)
	}
	return &minioStorage{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		expiry: cfg.URLExpiry,
	}, nil
}

func (s *minioStorage) Enabled() bool {
	return true
}

func (s *minioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("make bucket %s: %w", s.bucket, err)
	}
	log.Infow(ctx, "created attachment bucket", "bucket", s.bucket)
	return nil
}

func (s *minioStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *minioStorage) PresignGet(ctx context.Context, key, filename string) (string, error) {
	vals := url.Values{}
	if filename != "" {
		vals.Set("response-content-disposition", "attachment; filename=\""+filename+"\"")
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, vals)
	if err != nil {
		return "", fmt.Errorf("presign object %s: %w", key, err)
	}
	return u.String(), nil
}

type disabledStorage struct{}

func (disabledStorage) Enabled() bool {
	return false
}

func (disabledStorage) EnsureBucket(ctx context.Context) error {
	return nil
}

func (disabledStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return models.ErrStorageDisabled
}

func (disabledStorage) PresignGet(ctx context.Context, key, filename string) (string, error) {
	return "", models.ErrStorageDisabled
}
