package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/config"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/utils"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotFound is returned by Download when no object exists under the key.
var ErrNotFound = errors.New("object not found")

const defaultContentType = "text/csv"

// Storage keeps the raw bytes of archived uploads.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// DatasetKey is the object key for an archived upload.
func DatasetKey(id, filename string) string {
	return fmt.Sprintf("datasets/%s/%s", id, utils.SanitizeFilename(filename))
}

// objectContentType falls back to text/csv when the client sent no type or
// the generic binary one.
func objectContentType(contentType string) string {
	if contentType == "" || contentType == "application/octet-stream" {
		return defaultContentType
	}
	return contentType
}

type s3Storage struct {
	client     *minio.Client
	bucketName string
	maxSize    int64
}

// NewS3Storage connects to the configured bucket and creates it when
// missing. Downloads above MAX_FILE_SIZE are refused.
func NewS3Storage(ctx context.Context, cfg *config.Config) (Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	if err := ensureBucket(ctx, client, cfg.S3BucketName); err != nil {
		return nil, err
	}

	return &s3Storage{
		client:     client,
		bucketName: cfg.S3BucketName,
		maxSize:    cfg.MaxFileSize,
	}, nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", bucket, err)
	}
	if exists {
		return nil
	}

	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		// Another replica may have created it in the meantime.
		if minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return fmt.Errorf("failed to create bucket %q: %w", bucket, err)
	}
	return nil
}

func (s *s3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: objectContentType(contentType)})
	if err != nil {
		return fmt.Errorf("failed to upload dataset %q: %w", key, err)
	}

	return nil
}

func (s *s3Storage) Download(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset %q: %w", key, err)
	}
	defer object.Close()

	info, err := object.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("dataset %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to stat dataset %q: %w", key, err)
	}
	if s.maxSize > 0 && info.Size > s.maxSize {
		return nil, fmt.Errorf("dataset %q is %d bytes, above the %d byte limit", key, info.Size, s.maxSize)
	}

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %q: %w", key, err)
	}

	return data, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete dataset %q: %w", key, err)
	}

	return nil
}
