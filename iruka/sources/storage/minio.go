package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iruka/iruka/config"
	"iruka/iruka/sources/catalog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient stores the catalog document in an S3-compatible bucket so the
// shop can update it without redeploying.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOUseSSL,
		},
	)
	if err != nil {
		return nil, err
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

// LoadCatalog reads and parses the catalog document stored under key.
func (m *MinIOClient) LoadCatalog(ctx context.Context, key string) ([]catalog.Item, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	items, err := catalog.Load(obj)
	if err != nil {
		return nil, fmt.Errorf("catalog object %s/%s: %w", m.bucket, key, err)
	}
	return items, nil
}

// UploadCatalog validates data as a catalog and stores it under key.
func (m *MinIOClient) UploadCatalog(ctx context.Context, key string, data []byte) (int, error) {
	items, err := catalog.Parse(data)
	if err != nil {
		return 0, err
	}
	if _, err := catalog.New(items); err != nil {
		return 0, err
	}
	_, err = m.client.PutObject(ctx, m.bucket, key, io.NopCloser(bytes.NewReader(data)), int64(len(data)), minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
