package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"

	"github.com/Gabriel-Garrido/CuraMetric/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioStorage stores media objects in a MinIO (or S3-compatible) bucket.
type minioStorage struct {
	client *minio.Client
	bucket string
}

func newMinioStorage(cfg *config.Config) (Storage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccess, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}
	return &minioStorage{client: client, bucket: cfg.MinioBucket}, nil
}

func (m *minioStorage) SaveImage(ctx context.Context, data []byte, ext string) (string, error) {
	objectName := newObjectName(ext)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", objectName, err)
	}
	return objectName, nil
}
