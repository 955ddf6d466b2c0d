package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gabriel-Garrido/CuraMetric/config"
	"github.com/google/uuid"
)

// photoPrefix is the object-name prefix for wound photographs, mirrored in
// the media URL path.
const photoPrefix = "wound_photos"

// ErrUnsupportedImage is returned for payloads that are not base64 image
// data in a recognised format.
var ErrUnsupportedImage = errors.New("unsupported image payload")

// Storage persists opaque media blobs under a generated path.
type Storage interface {
	// SaveImage stores raw image bytes and returns the generated object
	// path (e.g. "wound_photos/3f1a...c2.png").
	SaveImage(ctx context.Context, data []byte, ext string) (string, error)
}

// NewFromConfig selects the media backend: local disk by default, MinIO
// when MEDIA_BACKEND=minio.
func NewFromConfig(cfg *config.Config) (Storage, error) {
	if cfg.MediaBackend == "minio" {
		return newMinioStorage(cfg)
	}
	return &diskStorage{baseDir: cfg.MediaDir}, nil
}

// diskStorage writes media files under the configured media directory; gin
// serves that directory at the media base path.
type diskStorage struct {
	baseDir string
}

func (d *diskStorage) SaveImage(ctx context.Context, data []byte, ext string) (string, error) {
	objectName := newObjectName(ext)
	fullPath := filepath.Join(d.baseDir, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return objectName, nil
}

func newObjectName(ext string) string {
	return fmt.Sprintf("%s/%s%s", photoPrefix, uuid.NewString(), ext)
}

// DecodeBase64Image decodes an inbound photo payload. Accepts either a
// plain base64 string or a data URI ("data:image/png;base64,...") and
// returns the raw bytes plus a file extension inferred from the declared
// content type (defaulting to .jpg).
func DecodeBase64Image(payload string) ([]byte, string, error) {
	ext := ".jpg"
	raw := payload

	if strings.HasPrefix(payload, "data:") {
		semi := strings.Index(payload, ";base64,")
		if semi < 0 {
			return nil, "", ErrUnsupportedImage
		}
		contentType := payload[len("data:"):semi]
		raw = payload[semi+len(";base64,"):]
		switch contentType {
		case "image/png":
			ext = ".png"
		case "image/jpeg", "image/jpg":
			ext = ".jpg"
		case "image/gif":
			ext = ".gif"
		case "image/webp":
			ext = ".webp"
		default:
			return nil, "", ErrUnsupportedImage
		}
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if len(data) == 0 {
		return nil, "", ErrUnsupportedImage
	}
	return data, ext, nil
}
