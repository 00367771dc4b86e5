// Package storage persists processed garment images and hands back the URL
// they are served from.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aimd54/wardrobe-stylist/internal/config"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// ImageStore stores encoded images.
type ImageStore interface {
	// Put stores data and returns its public URL.
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	// Delete removes the object behind a URL returned by Put.
	Delete(ctx context.Context, url string) error
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg *config.StorageConfig, log *logger.Logger) (ImageStore, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.Local.Dir, cfg.Local.BaseURL)
	case "s3":
		return NewS3Store(ctx, &cfg.S3, log)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func newKey(contentType string) string {
	ext := ".png"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	return uuid.NewString() + ext
}
