// Package storage hosts uploaded cat photos. The API keeps only the URL and
// public id returned by the store.
package storage

import (
	"context"
	"errors"
	"fmt"

	"cattery/internal/config"
)

// ErrNotFound is returned by Delete when the asset does not exist.
var ErrNotFound = errors.New("storage: asset not found")

// UploadResult describes a stored image.
type UploadResult struct {
	URL      string
	PublicID string
}

// ImageStore uploads and deletes images.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// New builds the image store selected by cfg.ImageStore.
func New(cfg *config.Config) (ImageStore, error) {
	switch cfg.ImageStore {
	case config.ImageStoreCloudinary:
		return NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	case config.ImageStoreLocal:
		return NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
	}
	return nil, fmt.Errorf("unsupported image store %q", cfg.ImageStore)
}
