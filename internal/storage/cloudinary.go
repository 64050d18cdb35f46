package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"cattery/internal/logger"
)

const (
	uploadAttempts = 3
	uploadDelay    = 500 * time.Millisecond
)

// uploadAPI is the subset of the Cloudinary upload API used by the store.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore keeps images on Cloudinary under a single folder.
type CloudinaryStore struct {
	api      uploadAPI
	folder   string
	attempts uint
	delay    time.Duration
}

// NewCloudinaryStore creates a store for the given account credentials.
func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return newCloudinaryStore(&cld.Upload, folder), nil
}

func newCloudinaryStore(api uploadAPI, folder string) *CloudinaryStore {
	return &CloudinaryStore{api: api, folder: folder, attempts: uploadAttempts, delay: uploadDelay}
}

// Upload sends the image to Cloudinary, retrying transient failures with
// backoff until ctx is done.
func (s *CloudinaryStore) Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	log := logger.Get()

	var result *UploadResult
	err := retry.Do(func() error {
		resp, err := s.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{Folder: s.folder})
		if err != nil {
			return err
		}
		if resp.Error.Message != "" {
			// Cloudinary reports rejected files in the body; retrying will not help.
			return retry.Unrecoverable(fmt.Errorf("cloudinary rejected %s: %s", filename, resp.Error.Message))
		}
		if resp.SecureURL == "" {
			return errors.New("cloudinary returned no url")
		}
		result = &UploadResult{URL: resp.SecureURL, PublicID: resp.PublicID}
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warnw("Retrying image upload", "file", filename, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}
	return result, nil
}

// Delete removes the asset. Assets that no longer exist return ErrNotFound.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	resp, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("image delete failed: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("image delete failed: %s", resp.Error.Message)
	}
	switch resp.Result {
	case "ok":
		return nil
	case "not found":
		return ErrNotFound
	}
	return fmt.Errorf("image delete failed: unexpected result %q", resp.Result)
}
