package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"cattery/internal/uuid"
)

// LocalStore writes images to a directory served under baseURL. It is meant
// for development without a Cloudinary account.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed and returns a store that writes to it.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory images are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Upload stores data under a random name. The public id is the file name.
func (s *LocalStore) Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		ext = "." + kind.Extension
	}

	name := uuid.New() + ext

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	return &UploadResult{URL: s.baseURL + "/" + name, PublicID: name}, nil
}

// Delete removes the stored file.
func (s *LocalStore) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if publicID == "" || publicID == "." || publicID == ".." || publicID != filepath.Base(publicID) {
		return fmt.Errorf("invalid public id %q", publicID)
	}
	err := os.Remove(filepath.Join(s.dir, publicID))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
