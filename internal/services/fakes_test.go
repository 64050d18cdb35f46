package services

import (
	"context"
	"fmt"
	"sync"

	"cattery/internal/storage"
)

// fakeImageStore records uploads and deletes in memory.
type fakeImageStore struct {
	mu        sync.Mutex
	uploads   int
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeImageStore) Upload(_ context.Context, _ []byte, filename string) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads++
	id := fmt.Sprintf("cattery/upload-%d", f.uploads)
	return &storage.UploadResult{URL: "https://res.cloudinary.com/demo/" + id + "-" + filename, PublicID: id}, nil
}

func (f *fakeImageStore) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return f.deleteErr
}
