package service

import (
	"context"
	"errors"
	"sync"

	"contest-entry/internal/domain"
	"contest-entry/internal/infrastructure/storage"

	"github.com/google/uuid"
)

type fakeUploader struct {
	mu        sync.Mutex
	uploads   int
	deletes   []string
	uploadErr error
	deleteErr error
}

func (f *fakeUploader) Upload(_ context.Context, _ []byte, fileName, _ string) (storage.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadErr != nil {
		return storage.Blob{}, f.uploadErr
	}
	key := "1700000000-42-" + fileName
	return storage.Blob{Key: key, URL: "https://storage.googleapis.com/entries/" + key}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return f.deleteErr
}

type fakeRecorder struct {
	mu    sync.Mutex
	saved []*domain.Submission
	err   error
}

func (f *fakeRecorder) Save(_ context.Context, s *domain.Submission) (*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := *s
	out.ID = uuid.New()
	f.saved = append(f.saved, &out)
	return &out, nil
}

type fakeVerifier struct {
	ok    bool
	calls int
}

func (f *fakeVerifier) Verify(_, _, _ string) bool {
	f.calls++
	return f.ok
}

var errBoom = errors.New("boom")
