package storage

import (
	"context"
	"errors"
	"sync"

	appsync "github.com/wooconnect/backend/internal/application/sync"
)

// StubImageStorage is a placeholder implementation of ImageStorage.
// It accepts every upload without persisting anything.
// Use this for development when no storage backend is configured.
type StubImageStorage struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewStubImageStorage creates a new StubImageStorage
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{
		keys: make(map[string]struct{}),
	}
}

// Ensure StubImageStorage implements ImageStorage
var _ appsync.ImageStorage = (*StubImageStorage)(nil)

// Upload records the storage key and discards the data
func (s *StubImageStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[storageKey] = struct{}{}
	return nil
}

// DeleteObject is a no-op stub that always succeeds
func (s *StubImageStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, storageKey)
	return nil
}

// ObjectExists reports whether the key was uploaded through this stub
func (s *StubImageStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[storageKey]
	return ok, nil
}
