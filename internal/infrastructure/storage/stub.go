package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*StubImageStorage)(nil)

// StubImageStorage keeps track of keys in memory and hands out fake URLs.
// Use it in development when no bucket is configured; a presigned key
// counts as uploaded so the confirm step works end to end.
type StubImageStorage struct {
	// BaseURL prefixes every generated URL. Defaults to "https://storage.example.com".
	BaseURL string
	Expiry  time.Duration

	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewStubImageStorage creates a new StubImageStorage
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{
		BaseURL: "https://storage.example.com",
		Expiry:  15 * time.Minute,
		keys:    make(map[string]struct{}),
	}
}

// PresignUpload returns a fake upload URL and remembers the key
func (s *StubImageStorage) PresignUpload(_ context.Context, key, contentType string) (*catalogapp.UploadTarget, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}
	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()

	expiresAt := time.Now().Add(s.Expiry)
	return &catalogapp.UploadTarget{
		URL:       s.BaseURL + "/upload/" + key + "?expires=" + expiresAt.Format(time.RFC3339),
		Method:    "PUT",
		Key:       key,
		Headers:   map[string]string{"Content-Type": contentType},
		ExpiresAt: expiresAt,
	}, nil
}

// Exists reports whether key was presigned and not deleted since
func (s *StubImageStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok, nil
}

// Delete forgets key
func (s *StubImageStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}

// PublicURL returns the fake public URL of key
func (s *StubImageStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + strings.TrimLeft(key, "/")
}
