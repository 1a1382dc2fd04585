package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	registrationapp "github.com/bizreg/backend/internal/application/registration"
)

// MemoryObjectStorage keeps objects in an in-process map. It exists for
// development and tests; nothing persists across restarts.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

// NewMemoryObjectStorage creates an empty in-memory object storage
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com/documents"
	}
	return &MemoryObjectStorage{
		objects: make(map[string][]byte),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Ensure MemoryObjectStorage implements ObjectStorage
var _ registrationapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// Upload stores a copy of the object under the given key
func (s *MemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = append([]byte(nil), data...)
	return nil
}

// DeleteObject removes the object; deleting a missing key is not an error
func (s *MemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists reports whether the key holds an object
func (s *MemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// ObjectURL returns the public URL for a storage key
func (s *MemoryObjectStorage) ObjectURL(storageKey string) string {
	return s.baseURL + "/" + storageKey
}

// StorageKeyFromURL recovers the storage key from a public object URL
func (s *MemoryObjectStorage) StorageKeyFromURL(objectURL string) (string, error) {
	key, ok := strings.CutPrefix(objectURL, s.baseURL+"/")
	if !ok || key == "" {
		return "", fmt.Errorf("url %q is not under storage base %q", objectURL, s.baseURL)
	}
	return key, nil
}
