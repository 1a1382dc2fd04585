package session

import (
	"context"
	"sync"

	"github.com/bizreg/backend/internal/domain/registration"
)

// MemoryDraftStore implements DraftStore with an in-process map.
// Suitable for single-instance deployments and tests; state does not
// survive a restart and is never shared across instances.
type MemoryDraftStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	step int
	data registration.DraftData
}

// NewMemoryDraftStore creates an empty in-memory draft store
func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{entries: make(map[string]memoryEntry)}
}

// Save stores the step and a copy of the draft data for the session
func (s *MemoryDraftStore) Save(_ context.Context, sessionID string, step int, data *registration.DraftData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{step: step}
	if data != nil {
		entry.data = *data
	}
	s.entries[sessionID] = entry
	return nil
}

// Load returns the stored step and data, or (0, nil, nil) when the session
// has nothing persisted
func (s *MemoryDraftStore) Load(_ context.Context, sessionID string) (int, *registration.DraftData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return 0, nil, nil
	}
	data := entry.data
	return entry.step, &data, nil
}

// Clear removes the session's entry
func (s *MemoryDraftStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}

// Ensure MemoryDraftStore implements DraftStore
var _ registration.DraftStore = (*MemoryDraftStore)(nil)
