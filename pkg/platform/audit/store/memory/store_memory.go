package memory

import (
	"context"
	"sync"

	id "tempo/pkg/domain"
	audit "tempo/pkg/platform/audit"
)

// InMemoryStore keeps ledger entries per session in append order.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.SessionID][]audit.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.SessionID][]audit.Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.SessionID] = append(s.entries[entry.SessionID], entry)
	return nil
}

func (s *InMemoryStore) ListBySession(_ context.Context, sessionID id.SessionID) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Entry{}, s.entries[sessionID]...), nil
}
