// Package store keeps schedule definitions and the contract directory.
// Schedules are written once, when a session is planned, and read by the
// reconciliation report; contracts are read on every lifecycle event to find
// the employee channel.
package store

import (
	"context"
	"fmt"
	"sync"

	"tempo/internal/schedule/models"
	id "tempo/pkg/domain"
	"tempo/pkg/platform/sentinel"
)

// InMemoryStore holds schedules by session and contracts by id.
type InMemoryStore struct {
	mu        sync.RWMutex
	schedules map[id.SessionID]models.ScheduleDefinition
	contracts map[id.ContractID]models.Contract
}

// NewInMemory constructs an empty store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		schedules: make(map[id.SessionID]models.ScheduleDefinition),
		contracts: make(map[id.ContractID]models.Contract),
	}
}

func (s *InMemoryStore) SaveSchedule(_ context.Context, def models.ScheduleDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.schedules[def.SessionID]; ok && existing.ID != def.ID {
		return fmt.Errorf("schedule for session %s: %w", def.SessionID, sentinel.ErrConflict)
	}
	s.schedules[def.SessionID] = def
	return nil
}

func (s *InMemoryStore) FindBySession(_ context.Context, sessionID id.SessionID) (models.ScheduleDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.schedules[sessionID]
	if !ok {
		return models.ScheduleDefinition{}, fmt.Errorf("schedule for session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	return def, nil
}

// ForSessions returns the schedules of the given sessions. Sessions without a
// schedule are absent from the map.
func (s *InMemoryStore) ForSessions(_ context.Context, ids []id.SessionID) (map[id.SessionID]models.ScheduleDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.SessionID]models.ScheduleDefinition, len(ids))
	for _, sid := range ids {
		if def, ok := s.schedules[sid]; ok {
			out[sid] = def
		}
	}
	return out, nil
}

func (s *InMemoryStore) SaveContract(_ context.Context, contract models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[contract.ID] = contract
	return nil
}

func (s *InMemoryStore) FindContract(_ context.Context, contractID id.ContractID) (models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[contractID]
	if !ok {
		return models.Contract{}, fmt.Errorf("contract %s: %w", contractID, sentinel.ErrNotFound)
	}
	return c, nil
}
