package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tempo/internal/attendance/models"
	id "tempo/pkg/domain"
	"tempo/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in a map. The map lock only guards lookups;
// Execute serializes writers per session with a dedicated mutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]models.ClockSession
	locks    map[id.SessionID]*sync.Mutex
}

// NewInMemory constructs an empty store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[id.SessionID]models.ClockSession),
		locks:    make(map[id.SessionID]*sync.Mutex),
	}
}

func (s *InMemoryStore) Create(_ context.Context, session models.ClockSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s: %w", session.ID, sentinel.ErrConflict)
	}
	s.sessions[session.ID] = session.Clone()
	s.locks[session.ID] = &sync.Mutex{}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, sessionID id.SessionID) (models.ClockSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return models.ClockSession{}, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	return session.Clone(), nil
}

// ListByShiftDate returns sessions whose shift date is in [from, to), ordered
// by shift date then id.
func (s *InMemoryStore) ListByShiftDate(_ context.Context, from, to time.Time) ([]models.ClockSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ClockSession
	for _, session := range s.sessions {
		if inShiftRange(session, from, to) {
			out = append(out, session.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Schedule.ShiftDate.Equal(out[j].Schedule.ShiftDate) {
			return out[i].Schedule.ShiftDate.Before(out[j].Schedule.ShiftDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// Execute runs fn with the session locked and stores its result.
func (s *InMemoryStore) Execute(ctx context.Context, sessionID id.SessionID, fn MutateFunc) (models.ClockSession, error) {
	s.mu.RLock()
	lock, ok := s.locks[sessionID]
	s.mu.RUnlock()
	if !ok {
		return models.ClockSession{}, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}

	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return models.ClockSession{}, err
	}

	s.mu.RLock()
	current := s.sessions[sessionID].Clone()
	s.mu.RUnlock()

	next, err := fn(current)
	if err != nil {
		return models.ClockSession{}, err
	}

	s.mu.Lock()
	s.sessions[sessionID] = next.Clone()
	s.mu.Unlock()
	return next, nil
}
