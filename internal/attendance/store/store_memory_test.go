package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tempo/internal/attendance/machine"
	"tempo/internal/attendance/models"
	id "tempo/pkg/domain"
	"tempo/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.now = time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) newSession(shiftDate time.Time) models.ClockSession {
	return models.NewClockSession(id.SessionID(uuid.New()), models.ScheduleRef{
		ScheduleID: id.ScheduleID(uuid.New()),
		ContractID: id.ContractID(uuid.New()),
		ShiftDate:  shiftDate,
	}, s.now)
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	session := s.newSession(s.now.Truncate(24 * time.Hour))
	s.Require().NoError(s.store.Create(ctx, session))

	found, err := s.store.FindByID(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.ID, found.ID)
	s.Equal(models.StateNotStarted, found.State)

	err = s.store.Create(ctx, session)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemoryStoreSuite) TestFindUnknown() {
	_, err := s.store.FindByID(context.Background(), id.SessionID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Execute(context.Background(), id.SessionID(uuid.New()), func(c models.ClockSession) (models.ClockSession, error) {
		return c, nil
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestExecuteErrorLeavesSessionUntouched() {
	ctx := context.Background()
	session := s.newSession(s.now)
	s.Require().NoError(s.store.Create(ctx, session))

	boom := errors.New("rejected")
	_, err := s.store.Execute(ctx, session.ID, func(c models.ClockSession) (models.ClockSession, error) {
		c.State = models.StateClockedOut
		return c, boom
	})
	s.ErrorIs(err, boom)

	found, err := s.store.FindByID(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(models.StateNotStarted, found.State)
}

func (s *InMemoryStoreSuite) TestReturnedValuesDoNotAliasStorage() {
	ctx := context.Background()
	session := s.newSession(s.now)
	s.Require().NoError(s.store.Create(ctx, session))

	updated, err := s.store.Execute(ctx, session.ID, func(c models.ClockSession) (models.ClockSession, error) {
		return machine.Apply(c, models.ActionStart, s.now)
	})
	s.Require().NoError(err)
	updated, err = s.store.Execute(ctx, session.ID, func(c models.ClockSession) (models.ClockSession, error) {
		return machine.Apply(c, models.ActionPause, s.now.Add(time.Hour))
	})
	s.Require().NoError(err)

	updated.AdditionalBreaks[0].Start = time.Time{}
	found, err := s.store.FindByID(ctx, session.ID)
	s.Require().NoError(err)
	s.False(found.AdditionalBreaks[0].Start.IsZero())
}

func (s *InMemoryStoreSuite) TestListByShiftDate() {
	ctx := context.Background()
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	for _, d := range []int{-1, 0, 3, 6, 7} {
		s.Require().NoError(s.store.Create(ctx, s.newSession(monday.AddDate(0, 0, d))))
	}

	got, err := s.store.ListByShiftDate(ctx, monday, monday.AddDate(0, 0, 7))
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal(monday, got[0].Schedule.ShiftDate)
	s.Equal(monday.AddDate(0, 0, 6), got[2].Schedule.ShiftDate)
}

// Two kiosks submitting pause for the same session at once: exactly one wins
// and only one break is recorded.
func (s *InMemoryStoreSuite) TestConcurrentPauseSingleWinner() {
	ctx := context.Background()
	session := s.newSession(s.now)
	s.Require().NoError(s.store.Create(ctx, session))
	_, err := s.store.Execute(ctx, session.ID, func(c models.ClockSession) (models.ClockSession, error) {
		return machine.Apply(c, models.ActionStart, s.now)
	})
	s.Require().NoError(err)

	const goroutines = 50
	var wg sync.WaitGroup
	var wins, rejected atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, session.ID, func(c models.ClockSession) (models.ClockSession, error) {
				return machine.Apply(c, models.ActionPause, s.now.Add(2*time.Hour))
			})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, machine.ErrInvalidTransition):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(goroutines-1), rejected.Load())

	found, err := s.store.FindByID(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(models.StateOnBreak, found.State)
	s.Equal(1, found.OpenBreakCount())
	s.Len(found.AdditionalBreaks, 1)
}

func (s *InMemoryStoreSuite) TestDifferentSessionsDoNotBlockEachOther() {
	ctx := context.Background()
	a := s.newSession(s.now)
	b := s.newSession(s.now)
	s.Require().NoError(s.store.Create(ctx, a))
	s.Require().NoError(s.store.Create(ctx, b))

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.store.Execute(ctx, a.ID, func(c models.ClockSession) (models.ClockSession, error) {
			close(inside)
			<-release
			return c, nil
		})
	}()
	<-inside

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_, err := s.store.Execute(ctx, b.ID, func(c models.ClockSession) (models.ClockSession, error) {
			return machine.Apply(c, models.ActionStart, s.now)
		})
		s.NoError(err)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		s.Fail("session b waited on session a's lock")
	}
	close(release)
	<-done
}
