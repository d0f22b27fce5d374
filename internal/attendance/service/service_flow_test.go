package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/attendance/events"
	"tempo/internal/attendance/events/publishers/memory"
	"tempo/internal/attendance/models"
	"tempo/internal/attendance/service"
	"tempo/internal/attendance/store"
	schedulemodels "tempo/internal/schedule/models"
	schedulestore "tempo/internal/schedule/store"
	id "tempo/pkg/domain"
	dErrors "tempo/pkg/domain-errors"
	"tempo/pkg/platform/audit"
	"tempo/pkg/platform/audit/publishers/compliance"
	auditmemory "tempo/pkg/platform/audit/store/memory"
	"tempo/pkg/requestcontext"
	"tempo/pkg/testutil"
)

type flow struct {
	svc      *service.Service
	emitter  *events.Emitter
	recorder *memory.Recorder
	ledger   *auditmemory.InMemoryStore
	employee id.EmployeeID
}

type fixedResolver struct{ employee id.EmployeeID }

func (f fixedResolver) ResolveEmployee(context.Context, models.ScheduleRef) (id.EmployeeID, bool) {
	return f.employee, true
}

func newFlow(t *testing.T) *flow {
	t.Helper()
	rec := memory.NewRecorder()
	employee := id.EmployeeID(uuid.New())
	emitter := events.NewEmitter(rec, fixedResolver{employee: employee}, events.WithLanes(4, 256))
	ledger := auditmemory.NewInMemoryStore()
	svc := service.New(store.NewInMemory(), schedulestore.NewInMemory(), emitter,
		service.WithAuditor(compliance.New(ledger)))
	return &flow{svc: svc, emitter: emitter, recorder: rec, ledger: ledger, employee: employee}
}

func at(base time.Time, d time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), base.Add(d))
}

func TestFullShiftLifecycle(t *testing.T) {
	f := newFlow(t)
	base := time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC)
	breakStart := schedulemodels.ClockTime{Hour: 13}
	breakEnd := schedulemodels.ClockTime{Hour: 14}

	session, err := f.svc.CreateSession(at(base, 0), service.PlanSessionCommand{
		ContractID:        id.ContractID(uuid.New()),
		ShiftDate:         base,
		Start:             schedulemodels.ClockTime{Hour: 9},
		End:               schedulemodels.ClockTime{Hour: 17},
		PlannedBreakStart: &breakStart,
		PlannedBreakEnd:   &breakEnd,
	})
	require.NoError(t, err)

	steps := []struct {
		action models.Action
		offset time.Duration
		state  models.State
	}{
		{models.ActionStart, time.Hour, models.StateClockedIn},
		{models.ActionPause, 5 * time.Hour, models.StateOnBreak},
		{models.ActionResume, 6 * time.Hour, models.StateClockedIn},
		{models.ActionPause, 7 * time.Hour, models.StateOnBreak},
		{models.ActionFinish, 9 * time.Hour, models.StateClockedOut},
	}
	for _, step := range steps {
		got, err := f.svc.ApplyAction(at(base, step.offset), session.ID, step.action)
		require.NoError(t, err, step.action)
		assert.Equal(t, step.state, got.State)
	}

	final, err := f.svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, final.PlannedBreak)
	require.Len(t, final.AdditionalBreaks, 1)
	assert.False(t, final.AdditionalBreaks[0].IsOpen(), "finish closes the open break")
	assert.True(t, final.AdditionalBreaks[0].End.Equal(*final.ClockOut))

	require.NoError(t, f.emitter.Close(context.Background()))
	want := []string{"fichaje.started", "fichaje.paused", "fichaje.resumed", "fichaje.paused", "fichaje.finished"}
	assert.Equal(t, want, f.recorder.ForChannel(events.SessionChannel(session.ID)))
	assert.Equal(t, want, f.recorder.ForChannel(events.EmployeeChannel(f.employee)))
}

func TestDoubleTapPause(t *testing.T) {
	f := newFlow(t)
	base := time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC)
	session, err := f.svc.CreateSession(at(base, 0), service.PlanSessionCommand{
		ContractID: id.ContractID(uuid.New()),
		ShiftDate:  base,
		Start:      schedulemodels.ClockTime{Hour: 8},
		End:        schedulemodels.ClockTime{Hour: 16},
	})
	require.NoError(t, err)
	_, err = f.svc.ApplyAction(at(base, 0), session.ID, models.ActionStart)
	require.NoError(t, err)

	testutil.Given(t, "two kiosks pausing the same session at once", func(t *testing.T) {
		var wg sync.WaitGroup
		var ok, rejected atomic.Int32
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.ApplyAction(at(base, 2*time.Hour), session.ID, models.ActionPause)
				if err == nil {
					ok.Add(1)
				} else if dErrors.HasCode(err, dErrors.CodeInvalidTransition) {
					rejected.Add(1)
				}
			}()
		}
		wg.Wait()

		testutil.Then(t, "exactly one pause is accepted and one break recorded", func(t *testing.T) {
			assert.Equal(t, int32(1), ok.Load())
			assert.Equal(t, int32(1), rejected.Load())
			got, err := f.svc.GetSession(context.Background(), session.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, got.OpenBreakCount())
		})
	})

	require.NoError(t, f.emitter.Close(context.Background()))
	assert.Equal(t, []string{"fichaje.started", "fichaje.paused"},
		f.recorder.ForChannel(events.SessionChannel(session.ID)))
}

func TestLedgerRecordsAcceptedAndRejectedActions(t *testing.T) {
	f := newFlow(t)
	base := time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC)
	session, err := f.svc.CreateSession(at(base, 0), service.PlanSessionCommand{
		ContractID: id.ContractID(uuid.New()),
		ShiftDate:  base,
		Start:      schedulemodels.ClockTime{Hour: 8},
		End:        schedulemodels.ClockTime{Hour: 16},
	})
	require.NoError(t, err)

	kiosk := requestcontext.WithDeviceID(at(base, time.Minute), "kiosk-3")
	_, err = f.svc.ApplyAction(kiosk, session.ID, models.ActionStart)
	require.NoError(t, err)
	_, err = f.svc.ApplyAction(at(base, 2*time.Minute), session.ID, models.ActionResume)
	require.Error(t, err)

	entries, err := f.ledger.ListBySession(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, audit.OutcomeAccepted, entries[0].Outcome)
	assert.Equal(t, "NOT_STARTED", entries[0].FromState)
	assert.Equal(t, "CLOCKED_IN", entries[0].ToState)
	assert.Equal(t, "kiosk-3", entries[0].DeviceID)
	assert.True(t, entries[0].At.Equal(base.Add(time.Minute)))

	assert.False(t, entries[1].Accepted())
	assert.Equal(t, string(dErrors.CodeInvalidTransition), entries[1].Outcome)
	assert.Equal(t, "resume", entries[1].Action)
	assert.Equal(t, "CLOCKED_IN", entries[1].ToState)
	require.NoError(t, f.emitter.Close(context.Background()))
}

// pauseHoldingStore stalls a committed pause until released, leaving the
// session lock free for the next action.
type pauseHoldingStore struct {
	*store.InMemoryStore
	committed chan struct{}
	release   chan struct{}
}

func (p *pauseHoldingStore) Execute(ctx context.Context, sessionID id.SessionID, fn store.MutateFunc) (models.ClockSession, error) {
	session, err := p.InMemoryStore.Execute(ctx, sessionID, fn)
	if err == nil && session.State == models.StateOnBreak {
		close(p.committed)
		<-p.release
	}
	return session, err
}

func TestInterleavedActionsEmitInAcceptedOrder(t *testing.T) {
	rec := memory.NewRecorder()
	emitter := events.NewEmitter(rec, nil, events.WithLanes(4, 256))
	sessions := &pauseHoldingStore{
		InMemoryStore: store.NewInMemory(),
		committed:     make(chan struct{}),
		release:       make(chan struct{}),
	}
	svc := service.New(sessions, schedulestore.NewInMemory(), emitter)

	base := time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC)
	session, err := svc.CreateSession(at(base, 0), service.PlanSessionCommand{
		ContractID: id.ContractID(uuid.New()),
		ShiftDate:  base,
		Start:      schedulemodels.ClockTime{Hour: 8},
		End:        schedulemodels.ClockTime{Hour: 16},
	})
	require.NoError(t, err)
	_, err = svc.ApplyAction(at(base, 0), session.ID, models.ActionStart)
	require.NoError(t, err)

	testutil.Given(t, "a pause that is stored but not yet handed to the emitter", func(t *testing.T) {
		pauseErr := make(chan error, 1)
		go func() {
			_, err := svc.ApplyAction(at(base, time.Hour), session.ID, models.ActionPause)
			pauseErr <- err
		}()
		<-sessions.committed

		testutil.When(t, "a resume arrives from another kiosk", func(t *testing.T) {
			resumeErr := make(chan error, 1)
			go func() {
				_, err := svc.ApplyAction(at(base, 2*time.Hour), session.ID, models.ActionResume)
				resumeErr <- err
			}()

			select {
			case err := <-resumeErr:
				t.Fatalf("resume finished before the pause was emitted: %v", err)
			case <-time.After(50 * time.Millisecond):
			}
			close(sessions.release)
			require.NoError(t, <-pauseErr)
			require.NoError(t, <-resumeErr)
		})
	})

	testutil.Then(t, "the session channel sees pause before resume", func(t *testing.T) {
		require.NoError(t, emitter.Close(context.Background()))
		assert.Equal(t, []string{"fichaje.started", "fichaje.paused", "fichaje.resumed"},
			rec.ForChannel(events.SessionChannel(session.ID)))
	})
}
