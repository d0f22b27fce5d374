package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"tempo/internal/attendance/events"
	"tempo/internal/attendance/events/publishers/memory"
	"tempo/internal/attendance/models"
	id "tempo/pkg/domain"
)

type staticResolver struct {
	mu        sync.Mutex
	employees map[id.ContractID]id.EmployeeID
}

func (r *staticResolver) ResolveEmployee(_ context.Context, ref models.ScheduleRef) (id.EmployeeID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[ref.ContractID]
	return e, ok
}

type EmitterSuite struct {
	suite.Suite
	recorder   *memory.Recorder
	resolver   *staticResolver
	emitter    *events.Emitter
	contract   id.ContractID
	employee   id.EmployeeID
	occurredAt time.Time
}

func TestEmitterSuite(t *testing.T) {
	suite.Run(t, new(EmitterSuite))
}

func (s *EmitterSuite) SetupTest() {
	s.recorder = memory.NewRecorder()
	s.contract = id.ContractID(uuid.New())
	s.employee = id.EmployeeID(uuid.New())
	s.resolver = &staticResolver{employees: map[id.ContractID]id.EmployeeID{s.contract: s.employee}}
	s.emitter = events.NewEmitter(s.recorder, s.resolver, events.WithLanes(4, 512))
	s.occurredAt = time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
}

func (s *EmitterSuite) TearDownTest() {
	s.Require().NoError(s.emitter.Close(context.Background()))
}

func (s *EmitterSuite) session(contract id.ContractID) models.ClockSession {
	return models.NewClockSession(id.SessionID(uuid.New()), models.ScheduleRef{
		ScheduleID: id.ScheduleID(uuid.New()),
		ContractID: contract,
		ShiftDate:  s.occurredAt.Truncate(24 * time.Hour),
	}, s.occurredAt)
}

func (s *EmitterSuite) emit(action models.Action, sess models.ClockSession, at time.Time) {
	ev, err := events.NewEvent(action, sess, at)
	s.Require().NoError(err)
	s.Require().NoError(s.emitter.Emit(context.Background(), ev))
}

func (s *EmitterSuite) TestDeliversToSessionAndEmployeeChannels() {
	sess := s.session(s.contract)
	s.emit(models.ActionStart, sess, s.occurredAt)
	s.Require().NoError(s.emitter.Close(context.Background()))

	s.Equal([]string{"fichaje.started"}, s.recorder.ForChannel(events.SessionChannel(sess.ID)))
	s.Equal([]string{"fichaje.started"}, s.recorder.ForChannel(events.EmployeeChannel(s.employee)))
}

func (s *EmitterSuite) TestUnresolvedEmployeeOnlyReachesSessionChannel() {
	sess := s.session(id.ContractID(uuid.New()))
	s.emit(models.ActionStart, sess, s.occurredAt)
	s.Require().NoError(s.emitter.Close(context.Background()))

	deliveries := s.recorder.Deliveries()
	s.Require().Len(deliveries, 1)
	s.Equal(events.SessionChannel(sess.ID), deliveries[0].Channel)
}

func (s *EmitterSuite) TestPerSessionOrderingIsFIFO() {
	actions := []models.Action{models.ActionStart, models.ActionPause, models.ActionResume, models.ActionPause, models.ActionResume, models.ActionFinish}
	want := []string{"fichaje.started", "fichaje.paused", "fichaje.resumed", "fichaje.paused", "fichaje.resumed", "fichaje.finished"}

	var sessions []models.ClockSession
	for i := 0; i < 20; i++ {
		sessions = append(sessions, s.session(s.contract))
	}
	// Interleave sessions so lanes are shared and busy.
	for step, a := range actions {
		for _, sess := range sessions {
			s.emit(a, sess, s.occurredAt.Add(time.Duration(step)*time.Minute))
		}
	}
	s.Require().NoError(s.emitter.Close(context.Background()))

	for _, sess := range sessions {
		s.Equal(want, s.recorder.ForChannel(events.SessionChannel(sess.ID)))
	}
	s.Len(s.recorder.ForChannel(events.EmployeeChannel(s.employee)), len(actions)*len(sessions))
}

func (s *EmitterSuite) TestDeliveryFailureDoesNotStopLaterEvents() {
	sess := s.session(s.contract)
	s.recorder.FailChannel(events.EmployeeChannel(s.employee), errors.New("push gateway down"))

	s.emit(models.ActionStart, sess, s.occurredAt)
	s.emit(models.ActionFinish, sess, s.occurredAt.Add(time.Hour))
	s.Require().NoError(s.emitter.Close(context.Background()))

	s.Equal([]string{"fichaje.started", "fichaje.finished"}, s.recorder.ForChannel(events.SessionChannel(sess.ID)))
	s.Empty(s.recorder.ForChannel(events.EmployeeChannel(s.employee)))
}

func (s *EmitterSuite) TestEmitAfterCloseIsRejected() {
	s.Require().NoError(s.emitter.Close(context.Background()))
	ev, err := events.NewEvent(models.ActionStart, s.session(s.contract), s.occurredAt)
	s.Require().NoError(err)
	s.ErrorIs(s.emitter.Emit(context.Background(), ev), events.ErrClosed)
}

func (s *EmitterSuite) TestEnvelopeShape() {
	sess := s.session(s.contract)
	in := s.occurredAt
	sess.ClockIn = &in
	sess.State = models.StateClockedIn
	s.emit(models.ActionStart, sess, s.occurredAt)
	s.Require().NoError(s.emitter.Close(context.Background()))

	deliveries := s.recorder.Deliveries()
	s.Require().NotEmpty(deliveries)
	raw, err := json.Marshal(deliveries[0].Envelope)
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	s.Equal("fichaje.started", decoded["event"])
	s.Equal("2026-10-12T09:00:00Z", decoded["timestamp"])
	s.Equal("Clock-in registered", decoded["message"])

	data := decoded["data"].(map[string]any)
	s.Equal(sess.ID.String(), data["session_id"])
	s.Equal("started", data["action"])
	s.Equal("CLOCKED_IN", data["session"].(map[string]any)["state"])
}

type blockingPublisher struct {
	release chan struct{}
}

func (b *blockingPublisher) Publish(ctx context.Context, _ string, _ events.Envelope) error {
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestEmitter_FullLaneDropsInsteadOfBlocking(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	emitter := events.NewEmitter(pub, nil, events.WithLanes(1, 1))

	sess := models.NewClockSession(id.SessionID(uuid.New()), models.ScheduleRef{}, time.Now())
	ev, err := events.NewEvent(models.ActionStart, sess, time.Now())
	require.NoError(t, err)

	var dropped int
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			if errors.Is(emitter.Emit(context.Background(), ev), events.ErrLaneFull) {
				dropped++
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full lane")
	}
	assert.GreaterOrEqual(t, dropped, 8, "one delivery in flight and one buffered at most")

	close(pub.release)
	require.NoError(t, emitter.Close(context.Background()))
}

func TestNewEvent_SnapshotIsIsolated(t *testing.T) {
	sess := models.NewClockSession(id.SessionID(uuid.New()), models.ScheduleRef{}, time.Now())
	sess.AdditionalBreaks = append(sess.AdditionalBreaks, models.Break{Start: time.Now()})

	ev, err := events.NewEvent(models.ActionPause, sess, time.Now())
	require.NoError(t, err)
	sess.AdditionalBreaks[0].Start = time.Time{}

	assert.False(t, ev.Session.AdditionalBreaks[0].Start.IsZero())
	assert.Equal(t, events.LifecyclePaused, ev.Action)

	_, err = events.NewEvent(models.Action("teleport"), sess, time.Now())
	assert.Error(t, err)
}

func TestChannels(t *testing.T) {
	sid := id.SessionID(uuid.MustParse("11111111-1111-1111-1111-111111111111"))
	eid := id.EmployeeID(uuid.MustParse("22222222-2222-2222-2222-222222222222"))
	assert.Equal(t, "session.11111111-1111-1111-1111-111111111111", events.SessionChannel(sid))
	assert.Equal(t, "employee.22222222-2222-2222-2222-222222222222", events.EmployeeChannel(eid))
	assert.Equal(t, fmt.Sprintf("fichaje.%s", events.LifecycleFinished), events.EventTagPrefix+string(events.LifecycleFinished))
}
