// Package service is the attendance entry point: it plans clock sessions,
// applies clock actions under the session's single-writer lock and hands
// accepted transitions to the lifecycle emitter.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"tempo/internal/attendance/events"
	"tempo/internal/attendance/metrics"
	"tempo/internal/attendance/models"
	"tempo/internal/attendance/store"
	schedulemodels "tempo/internal/schedule/models"
	id "tempo/pkg/domain"
	"tempo/pkg/platform/audit"
)

// SessionStore persists clock sessions. Execute must serialize calls per
// session.
type SessionStore interface {
	Create(ctx context.Context, session models.ClockSession) error
	FindByID(ctx context.Context, sessionID id.SessionID) (models.ClockSession, error)
	Execute(ctx context.Context, sessionID id.SessionID, fn store.MutateFunc) (models.ClockSession, error)
}

// ScheduleStore records the theoretical shift of a planned session.
type ScheduleStore interface {
	SaveSchedule(ctx context.Context, def schedulemodels.ScheduleDefinition) error
}

// Emitter accepts lifecycle events for asynchronous delivery.
type Emitter interface {
	Emit(ctx context.Context, ev events.Event) error
}

// TxRunner groups the writes of one request: the schedule and session of a
// plan, or a transition and its ledger entry. Stores called with the ctx
// passed to fn take part in the same unit of work.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Auditor appends clock ledger entries. A non-nil error means the entry was
// not written.
type Auditor interface {
	Record(ctx context.Context, entry audit.Entry) error
}

type noTx struct{}

func (noTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service applies clock actions.
type Service struct {
	sessions  SessionStore
	schedules ScheduleStore
	emitter   Emitter
	auditor   Auditor
	tx        TxRunner
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	gate      sessionGate
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditor records every clock action in the ledger. Accepted transitions
// fail when their entry cannot be written.
func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithTxRunner makes planning and transitions transactional.
func WithTxRunner(tx TxRunner) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

// New constructs the attendance service.
func New(sessions SessionStore, schedules ScheduleStore, emitter Emitter, opts ...Option) *Service {
	s := &Service{
		sessions:  sessions,
		schedules: schedules,
		emitter:   emitter,
		tx:        noTx{},
		logger:    slog.Default(),
		tracer:    otel.Tracer("tempo/attendance"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
