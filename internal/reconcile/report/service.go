// Package report assembles weekly reconciliation reports from stored clock
// sessions and their schedule definitions.
package report

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	attendancemodels "tempo/internal/attendance/models"
	"tempo/internal/reconcile"
	schedulemodels "tempo/internal/schedule/models"
	id "tempo/pkg/domain"
	dErrors "tempo/pkg/domain-errors"
)

// SessionLister lists sessions whose shift date falls in [from, to).
type SessionLister interface {
	ListByShiftDate(ctx context.Context, from, to time.Time) ([]attendancemodels.ClockSession, error)
}

// ScheduleSource returns the schedule definitions known for the given sessions.
// Sessions without a definition are simply absent from the map.
type ScheduleSource interface {
	ForSessions(ctx context.Context, ids []id.SessionID) (map[id.SessionID]schedulemodels.ScheduleDefinition, error)
}

// Reconciler runs the worked-time computation.
type Reconciler interface {
	Reconcile(ctx context.Context, sessions []attendancemodels.ClockSession, schedules []schedulemodels.ScheduleDefinition) (reconcile.Report, error)
}

// Weekly is a reconciliation report for one Monday-based week.
type Weekly struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
	reconcile.Report
}

// Service builds weekly reports.
type Service struct {
	sessions  SessionLister
	schedules ScheduleSource
	engine    Reconciler
	logger    *slog.Logger
	tracer    trace.Tracer
}

// New constructs a report service.
func New(sessions SessionLister, schedules ScheduleSource, engine Reconciler, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:  sessions,
		schedules: schedules,
		engine:    engine,
		logger:    logger,
		tracer:    otel.Tracer("tempo/reconcile"),
	}
}

// WeeklyReport reconciles every session of the week containing weekStart.
// weekStart is normalized to its Monday.
func (s *Service) WeeklyReport(ctx context.Context, weekStart time.Time) (*Weekly, error) {
	from := reconcile.WeekStart(weekStart)
	to := from.AddDate(0, 0, 7)

	ctx, span := s.tracer.Start(ctx, "reconcile.WeeklyReport")
	defer span.End()
	span.SetAttributes(attribute.String("week_start", from.Format(time.DateOnly)))

	sessions, err := s.sessions.ListByShiftDate(ctx, from, to)
	if err != nil {
		span.SetStatus(codes.Error, "list sessions")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sessions")
	}

	ids := make([]id.SessionID, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	var defs []schedulemodels.ScheduleDefinition
	if len(ids) > 0 {
		byID, err := s.schedules.ForSessions(ctx, ids)
		if err != nil {
			span.SetStatus(codes.Error, "load schedules")
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load schedules")
		}
		defs = make([]schedulemodels.ScheduleDefinition, 0, len(byID))
		for _, sessionID := range ids {
			if def, ok := byID[sessionID]; ok {
				defs = append(defs, def)
			}
		}
	}

	rep, err := s.engine.Reconcile(ctx, sessions, defs)
	if err != nil {
		span.SetStatus(codes.Error, "reconcile")
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "reconciliation interrupted")
	}

	span.SetAttributes(
		attribute.Int("sessions", len(sessions)),
		attribute.Int("diagnostics", len(rep.Diagnostics)),
	)
	s.logger.InfoContext(ctx, "weekly report built",
		"week_start", from.Format(time.DateOnly),
		"sessions", len(sessions),
		"diagnostics", len(rep.Diagnostics),
	)
	return &Weekly{WeekStart: from, WeekEnd: to, Report: rep}, nil
}
