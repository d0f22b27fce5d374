package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tempo/internal/attendance/models"
	schedulemodels "tempo/internal/schedule/models"
	id "tempo/pkg/domain"
	dErrors "tempo/pkg/domain-errors"
	"tempo/pkg/platform/sentinel"
	"tempo/pkg/requestcontext"
)

// PlanSessionCommand describes the shift a new session is clocked against.
type PlanSessionCommand struct {
	ContractID        id.ContractID
	ShiftDate         time.Time
	Start             schedulemodels.ClockTime
	End               schedulemodels.ClockTime
	PlannedBreakStart *schedulemodels.ClockTime
	PlannedBreakEnd   *schedulemodels.ClockTime
}

// CreateSession stores the schedule definition and a NOT_STARTED session
// referencing it.
func (s *Service) CreateSession(ctx context.Context, cmd PlanSessionCommand) (*models.ClockSession, error) {
	now := requestcontext.Now(ctx)
	sessionID := id.SessionID(uuid.New())
	shiftDate := time.Date(cmd.ShiftDate.Year(), cmd.ShiftDate.Month(), cmd.ShiftDate.Day(), 0, 0, 0, 0, time.UTC)

	def := schedulemodels.ScheduleDefinition{
		ID:                id.ScheduleID(uuid.New()),
		SessionID:         sessionID,
		ContractID:        cmd.ContractID,
		ShiftDate:         shiftDate,
		Start:             cmd.Start,
		End:               cmd.End,
		PlannedBreakStart: cmd.PlannedBreakStart,
		PlannedBreakEnd:   cmd.PlannedBreakEnd,
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	session := models.NewClockSession(sessionID, models.ScheduleRef{
		ScheduleID:      def.ID,
		ContractID:      def.ContractID,
		ShiftDate:       shiftDate,
		HasPlannedBreak: def.HasPlannedBreak(),
	}, now)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.schedules.SaveSchedule(ctx, def); err != nil {
			return err
		}
		return s.sessions.Create(ctx, session)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "session already planned")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to plan session")
	}

	s.logger.InfoContext(ctx, "clock session planned",
		"session_id", session.ID.String(),
		"contract_id", def.ContractID.String(),
		"shift_date", shiftDate.Format(time.DateOnly),
	)
	return &session, nil
}

// GetSession returns the current session value.
func (s *Service) GetSession(ctx context.Context, sessionID id.SessionID) (*models.ClockSession, error) {
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session ID required")
	}
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "session not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return &session, nil
}
