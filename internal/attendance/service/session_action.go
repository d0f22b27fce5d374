package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"tempo/internal/attendance/events"
	"tempo/internal/attendance/machine"
	"tempo/internal/attendance/models"
	id "tempo/pkg/domain"
	dErrors "tempo/pkg/domain-errors"
	"tempo/pkg/platform/audit"
	"tempo/pkg/platform/sentinel"
	"tempo/pkg/requestcontext"
)

// ApplyAction applies action to the session at the request time. The
// transition runs under the session lock; the lifecycle event is emitted
// after the new state is stored and its delivery never affects the result.
// Actions on one session are queued for emission in the order they were
// accepted.
func (s *Service) ApplyAction(ctx context.Context, sessionID id.SessionID, action models.Action) (*models.ClockSession, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.ApplyAction")
	defer span.End()
	span.SetAttributes(
		attribute.String("session_id", sessionID.String()),
		attribute.String("action", action.String()),
	)

	start := time.Now()
	defer func() { s.metrics.ObserveTransition(time.Since(start)) }()

	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session ID required")
	}
	if !action.IsValid() {
		s.metrics.IncTransition(action.String(), string(dErrors.CodeInvalidTransition))
		return nil, dErrors.Wrap(machine.ErrInvalidTransition, dErrors.CodeInvalidTransition, "unknown action")
	}

	release := s.gate.lock(sessionID)
	defer release()

	now := requestcontext.Now(ctx)
	var (
		previous models.State
		session  models.ClockSession
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessions.Execute(ctx, sessionID, func(current models.ClockSession) (models.ClockSession, error) {
			previous = current.State
			return machine.Apply(current, action, now)
		})
		if err != nil {
			return err
		}
		return s.record(ctx, sessionID, action, audit.OutcomeAccepted, previous, session.State, now)
	})
	if err != nil {
		err = translateError(err)
		code := dErrors.CodeOf(err)
		s.metrics.IncTransition(action.String(), string(code))
		span.SetStatus(codes.Error, string(code))
		if code == dErrors.CodeInternal {
			s.logger.ErrorContext(ctx, "clock action failed",
				"session_id", sessionID.String(),
				"action", action.String(),
				"error", err,
			)
		} else {
			s.logger.InfoContext(ctx, "clock action rejected",
				"session_id", sessionID.String(),
				"action", action.String(),
				"reason", string(code),
			)
		}
		if isRejection(code) {
			if recErr := s.record(ctx, sessionID, action, string(code), previous, previous, now); recErr != nil {
				s.logger.WarnContext(ctx, "rejected clock action not recorded in ledger",
					"session_id", sessionID.String(),
					"error", recErr,
				)
			}
		}
		return nil, err
	}

	s.metrics.IncTransition(action.String(), "accepted")
	s.logger.InfoContext(ctx, "clock action applied",
		"session_id", sessionID.String(),
		"action", action.String(),
		"from", previous.String(),
		"to", session.State.String(),
		"device_id", requestcontext.DeviceID(ctx),
	)
	s.emit(ctx, action, session, now)
	return &session, nil
}

func (s *Service) emit(ctx context.Context, action models.Action, session models.ClockSession, at time.Time) {
	if s.emitter == nil {
		return
	}
	ev, err := events.NewEvent(action, session, at)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build lifecycle event", "session_id", session.ID.String(), "error", err)
		return
	}
	if err := s.emitter.Emit(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "lifecycle event not queued",
			"session_id", session.ID.String(),
			"event", ev.Tag(),
			"error", err,
		)
	}
}

func (s *Service) record(ctx context.Context, sessionID id.SessionID, action models.Action, outcome string, from, to models.State, at time.Time) error {
	if s.auditor == nil {
		return nil
	}
	return s.auditor.Record(ctx, audit.Entry{
		SessionID: sessionID,
		Action:    action.String(),
		Outcome:   outcome,
		FromState: from.String(),
		ToState:   to.String(),
		DeviceID:  requestcontext.DeviceID(ctx),
		RequestID: requestcontext.RequestID(ctx),
		At:        at,
	})
}

// isRejection reports whether code is the machine refusing the action, as
// opposed to the request failing.
func isRejection(code dErrors.Code) bool {
	switch code {
	case dErrors.CodeSessionClosed, dErrors.CodeAlreadyStarted, dErrors.CodeInvalidTransition, dErrors.CodeInvalidState:
		return true
	}
	return false
}

// translateError maps machine and store failures to coded domain errors. The
// original error stays in the chain so errors.Is(err, machine.ErrX) holds.
func translateError(err error) error {
	switch {
	case errors.Is(err, machine.ErrSessionClosed):
		return dErrors.Wrap(err, dErrors.CodeSessionClosed, "session is closed")
	case errors.Is(err, machine.ErrAlreadyStarted):
		return dErrors.Wrap(err, dErrors.CodeAlreadyStarted, "session already started")
	case errors.Is(err, machine.ErrInvalidTransition):
		return dErrors.Wrap(err, dErrors.CodeInvalidTransition, transitionMessage(err))
	case errors.Is(err, machine.ErrClockSkew):
		return dErrors.Wrap(err, dErrors.CodeInvalidState, "action time precedes recorded marks")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "session not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "request cancelled")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply clock action")
	}
}

func transitionMessage(err error) string {
	var te *machine.TransitionError
	if errors.As(err, &te) {
		return "action " + te.Action.String() + " not allowed from " + te.State.String()
	}
	return "action not allowed"
}
