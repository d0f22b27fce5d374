// Package machine validates and applies clock actions to a ClockSession.
//
// Apply is a pure function: it never mutates its input and returns either the
// next session value or an error with the input left as it was. Callers are
// responsible for serializing Apply calls per session (see store.Execute).
package machine

import (
	"errors"
	"fmt"
	"time"

	"tempo/internal/attendance/models"
)

var (
	// ErrInvalidTransition: the action is not legal from the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrAlreadyStarted: start on a session that already has a clock-in.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrSessionClosed: any action after CLOCKED_OUT.
	ErrSessionClosed = errors.New("session closed")
	// ErrClockSkew: the action is stamped before a mark already on record.
	ErrClockSkew = errors.New("action time precedes recorded marks")
)

// TransitionError reports a rejected action together with the state it was
// attempted from. errors.Is matches the wrapped sentinel.
type TransitionError struct {
	Action models.Action
	State  models.State
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: action %q from state %s", e.Err, e.Action, e.State)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

func reject(s models.ClockSession, a models.Action, err error) (models.ClockSession, error) {
	return s, &TransitionError{Action: a, State: s.State, Err: err}
}

// transitions lists, per state, the actions it accepts.
var transitions = map[models.State]map[models.Action]models.State{
	models.StateNotStarted: {
		models.ActionStart: models.StateClockedIn,
	},
	models.StateClockedIn: {
		models.ActionPause:  models.StateOnBreak,
		models.ActionFinish: models.StateClockedOut,
	},
	models.StateOnBreak: {
		models.ActionResume: models.StateClockedIn,
		models.ActionFinish: models.StateClockedOut,
	},
}

// Allowed returns the actions accepted from state, in a stable order.
func Allowed(state models.State) []models.Action {
	var out []models.Action
	for _, a := range []models.Action{models.ActionStart, models.ActionPause, models.ActionResume, models.ActionFinish} {
		if _, ok := transitions[state][a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Apply validates action against the session state and returns the next
// session value. On error the returned session is the unmodified input.
func Apply(s models.ClockSession, action models.Action, now time.Time) (models.ClockSession, error) {
	if s.State.IsTerminal() {
		return reject(s, action, ErrSessionClosed)
	}
	next, ok := transitions[s.State][action]
	if !ok {
		if action == models.ActionStart {
			return reject(s, action, ErrAlreadyStarted)
		}
		return reject(s, action, ErrInvalidTransition)
	}
	if last, ok := s.LastMark(); ok && now.Before(last) {
		return reject(s, action, ErrClockSkew)
	}

	out := s.Clone()
	switch action {
	case models.ActionStart:
		out.ClockIn = &now
	case models.ActionPause:
		pause(&out, now)
	case models.ActionResume:
		if !closeOpenBreak(&out, now) {
			// ON_BREAK without an open break means the record was edited
			// outside the machine.
			return reject(s, action, ErrInvalidTransition)
		}
	case models.ActionFinish:
		if s.ClockIn == nil || !now.After(*s.ClockIn) {
			return reject(s, action, ErrClockSkew)
		}
		closeOpenBreak(&out, now)
		out.ClockOut = &now
	}

	out.State = next
	out.Version++
	out.UpdatedAt = now
	return out, nil
}

// pause realizes the planned break on the first pause of a shift that has
// one; every other pause opens an additional break.
func pause(s *models.ClockSession, now time.Time) {
	if s.Schedule.HasPlannedBreak && s.PlannedBreak == nil {
		s.PlannedBreak = &models.Break{Start: now}
		return
	}
	s.AdditionalBreaks = append(s.AdditionalBreaks, models.Break{Start: now})
}

func closeOpenBreak(s *models.ClockSession, now time.Time) bool {
	open, ok := s.OpenBreak()
	if !ok {
		return false
	}
	end := now
	open.End = &end
	return true
}
