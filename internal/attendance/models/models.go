// Package models holds the attendance record for one scheduled shift and the
// value types the clock state machine operates on.
//
// ClockSession values are treated as immutable: every transition produces a
// new value via Clone, so snapshots handed to emitters or reports never alias
// the break slices of the live record.
package models

import (
	"time"

	id "tempo/pkg/domain"
)

// State is the clock position of a session.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateClockedIn  State = "CLOCKED_IN"
	StateOnBreak    State = "ON_BREAK"
	StateClockedOut State = "CLOCKED_OUT"
)

// IsTerminal reports whether no further actions are accepted.
func (s State) IsTerminal() bool {
	return s == StateClockedOut
}

func (s State) String() string {
	return string(s)
}

// Action is a clock command issued by a caller (UI, kiosk).
type Action string

const (
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionFinish Action = "finish"
)

var validActions = map[Action]bool{
	ActionStart:  true,
	ActionPause:  true,
	ActionResume: true,
	ActionFinish: true,
}

// ParseAction validates external input.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	return a, validActions[a]
}

// IsValid checks the action is one of the supported commands.
func (a Action) IsValid() bool {
	return validActions[a]
}

func (a Action) String() string {
	return string(a)
}

// Break is one realized pause. End is nil while the break is open.
type Break struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end"`
}

// IsOpen reports whether the break has not been closed yet.
func (b Break) IsOpen() bool {
	return b.End == nil
}

// Duration returns the closed break length, or zero while open.
func (b Break) Duration() time.Duration {
	if b.End == nil {
		return 0
	}
	return b.End.Sub(b.Start)
}

func (b Break) clone() Break {
	if b.End == nil {
		return Break{Start: b.Start}
	}
	end := *b.End
	return Break{Start: b.Start, End: &end}
}

// ScheduleRef is the part of the theoretical shift the session carries with
// it: enough to group by contract and to apply the planned-break policy.
type ScheduleRef struct {
	ScheduleID      id.ScheduleID `json:"schedule_id"`
	ContractID      id.ContractID `json:"contract_id"`
	ShiftDate       time.Time     `json:"shift_date"`
	HasPlannedBreak bool          `json:"has_planned_break"`
}

// ClockSession is one employee's attendance record for one scheduled shift.
//
// Invariants:
//   - ClockOut, when set, is after ClockIn.
//   - At most one break (planned or additional) is open at a time.
//   - AdditionalBreaks are kept in the order they were opened.
type ClockSession struct {
	ID               id.SessionID `json:"id"`
	Schedule         ScheduleRef  `json:"schedule"`
	State            State        `json:"state"`
	ClockIn          *time.Time   `json:"clock_in"`
	ClockOut         *time.Time   `json:"clock_out"`
	PlannedBreak     *Break       `json:"planned_break"`
	AdditionalBreaks []Break      `json:"additional_breaks"`
	Version          int64        `json:"version"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// NewClockSession creates a session in NOT_STARTED for the given shift.
func NewClockSession(sessionID id.SessionID, ref ScheduleRef, now time.Time) ClockSession {
	return ClockSession{
		ID:               sessionID,
		Schedule:         ref,
		State:            StateNotStarted,
		AdditionalBreaks: []Break{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Clone returns a deep copy; the result shares no pointers or slices with s.
func (s ClockSession) Clone() ClockSession {
	out := s
	if s.ClockIn != nil {
		t := *s.ClockIn
		out.ClockIn = &t
	}
	if s.ClockOut != nil {
		t := *s.ClockOut
		out.ClockOut = &t
	}
	if s.PlannedBreak != nil {
		b := s.PlannedBreak.clone()
		out.PlannedBreak = &b
	}
	out.AdditionalBreaks = make([]Break, len(s.AdditionalBreaks))
	for i, b := range s.AdditionalBreaks {
		out.AdditionalBreaks[i] = b.clone()
	}
	return out
}

// OpenBreak returns the currently open break, if any. The pointer addresses
// s's own storage; callers mutating it must own s (e.g. a fresh Clone).
func (s *ClockSession) OpenBreak() (*Break, bool) {
	if s.PlannedBreak != nil && s.PlannedBreak.IsOpen() {
		return s.PlannedBreak, true
	}
	for i := range s.AdditionalBreaks {
		if s.AdditionalBreaks[i].IsOpen() {
			return &s.AdditionalBreaks[i], true
		}
	}
	return nil, false
}

// OpenBreakCount counts open breaks across planned and additional entries.
func (s ClockSession) OpenBreakCount() int {
	n := 0
	if s.PlannedBreak != nil && s.PlannedBreak.IsOpen() {
		n++
	}
	for _, b := range s.AdditionalBreaks {
		if b.IsOpen() {
			n++
		}
	}
	return n
}

// RealizedBreaks lists every break taken, planned first then additional.
func (s ClockSession) RealizedBreaks() []Break {
	out := make([]Break, 0, len(s.AdditionalBreaks)+1)
	if s.PlannedBreak != nil {
		out = append(out, s.PlannedBreak.clone())
	}
	for _, b := range s.AdditionalBreaks {
		out = append(out, b.clone())
	}
	return out
}

// LastMark returns the latest timestamp recorded on the session, used to
// reject actions stamped before something already on record.
func (s ClockSession) LastMark() (time.Time, bool) {
	var last time.Time
	found := false
	consider := func(t time.Time) {
		if !found || t.After(last) {
			last = t
			found = true
		}
	}
	if s.ClockIn != nil {
		consider(*s.ClockIn)
	}
	if s.ClockOut != nil {
		consider(*s.ClockOut)
	}
	for _, b := range s.RealizedBreaks() {
		consider(b.Start)
		if b.End != nil {
			consider(*b.End)
		}
	}
	return last, found
}
