package handler

import (
	"time"

	"tempo/internal/attendance/machine"
	"tempo/internal/attendance/models"
)

// SessionResponse is the wire view of a clock session.
type SessionResponse struct {
	ID               string          `json:"id"`
	ScheduleID       string          `json:"schedule_id"`
	ContractID       string          `json:"contract_id"`
	ShiftDate        string          `json:"shift_date"`
	State            string          `json:"state"`
	ClockIn          *time.Time      `json:"clock_in,omitempty"`
	ClockOut         *time.Time      `json:"clock_out,omitempty"`
	PlannedBreak     *BreakResponse  `json:"planned_break,omitempty"`
	AdditionalBreaks []BreakResponse `json:"additional_breaks"`
	AllowedActions   []string        `json:"allowed_actions"`
	Version          int64           `json:"version"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BreakResponse is one realized break; End is omitted while open.
type BreakResponse struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// FromSession converts a session for the wire.
func FromSession(s *models.ClockSession) *SessionResponse {
	resp := &SessionResponse{
		ID:               s.ID.String(),
		ScheduleID:       s.Schedule.ScheduleID.String(),
		ContractID:       s.Schedule.ContractID.String(),
		ShiftDate:        s.Schedule.ShiftDate.Format(time.DateOnly),
		State:            s.State.String(),
		ClockIn:          s.ClockIn,
		ClockOut:         s.ClockOut,
		AdditionalBreaks: make([]BreakResponse, 0, len(s.AdditionalBreaks)),
		AllowedActions:   []string{},
		Version:          s.Version,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.PlannedBreak != nil {
		resp.PlannedBreak = &BreakResponse{Start: s.PlannedBreak.Start, End: s.PlannedBreak.End}
	}
	for _, b := range s.AdditionalBreaks {
		resp.AdditionalBreaks = append(resp.AdditionalBreaks, BreakResponse{Start: b.Start, End: b.End})
	}
	for _, a := range machine.Allowed(s.State) {
		resp.AllowedActions = append(resp.AllowedActions, a.String())
	}
	return resp
}
