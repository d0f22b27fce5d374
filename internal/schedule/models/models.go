// Package models describes the theoretical shift a clock session is
// reconciled against.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	id "tempo/pkg/domain"
	dErrors "tempo/pkg/domain-errors"
)

// ClockTime is a wall-clock time of day bound to a shift date elsewhere.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime accepts "HH:MM" or "HH:MM:SS"; seconds are discarded.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return ClockTime{}, dErrors.New(dErrors.CodeInvalidInput, "time must be HH:MM")
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return ClockTime{}, dErrors.New(dErrors.CodeInvalidInput, "time must be HH:MM")
	}
	ct := ClockTime{Hour: h, Minute: m}
	if !ct.Valid() {
		return ClockTime{}, dErrors.New(dErrors.CodeInvalidInput, "time out of range")
	}
	return ct, nil
}

// Valid reports whether the time is within 00:00–23:59.
func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MarshalText encodes as "HH:MM".
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes "HH:MM".
func (c *ClockTime) UnmarshalText(b []byte) error {
	ct, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = ct
	return nil
}

// ClockTimeOf extracts the time of day of t in loc.
func ClockTimeOf(t time.Time, loc *time.Location) ClockTime {
	lt := t.In(loc)
	return ClockTime{Hour: lt.Hour(), Minute: lt.Minute()}
}

// ScheduleDefinition is the theoretical shift for one session: start, end and
// an optional planned break, all bound to ShiftDate.
type ScheduleDefinition struct {
	ID                id.ScheduleID `json:"id"`
	SessionID         id.SessionID  `json:"session_id"`
	ContractID        id.ContractID `json:"contract_id"`
	ShiftDate         time.Time     `json:"shift_date"`
	Start             ClockTime     `json:"start"`
	End               ClockTime     `json:"end"`
	PlannedBreakStart *ClockTime    `json:"planned_break_start,omitempty"`
	PlannedBreakEnd   *ClockTime    `json:"planned_break_end,omitempty"`
}

// HasPlannedBreak reports whether both planned break bounds are present.
func (d ScheduleDefinition) HasPlannedBreak() bool {
	return d.PlannedBreakStart != nil && d.PlannedBreakEnd != nil
}

// Validate checks the definition is usable for reconciliation.
func (d ScheduleDefinition) Validate() error {
	if d.SessionID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "session_id is required")
	}
	if d.ContractID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "contract_id is required")
	}
	if d.ShiftDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "shift_date is required")
	}
	if !d.Start.Valid() || !d.End.Valid() {
		return dErrors.New(dErrors.CodeValidation, "start and end must be valid times")
	}
	if (d.PlannedBreakStart == nil) != (d.PlannedBreakEnd == nil) {
		return dErrors.New(dErrors.CodeValidation, "planned break needs both start and end")
	}
	if d.HasPlannedBreak() && (!d.PlannedBreakStart.Valid() || !d.PlannedBreakEnd.Valid()) {
		return dErrors.New(dErrors.CodeValidation, "planned break times must be valid")
	}
	return nil
}

// Contract links a work contract to the person holding it. EmployeeID is
// absent for contracts not yet assigned.
type Contract struct {
	ID         id.ContractID  `json:"id"`
	EmployeeID *id.EmployeeID `json:"employee_id,omitempty"`
}
