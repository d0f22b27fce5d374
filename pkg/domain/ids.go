package domain

import (
	"github.com/google/uuid"

	dErrors "tempo/pkg/domain-errors"
)

// Typed identifiers keep sessions, employees, contracts and schedules from
// being passed where another kind of ID is expected.
type (
	SessionID  uuid.UUID
	EmployeeID uuid.UUID
	ContractID uuid.UUID
	ScheduleID uuid.UUID
)

// maxIDLength bounds input before uuid.Parse sees it.
const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}

// ParseSessionID validates external input as a clock session ID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID("session_id", s)
	return SessionID(u), err
}

// ParseEmployeeID validates external input as an employee ID.
func ParseEmployeeID(s string) (EmployeeID, error) {
	u, err := parseUUID("employee_id", s)
	return EmployeeID(u), err
}

// ParseContractID validates external input as a work-contract ID.
func ParseContractID(s string) (ContractID, error) {
	u, err := parseUUID("contract_id", s)
	return ContractID(u), err
}

// ParseScheduleID validates external input as a schedule definition ID.
func ParseScheduleID(s string) (ScheduleID, error) {
	u, err := parseUUID("schedule_id", s)
	return ScheduleID(u), err
}

func (id SessionID) String() string  { return uuid.UUID(id).String() }
func (id SessionID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id EmployeeID) String() string { return uuid.UUID(id).String() }
func (id EmployeeID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ContractID) String() string { return uuid.UUID(id).String() }
func (id ContractID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ScheduleID) String() string { return uuid.UUID(id).String() }
func (id ScheduleID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs serialize as plain UUID strings in JSON.
func (id SessionID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id EmployeeID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ContractID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ScheduleID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *SessionID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *EmployeeID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ContractID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ScheduleID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
