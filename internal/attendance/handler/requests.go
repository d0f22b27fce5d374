package handler

import (
	"strings"
	"time"

	"tempo/internal/attendance/service"
	schedulemodels "tempo/internal/schedule/models"
	id "tempo/pkg/domain"
	dErrors "tempo/pkg/domain-errors"
)

// CreateSessionRequest is the body of POST /attendance/sessions.
type CreateSessionRequest struct {
	ContractID        string  `json:"contract_id"`
	ShiftDate         string  `json:"shift_date"`
	Start             string  `json:"start"`
	End               string  `json:"end"`
	PlannedBreakStart *string `json:"planned_break_start,omitempty"`
	PlannedBreakEnd   *string `json:"planned_break_end,omitempty"`

	command service.PlanSessionCommand
}

// Validate parses the request into a planning command.
func (r *CreateSessionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	contractID, err := id.ParseContractID(strings.TrimSpace(r.ContractID))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "contract_id must be a UUID")
	}
	shiftDate, err := time.Parse(time.DateOnly, strings.TrimSpace(r.ShiftDate))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "shift_date must be YYYY-MM-DD")
	}
	start, err := schedulemodels.ParseClockTime(r.Start)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "start must be HH:MM")
	}
	end, err := schedulemodels.ParseClockTime(r.End)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "end must be HH:MM")
	}
	breakStart, err := parseOptionalClock(r.PlannedBreakStart, "planned_break_start")
	if err != nil {
		return err
	}
	breakEnd, err := parseOptionalClock(r.PlannedBreakEnd, "planned_break_end")
	if err != nil {
		return err
	}
	r.command = service.PlanSessionCommand{
		ContractID:        contractID,
		ShiftDate:         shiftDate,
		Start:             start,
		End:               end,
		PlannedBreakStart: breakStart,
		PlannedBreakEnd:   breakEnd,
	}
	return nil
}

// Command returns the parsed planning command.
func (r *CreateSessionRequest) Command() service.PlanSessionCommand {
	return r.command
}

func parseOptionalClock(raw *string, field string) (*schedulemodels.ClockTime, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	ct, err := schedulemodels.ParseClockTime(*raw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, field+" must be HH:MM")
	}
	return &ct, nil
}
