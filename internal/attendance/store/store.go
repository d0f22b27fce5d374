// Package store persists clock sessions. Both implementations give each
// session a single writer: Execute runs the caller's mutation while holding
// that session exclusively, and different sessions never wait on each other.
package store

import (
	"time"

	"tempo/internal/attendance/models"
)

// MutateFunc receives a private copy of the stored session and returns the
// value to persist. Returning an error aborts without writing.
type MutateFunc func(current models.ClockSession) (models.ClockSession, error)

func inShiftRange(s models.ClockSession, from, to time.Time) bool {
	d := s.Schedule.ShiftDate
	return !d.Before(from) && d.Before(to)
}
