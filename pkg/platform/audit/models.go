// Package audit keeps the clock ledger: an append-only record of every clock
// action attempted on a session, accepted or not, with the kiosk and request
// it came from.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "tempo/pkg/domain"
)

// Outcome values other than OutcomeAccepted are the domain error code of the
// rejection (e.g. "invalid_transition").
const OutcomeAccepted = "accepted"

// Entry is one ledger line.
type Entry struct {
	ID        uuid.UUID    `json:"id"`
	SessionID id.SessionID `json:"session_id"`
	Action    string       `json:"action"`
	Outcome   string       `json:"outcome"`
	FromState string       `json:"from_state,omitempty"`
	ToState   string       `json:"to_state,omitempty"`
	DeviceID  string       `json:"device_id,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	At        time.Time    `json:"at"`
}

// Accepted reports whether the entry records an applied transition.
func (e Entry) Accepted() bool {
	return e.Outcome == OutcomeAccepted
}

// Store persists ledger entries. Entries are never updated or deleted.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListBySession(ctx context.Context, sessionID id.SessionID) ([]Entry, error)
}
