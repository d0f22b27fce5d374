// Package events turns accepted clock transitions into ordered lifecycle
// notifications and hands them to a Publisher per channel.
package events

import (
	"fmt"
	"time"

	"tempo/internal/attendance/models"
	id "tempo/pkg/domain"
)

// Lifecycle is the past-tense name of an accepted clock action.
type Lifecycle string

const (
	LifecycleStarted  Lifecycle = "started"
	LifecyclePaused   Lifecycle = "paused"
	LifecycleResumed  Lifecycle = "resumed"
	LifecycleFinished Lifecycle = "finished"
)

var lifecycleByAction = map[models.Action]Lifecycle{
	models.ActionStart:  LifecycleStarted,
	models.ActionPause:  LifecyclePaused,
	models.ActionResume: LifecycleResumed,
	models.ActionFinish: LifecycleFinished,
}

var messages = map[Lifecycle]string{
	LifecycleStarted:  "Clock-in registered",
	LifecyclePaused:   "Break started",
	LifecycleResumed:  "Break ended, work resumed",
	LifecycleFinished: "Clock-out registered",
}

// EventTagPrefix namespaces lifecycle event tags on the wire.
const EventTagPrefix = "fichaje."

// Event is emitted once per accepted transition.
type Event struct {
	SessionID  id.SessionID        `json:"session_id"`
	Action     Lifecycle           `json:"action"`
	Session    models.ClockSession `json:"session"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// NewEvent builds the event for an accepted action. The session is cloned so
// the event is a snapshot at emission time.
func NewEvent(action models.Action, session models.ClockSession, at time.Time) (Event, error) {
	lc, ok := lifecycleByAction[action]
	if !ok {
		return Event{}, fmt.Errorf("no lifecycle event for action %q", action)
	}
	return Event{
		SessionID:  session.ID,
		Action:     lc,
		Session:    session.Clone(),
		OccurredAt: at,
	}, nil
}

// Tag returns the wire tag, e.g. "fichaje.started".
func (e Event) Tag() string {
	return EventTagPrefix + string(e.Action)
}

// Envelope is what a channel receives: the event plus a human-readable
// message and an ISO-8601 timestamp.
type Envelope struct {
	Event     string `json:"event"`
	Channel   string `json:"channel"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Data      Event  `json:"data"`
}

// NewEnvelope addresses ev to channel.
func NewEnvelope(channel string, ev Event) Envelope {
	return Envelope{
		Event:     ev.Tag(),
		Channel:   channel,
		Message:   messages[ev.Action],
		Timestamp: ev.OccurredAt.UTC().Format(time.RFC3339),
		Data:      ev,
	}
}

// SessionChannel is the audience scoped to one clock session.
func SessionChannel(sessionID id.SessionID) string {
	return "session." + sessionID.String()
}

// EmployeeChannel is the audience scoped to one employee.
func EmployeeChannel(employeeID id.EmployeeID) string {
	return "employee." + employeeID.String()
}
