// Package memory provides an in-process publisher that records deliveries.
// Tests use it to assert on channel ordering; it can also back a local
// development server.
package memory

import (
	"context"
	"sync"

	"tempo/internal/attendance/events"
)

// Delivery is one recorded publish.
type Delivery struct {
	Channel  string
	Envelope events.Envelope
}

// Recorder keeps every envelope in arrival order. FailChannels makes Publish
// fail for the listed channels.
type Recorder struct {
	mu         sync.Mutex
	deliveries []Delivery
	fail       map[string]error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{fail: make(map[string]error)}
}

// FailChannel makes subsequent publishes to channel return err.
func (r *Recorder) FailChannel(channel string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[channel] = err
}

// Publish implements events.Publisher.
func (r *Recorder) Publish(_ context.Context, channel string, env events.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.fail[channel]; ok {
		return err
	}
	r.deliveries = append(r.deliveries, Delivery{Channel: channel, Envelope: env})
	return nil
}

// Deliveries returns a copy of everything recorded so far.
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Delivery, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

// ForChannel returns the event tags delivered to channel, in order.
func (r *Recorder) ForChannel(channel string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tags []string
	for _, d := range r.deliveries {
		if d.Channel == channel {
			tags = append(tags, d.Envelope.Event)
		}
	}
	return tags
}
