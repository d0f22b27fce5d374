// Package logpub writes lifecycle envelopes to the structured log. It is the
// default sink when no broker is configured and the fallback behind a
// guarded broker publisher.
package logpub

import (
	"context"
	"log/slog"

	"tempo/internal/attendance/events"
)

// Publisher logs each delivery at info level.
type Publisher struct {
	logger *slog.Logger
}

// New constructs a log publisher.
func New(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger}
}

// Publish implements events.Publisher.
func (p *Publisher) Publish(ctx context.Context, channel string, env events.Envelope) error {
	p.logger.InfoContext(ctx, env.Message,
		"event", env.Event,
		"channel", channel,
		"session_id", env.Data.SessionID.String(),
		"state", env.Data.Session.State.String(),
		"timestamp", env.Timestamp,
	)
	return nil
}
