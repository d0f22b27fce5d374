// Package redispub delivers lifecycle envelopes over Redis pub/sub, one Redis
// channel per notification channel.
package redispub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tempo/internal/attendance/events"
)

// Publisher publishes JSON envelopes with PUBLISH.
type Publisher struct {
	client redis.UniversalClient
	prefix string
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithChannelPrefix namespaces Redis channels, e.g. "tempo:" → "tempo:session.<id>".
func WithChannelPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// New constructs a Redis publisher.
func New(client redis.UniversalClient, opts ...Option) *Publisher {
	p := &Publisher{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Publish implements events.Publisher.
func (p *Publisher) Publish(ctx context.Context, channel string, env events.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := p.client.Publish(ctx, p.prefix+channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}
