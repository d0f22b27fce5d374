// Package compliance writes clock ledger entries with fail-closed semantics:
// when the entry cannot be persisted the caller must fail its operation.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "tempo/pkg/platform/audit"
)

var errInvalidEntry = errors.New("invalid ledger entry")

// Publisher records ledger entries synchronously.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a compliance publisher over store.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Record validates and appends entry, assigning an ID and timestamp when
// missing. A non-nil error means nothing was written.
func (p *Publisher) Record(ctx context.Context, entry audit.Entry) error {
	if entry.SessionID.IsNil() {
		return fmt.Errorf("%w: session id required", errInvalidEntry)
	}
	if entry.Action == "" || entry.Outcome == "" {
		return fmt.Errorf("%w: action and outcome required", errInvalidEntry)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	if err := p.store.Append(ctx, entry); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: clock ledger write failed",
				"session_id", entry.SessionID.String(),
				"action", entry.Action,
				"outcome", entry.Outcome,
				"error", err,
			)
		}
		return fmt.Errorf("clock ledger persistence failed: %w", err)
	}
	return nil
}
