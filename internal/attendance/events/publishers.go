package events

import (
	"context"
	"errors"
	"log/slog"

	"tempo/internal/attendance/metrics"
	"tempo/pkg/platform/circuit"
)

// Multi fans one envelope out to several publishers. Every publisher is
// attempted; failures are joined.
type Multi []Publisher

// Publish implements Publisher.
func (m Multi) Publish(ctx context.Context, channel string, env Envelope) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, channel, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Guarded tries the primary publisher and routes to the fallback once the
// primary's circuit opens. The primary keeps being tried so that successes
// can close the circuit again.
type Guarded struct {
	name     string
	primary  Publisher
	fallback Publisher
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewGuarded wraps primary with a circuit breaker named after it.
func NewGuarded(name string, primary, fallback Publisher, breaker *circuit.Breaker, logger *slog.Logger, m *metrics.Metrics) *Guarded {
	if breaker == nil {
		breaker = circuit.New(name)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{
		name:     name,
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
		metrics:  m,
	}
}

// Publish implements Publisher.
func (g *Guarded) Publish(ctx context.Context, channel string, env Envelope) error {
	err := g.primary.Publish(ctx, channel, env)
	if err == nil {
		if _, change := g.breaker.RecordSuccess(); change.Closed {
			g.logger.InfoContext(ctx, "publisher recovered, circuit closed", "publisher", g.name)
			g.metrics.SetCircuitOpen(g.name, false)
		}
		return nil
	}

	useFallback, change := g.breaker.RecordFailure()
	if change.Opened {
		g.logger.WarnContext(ctx, "publisher unhealthy, circuit opened",
			"publisher", g.name,
			"error", err,
		)
		g.metrics.SetCircuitOpen(g.name, true)
	}
	if useFallback && g.fallback != nil {
		if fbErr := g.fallback.Publish(ctx, channel, env); fbErr != nil {
			return errors.Join(err, fbErr)
		}
		return nil
	}
	return err
}
