package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	attendancemodels "tempo/internal/attendance/models"
	id "tempo/pkg/domain"
)

const (
	cacheKeyPrefix = "tempo:contract_employee:"
	// noEmployee marks contracts known to have no employee so they are not
	// looked up on every event.
	noEmployee = "-"
)

// Resolver is the emitter-facing contract.
type Resolver interface {
	ResolveEmployee(ctx context.Context, ref attendancemodels.ScheduleRef) (id.EmployeeID, bool)
}

// Cached fronts a Resolver with a Redis read-through cache keyed by contract.
type Cached struct {
	client redis.UniversalClient
	next   Resolver
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps next. A zero ttl defaults to five minutes.
func NewCached(client redis.UniversalClient, next Resolver, ttl time.Duration, logger *slog.Logger) *Cached {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{client: client, next: next, ttl: ttl, logger: logger}
}

// ResolveEmployee implements events.EmployeeResolver.
func (c *Cached) ResolveEmployee(ctx context.Context, ref attendancemodels.ScheduleRef) (id.EmployeeID, bool) {
	if ref.ContractID.IsNil() {
		return id.EmployeeID{}, false
	}
	key := cacheKeyPrefix + ref.ContractID.String()

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == noEmployee {
			return id.EmployeeID{}, false
		}
		if employeeID, parseErr := id.ParseEmployeeID(cached); parseErr == nil {
			return employeeID, true
		}
		// unreadable entry: fall through and overwrite it
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "employee cache read failed",
			"contract_id", ref.ContractID.String(),
			"error", err,
		)
	}

	employeeID, ok := c.next.ResolveEmployee(ctx, ref)
	value := noEmployee
	if ok {
		value = employeeID.String()
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "employee cache write failed",
			"contract_id", ref.ContractID.String(),
			"error", err,
		)
	}
	return employeeID, ok
}

// Invalidate drops the cached answer for a contract, used when a contract is
// reassigned.
func (c *Cached) Invalidate(ctx context.Context, contractID id.ContractID) error {
	return c.client.Del(ctx, cacheKeyPrefix+contractID.String()).Err()
}
