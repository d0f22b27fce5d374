package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "tempo/pkg/domain-errors"
	txcontext "tempo/pkg/platform/tx"
)

const defaultPlanningTxTimeout = 5 * time.Second

// planningPostgresTx makes the schedule and session writes of one planning
// request commit together.
type planningPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newPlanningPostgresTx(db *sql.DB) *planningPostgresTx {
	return &planningPostgresTx{db: db}
}

func (t *planningPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultPlanningTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return txcontext.Run(ctx, t.db, func(ctx context.Context, _ *sql.Tx) error {
		return fn(ctx)
	})
}
