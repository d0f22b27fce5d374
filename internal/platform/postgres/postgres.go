// Package postgres opens the shared database/sql pool (pgx stdlib driver) and
// owns the tables the attendance stores read and write.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"tempo/internal/platform/config"
)

// Open connects and pings. Returns nil, nil when no URL is configured.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the attendance tables if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS contracts (
	id          UUID PRIMARY KEY,
	employee_id UUID NULL
);

CREATE TABLE IF NOT EXISTS schedule_definitions (
	id                  UUID PRIMARY KEY,
	session_id          UUID NOT NULL UNIQUE,
	contract_id         UUID NOT NULL,
	shift_date          DATE NOT NULL,
	start_time          TEXT NOT NULL,
	end_time            TEXT NOT NULL,
	planned_break_start TEXT NULL,
	planned_break_end   TEXT NULL
);

CREATE TABLE IF NOT EXISTS clock_sessions (
	id                UUID PRIMARY KEY,
	schedule_id       UUID NOT NULL,
	contract_id       UUID NOT NULL,
	shift_date        DATE NOT NULL,
	has_planned_break BOOLEAN NOT NULL DEFAULT FALSE,
	state             TEXT NOT NULL,
	clock_in          TIMESTAMPTZ NULL,
	clock_out         TIMESTAMPTZ NULL,
	planned_break     JSONB NULL,
	additional_breaks JSONB NOT NULL DEFAULT '[]'::jsonb,
	version           BIGINT NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS clock_sessions_shift_date_idx ON clock_sessions (shift_date);

CREATE TABLE IF NOT EXISTS clock_ledger (
	seq        BIGSERIAL PRIMARY KEY,
	id         UUID NOT NULL UNIQUE,
	session_id UUID NOT NULL,
	action     TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	from_state TEXT NULL,
	to_state   TEXT NULL,
	device_id  TEXT NULL,
	request_id TEXT NULL,
	at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS clock_ledger_session_idx ON clock_ledger (session_id, at);
`
