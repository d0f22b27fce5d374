package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "tempo/pkg/domain"
	audit "tempo/pkg/platform/audit"
	txcontext "tempo/pkg/platform/tx"
)

// Store appends ledger entries to clock_ledger. Inside a transaction carried
// by ctx the entry commits or rolls back with the clock transition.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL ledger store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO clock_ledger (id, session_id, action, outcome, from_state, to_state, device_id, request_id, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		entry.ID,
		uuid.UUID(entry.SessionID),
		entry.Action,
		entry.Outcome,
		nullString(entry.FromState),
		nullString(entry.ToState),
		nullString(entry.DeviceID),
		nullString(entry.RequestID),
		entry.At,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// ListBySession returns a session's entries oldest first.
func (s *Store) ListBySession(ctx context.Context, sessionID id.SessionID) ([]audit.Entry, error) {
	query := `
		SELECT id, session_id, action, outcome, from_state, to_state, device_id, request_id, at
		FROM clock_ledger
		WHERE session_id = $1
		ORDER BY at, seq
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(sessionID))
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []audit.Entry
	for rows.Next() {
		var (
			e          audit.Entry
			rawSession uuid.UUID
			fromState  sql.NullString
			toState    sql.NullString
			device     sql.NullString
			request    sql.NullString
		)
		if err := rows.Scan(&e.ID, &rawSession, &e.Action, &e.Outcome, &fromState, &toState, &device, &request, &e.At); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.SessionID = id.SessionID(rawSession)
		e.FromState, e.ToState = fromState.String, toState.String
		e.DeviceID, e.RequestID = device.String, request.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
