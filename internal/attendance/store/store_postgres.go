package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tempo/internal/attendance/models"
	id "tempo/pkg/domain"
	"tempo/pkg/platform/sentinel"
	txcontext "tempo/pkg/platform/tx"
)

const sessionColumns = `id, schedule_id, contract_id, shift_date, has_planned_break, state,
	clock_in, clock_out, planned_break, additional_breaks, version, created_at, updated_at`

// PostgresStore persists sessions in PostgreSQL. Execute takes a row lock
// (SELECT ... FOR UPDATE) for the duration of the mutation.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed session store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) conn(ctx context.Context) dbtx {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, session models.ClockSession) error {
	planned, additional, err := encodeBreaks(session)
	if err != nil {
		return err
	}
	res, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO clock_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING
	`,
		uuid.UUID(session.ID),
		uuid.UUID(session.Schedule.ScheduleID),
		uuid.UUID(session.Schedule.ContractID),
		session.Schedule.ShiftDate.Format(time.DateOnly),
		session.Schedule.HasPlannedBreak,
		string(session.State),
		session.ClockIn,
		session.ClockOut,
		planned,
		additional,
		session.Version,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session %s: %w", session.ID, sentinel.ErrConflict)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, sessionID id.SessionID) (models.ClockSession, error) {
	row := s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM clock_sessions WHERE id = $1`, uuid.UUID(sessionID))
	return scanSession(row, sessionID)
}

func (s *PostgresStore) ListByShiftDate(ctx context.Context, from, to time.Time) ([]models.ClockSession, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM clock_sessions
		WHERE shift_date >= $1::date AND shift_date < $2::date
		ORDER BY shift_date, id
	`, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("list sessions by shift date: %w", err)
	}
	return collectSessions(rows)
}

func (s *PostgresStore) Execute(ctx context.Context, sessionID id.SessionID, fn MutateFunc) (models.ClockSession, error) {
	var result models.ClockSession
	err := txcontext.Run(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+sessionColumns+` FROM clock_sessions WHERE id = $1 FOR UPDATE`, uuid.UUID(sessionID))
		current, err := scanSession(row, sessionID)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		planned, additional, err := encodeBreaks(next)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE clock_sessions
			SET state = $2, clock_in = $3, clock_out = $4, planned_break = $5,
				additional_breaks = $6, version = $7, updated_at = $8
			WHERE id = $1
		`,
			uuid.UUID(sessionID),
			string(next.State),
			next.ClockIn,
			next.ClockOut,
			planned,
			additional,
			next.Version,
			next.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		result = next
		return nil
	})
	if err != nil {
		return models.ClockSession{}, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner, sessionID id.SessionID) (models.ClockSession, error) {
	session, err := scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ClockSession{}, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
		}
		return models.ClockSession{}, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

func collectSessions(rows *sql.Rows) ([]models.ClockSession, error) {
	defer rows.Close()
	var out []models.ClockSession
	for rows.Next() {
		session, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func scanRow(row rowScanner) (models.ClockSession, error) {
	var (
		sessionID, scheduleID, contractID uuid.UUID
		state                             string
		clockIn, clockOut                 sql.NullTime
		planned                           []byte
		additional                        []byte
		session                           models.ClockSession
	)
	err := row.Scan(
		&sessionID, &scheduleID, &contractID,
		&session.Schedule.ShiftDate, &session.Schedule.HasPlannedBreak, &state,
		&clockIn, &clockOut, &planned, &additional,
		&session.Version, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return models.ClockSession{}, err
	}
	session.ID = id.SessionID(sessionID)
	session.Schedule.ScheduleID = id.ScheduleID(scheduleID)
	session.Schedule.ContractID = id.ContractID(contractID)
	session.Schedule.ShiftDate = session.Schedule.ShiftDate.UTC()
	session.State = models.State(state)
	if clockIn.Valid {
		t := clockIn.Time
		session.ClockIn = &t
	}
	if clockOut.Valid {
		t := clockOut.Time
		session.ClockOut = &t
	}
	if len(planned) > 0 && string(planned) != "null" {
		var b models.Break
		if err := json.Unmarshal(planned, &b); err != nil {
			return models.ClockSession{}, fmt.Errorf("unmarshal planned break: %w", err)
		}
		session.PlannedBreak = &b
	}
	session.AdditionalBreaks = []models.Break{}
	if len(additional) > 0 {
		if err := json.Unmarshal(additional, &session.AdditionalBreaks); err != nil {
			return models.ClockSession{}, fmt.Errorf("unmarshal additional breaks: %w", err)
		}
	}
	return session, nil
}

func encodeBreaks(session models.ClockSession) (planned []byte, additional []byte, err error) {
	if session.PlannedBreak != nil {
		planned, err = json.Marshal(session.PlannedBreak)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal planned break: %w", err)
		}
	}
	breaks := session.AdditionalBreaks
	if breaks == nil {
		breaks = []models.Break{}
	}
	additional, err = json.Marshal(breaks)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal additional breaks: %w", err)
	}
	return planned, additional, nil
}
