package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"tempo/internal/schedule/models"
	id "tempo/pkg/domain"
	"tempo/pkg/platform/sentinel"
	txcontext "tempo/pkg/platform/tx"
)

const scheduleColumns = `id, session_id, contract_id, shift_date, start_time, end_time,
	planned_break_start, planned_break_end`

// PostgresStore persists schedules and contracts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed schedule store.
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

func (s *PostgresStore) SaveSchedule(ctx context.Context, def models.ScheduleDefinition) error {
	res, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO schedule_definitions (`+scheduleColumns+`)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE
		SET start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			planned_break_start = EXCLUDED.planned_break_start,
			planned_break_end = EXCLUDED.planned_break_end
		WHERE schedule_definitions.id = EXCLUDED.id
	`,
		uuid.UUID(def.ID),
		uuid.UUID(def.SessionID),
		uuid.UUID(def.ContractID),
		def.ShiftDate.Format(time.DateOnly),
		def.Start.String(),
		def.End.String(),
		nullClockTime(def.PlannedBreakStart),
		nullClockTime(def.PlannedBreakEnd),
	)
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("schedule for session %s: %w", def.SessionID, sentinel.ErrConflict)
	}
	return nil
}

func (s *PostgresStore) FindBySession(ctx context.Context, sessionID id.SessionID) (models.ScheduleDefinition, error) {
	row := s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedule_definitions WHERE session_id = $1`, uuid.UUID(sessionID))
	def, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ScheduleDefinition{}, fmt.Errorf("schedule for session %s: %w", sessionID, sentinel.ErrNotFound)
		}
		return models.ScheduleDefinition{}, fmt.Errorf("find schedule: %w", err)
	}
	return def, nil
}

func (s *PostgresStore) ForSessions(ctx context.Context, ids []id.SessionID) (map[id.SessionID]models.ScheduleDefinition, error) {
	out := make(map[id.SessionID]models.ScheduleDefinition, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, sid := range ids {
		raw[i] = sid.String()
	}
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedule_definitions WHERE session_id = ANY($1::uuid[])`,
		pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("find schedules for sessions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		def, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out[def.SessionID] = def
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SaveContract(ctx context.Context, contract models.Contract) error {
	var employee any
	if contract.EmployeeID != nil {
		employee = uuid.UUID(*contract.EmployeeID)
	}
	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO contracts (id, employee_id) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET employee_id = EXCLUDED.employee_id
	`, uuid.UUID(contract.ID), employee)
	if err != nil {
		return fmt.Errorf("save contract: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindContract(ctx context.Context, contractID id.ContractID) (models.Contract, error) {
	var employee uuid.NullUUID
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT employee_id FROM contracts WHERE id = $1`, uuid.UUID(contractID)).Scan(&employee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contract{}, fmt.Errorf("contract %s: %w", contractID, sentinel.ErrNotFound)
		}
		return models.Contract{}, fmt.Errorf("find contract: %w", err)
	}
	contract := models.Contract{ID: contractID}
	if employee.Valid {
		e := id.EmployeeID(employee.UUID)
		contract.EmployeeID = &e
	}
	return contract, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (models.ScheduleDefinition, error) {
	var (
		scheduleID, sessionID, contractID uuid.UUID
		start, end                        string
		breakStart, breakEnd              sql.NullString
		def                               models.ScheduleDefinition
	)
	if err := row.Scan(&scheduleID, &sessionID, &contractID, &def.ShiftDate, &start, &end, &breakStart, &breakEnd); err != nil {
		return models.ScheduleDefinition{}, err
	}
	def.ID = id.ScheduleID(scheduleID)
	def.SessionID = id.SessionID(sessionID)
	def.ContractID = id.ContractID(contractID)
	def.ShiftDate = def.ShiftDate.UTC()

	var err error
	if def.Start, err = models.ParseClockTime(start); err != nil {
		return models.ScheduleDefinition{}, fmt.Errorf("start_time: %w", err)
	}
	if def.End, err = models.ParseClockTime(end); err != nil {
		return models.ScheduleDefinition{}, fmt.Errorf("end_time: %w", err)
	}
	if def.PlannedBreakStart, err = parseNullClockTime(breakStart); err != nil {
		return models.ScheduleDefinition{}, fmt.Errorf("planned_break_start: %w", err)
	}
	if def.PlannedBreakEnd, err = parseNullClockTime(breakEnd); err != nil {
		return models.ScheduleDefinition{}, fmt.Errorf("planned_break_end: %w", err)
	}
	return def, nil
}

func nullClockTime(ct *models.ClockTime) sql.NullString {
	if ct == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: ct.String(), Valid: true}
}

func parseNullClockTime(ns sql.NullString) (*models.ClockTime, error) {
	if !ns.Valid {
		return nil, nil
	}
	ct, err := models.ParseClockTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &ct, nil
}
