package jornada

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// timestamps are stored in UTC with fixed width so that text order is time order
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS work_sessions (
		id               TEXT PRIMARY KEY,
		date             TEXT NOT NULL,
		start_at         TEXT NOT NULL,
		end_at           TEXT,
		is_active        INTEGER NOT NULL,
		regular_hours    REAL NOT NULL DEFAULT 0,
		extra_hours      REAL NOT NULL DEFAULT 0,
		total_hours      REAL NOT NULL DEFAULT 0,
		work_description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_work_sessions_date ON work_sessions(date, start_at)`,
	// at most one open session per date
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_work_sessions_active ON work_sessions(date) WHERE is_active = 1`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

const lastEventAtSetting = "last_event_at"

// OpenSQLite opens (creating if needed) the session database at path and
// applies the schema. ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	for i, stmt := range sqliteMigrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return db, nil
}

// SQLiteRepository implements Repository on a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sessionColumns = `id, date, start_at, end_at, is_active, regular_hours, extra_hours, total_hours, work_description`

func (r *SQLiteRepository) Create(ctx context.Context, s WorkSession) (WorkSession, error) {
	s.ID = uuid.NewString()
	query := `INSERT INTO work_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		string(s.Date),
		s.StartAt.UTC().Format(sqliteTimeLayout),
		nullableTime(s.EndAt),
		boolToInt(s.IsActive),
		s.RegularHours,
		s.ExtraHours,
		s.TotalHours,
		s.WorkDescription,
	)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return WorkSession{}, fmt.Errorf("inserting work session: %w", ErrAlreadyActive)
		}
		return WorkSession{}, fmt.Errorf("inserting work session: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, u SessionUpdate) (WorkSession, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkSession{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM work_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		return WorkSession{}, err
	}
	if !s.IsActive {
		return WorkSession{}, fmt.Errorf("work session %s: %w", id, ErrSessionClosed)
	}
	s = u.apply(s)

	query := `UPDATE work_sessions
		SET end_at = ?, is_active = 0, regular_hours = ?, extra_hours = ?, total_hours = ?, work_description = ?
		WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query,
		nullableTime(s.EndAt),
		s.RegularHours,
		s.ExtraHours,
		s.TotalHours,
		s.WorkDescription,
		id,
	); err != nil {
		return WorkSession{}, fmt.Errorf("updating work session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return WorkSession{}, fmt.Errorf("committing work session update: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Filter(ctx context.Context, f Filter) ([]WorkSession, error) {
	var where []string
	var args []any
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, string(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, string(f.To))
	}
	if f.Active != nil {
		where = append(where, "is_active = ?")
		args = append(args, boolToInt(*f.Active))
	}

	query := `SELECT ` + sessionColumns + ` FROM work_sessions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if f.Order == OrderDateDesc {
		query += ` ORDER BY date DESC, start_at ASC`
	} else {
		query += ` ORDER BY date ASC, start_at ASC`
	}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering work sessions: %w", err)
	}
	defer rows.Close()

	var ss []WorkSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		ss = append(ss, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work sessions: %w", err)
	}
	return ss, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (WorkSession, error) {
	var s WorkSession
	var date, startAt string
	var endAt sql.NullString
	var active int
	err := row.Scan(&s.ID, &date, &startAt, &endAt, &active, &s.RegularHours, &s.ExtraHours, &s.TotalHours, &s.WorkDescription)
	if errors.Is(err, sql.ErrNoRows) {
		return WorkSession{}, fmt.Errorf("work session: %w", ErrNotFound)
	} else if err != nil {
		return WorkSession{}, fmt.Errorf("scanning work session: %w", err)
	}

	s.Date = Date(date)
	s.IsActive = active == 1
	st, err := time.Parse(sqliteTimeLayout, startAt)
	if err != nil {
		return WorkSession{}, fmt.Errorf("parsing start_at: %w", err)
	}
	s.StartAt = st.Local()
	if endAt.Valid && endAt.String != "" {
		et, err := time.Parse(sqliteTimeLayout, endAt.String)
		if err != nil {
			return WorkSession{}, fmt.Errorf("parsing end_at: %w", err)
		}
		et = et.Local()
		s.EndAt = &et
	}
	return s, nil
}

func (r *SQLiteRepository) SaveLastEventAt(ctx context.Context, t time.Time) error {
	query := `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, lastEventAtSetting, t.UTC().Format(sqliteTimeLayout)); err != nil {
		return fmt.Errorf("saving last event time: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) LastEventAt(ctx context.Context) (time.Time, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, lastEventAtSetting).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	} else if err != nil {
		return time.Time{}, fmt.Errorf("reading last event time: %w", err)
	}
	t, err := time.Parse(sqliteTimeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing last event time: %w", err)
	}
	return t.Local(), nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(sqliteTimeLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
