package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB wraps sql.DB for the salon agenda. It is the collaborator data layer the
// core reads snapshots from; the engine never mutates through it.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
	cache  *redisCache
}

// NewDB opens the database at path and runs migrations.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Weekly opening schedule, exactly one row per weekday 0-6.
		`CREATE TABLE IF NOT EXISTS weekly_schedule (
			weekday INTEGER PRIMARY KEY CHECK (weekday BETWEEN 0 AND 6),
			is_open BOOLEAN NOT NULL DEFAULT 1,
			open_time TEXT NOT NULL DEFAULT '09:00',
			close_time TEXT NOT NULL DEFAULT '19:00',
			break_start TEXT,
			break_end TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Workers
		`CREATE TABLE IF NOT EXISTS workers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			days_off TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Date-range closures, salon-wide or per worker
		`CREATE TABLE IF NOT EXISTS leaves (
			id TEXT PRIMARY KEY,
			scope TEXT NOT NULL CHECK (scope IN ('global', 'worker')),
			worker_id INTEGER NOT NULL DEFAULT 0,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			note TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Appointments
		`CREATE TABLE IF NOT EXISTS appointments (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			worker_id INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'confirmed',
			client_name TEXT NOT NULL,
			phone TEXT,
			email TEXT,
			service TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Waitlist requests
		`CREATE TABLE IF NOT EXISTS waitlist_requests (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			worker_id INTEGER NOT NULL DEFAULT 0,
			client_name TEXT NOT NULL,
			phone TEXT,
			service TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_leaves_dates ON leaves(start_date, end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date, worker_id)`,
		`CREATE INDEX IF NOT EXISTS idx_waitlist_date ON waitlist_requests(date, worker_id)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}

// Ping checks database liveness for the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}
