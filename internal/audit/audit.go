// Package audit keeps an operational log of booking attempts in sqlite.
// It is deliberately not a reservation store: rows record what was asked
// and what happened, the calendar remains the only occupancy ledger.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// Log is the sqlite-backed booking attempt log.
type Log struct {
	db     *sql.DB
	logger *zerolog.Logger
}

// Entry is one recorded booking attempt.
type Entry struct {
	ID         int64
	Restaurant string
	Date       string
	Time       string
	Party      int
	Outcome    string // confirmed, rejected, error
	EventID    string
	CreatedAt  time.Time
}

// Open initializes the audit database, creating the schema if needed.
func Open(path string, logger *zerolog.Logger) (*Log, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect audit database: %w", err)
	}

	l := &Log{db: db, logger: logger}
	if err := l.createTables(); err != nil {
		return nil, fmt.Errorf("create audit tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("audit log initialized")
	return l, nil
}

func (l *Log) createTables() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS booking_audit (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			restaurant TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			party INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			event_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_booking_audit_date ON booking_audit(restaurant, date);
	`)
	return err
}

// RecordBooking appends one attempt row.
func (l *Log) RecordBooking(ctx context.Context, restaurant, date, clock string, party int, outcome, eventID string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO booking_audit (restaurant, date, time, party, outcome, event_id) VALUES (?, ?, ?, ?, ?, ?)`,
		restaurant, date, clock, party, outcome, eventID,
	)
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

// Entries returns attempts for a restaurant, newest first. An empty slug
// returns everything.
func (l *Log) Entries(ctx context.Context, restaurant string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 1000
	}
	query := `SELECT id, restaurant, date, time, party, outcome, event_id, created_at
		FROM booking_audit`
	args := []any{}
	if restaurant != "" {
		query += ` WHERE restaurant = ?`
		args = append(args, restaurant)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Restaurant, &e.Date, &e.Time, &e.Party, &e.Outcome, &e.EventID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (l *Log) Close() error {
	return l.db.Close()
}
