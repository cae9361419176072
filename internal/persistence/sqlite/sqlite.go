package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/bookme/internal/persistence"
	_ "modernc.org/sqlite"
)

// Storage wraps a SQLite database handle shared by the repositories.
//
// The pool is capped at a single connection: SQLite serializes writers
// anyway, and a single connection makes every transaction fully serializable,
// including the overlap-check-then-insert sequence in BookingRepository.
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given DSN.
func Open(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying handle for test helpers.
func (s *Storage) DB() *sql.DB {
	return s.db
}

// WithTransaction runs fn inside a transaction, rolling back on error or
// panic and committing otherwise.
func (s *Storage) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}

	return nil
}

// migrations holds the ordered schema history. Each entry runs at most once;
// applied versions are tracked in schema_migrations.
var migrations = []struct {
	version string
	sql     string
}{
	{
		version: "001_users",
		sql: `CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'EMPLOYEE',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},
	{
		version: "002_rooms",
		sql: `CREATE TABLE IF NOT EXISTS rooms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			location TEXT NOT NULL,
			capacity INTEGER NOT NULL CHECK (capacity >= 0),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},
	{
		version: "003_bookings",
		sql: `CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			participants INTEGER NOT NULL CHECK (participants >= 0),
			repeat_pattern TEXT,
			creator TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},
	{
		version: "004_bookings_room_range_index",
		sql:     `CREATE INDEX IF NOT EXISTS idx_bookings_room_range ON bookings (room_id, start_date, end_date)`,
	},
}

// Migrate applies any pending schema migrations in order.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("sqlite: initialize schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.version).Scan(&count); err != nil {
			return fmt.Errorf("sqlite: check migration %s: %w", m.version, err)
		}
		if count > 0 {
			continue
		}

		err := s.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.sql); err != nil {
				return err
			}
			_, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("sqlite: apply migration %s: %w", m.version, err)
		}
	}

	return nil
}

// mapError translates driver error text into persistence sentinels. The
// driver does not expose structured error codes, so this matches on the
// constraint names SQLite embeds in its messages.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", persistence.ErrDuplicate, msg)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %s", persistence.ErrForeignKeyViolation, msg)
	case strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %s", persistence.ErrConstraintViolation, msg)
	}

	return err
}
