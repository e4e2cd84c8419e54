package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite" // The pure Go SQLite driver
)

// Service manages the single on-device SQLite database that holds the
// round event log, saved scorecards, and player profiles.
//
// SQLite allows many concurrent readers but only one writer, so every write
// goes through Write(), which serializes callers behind a mutex and wraps
// the work in a transaction. Reads go straight to the shared handle.
type Service struct {
	dbPath string

	db        *sql.DB
	writeLock sync.Mutex
}

// NewService opens the database file and verifies the connection is alive.
// The file is created on first use; Init must still be called to set up the
// schema before the service is used.
func NewService(dbPath string) (*Service, error) {
	db, err := sql.Open("sqlite", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", dbPath, err)
	}

	return &Service{
		dbPath: dbPath,
		db:     db,
	}, nil
}

// Write executes a write operation (INSERT, UPDATE, DELETE) within a
// transaction, protected by the service mutex to ensure serial access.
// If writeFunc returns an error the transaction is rolled back and nothing
// it did is visible. This is what gives batch appends and round deletion
// their all-or-nothing semantics.
func (s *Service) Write(writeFunc func(tx *sql.Tx) error) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return &StorageError{Op: "begin", Err: err}
	}

	if err := writeFunc(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return &StorageError{Op: "rollback", Err: fmt.Errorf("write error: %v, rollback error: %v", err, rbErr)}
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "commit", Err: err}
	}
	return nil
}

// DB provides direct access to the underlying handle for read queries.
func (s *Service) DB() *sql.DB {
	return s.db
}

// Close closes the database connection when the application shuts down.
func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		slog.Warn("closing database", "path", s.dbPath, "error", err)
		return
	}
	slog.Info("database connection closed", "path", s.dbPath)
}

// Init sets up the schema if the tables don't exist.
// This is idempotent and safe to run on every application start.
func (s *Service) Init() error {
	return s.Write(func(tx *sql.Tx) error {
		// The event log. The composite primary key (round_id, timestamp)
		// gives retried appends replace-on-same-key idempotence within a
		// round without letting two different rounds clobber each other
		// when they happen to share a millisecond.
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS round_events (
				round_id INTEGER NOT NULL,
				timestamp INTEGER NOT NULL,
				event_type TEXT NOT NULL,
				event_data TEXT NOT NULL,
				player_id INTEGER NOT NULL,
				PRIMARY KEY (round_id, timestamp)
			);`)
		if err != nil {
			return &StorageError{Op: "init round_events", Err: err}
		}

		_, err = tx.Exec(`
			CREATE INDEX IF NOT EXISTS idx_round_events_round_type
			ON round_events (round_id, event_type);`)
		if err != nil {
			return &StorageError{Op: "init round_events index", Err: err}
		}

		// Scorecards are stored independently of the event log: one row per
		// round, with the par map and per-hole stats serialized as JSON.
		_, err = tx.Exec(`
			CREATE TABLE IF NOT EXISTS score_cards (
				round_id INTEGER PRIMARY KEY,
				player_id INTEGER NOT NULL,
				course_id INTEGER NOT NULL,
				course_name TEXT NOT NULL,
				course_par_json TEXT NOT NULL,
				hole_stats_json TEXT NOT NULL,
				round_in_progress INTEGER NOT NULL DEFAULT 1,
				created_timestamp INTEGER NOT NULL,
				last_updated_timestamp INTEGER NOT NULL
			);`)
		if err != nil {
			return &StorageError{Op: "init score_cards", Err: err}
		}

		// Player profiles for the companion API.
		_, err = tx.Exec(`
			CREATE TABLE IF NOT EXISTS players (
				id INTEGER PRIMARY KEY,
				name TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);`)
		if err != nil {
			return &StorageError{Op: "init players", Err: err}
		}

		return nil
	})
}
