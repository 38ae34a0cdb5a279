// Package sqlite provides a SQLite-backed episode journal.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Config configures the SQLite journal.
type Config struct {
	// DSN is the data source name, e.g. "file:guardian.db?mode=rwc".
	DSN string

	// AutoMigrate creates the journal table when missing.
	AutoMigrate bool

	// WAL switches the database to write-ahead logging so readers do not
	// block the episode that is appending.
	WAL bool

	// BusyTimeout bounds how long a writer waits on a locked database.
	BusyTimeout time.Duration
}

// Option configures the SQLite journal.
type Option func(*Config)

// WithDSN sets the data source name.
func WithDSN(dsn string) Option {
	return func(c *Config) {
		c.DSN = dsn
	}
}

// WithBusyTimeout sets the lock wait.
func WithBusyTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.BusyTimeout = d
	}
}

// DefaultConfig returns the configuration used by the guardian CLI.
func DefaultConfig() Config {
	return Config{
		DSN:         "file:guardian.db?mode=rwc",
		AutoMigrate: true,
		WAL:         true,
		BusyTimeout: 5 * time.Second,
	}
}

var (
	ErrConnectionFailed = errors.New("sqlite: connection failed")
	ErrMigrationFailed  = errors.New("sqlite: migration failed")
)

// openDB opens the journal database. SQLite serializes writers, so the pool
// holds a single connection and concurrent episodes queue on it.
func openDB(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	db.SetMaxOpenConns(1)

	if cfg.WAL {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, errors.Join(ErrMigrationFailed, err)
		}
	}
	if cfg.BusyTimeout > 0 {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.BusyTimeout.Milliseconds())); err != nil {
			_ = db.Close()
			return nil, errors.Join(ErrMigrationFailed, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return db, nil
}
