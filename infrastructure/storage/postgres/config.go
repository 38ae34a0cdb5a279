// Package postgres provides a PostgreSQL-backed episode journal.
package postgres

import (
	"errors"
	"time"
)

// ErrMigrationFailed is returned when the journal table cannot be created.
var ErrMigrationFailed = errors.New("postgres: migration failed")

// Config configures the PostgreSQL journal.
type Config struct {
	// DSN is a libpq connection string or postgres:// URL.
	DSN string

	// Schema holds the journal table. Defaults to public.
	Schema string

	MaxConns       int32
	ConnectTimeout time.Duration

	// AutoMigrate creates the schema and table when missing.
	AutoMigrate bool
}

// Option configures the PostgreSQL journal.
type Option func(*Config)

// WithDSN sets the connection string.
func WithDSN(dsn string) Option {
	return func(c *Config) {
		c.DSN = dsn
	}
}

// WithSchema sets the schema holding the journal table.
func WithSchema(schema string) Option {
	return func(c *Config) {
		c.Schema = schema
	}
}

// DefaultConfig returns the configuration used by the guardian CLI.
func DefaultConfig() Config {
	return Config{
		DSN:            "postgres://localhost:5432/guardian?sslmode=disable",
		Schema:         "public",
		MaxConns:       4,
		ConnectTimeout: 10 * time.Second,
		AutoMigrate:    true,
	}
}
