// Package badger provides a BadgerDB-backed episode journal.
package badger

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Config configures the Badger journal.
type Config struct {
	// Dir holds the database files. Ignored when InMemory is set.
	Dir string

	InMemory bool

	// SyncWrites fsyncs every append. Off by default; a lost tail of journal
	// entries after a crash is acceptable.
	SyncWrites bool

	// GCInterval runs value-log GC periodically. Zero disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64

	// KeyPrefix namespaces journal keys when the database is shared.
	KeyPrefix string
}

// Option configures the Badger journal.
type Option func(*Config)

// WithDir sets the data directory.
func WithDir(dir string) Option {
	return func(c *Config) {
		c.Dir = dir
	}
}

// WithInMemory keeps the journal in memory only.
func WithInMemory() Option {
	return func(c *Config) {
		c.InMemory = true
	}
}

// DefaultConfig returns the configuration used by the guardian CLI.
func DefaultConfig() Config {
	return Config{
		Dir:            "journal",
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
		KeyPrefix:      "goap:",
	}
}

// ErrConnectionFailed is returned when the database cannot be opened.
var ErrConnectionFailed = errors.New("badger: connection failed")

func openDB(cfg Config) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return db, nil
}
