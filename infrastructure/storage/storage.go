// Package storage opens the configured episode journal backend.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/goap-go/domain/config"
	"github.com/felixgeelhaar/goap-go/domain/journal"
	"github.com/felixgeelhaar/goap-go/infrastructure/resilience"
	"github.com/felixgeelhaar/goap-go/infrastructure/storage/badger"
	"github.com/felixgeelhaar/goap-go/infrastructure/storage/memory"
	"github.com/felixgeelhaar/goap-go/infrastructure/storage/mongodb"
	"github.com/felixgeelhaar/goap-go/infrastructure/storage/postgres"
	"github.com/felixgeelhaar/goap-go/infrastructure/storage/redis"
	"github.com/felixgeelhaar/goap-go/infrastructure/storage/sqlite"
)

// Backend names accepted by Open.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongoDB  = "mongodb"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the journal store for cfg and a closer releasing it. Appends
// are retried according to cfg.Retry. The none backend yields a nil store.
// ctx bounds connecting to network backends.
func Open(ctx context.Context, cfg config.JournalConfig) (journal.Store, io.Closer, error) {
	var (
		store  journal.Store
		closer io.Closer = nopCloser{}
	)

	switch strings.ToLower(cfg.Backend) {
	case BackendNone:
		return nil, closer, nil

	case "", BackendMemory:
		store = memory.NewJournalStore()

	case BackendSQLite:
		opts := []sqlite.Option{}
		if cfg.DSN != "" {
			opts = append(opts, sqlite.WithDSN(cfg.DSN))
		}
		s, err := sqlite.NewJournalStore(sqlite.DefaultConfig(), opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", journal.ErrConnectionFailed, err)
		}
		store, closer = s, s

	case BackendBadger:
		s, err := badger.NewJournalStore(badger.DefaultConfig(), badger.WithDir(cfg.Dir))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", journal.ErrConnectionFailed, err)
		}
		store, closer = s, s

	case BackendPostgres:
		s, err := postgres.NewJournalStore(ctx, postgres.DefaultConfig(), postgres.WithDSN(cfg.DSN))
		if err != nil {
			return nil, nil, err
		}
		store, closer = s, s

	case BackendRedis:
		s, err := redis.NewJournalStore(ctx, redis.DefaultConfig(), redis.WithURL(cfg.DSN))
		if err != nil {
			return nil, nil, err
		}
		store, closer = s, s

	case BackendMongoDB:
		s, err := mongodb.NewJournalStore(ctx, mongodb.DefaultConfig(), mongodb.WithURI(cfg.DSN))
		if err != nil {
			return nil, nil, err
		}
		store, closer = s, s

	default:
		return nil, nil, fmt.Errorf("%w: %q", journal.ErrUnknownBackend, cfg.Backend)
	}

	retry := resilience.DefaultJournalConfig()
	if cfg.Retry.MaxAttempts > 0 {
		retry.RetryMaxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.InitialDelay > 0 {
		retry.RetryInitialDelay = time.Duration(cfg.Retry.InitialDelay)
	}
	if cfg.Retry.Multiplier > 0 {
		retry.RetryBackoffMultiplier = cfg.Retry.Multiplier
	}

	return resilience.NewRetryingStore(store, retry), closer, nil
}
