package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/goap-go/domain/journal"
)

// JournalStore is a PostgreSQL-backed implementation of journal.Store.
type JournalStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewJournalStore connects to PostgreSQL and, with AutoMigrate, creates the
// journal table.
func NewJournalStore(ctx context.Context, cfg Config, opts ...Option) (*JournalStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}

	s := NewJournalStoreFromPool(pool, cfg.Schema)
	if cfg.AutoMigrate {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return s, nil
}

// NewJournalStoreFromPool creates a journal on an existing pool. The table
// must already exist.
func NewJournalStoreFromPool(pool *pgxpool.Pool, schema string) *JournalStore {
	if schema == "" {
		schema = "public"
	}
	return &JournalStore{pool: pool, schema: schema}
}

func (s *JournalStore) tableName() string {
	return s.schema + ".journal"
}

func (s *JournalStore) migrate(ctx context.Context) error {
	ddl := []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", s.schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			episode_id TEXT NOT NULL,
			type TEXT NOT NULL,
			sequence BIGINT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			data JSONB NOT NULL,
			UNIQUE (episode_id, sequence)
		)`, s.tableName()),
	}
	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return errors.Join(ErrMigrationFailed, err)
		}
	}
	return nil
}

// Append persists entries in one transaction. Sequence numbers continue from
// the highest stored for each episode.
func (s *JournalStore) Append(ctx context.Context, entries ...journal.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return s.wrapError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sequences := make(map[string]uint64)
	for _, e := range entries {
		if _, ok := sequences[e.EpisodeID]; ok {
			continue
		}
		var maxSeq int64
		err := tx.QueryRow(ctx,
			fmt.Sprintf("SELECT COALESCE(MAX(sequence), 0) FROM %s WHERE episode_id = $1", s.tableName()),
			e.EpisodeID,
		).Scan(&maxSeq)
		if err != nil {
			return s.wrapError(err)
		}
		sequences[e.EpisodeID] = uint64(maxSeq)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, episode_id, type, sequence, timestamp, data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.tableName())

	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		sequences[e.EpisodeID]++
		e.Sequence = sequences[e.EpisodeID]

		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insert,
			e.ID, e.EpisodeID, string(e.Type), int64(e.Sequence), e.Timestamp, data,
		); err != nil {
			return s.wrapError(err)
		}
	}

	return s.wrapError(tx.Commit(ctx))
}

// Load retrieves all entries for an episode in sequence order.
func (s *JournalStore) Load(ctx context.Context, episodeID string) ([]journal.Entry, error) {
	return s.LoadFrom(ctx, episodeID, 0)
}

// LoadFrom retrieves entries with Sequence >= fromSeq.
func (s *JournalStore) LoadFrom(ctx context.Context, episodeID string, fromSeq uint64) ([]journal.Entry, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf("SELECT data FROM %s WHERE episode_id = $1 AND sequence >= $2 ORDER BY sequence", s.tableName()),
		episodeID, int64(fromSeq),
	)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	entries := []journal.Entry{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, s.wrapError(err)
		}
		var e journal.Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, s.wrapError(rows.Err())
}

// Count returns the number of entries for an episode.
func (s *JournalStore) Count(ctx context.Context, episodeID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE episode_id = $1", s.tableName()),
		episodeID,
	).Scan(&n)
	return n, s.wrapError(err)
}

// ListEpisodes returns all episode IDs with entries, sorted.
func (s *JournalStore) ListEpisodes(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf("SELECT DISTINCT episode_id FROM %s ORDER BY episode_id", s.tableName()),
	)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, s.wrapError(err)
		}
		ids = append(ids, id)
	}
	return ids, s.wrapError(rows.Err())
}

// Close releases the pool.
func (s *JournalStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// wrapError marks backend failures with journal.ErrConnectionFailed. Context
// errors pass through so callers can tell cancellation apart.
func (s *JournalStore) wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Join(journal.ErrConnectionFailed, err)
}

var (
	_ journal.Store   = (*JournalStore)(nil)
	_ journal.Querier = (*JournalStore)(nil)
)
