package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/goap-go/domain/journal"
)

// JournalStore is a SQLite-backed implementation of journal.Store.
type JournalStore struct {
	db *sql.DB
}

// NewJournalStore opens a SQLite journal with the given configuration.
func NewJournalStore(cfg Config, opts ...Option) (*JournalStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &JournalStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewJournalStoreFromDB creates a journal from an existing database connection.
func NewJournalStoreFromDB(db *sql.DB) (*JournalStore, error) {
	s := &JournalStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JournalStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS journal (
			id TEXT PRIMARY KEY,
			episode_id TEXT NOT NULL,
			type TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			timestamp INTEGER NOT NULL,
			data BLOB NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_journal_episode_seq ON journal(episode_id, sequence);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Append persists one or more entries in a single transaction.
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO journal (id, episode_id, type, sequence, timestamp, data)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	sequences := make(map[string]uint64)
	for _, e := range entries {
		if _, ok := sequences[e.EpisodeID]; ok {
			continue
		}
		var maxSeq sql.NullInt64
		err := tx.QueryRowContext(ctx,
			"SELECT MAX(sequence) FROM journal WHERE episode_id = ?",
			e.EpisodeID,
		).Scan(&maxSeq)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		sequences[e.EpisodeID] = uint64(maxSeq.Int64)
	}

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

		_, err = stmt.ExecContext(ctx,
			e.ID, e.EpisodeID, string(e.Type), e.Sequence, e.Timestamp.UnixNano(), data,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load retrieves all entries for an episode in sequence order.
func (s *JournalStore) Load(ctx context.Context, episodeID string) ([]journal.Entry, error) {
	return s.LoadFrom(ctx, episodeID, 0)
}

// LoadFrom retrieves entries starting from a specific sequence number.
func (s *JournalStore) LoadFrom(ctx context.Context, episodeID string, fromSeq uint64) ([]journal.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM journal WHERE episode_id = ? AND sequence >= ? ORDER BY sequence",
		episodeID, fromSeq,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := []journal.Entry{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e journal.Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of entries for an episode.
func (s *JournalStore) Count(ctx context.Context, episodeID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM journal WHERE episode_id = ?",
		episodeID,
	).Scan(&n)
	return n, err
}

// ListEpisodes returns all episode IDs with entries, sorted.
func (s *JournalStore) ListEpisodes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT episode_id FROM journal ORDER BY episode_id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database connection.
func (s *JournalStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *JournalStore) DB() *sql.DB {
	return s.db
}

var (
	_ journal.Store   = (*JournalStore)(nil)
	_ journal.Querier = (*JournalStore)(nil)
)
