package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/goap-go/domain/journal"
)

// JournalStore is a BadgerDB-backed implementation of journal.Store.
type JournalStore struct {
	db        *badger.DB
	keyPrefix string
	gcStop    chan struct{}
	gcWg      sync.WaitGroup
	closeOnce sync.Once
}

// NewJournalStore opens a BadgerDB journal with the given configuration.
func NewJournalStore(cfg Config, opts ...Option) (*JournalStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := NewJournalStoreFromDB(db, cfg.KeyPrefix)
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.startGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}

	return s, nil
}

// NewJournalStoreFromDB creates a journal from an existing BadgerDB database.
func NewJournalStoreFromDB(db *badger.DB, keyPrefix string) *JournalStore {
	return &JournalStore{
		db:        db,
		keyPrefix: keyPrefix,
		gcStop:    make(chan struct{}),
	}
}

func (s *JournalStore) startGC(interval time.Duration, discardRatio float64) {
	s.gcWg.Add(1)
	go func() {
		defer s.gcWg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.gcStop:
				return
			case <-ticker.C:
				for s.db.RunValueLogGC(discardRatio) == nil {
				}
			}
		}
	}()
}

// Key format: prefix + "journal:" + episodeID + ":" + sequence (8 bytes, big-endian)
func (s *JournalStore) entryKey(episodeID string, seq uint64) []byte {
	seqBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(seqBytes, seq)
	return append(s.entryPrefix(episodeID), seqBytes...)
}

func (s *JournalStore) entryPrefix(episodeID string) []byte {
	return []byte(s.keyPrefix + "journal:" + episodeID + ":")
}

// Key format: prefix + "seq:" + episodeID, holding the last sequence number.
func (s *JournalStore) seqKey(episodeID string) []byte {
	return []byte(s.keyPrefix + "seq:" + episodeID)
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

	return s.db.Update(func(txn *badger.Txn) error {
		sequences := make(map[string]uint64)

		for _, e := range entries {
			seq, ok := sequences[e.EpisodeID]
			if !ok {
				var err error
				if seq, err = s.lastSeq(txn, e.EpisodeID); err != nil {
					return err
				}
			}

			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			seq++
			e.Sequence = seq
			sequences[e.EpisodeID] = seq

			data, err := json.Marshal(e)
			if err != nil {
				return err
			}
			if err := txn.Set(s.entryKey(e.EpisodeID, seq), data); err != nil {
				return err
			}
		}

		for episodeID, seq := range sequences {
			seqBytes := make([]byte, 8)
			binary.BigEndian.PutUint64(seqBytes, seq)
			if err := txn.Set(s.seqKey(episodeID), seqBytes); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *JournalStore) lastSeq(txn *badger.Txn, episodeID string) (uint64, error) {
	item, err := txn.Get(s.seqKey(episodeID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var seq uint64
	err = item.Value(func(val []byte) error {
		if len(val) == 8 {
			seq = binary.BigEndian.Uint64(val)
		}
		return nil
	})
	return seq, err
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

	entries := []journal.Entry{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.entryPrefix(episodeID)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(s.entryKey(episodeID, fromSeq)); it.Valid(); it.Next() {
			var e journal.Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})

	return entries, err
}

// Count returns the number of entries for an episode.
func (s *JournalStore) Count(ctx context.Context, episodeID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = s.entryPrefix(episodeID)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}

// ListEpisodes returns all episode IDs with entries, in key order.
func (s *JournalStore) ListEpisodes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(s.keyPrefix + "seq:")
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})

	return ids, err
}

// Close stops garbage collection and closes the database.
func (s *JournalStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.gcStop)
		s.gcWg.Wait()
		err = s.db.Close()
	})
	return err
}

var (
	_ journal.Store   = (*JournalStore)(nil)
	_ journal.Querier = (*JournalStore)(nil)
)
