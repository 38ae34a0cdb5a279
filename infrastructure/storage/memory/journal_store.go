// Package memory provides in-memory implementations of storage interfaces.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/goap-go/domain/journal"
)

// JournalStore is an in-memory implementation of journal.Store.
type JournalStore struct {
	entries   map[string][]journal.Entry // episodeID -> entries
	sequences map[string]uint64          // episodeID -> last sequence
	mu        sync.RWMutex
}

// NewJournalStore creates a new in-memory journal store.
func NewJournalStore() *JournalStore {
	return &JournalStore{
		entries:   make(map[string][]journal.Entry),
		sequences: make(map[string]uint64),
	}
}

// Append persists one or more entries atomically.
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

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		s.sequences[e.EpisodeID]++
		e.Sequence = s.sequences[e.EpisodeID]
		s.entries[e.EpisodeID] = append(s.entries[e.EpisodeID], e)
	}

	return nil
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

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []journal.Entry{}
	for _, e := range s.entries[episodeID] {
		if e.Sequence >= fromSeq {
			result = append(result, e)
		}
	}
	return result, nil
}

// Count returns the number of entries for an episode.
func (s *JournalStore) Count(ctx context.Context, episodeID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.entries[episodeID])), nil
}

// ListEpisodes returns all episode IDs with entries, sorted.
func (s *JournalStore) ListEpisodes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Len returns the total number of entries across all episodes.
func (s *JournalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	for _, entries := range s.entries {
		count += len(entries)
	}
	return count
}

// Clear removes all entries from the store.
func (s *JournalStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string][]journal.Entry)
	s.sequences = make(map[string]uint64)
}

var (
	_ journal.Store   = (*JournalStore)(nil)
	_ journal.Querier = (*JournalStore)(nil)
)
