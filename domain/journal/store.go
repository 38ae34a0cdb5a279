package journal

import "context"

// Store persists journal entries.
type Store interface {
	// Append persists entries atomically, assigning IDs and per-episode
	// sequence numbers in order of appearance.
	Append(ctx context.Context, entries ...Entry) error

	// Load retrieves all entries for an episode in sequence order.
	Load(ctx context.Context, episodeID string) ([]Entry, error)

	// LoadFrom retrieves entries with Sequence >= fromSeq.
	LoadFrom(ctx context.Context, episodeID string, fromSeq uint64) ([]Entry, error)
}

// Querier is an optional interface for stores that can enumerate episodes.
type Querier interface {
	// Count returns the number of entries for an episode.
	Count(ctx context.Context, episodeID string) (int64, error)

	// ListEpisodes returns all episode IDs with entries in the store.
	ListEpisodes(ctx context.Context) ([]string, error)
}

// EpisodeSummary is an episode ID with its entry count.
type EpisodeSummary struct {
	EpisodeID string `json:"episode_id"`
	Entries   int64  `json:"entries"`
}

// Summarize lists every episode in s with its entry count. Stores that do
// not implement Querier yield ErrNotQueryable.
func Summarize(ctx context.Context, s Store) ([]EpisodeSummary, error) {
	q, ok := s.(Querier)
	if !ok {
		return nil, ErrNotQueryable
	}

	ids, err := q.ListEpisodes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]EpisodeSummary, 0, len(ids))
	for _, id := range ids {
		n, err := q.Count(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, EpisodeSummary{EpisodeID: id, Entries: n})
	}
	return out, nil
}
