// Package redis provides a Redis-backed episode journal.
//
// Each episode is a sorted set of JSON-encoded entries scored by sequence
// number, next to an INCR counter that hands out sequence ranges. A set of
// episode IDs backs ListEpisodes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/goap-go/domain/journal"
)

// Config configures the Redis journal.
type Config struct {
	// URL is a redis:// or rediss:// URL.
	URL string

	// KeyPrefix namespaces journal keys.
	KeyPrefix string

	DialTimeout time.Duration
}

// Option configures the Redis journal.
type Option func(*Config)

// WithURL sets the server URL.
func WithURL(url string) Option {
	return func(c *Config) {
		c.URL = url
	}
}

// WithKeyPrefix sets the key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// DefaultConfig returns the configuration used by the guardian CLI.
func DefaultConfig() Config {
	return Config{
		URL:         "redis://localhost:6379/0",
		KeyPrefix:   "goap:",
		DialTimeout: 5 * time.Second,
	}
}

// JournalStore is a Redis-backed implementation of journal.Store.
type JournalStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewJournalStore connects to Redis and verifies the connection.
func NewJournalStore(ctx context.Context, cfg Config, opts ...Option) (*JournalStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	ropts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}
	if cfg.DialTimeout > 0 {
		ropts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(ropts)

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}

	return NewJournalStoreFromClient(client, cfg.KeyPrefix), nil
}

// NewJournalStoreFromClient creates a journal on an existing client.
func NewJournalStoreFromClient(client *redis.Client, keyPrefix string) *JournalStore {
	return &JournalStore{client: client, keyPrefix: keyPrefix}
}

func (s *JournalStore) entriesKey(episodeID string) string {
	return s.keyPrefix + "journal:" + episodeID
}

func (s *JournalStore) sequenceKey(episodeID string) string {
	return s.keyPrefix + "journal:" + episodeID + ":seq"
}

func (s *JournalStore) episodesKey() string {
	return s.keyPrefix + "journal:episodes"
}

// Append reserves a sequence range per episode with INCRBY, then writes the
// entries in one MULTI/EXEC block. Concurrent appenders get disjoint ranges.
func (s *JournalStore) Append(ctx context.Context, entries ...journal.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	counts := make(map[string]int64)
	var order []string
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		if counts[e.EpisodeID] == 0 {
			order = append(order, e.EpisodeID)
		}
		counts[e.EpisodeID]++
	}

	next := make(map[string]uint64, len(order))
	for _, id := range order {
		last, err := s.client.IncrBy(ctx, s.sequenceKey(id), counts[id]).Result()
		if err != nil {
			return s.wrapError(err)
		}
		next[id] = uint64(last - counts[id])
	}

	members := make(map[string][]redis.Z, len(order))
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		next[e.EpisodeID]++
		e.Sequence = next[e.EpisodeID]

		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		members[e.EpisodeID] = append(members[e.EpisodeID], redis.Z{
			Score:  float64(e.Sequence),
			Member: string(data),
		})
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range order {
			pipe.ZAdd(ctx, s.entriesKey(id), members[id]...)
			pipe.SAdd(ctx, s.episodesKey(), id)
		}
		return nil
	})
	return s.wrapError(err)
}

// Load retrieves all entries for an episode in sequence order.
func (s *JournalStore) Load(ctx context.Context, episodeID string) ([]journal.Entry, error) {
	return s.LoadFrom(ctx, episodeID, 0)
}

// LoadFrom retrieves entries with Sequence >= fromSeq.
func (s *JournalStore) LoadFrom(ctx context.Context, episodeID string, fromSeq uint64) ([]journal.Entry, error) {
	raw, err := s.client.ZRangeByScore(ctx, s.entriesKey(episodeID), &redis.ZRangeBy{
		Min: strconv.FormatUint(fromSeq, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, s.wrapError(err)
	}

	entries := make([]journal.Entry, 0, len(raw))
	for _, r := range raw {
		var e journal.Entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Count returns the number of entries for an episode.
func (s *JournalStore) Count(ctx context.Context, episodeID string) (int64, error) {
	n, err := s.client.ZCard(ctx, s.entriesKey(episodeID)).Result()
	return n, s.wrapError(err)
}

// ListEpisodes returns all episode IDs with entries, sorted.
func (s *JournalStore) ListEpisodes(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.episodesKey()).Result()
	if err != nil {
		return nil, s.wrapError(err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close closes the client.
func (s *JournalStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

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
