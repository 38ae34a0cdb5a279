// Package mongodb provides a MongoDB-backed episode journal.
package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/felixgeelhaar/goap-go/domain/journal"
)

// Config configures the MongoDB journal.
type Config struct {
	// URI is a mongodb:// or mongodb+srv:// connection string.
	URI string

	Database   string
	Collection string

	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

// Option configures the MongoDB journal.
type Option func(*Config)

// WithURI sets the connection string.
func WithURI(uri string) Option {
	return func(c *Config) {
		c.URI = uri
	}
}

// WithDatabase sets the database name.
func WithDatabase(name string) Option {
	return func(c *Config) {
		c.Database = name
	}
}

// DefaultConfig returns the configuration used by the guardian CLI.
func DefaultConfig() Config {
	return Config{
		URI:            "mongodb://localhost:27017",
		Database:       "guardian",
		Collection:     "journal",
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   5 * time.Second,
	}
}

// entryDocument is the stored form of a journal.Entry. The payload is kept
// as JSON text so it round-trips byte for byte.
type entryDocument struct {
	ID        string    `bson:"_id"`
	EpisodeID string    `bson:"episode_id"`
	Type      string    `bson:"type"`
	Sequence  int64     `bson:"sequence"`
	Timestamp time.Time `bson:"timestamp"`
	Payload   string    `bson:"payload,omitempty"`
	Version   int       `bson:"version,omitempty"`
}

func toDocument(e journal.Entry) entryDocument {
	return entryDocument{
		ID:        e.ID,
		EpisodeID: e.EpisodeID,
		Type:      string(e.Type),
		Sequence:  int64(e.Sequence),
		Timestamp: e.Timestamp,
		Payload:   string(e.Payload),
		Version:   e.Version,
	}
}

func (d entryDocument) entry() journal.Entry {
	e := journal.Entry{
		ID:        d.ID,
		EpisodeID: d.EpisodeID,
		Type:      journal.Type(d.Type),
		Sequence:  uint64(d.Sequence),
		Timestamp: d.Timestamp,
		Version:   d.Version,
	}
	if d.Payload != "" {
		e.Payload = json.RawMessage(d.Payload)
	}
	return e
}

// JournalStore is a MongoDB-backed implementation of journal.Store.
//
// Entries live in one collection with a unique (episode_id, sequence) index.
// Sequence ranges are reserved from a companion counters collection with an
// atomic $inc, so concurrent appenders never collide.
type JournalStore struct {
	client       *mongo.Client
	entries      *mongo.Collection
	counters     *mongo.Collection
	queryTimeout time.Duration
}

// NewJournalStore connects to MongoDB and ensures the sequence index exists.
func NewJournalStore(ctx context.Context, cfg Config, opts ...Option) (*JournalStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}

	s := newJournalStore(client, cfg)
	if _, err := s.entries.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "episode_id", Value: 1}, {Key: "sequence", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}
	return s, nil
}

func newJournalStore(client *mongo.Client, cfg Config) *JournalStore {
	s := &JournalStore{client: client, queryTimeout: cfg.QueryTimeout}
	if client != nil {
		db := client.Database(cfg.Database)
		s.entries = db.Collection(cfg.Collection)
		s.counters = db.Collection(cfg.Collection + "_counters")
	}
	return s
}

func (s *JournalStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// reserve advances the episode's counter by n and returns the sequence
// preceding the reserved range.
func (s *JournalStore) reserve(ctx context.Context, episodeID string, n int64) (uint64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": episodeID},
		bson.M{"$inc": bson.M{"seq": n}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return uint64(counter.Seq - n), nil
}

// Append persists entries, assigning IDs and per-episode sequence numbers.
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

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	next := make(map[string]uint64, len(order))
	for _, id := range order {
		base, err := s.reserve(ctx, id, counts[id])
		if err != nil {
			return s.wrapError(err)
		}
		next[id] = base
	}

	docs := make([]any, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		next[e.EpisodeID]++
		e.Sequence = next[e.EpisodeID]
		docs = append(docs, toDocument(e))
	}

	_, err := s.entries.InsertMany(ctx, docs)
	return s.wrapError(err)
}

// Load retrieves all entries for an episode in sequence order.
func (s *JournalStore) Load(ctx context.Context, episodeID string) ([]journal.Entry, error) {
	return s.LoadFrom(ctx, episodeID, 0)
}

// LoadFrom retrieves entries with Sequence >= fromSeq.
func (s *JournalStore) LoadFrom(ctx context.Context, episodeID string, fromSeq uint64) ([]journal.Entry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.entries.Find(ctx,
		bson.M{"episode_id": episodeID, "sequence": bson.M{"$gte": int64(fromSeq)}},
		options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}}),
	)
	if err != nil {
		return nil, s.wrapError(err)
	}

	var docs []entryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, s.wrapError(err)
	}

	entries := make([]journal.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.entry())
	}
	return entries, nil
}

// Count returns the number of entries for an episode.
func (s *JournalStore) Count(ctx context.Context, episodeID string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.entries.CountDocuments(ctx, bson.M{"episode_id": episodeID})
	return n, s.wrapError(err)
}

// ListEpisodes returns all episode IDs with entries, sorted.
func (s *JournalStore) ListEpisodes(ctx context.Context) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.entries.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$episode_id"}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, s.wrapError(err)
	}

	var groups []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, s.wrapError(err)
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

// Close disconnects the client.
func (s *JournalStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
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
