package badger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/goap-go/domain/journal"
	"github.com/felixgeelhaar/goap-go/infrastructure/storage/badger"
)

func newTestJournalStore(t *testing.T) *badger.JournalStore {
	t.Helper()

	store, err := badger.NewJournalStore(badger.Config{InMemory: true, KeyPrefix: "test:"})
	if err != nil {
		t.Fatalf("NewJournalStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestJournalStore_AppendAndLoad(t *testing.T) {
	store := newTestJournalStore(t)
	ctx := context.Background()

	err := store.Append(ctx,
		journal.Entry{EpisodeID: "ep-1", Type: journal.TypeEpisodeStarted, Payload: []byte(`{"max_steps":10}`)},
		journal.Entry{EpisodeID: "ep-2", Type: journal.TypeEpisodeStarted},
		journal.Entry{EpisodeID: "ep-1", Type: journal.TypeGoalSelected, Payload: []byte(`{"goal":"Survive"}`)},
	)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	loaded, err := store.Load(ctx, "ep-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if loaded[0].Sequence != 1 || loaded[1].Sequence != 2 {
		t.Errorf("sequences = %d, %d", loaded[0].Sequence, loaded[1].Sequence)
	}

	var p journal.GoalSelectedPayload
	if err := loaded[1].UnmarshalPayload(&p); err != nil || p.Goal != "Survive" {
		t.Errorf("payload = %+v, %v", p, err)
	}
}

func TestJournalStore_SequenceAcrossAppends(t *testing.T) {
	store := newTestJournalStore(t)
	ctx := context.Background()

	for range 4 {
		if err := store.Append(ctx, journal.Entry{EpisodeID: "ep", Type: journal.TypeActionSucceeded}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	from, err := store.LoadFrom(ctx, "ep", 3)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	var seqs []uint64
	for _, e := range from {
		seqs = append(seqs, e.Sequence)
	}
	if diff := cmp.Diff([]uint64{3, 4}, seqs); diff != "" {
		t.Errorf("LoadFrom(3) mismatch (-want +got):\n%s", diff)
	}

	n, err := store.Count(ctx, "ep")
	if err != nil || n != 4 {
		t.Errorf("Count = %d, %v; want 4", n, err)
	}
}

func TestJournalStore_Invalid(t *testing.T) {
	store := newTestJournalStore(t)

	err := store.Append(context.Background(), journal.Entry{EpisodeID: "ep"})
	if !errors.Is(err, journal.ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestJournalStore_ListEpisodes(t *testing.T) {
	store := newTestJournalStore(t)
	ctx := context.Background()

	_ = store.Append(ctx,
		journal.Entry{EpisodeID: "b", Type: journal.TypeEpisodeStarted},
		journal.Entry{EpisodeID: "a", Type: journal.TypeEpisodeStarted},
	)

	ids, err := store.ListEpisodes(ctx)
	if err != nil {
		t.Fatalf("ListEpisodes failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Errorf("ListEpisodes mismatch (-want +got):\n%s", diff)
	}

	empty, err := store.Load(ctx, "missing")
	if err != nil || len(empty) != 0 {
		t.Errorf("Load(missing) = %v, %v", empty, err)
	}
}

func TestJournalStore_CloseTwice(t *testing.T) {
	store, err := badger.NewJournalStore(badger.DefaultConfig(), badger.WithInMemory())
	if err != nil {
		t.Fatalf("NewJournalStore failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}
