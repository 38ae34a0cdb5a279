package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/goap-go/domain/journal"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/infrastructure/storage/sqlite"
)

func newTestJournalStore(t *testing.T) *sqlite.JournalStore {
	t.Helper()

	cfg := sqlite.DefaultConfig()
	cfg.DSN = "file:" + t.TempDir() + "/journal.db?mode=rwc"

	store, err := sqlite.NewJournalStore(cfg)
	if err != nil {
		t.Fatalf("NewJournalStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestJournalStore_AppendAndLoad(t *testing.T) {
	store := newTestJournalStore(t)
	ctx := context.Background()

	planned, err := journal.NewEntry("ep-1", journal.TypePlanFound, journal.PlanPayload{
		Goal: "Survive",
		Plan: plan.Plan{"Retreat", "SearchForPotion", "HealSelf"},
	})
	if err != nil {
		t.Fatalf("NewEntry failed: %v", err)
	}

	err = store.Append(ctx,
		journal.Entry{EpisodeID: "ep-1", Type: journal.TypeEpisodeStarted, Timestamp: time.Now()},
		journal.Entry{EpisodeID: "ep-1", Type: journal.TypeGoalSelected, Timestamp: time.Now()},
		planned,
	)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	loaded, err := store.Load(ctx, "ep-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(loaded))
	}
	for i, e := range loaded {
		if e.Sequence != uint64(i+1) {
			t.Errorf("expected sequence %d, got %d", i+1, e.Sequence)
		}
	}

	var p journal.PlanPayload
	if err := loaded[2].UnmarshalPayload(&p); err != nil {
		t.Fatalf("UnmarshalPayload failed: %v", err)
	}
	if diff := cmp.Diff(plan.Plan{"Retreat", "SearchForPotion", "HealSelf"}, p.Plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestJournalStore_SequenceContinues(t *testing.T) {
	store := newTestJournalStore(t)
	ctx := context.Background()

	for range 3 {
		if err := store.Append(ctx, journal.Entry{EpisodeID: "ep", Type: journal.TypeActionSucceeded}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	from, err := store.LoadFrom(ctx, "ep", 2)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if len(from) != 2 || from[0].Sequence != 2 || from[1].Sequence != 3 {
		t.Errorf("LoadFrom(2) = %+v", from)
	}
}

func TestJournalStore_Invalid(t *testing.T) {
	store := newTestJournalStore(t)

	err := store.Append(context.Background(), journal.Entry{Type: journal.TypeGoalSelected})
	if !errors.Is(err, journal.ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestJournalStore_Query(t *testing.T) {
	store := newTestJournalStore(t)
	ctx := context.Background()

	_ = store.Append(ctx,
		journal.Entry{EpisodeID: "b", Type: journal.TypeEpisodeStarted},
		journal.Entry{EpisodeID: "a", Type: journal.TypeEpisodeStarted},
		journal.Entry{EpisodeID: "a", Type: journal.TypeEpisodeFinished},
	)

	ids, err := store.ListEpisodes(ctx)
	if err != nil {
		t.Fatalf("ListEpisodes failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Errorf("ListEpisodes mismatch (-want +got):\n%s", diff)
	}

	n, err := store.Count(ctx, "a")
	if err != nil || n != 2 {
		t.Errorf("Count(a) = %d, %v; want 2", n, err)
	}
}
