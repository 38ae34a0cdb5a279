package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// appendOnly stores nothing and cannot list episodes.
type appendOnly struct{}

func (appendOnly) Append(context.Context, ...Entry) error { return nil }

func (appendOnly) Load(context.Context, string) ([]Entry, error) { return nil, nil }

func (appendOnly) LoadFrom(context.Context, string, uint64) ([]Entry, error) { return nil, nil }

// countingStore reports fixed per-episode counts.
type countingStore struct {
	appendOnly
	counts map[string]int64
	ids    []string
	err    error
}

func (s countingStore) Count(_ context.Context, id string) (int64, error) {
	return s.counts[id], s.err
}

func (s countingStore) ListEpisodes(context.Context) ([]string, error) {
	return s.ids, nil
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name    string
		store   Store
		want    []EpisodeSummary
		wantErr error
	}{
		{
			name:    "store without querier",
			store:   appendOnly{},
			wantErr: ErrNotQueryable,
		},
		{
			name:  "empty",
			store: countingStore{},
			want:  []EpisodeSummary{},
		},
		{
			name: "counts in listed order",
			store: countingStore{
				ids:    []string{"ep-a", "ep-b"},
				counts: map[string]int64{"ep-a": 5, "ep-b": 2},
			},
			want: []EpisodeSummary{{EpisodeID: "ep-a", Entries: 5}, {EpisodeID: "ep-b", Entries: 2}},
		},
		{
			name:    "count error",
			store:   countingStore{ids: []string{"ep-a"}, err: boom},
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Summarize(context.Background(), tt.store)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Summarize() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Summarize() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
