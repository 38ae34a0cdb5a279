package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/goap-go/domain/journal"
)

var errJournalDisabled = errors.New("journal is disabled (journal.backend: none)")

// journalOptions holds options for the journal command.
type journalOptions struct {
	from       uint64
	jsonOutput bool
}

func (a *App) newJournalCmd() *cobra.Command {
	opts := &journalOptions{}

	cmd := &cobra.Command{
		Use:   "journal [episode-id]",
		Short: "Inspect the episode journal",
		Long: `Read back what the configured journal recorded.

Without an argument, list every journaled episode with its entry count.
With an episode ID, print that episode's entries in sequence order.

The memory backend starts empty in each process; use sqlite, badger or a
network backend to inspect earlier runs.

Examples:
  # List episodes
  guardian journal -c configs/guardian.yaml

  # Show one episode from entry 3 on
  guardian journal 4b1c... --from 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.listEpisodes(cmd.Context(), opts)
			}
			return a.showEpisode(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.from, "from", 0, "First sequence number to show")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// openJournal wires the runtime and returns its journal, failing when
// journaling is off.
func (a *App) openJournal(ctx context.Context) (*runtime, journal.Store, error) {
	rt, err := a.setup(ctx)
	if err != nil {
		return nil, nil, err
	}
	if rt.journal == nil {
		_ = rt.Close(ctx)
		return nil, nil, errJournalDisabled
	}
	return rt, rt.journal, nil
}

func (a *App) listEpisodes(ctx context.Context, opts *journalOptions) error {
	rt, store, err := a.openJournal(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	episodes, err := journal.Summarize(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to list episodes: %w", err)
	}

	if opts.jsonOutput {
		return writeJSON(a.stdout, episodes)
	}

	if len(episodes) == 0 {
		_, _ = fmt.Fprintf(a.stdout, "No episodes in the %s journal.\n", rt.cfg.Journal.Backend)
		return nil
	}
	_, _ = fmt.Fprintf(a.stdout, "Episodes (%d):\n", len(episodes))
	for _, ep := range episodes {
		_, _ = fmt.Fprintf(a.stdout, "  %s  %d entries\n", ep.EpisodeID, ep.Entries)
	}
	return nil
}

func (a *App) showEpisode(ctx context.Context, id string, opts *journalOptions) error {
	rt, store, err := a.openJournal(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	entries, err := store.LoadFrom(ctx, id, opts.from)
	if err != nil {
		return fmt.Errorf("failed to load episode %s: %w", id, err)
	}

	if opts.jsonOutput {
		if entries == nil {
			entries = []journal.Entry{}
		}
		return writeJSON(a.stdout, entries)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintf(a.stdout, "No entries for episode %s.\n", id)
		return nil
	}
	_, _ = fmt.Fprintf(a.stdout, "Episode %s\n", id)
	writeEntries(a.stdout, entries)
	return nil
}

func writeEntries(w io.Writer, entries []journal.Entry) {
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "  %3d  %s  %-20s %s\n",
			e.Sequence, e.Timestamp.Format(time.RFC3339), e.Type, e.Payload)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
