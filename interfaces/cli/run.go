package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/goap-go/application"
	"github.com/felixgeelhaar/goap-go/domain/agent"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
)

// runOptions holds options for the run command.
type runOptions struct {
	maxConcurrent int
	copyOutput    bool
	jsonOutput    bool
}

func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <scenarios.json>",
		Short: "Run an episode for each scenario in a file",
		Long: `Run one guardian episode per scenario. The file holds a JSON array of
world states, for example:

  [
    {"health": 20, "enemyNearby": true, "stamina": 5},
    {"health": 80, "treasureThreatLevel": "high", "stamina": 10}
  ]

Episodes run concurrently, bounded by batch.max_concurrent, and are
reported in file order.

Examples:
  # Run scenarios
  guardian run configs/scenarios.json

  # Run and copy the report to the clipboard
  guardian run configs/scenarios.json --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScenarios(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxConcurrent, "max-concurrent", 0, "Episodes in flight at once (overrides batch.max_concurrent)")
	cmd.Flags().BoolVar(&opts.copyOutput, "copy", false, "Copy the report to the clipboard")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func (a *App) runScenarios(ctx context.Context, path string, opts *runOptions) error {
	starts, err := loadScenarios(path)
	if err != nil {
		return err
	}

	rt, err := a.setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	var runnerOpts []application.Option
	if opts.maxConcurrent > 0 {
		runnerOpts = append(runnerOpts, application.WithMaxConcurrent(opts.maxConcurrent))
	}
	runner, err := rt.newRunner(rt.bundle, runnerOpts...)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	results := runner.RunBatch(ctx, starts)

	var report bytes.Buffer
	if opts.jsonOutput {
		if err := writeBatchJSON(&report, results); err != nil {
			return err
		}
	} else {
		a.printBanner()
		writeBatchText(&report, results)
	}

	if _, err := a.stdout.Write(report.Bytes()); err != nil {
		return err
	}

	if opts.copyOutput {
		if err := clipboard.WriteAll(report.String()); err != nil {
			logging.Warn().
				Add(logging.Component("cli")).
				Add(logging.ErrorField(err)).
				Msg("clipboard unavailable")
			_, _ = fmt.Fprintf(a.stderr, "Could not copy to clipboard: %v\n", err)
		} else {
			_, _ = fmt.Fprintf(a.stderr, "Report copied to clipboard.\n")
		}
	}

	return ctx.Err()
}

// loadScenarios reads a JSON array of world-state objects.
func loadScenarios(path string) ([]world.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid scenarios file %s: %w", path, err)
	}

	starts := make([]world.State, 0, len(raw))
	for i, m := range raw {
		s, err := world.FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i+1, err)
		}
		starts = append(starts, s)
	}
	return starts, nil
}

func writeBatchText(w io.Writer, results []application.BatchResult) {
	for _, res := range results {
		_, _ = fmt.Fprintf(w, "\nScenario %d\n", res.Index+1)
		if res.Err != nil && res.Episode == nil {
			_, _ = fmt.Fprintf(w, "  Error: %v\n", res.Err)
			continue
		}
		writeEpisode(w, res.Episode)
		if res.Err != nil {
			_, _ = fmt.Fprintf(w, "  Error: %v\n", res.Err)
		}
	}
}

func writeBatchJSON(w io.Writer, results []application.BatchResult) error {
	type item struct {
		Scenario int            `json:"scenario"`
		Episode  *agent.Episode `json:"episode,omitempty"`
		Error    string         `json:"error,omitempty"`
	}

	out := make([]item, 0, len(results))
	for _, res := range results {
		it := item{Scenario: res.Index + 1, Episode: res.Episode}
		if res.Err != nil {
			it.Error = res.Err.Error()
		}
		out = append(out, it)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeEpisode prints an episode's start state, its action history and
// how it ended.
func writeEpisode(w io.Writer, ep *agent.Episode) {
	_, _ = fmt.Fprintf(w, "  Start: %s\n", ep.Start)
	for i, rec := range ep.Steps {
		mark := "ok"
		if !rec.Success {
			mark = "FAILED"
		}
		_, _ = fmt.Fprintf(w, "  %d. [%s] %s (%s)\n", i+1, rec.Goal, rec.Action, mark)
		_, _ = fmt.Fprintf(w, "     %s\n", rec.Justification)
	}
	_, _ = fmt.Fprintf(w, "  Outcome: %s\n", ep.Phase)
	_, _ = fmt.Fprintf(w, "  Actions: %d, failures: %d\n", len(ep.Steps), ep.Failures)
	_, _ = fmt.Fprintf(w, "  Final: %s\n", ep.World)
}
