package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/goap-go/application"
	"github.com/felixgeelhaar/goap-go/domain/dungeon"
)

// stressOptions holds options for the stress command.
type stressOptions struct {
	state    []string
	duration time.Duration
	interval time.Duration
	maxTicks int
}

func (a *App) newStressCmd() *cobra.Command {
	opts := &stressOptions{}

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Apply random actions for a while (diagnostic)",
		Long: `Apply randomly chosen catalog actions to a state, ignoring goals and
the planner. After each action the guardian may be disabled, and it skips
ticks until it is restored. Use this to exercise a catalog, not to play.

Examples:
  # Two minutes with a tick every two seconds (config defaults)
  guardian stress

  # A quick run
  guardian stress --duration 5s --interval 100ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStress(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.state, "state", "s", nil, "Fact assignment fact=value (repeatable)")
	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", 0, "How long to run (overrides stress.duration)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Pause between ticks (overrides stress.interval)")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", 0, "Stop after this many ticks")

	return cmd
}

func (a *App) runStress(ctx context.Context, opts *stressOptions) error {
	rt, err := a.setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	start, err := parseAssignments(dungeon.DefaultScenario().State(), opts.state)
	if err != nil {
		return err
	}

	runner, err := rt.newRunner(rt.bundle)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	so := application.StressOptions{
		Duration:      rt.cfg.Stress.Duration.Duration(),
		Interval:      rt.cfg.Stress.Interval.Duration(),
		DisableChance: rt.cfg.Stress.DisableChance,
		RestoreChance: rt.cfg.Stress.RestoreChance,
		MaxTicks:      opts.maxTicks,
	}
	if opts.duration > 0 {
		so.Duration = opts.duration
	}
	if opts.interval > 0 {
		so.Interval = opts.interval
	}

	_, _ = fmt.Fprintf(a.stdout, "Stress mode: random actions for %s\n", so.Duration)
	report := runner.Stress(ctx, start, so)

	_, _ = fmt.Fprintf(a.stdout, "Ticks: %d\n", report.Ticks)
	if len(report.History) == 0 {
		_, _ = fmt.Fprintf(a.stdout, "History: (none)\n")
	} else {
		_, _ = fmt.Fprintf(a.stdout, "History: %s\n", strings.Join(report.History, ", "))
	}
	_, _ = fmt.Fprintf(a.stdout, "Final: %s\n", report.Final)

	return nil
}
