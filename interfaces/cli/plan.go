package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/infrastructure/planner"
)

// planOptions holds options for the plan command.
type planOptions struct {
	state      []string
	goal       string
	goalExpr   string
	maxDepth   int
	jsonOutput bool
}

func (a *App) newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a single plan without executing it",
		Long: `Search the action catalog for the shortest plan that reaches a goal.

The start state is the interactive default scenario with any --state
assignments applied on top. Without --goal or --goal-expr the goal is
chosen from the state the same way an episode would.

Examples:
  # Plan for the goal the guardian would pick itself
  guardian plan --state health=20 --state enemyNearby=true

  # Plan for a named goal
  guardian plan --goal Survive --state health=20

  # Plan for an ad hoc goal
  guardian plan --goal-expr 'stamina >= 10 && hasPotion'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlan(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.state, "state", "s", nil, "Fact assignment fact=value (repeatable)")
	cmd.Flags().StringVarP(&opts.goal, "goal", "g", "", "Goal name")
	cmd.Flags().StringVar(&opts.goalExpr, "goal-expr", "", "Goal as a boolean expression over facts")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "Search budget in dequeues (overrides planner.max_depth)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("goal", "goal-expr")

	return cmd
}

func (a *App) runPlan(ctx context.Context, opts *planOptions) error {
	rt, err := a.setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	start, err := parseAssignments(dungeon.DefaultScenario().State(), opts.state)
	if err != nil {
		return err
	}

	name, g, err := rt.bundle.ResolveGoal(start, opts.goal, opts.goalExpr)
	if err != nil {
		return err
	}

	depth := rt.cfg.Planner.MaxDepth
	if opts.maxDepth > 0 {
		depth = opts.maxDepth
	}

	res, err := rt.newPlanner(rt.bundle).Search(ctx, planner.Request{
		Start:    start,
		Goal:     g,
		GoalName: name,
		MaxDepth: depth,
	})
	if err != nil {
		return fmt.Errorf("plan search failed: %w", err)
	}

	if opts.jsonOutput {
		output := map[string]any{
			"goal":     name,
			"start":    start,
			"found":    res.Found,
			"plan":     res.Plan,
			"dequeued": res.Stats.Dequeued,
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	_, _ = fmt.Fprintf(a.stdout, "State: %s\n", start)
	_, _ = fmt.Fprintf(a.stdout, "Goal: %s\n", name)
	switch {
	case !res.Found:
		_, _ = fmt.Fprintf(a.stdout, "No plan found (searched %d states)\n", res.Stats.Dequeued)
	case res.Plan.Len() == 0:
		_, _ = fmt.Fprintf(a.stdout, "Goal already satisfied\n")
	default:
		_, _ = fmt.Fprintf(a.stdout, "Plan: %s\n", res.Plan)
		_, _ = fmt.Fprintf(a.stdout, "  Steps: %d\n", res.Plan.Len())
		_, _ = fmt.Fprintf(a.stdout, "  Searched: %d states\n", res.Stats.Dequeued)
	}
	return nil
}
