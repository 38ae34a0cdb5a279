package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func (a *App) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and action catalog",
		Long: `Load the configuration and the action catalog it points to, then print
a summary. Nothing is executed.

This command checks:
  - File format (YAML or JSON)
  - Field types and ranges (probabilities, budgets, backends)
  - Environment variable references
  - Catalog syntax, preconditions and effects

Examples:
  # Validate the defaults
  guardian validate

  # Validate a configuration file
  guardian validate -c configs/guardian.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate()
		},
	}
}

func (a *App) validate() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	bundle, err := loadBundle(cfg)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, _ = fmt.Fprintf(a.stdout, "Configuration is valid\n")
	_, _ = fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
	_, _ = fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)
	if cfg.Description != "" {
		_, _ = fmt.Fprintf(a.stdout, "  Description: %s\n", cfg.Description)
	}

	_, _ = fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(a.stdout, "  Max steps: %d\n", cfg.Episode.MaxSteps)
	_, _ = fmt.Fprintf(a.stdout, "  Max failures: %d\n", cfg.Episode.MaxFailures)
	_, _ = fmt.Fprintf(a.stdout, "  Planner max depth: %d\n", cfg.Planner.MaxDepth)
	_, _ = fmt.Fprintf(a.stdout, "  Grid: %dx%d\n", cfg.Environment.Grid.Width, cfg.Environment.Grid.Height)
	_, _ = fmt.Fprintf(a.stdout, "  Journal: %s\n", cfg.Journal.Backend)
	_, _ = fmt.Fprintf(a.stdout, "  Batch concurrency: %d\n", cfg.Batch.MaxConcurrent)
	if cfg.Telemetry.Tracing.Enabled {
		_, _ = fmt.Fprintf(a.stdout, "  Tracing: enabled (%s)\n", cfg.Telemetry.Tracing.Exporter)
	}

	source := bundle.Path
	if source == "" {
		source = "built-in"
	}
	_, _ = fmt.Fprintf(a.stdout, "\nCatalog: %s\n", source)
	_, _ = fmt.Fprintf(a.stdout, "  Actions: %d\n", bundle.Actions.Len())
	for _, act := range bundle.Actions.Actions() {
		_, _ = fmt.Fprintf(a.stdout, "    - %s (cost %d)\n", act.Name(), act.Cost())
	}

	if len(bundle.Goals) > 0 {
		names := make([]string, 0, len(bundle.Goals))
		for name := range bundle.Goals {
			names = append(names, name)
		}
		sort.Strings(names)
		_, _ = fmt.Fprintf(a.stdout, "  Goals: %d\n", len(names))
		for _, name := range names {
			_, _ = fmt.Fprintf(a.stdout, "    - %s\n", name)
		}
	}

	return nil
}
