// Package cli provides the guardian command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	goap "github.com/felixgeelhaar/goap-go"
)

// Version information, overridable at build time.
var (
	Version   = goap.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const banner = "=== Dungeon Guardian Agent Project ==="

// globalOptions holds flags shared by every command.
type globalOptions struct {
	configPath  string
	catalogPath string
	logLevel    string
	seed        uint64
}

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
	opts   globalOptions
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
	}

	app.root = &cobra.Command{
		Use:   "guardian",
		Short: "Goal-oriented dungeon guardian agent",
		Long: `guardian plans and executes action sequences for a dungeon guardian.

Each episode picks a goal from the current world state, searches the action
catalog breadth-first for a plan, and executes it in a simulated dungeon
where actions can fail. Failures trigger a replan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := app.root.PersistentFlags()
	flags.StringVarP(&app.opts.configPath, "config", "c", "", "Path to configuration file (YAML or JSON)")
	flags.StringVar(&app.opts.catalogPath, "catalog", "", "Path to action catalog (overrides catalog.path)")
	flags.StringVar(&app.opts.logLevel, "log-level", "", "Log level (overrides logging.level)")
	flags.Uint64Var(&app.opts.seed, "seed", 0, "Seed for action outcomes (overrides environment.seed)")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newValidateCmd(),
		app.newPlanCmd(),
		app.newRunCmd(),
		app.newInteractiveCmd(),
		app.newStressCmd(),
		app.newServeCmd(),
		app.newJournalCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithInput sets the reader used by interactive prompts.
func (a *App) WithInput(stdin io.Reader) *App {
	a.stdin = stdin
	a.root.SetIn(stdin)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(a.stdout, "guardian version %s\n", Version)
			_, _ = fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			_, _ = fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}

func (a *App) printBanner() {
	_, _ = fmt.Fprintln(a.stdout, banner)
}
