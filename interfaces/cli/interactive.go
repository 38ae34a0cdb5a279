package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/goap-go/application"
	"github.com/felixgeelhaar/goap-go/domain/agent"
	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/infrastructure/catalog"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
)

// errQuit ends the prompt loop.
var errQuit = errors.New("quit")

// interactiveOptions holds options for the interactive command.
type interactiveOptions struct {
	watch bool
}

func (a *App) newInteractiveCmd() *cobra.Command {
	opts := &interactiveOptions{}

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for scenarios and run an episode for each",
		Long: `Prompt for a dungeon scenario, run an episode and print the result.
Press enter to accept the default shown in brackets. Type "exit" at any
prompt to quit.

With --watch the action catalog is reloaded whenever its file changes, and
the next episode plans with the new catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload the catalog when its file changes")

	return cmd
}

func (a *App) runInteractive(ctx context.Context, opts *interactiveOptions) error {
	rt, err := a.setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	current := func() *catalog.Bundle { return rt.bundle }

	if opts.watch || rt.cfg.Catalog.Watch {
		if rt.bundle.Path == "" {
			return errors.New("--watch needs a catalog file (set --catalog or catalog.path)")
		}
		w, err := catalog.NewWatcher(rt.bundle.Path, catalog.WithOnReload(func(b *catalog.Bundle) {
			rt.env.SetCatalog(b.Actions)
		}))
		if err != nil {
			return err
		}
		w.Start(ctx)
		defer func() {
			_ = w.Close()
			<-w.Done()
		}()
		current = w.Current
	}

	a.printBanner()
	_, _ = fmt.Fprintln(a.stdout, "Dungeon map:")
	if err := rt.env.Grid().Render(a.stdout); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.stdout, `Type "exit" at any prompt to quit.`)

	memory := agent.NewMemory()
	in := bufio.NewScanner(a.stdin)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		sc, err := a.promptScenario(in)
		if errors.Is(err, errQuit) {
			_, _ = fmt.Fprintln(a.stdout, "Goodbye.")
			return nil
		}
		if err != nil {
			return err
		}

		runner, err := rt.newRunner(current(), application.WithMemory(memory))
		if err != nil {
			return fmt.Errorf("failed to create runner: %w", err)
		}

		ep, err := runner.RunEpisode(ctx, sc.State())
		if ep != nil {
			writeEpisode(a.stdout, ep)
		}
		if err != nil {
			logging.Warn().
				Add(logging.Component("cli")).
				Add(logging.ErrorField(err)).
				Msg("episode ended with error")
			return err
		}

		rt.env.Grid().Reset()
		_, _ = fmt.Fprintln(a.stdout)
	}
}

// promptScenario asks for every scenario field in turn. It returns errQuit
// when the user types exit or input ends.
func (a *App) promptScenario(in *bufio.Scanner) (dungeon.Scenario, error) {
	sc := dungeon.DefaultScenario()
	var err error

	if sc.Health, err = a.promptInt(in, "Health", sc.Health); err != nil {
		return sc, err
	}
	if sc.Stamina, err = a.promptInt(in, "Stamina", sc.Stamina); err != nil {
		return sc, err
	}
	if sc.HasPotion, err = a.promptBool(in, "Has potion", sc.HasPotion); err != nil {
		return sc, err
	}
	if sc.Threat, err = a.promptThreat(in, sc.Threat); err != nil {
		return sc, err
	}
	if sc.EnemyNearby, err = a.promptBool(in, "Enemy nearby", sc.EnemyNearby); err != nil {
		return sc, err
	}
	if sc.InSafeZone, err = a.promptBool(in, "In safe zone", sc.InSafeZone); err != nil {
		return sc, err
	}
	return sc, nil
}

// readAnswer prints label and returns the trimmed reply. Empty means the
// default.
func (a *App) readAnswer(in *bufio.Scanner, label, def string) (string, error) {
	_, _ = fmt.Fprintf(a.stdout, "%s [%s]: ", label, def)
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	answer := strings.TrimSpace(in.Text())
	if strings.EqualFold(answer, "exit") {
		return "", errQuit
	}
	return answer, nil
}

func (a *App) promptInt(in *bufio.Scanner, label string, def int) (int, error) {
	for {
		answer, err := a.readAnswer(in, label, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return def, nil
		}
		n, err := strconv.Atoi(answer)
		if err == nil {
			return n, nil
		}
		_, _ = fmt.Fprintf(a.stdout, "Please enter a whole number.\n")
	}
}

func (a *App) promptBool(in *bufio.Scanner, label string, def bool) (bool, error) {
	defStr := "n"
	if def {
		defStr = "y"
	}
	for {
		answer, err := a.readAnswer(in, label+" (y/n)", defStr)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		_, _ = fmt.Fprintf(a.stdout, "Please answer y or n.\n")
	}
}

func (a *App) promptThreat(in *bufio.Scanner, def string) (string, error) {
	for {
		answer, err := a.readAnswer(in, "Treasure threat (low/medium/high)", def)
		if err != nil {
			return "", err
		}
		switch answer = strings.ToLower(answer); answer {
		case "":
			return def, nil
		case dungeon.ThreatLow, dungeon.ThreatMedium, dungeon.ThreatHigh:
			return answer, nil
		}
		_, _ = fmt.Fprintf(a.stdout, "Please enter low, medium or high.\n")
	}
}
