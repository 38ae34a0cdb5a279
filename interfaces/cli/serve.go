package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
	"github.com/felixgeelhaar/goap-go/interfaces/mcp"
)

// serveOptions holds options for the serve command.
type serveOptions struct {
	http  string
	rate  int
	burst int
}

func (a *App) newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner as MCP tools",
		Long: `Expose the guardian as Model Context Protocol tools:

  list_actions  the catalog's actions, costs and preconditions
  plan          the shortest plan for a state and goal
  run_episode   a full episode in the simulated dungeon
  episode_log   journaled episodes and their entries (unless journal.backend is none)

The server speaks MCP over stdin/stdout unless --http is given.

Examples:
  # Serve over stdio
  guardian serve

  # Serve over HTTP
  guardian serve --http :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.http, "http", "", "Listen address for HTTP transport")
	cmd.Flags().IntVar(&opts.rate, "rate", 0, "Maximum tool calls per second per tool (0 disables)")
	cmd.Flags().IntVar(&opts.burst, "burst", 0, "Burst size for --rate (defaults to the rate)")

	return cmd
}

func (a *App) runServe(ctx context.Context, opts *serveOptions) error {
	rt, err := a.setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	runner, err := rt.newRunner(rt.bundle)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	var mws []mcp.Middleware
	if opts.rate > 0 {
		mws = append(mws, mcp.RateLimit(mcp.RateLimitConfig{
			Scope: mcp.ScopePerTool,
			Rate:  opts.rate,
			Burst: opts.burst,
		}))
	}

	srv := mcp.NewServer(mcp.ServerConfig{
		Name:         "guardian",
		Version:      Version,
		Instructions: "Call plan to get an action sequence for a world state, or run_episode to execute one in the simulated dungeon.",
		Bundle:       rt.bundle,
		Planner:      rt.newPlanner(rt.bundle),
		Runner:       runner,
		Journal:      rt.journal,
		MaxDepth:     rt.cfg.Planner.MaxDepth,
		Middleware:   mws,
	})

	logging.Info().
		Add(logging.Component("cli")).
		Add(logging.Count(len(srv.Tools()))).
		Add(logging.Str("transport", transportName(opts.http))).
		Msg("mcp server starting")

	if opts.http != "" {
		return srv.ServeHTTP(ctx, opts.http)
	}
	return srv.ServeStdio(ctx)
}

func transportName(addr string) string {
	if addr == "" {
		return "stdio"
	}
	return "http " + addr
}
