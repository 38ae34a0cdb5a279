// Package mcp exposes the guardian's planner and episode runner as Model
// Context Protocol tools, using github.com/felixgeelhaar/mcp-go.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpgo "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/goap-go/application"
	"github.com/felixgeelhaar/goap-go/domain/journal"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/catalog"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
	"github.com/felixgeelhaar/goap-go/infrastructure/planner"
)

// Tool names.
const (
	ToolListActions = "list_actions"
	ToolPlan        = "plan"
	ToolRunEpisode  = "run_episode"
	ToolEpisodeLog  = "episode_log"
)

var (
	// ErrUnknownTool is returned by CallTool for a name that is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidInput is returned when tool input is not valid JSON for the tool.
	ErrInvalidInput = errors.New("invalid tool input")
)

// Handler runs one tool call.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Server wraps an MCP server exposing guardian tools.
type Server struct {
	srv      *mcpgo.Server
	bundle   *catalog.Bundle
	planner  planner.Planner
	runner   *application.Runner
	journal  journal.Store
	maxDepth int
	tools    map[string]Handler
	names    []string
	mws      []Middleware
}

// ServerConfig configures a guardian MCP server.
type ServerConfig struct {
	Name         string
	Version      string
	Instructions string

	// Bundle supplies the actions and any extra named goals.
	Bundle *catalog.Bundle

	// Planner answers plan calls. Defaults to BFS over Bundle.
	Planner planner.Planner

	// Runner executes run_episode calls. Nil leaves the tool out.
	Runner *application.Runner

	// Journal backs episode_log calls. Nil leaves the tool out.
	Journal journal.Store

	// MaxDepth is the default search budget for plan calls.
	MaxDepth int

	// Middleware wraps every tool handler, outermost first.
	Middleware []Middleware
}

// NewServer creates a server with the guardian tools registered.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Bundle == nil {
		cfg.Bundle = catalog.Default()
	}
	if cfg.Planner == nil {
		cfg.Planner = planner.NewBFS(cfg.Bundle.Actions)
	}

	info := mcpgo.ServerInfo{
		Name:         cfg.Name,
		Version:      cfg.Version,
		Description:  "Goal-oriented action planning for a dungeon guardian",
		Capabilities: mcpgo.Capabilities{Tools: true},
	}
	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	s := &Server{
		srv:      mcpgo.NewServer(info, opts...),
		bundle:   cfg.Bundle,
		planner:  cfg.Planner,
		runner:   cfg.Runner,
		journal:  cfg.Journal,
		maxDepth: cfg.MaxDepth,
		tools:    make(map[string]Handler),
		mws:      cfg.Middleware,
	}

	s.register(ToolListActions, "List the actions in the catalog with their costs and preconditions.", s.listActions)
	s.register(ToolPlan, `Find the shortest action sequence reaching a goal. Input: {"state": {...}, "goal": "Survive", "goal_expr": "health >= 50", "max_depth": 10}.`, s.plan)
	if s.runner != nil {
		s.register(ToolRunEpisode, `Run a full plan/act/replan episode in the simulated dungeon. Input: {"state": {...}}.`, s.runEpisode)
	}
	if s.journal != nil {
		s.register(ToolEpisodeLog, `Read the episode journal. Without input, list episodes with entry counts. Input: {"episode_id": "...", "from": 1} returns that episode's entries.`, s.episodeLog)
	}

	return s
}

func (s *Server) register(name, description string, h Handler) {
	for i := len(s.mws) - 1; i >= 0; i-- {
		h = s.mws[i](name, h)
	}
	s.tools[name] = h
	s.names = append(s.names, name)
	s.srv.Tool(name).
		Description(description).
		Handler(func(ctx context.Context, input json.RawMessage) (string, error) {
			out, err := h(ctx, input)
			if err != nil {
				logging.Warn().
					Add(logging.Component("mcp")).
					Add(logging.Str("tool", name)).
					Add(logging.ErrorField(err)).
					Msg("tool call failed")
			}
			return out, err
		})
}

// Server returns the underlying mcp-go server.
func (s *Server) Server() *mcpgo.Server {
	return s.srv
}

// Tools returns the registered tool names.
func (s *Server) Tools() []string {
	return append([]string(nil), s.names...)
}

// CallTool invokes a registered tool directly, bypassing the transport.
func (s *Server) CallTool(ctx context.Context, name string, input json.RawMessage) (string, error) {
	h, ok := s.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return h(ctx, input)
}

// ServeStdio runs the server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcpgo.ServeStdio(ctx, s.srv)
}

// ServeHTTP runs the server over HTTP with SSE.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcpgo.ServeHTTP(ctx, s.srv, addr)
}

type actionInfo struct {
	Name          string            `json:"name"`
	Cost          int               `json:"cost"`
	Preconditions map[string]string `json:"preconditions,omitempty"`
}

func (s *Server) listActions(_ context.Context, _ json.RawMessage) (string, error) {
	actions := s.bundle.Actions.Actions()
	out := make([]actionInfo, 0, len(actions))
	for _, a := range actions {
		info := actionInfo{Name: a.Name(), Cost: a.Cost(), Preconditions: map[string]string{}}
		for fact, req := range a.Preconditions() {
			info.Preconditions[fact] = req.String()
		}
		out = append(out, info)
	}
	return encode(out)
}

type planInput struct {
	State    map[string]any `json:"state"`
	Goal     string         `json:"goal"`
	GoalExpr string         `json:"goal_expr"`
	MaxDepth int            `json:"max_depth"`
}

type planOutput struct {
	Goal     string   `json:"goal"`
	Found    bool     `json:"found"`
	Plan     []string `json:"plan"`
	Dequeued int      `json:"dequeued"`
}

func (s *Server) plan(ctx context.Context, input json.RawMessage) (string, error) {
	var in planInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	start, err := world.FromMap(in.State)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	name, g, err := s.bundle.ResolveGoal(start, in.Goal, in.GoalExpr)
	if err != nil {
		return "", err
	}

	depth := s.maxDepth
	if in.MaxDepth > 0 {
		depth = in.MaxDepth
	}

	res, err := s.planner.Search(ctx, planner.Request{
		Start:    start,
		Goal:     g,
		GoalName: name,
		MaxDepth: depth,
	})
	if err != nil {
		return "", err
	}

	out := planOutput{Goal: name, Found: res.Found, Plan: []string{}, Dequeued: res.Stats.Dequeued}
	if res.Found {
		out.Plan = append(out.Plan, res.Plan...)
	}
	return encode(out)
}

type runInput struct {
	State map[string]any `json:"state"`
}

func (s *Server) runEpisode(ctx context.Context, input json.RawMessage) (string, error) {
	var in runInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	start, err := world.FromMap(in.State)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ep, err := s.runner.RunEpisode(ctx, start)
	if err != nil {
		return "", err
	}
	return encode(ep)
}

type episodeLogInput struct {
	EpisodeID string `json:"episode_id"`
	From      uint64 `json:"from"`
}

func (s *Server) episodeLog(ctx context.Context, input json.RawMessage) (string, error) {
	var in episodeLogInput
	if err := decode(input, &in); err != nil {
		return "", err
	}

	if in.EpisodeID == "" {
		episodes, err := journal.Summarize(ctx, s.journal)
		if err != nil {
			return "", err
		}
		return encode(episodes)
	}

	entries, err := s.journal.LoadFrom(ctx, in.EpisodeID, in.From)
	if err != nil {
		return "", err
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return encode(entries)
}

func decode(input json.RawMessage, v any) error {
	if len(input) == 0 {
		return nil
	}
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
