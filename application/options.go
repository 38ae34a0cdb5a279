package application

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/agent"
	"github.com/felixgeelhaar/goap-go/domain/config"
	"github.com/felixgeelhaar/goap-go/domain/journal"
	"github.com/felixgeelhaar/goap-go/infrastructure/planner"
	"github.com/felixgeelhaar/goap-go/infrastructure/telemetry"
)

// Option configures the runner.
type Option func(*RunnerConfig)

// WithPlanner sets the planner.
func WithPlanner(p planner.Planner) Option {
	return func(c *RunnerConfig) {
		c.Planner = p
	}
}

// WithEnvironment sets the action executor.
func WithEnvironment(e Executor) Option {
	return func(c *RunnerConfig) {
		c.Environment = e
	}
}

// WithCatalog sets the action catalog used by Stress.
func WithCatalog(cat *action.Catalog) Option {
	return func(c *RunnerConfig) {
		c.Catalog = cat
	}
}

// WithJournal sets the episode journal.
func WithJournal(s journal.Store) Option {
	return func(c *RunnerConfig) {
		c.Journal = s
	}
}

// WithMemory shares a failure memory between runners.
func WithMemory(m *agent.Memory) Option {
	return func(c *RunnerConfig) {
		c.Memory = m
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *RunnerConfig) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *RunnerConfig) {
		c.Tracer = t
	}
}

// WithGoalSelector replaces the built-in goal selection.
func WithGoalSelector(s GoalSelector) Option {
	return func(c *RunnerConfig) {
		c.GoalSelector = s
	}
}

// WithMaxSteps sets the step budget per episode.
func WithMaxSteps(n int) Option {
	return func(c *RunnerConfig) {
		c.MaxSteps = n
	}
}

// WithMaxFailures sets the failure budget per episode.
func WithMaxFailures(n int) Option {
	return func(c *RunnerConfig) {
		c.MaxFailures = n
	}
}

// WithMaxDepth sets the planner's dequeue budget.
func WithMaxDepth(n int) Option {
	return func(c *RunnerConfig) {
		c.MaxDepth = n
	}
}

// WithMaxConcurrent sets how many batch episodes run at once.
func WithMaxConcurrent(n int) Option {
	return func(c *RunnerConfig) {
		c.MaxConcurrent = n
	}
}

// WithConfig applies the limits from a guardian configuration.
func WithConfig(cfg *config.GuardianConfig) Option {
	return func(c *RunnerConfig) {
		c.MaxSteps = cfg.Episode.MaxSteps
		c.MaxFailures = cfg.Episode.MaxFailures
		c.MaxDepth = cfg.Planner.MaxDepth
		c.MaxConcurrent = cfg.Batch.MaxConcurrent
	}
}

// New creates a runner from options.
func New(opts ...Option) (*Runner, error) {
	var config RunnerConfig
	for _, opt := range opts {
		opt(&config)
	}
	return NewRunner(config)
}
