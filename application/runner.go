// Package application provides the guardian's episode runner.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/agent"
	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/domain/goal"
	"github.com/felixgeelhaar/goap-go/domain/journal"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
	"github.com/felixgeelhaar/goap-go/infrastructure/planner"
	"github.com/felixgeelhaar/goap-go/infrastructure/statemachine"
	"github.com/felixgeelhaar/goap-go/infrastructure/telemetry"
)

// Default episode limits.
const (
	DefaultMaxSteps    = 10
	DefaultMaxFailures = 10
)

// Executor performs an action in the world.
type Executor interface {
	Execute(ctx context.Context, name string, s world.State) (world.State, bool, error)
}

// GoalSelector picks the goal to pursue from the current world.
type GoalSelector func(world.State) (string, plan.Goal)

// SelectBuiltinGoal picks one of the built-in goals by priority.
func SelectBuiltinGoal(s world.State) (string, plan.Goal) {
	k := goal.Select(s)
	return k.String(), k.Predicate()
}

// FixedGoal always pursues g under name.
func FixedGoal(name string, g plan.Goal) GoalSelector {
	return func(world.State) (string, plan.Goal) {
		return name, g
	}
}

// Runner drives episodes: select a goal, plan, act, and replan on failure.
type Runner struct {
	planner       planner.Planner
	environment   Executor
	catalog       *action.Catalog
	journal       journal.Store
	memory        *agent.Memory
	metrics       telemetry.Metrics
	tracer        trace.Tracer
	selectGoal    GoalSelector
	maxSteps      int
	maxFailures   int
	maxDepth      int
	maxConcurrent int
}

// RunnerConfig contains configuration for the runner.
type RunnerConfig struct {
	Planner     planner.Planner
	Environment Executor

	// Catalog is the action set used by Stress. Defaults to the dungeon catalog.
	Catalog *action.Catalog

	// Journal receives an audit trail of every episode. Nil disables it.
	Journal journal.Store

	Memory       *agent.Memory
	Metrics      telemetry.Metrics
	Tracer       trace.Tracer
	GoalSelector GoalSelector

	MaxSteps      int
	MaxFailures   int
	MaxDepth      int
	MaxConcurrent int
}

// NewRunner creates a runner with the given configuration.
func NewRunner(config RunnerConfig) (*Runner, error) {
	if config.Planner == nil {
		return nil, errors.New("planner is required")
	}
	if config.Environment == nil {
		return nil, errors.New("environment is required")
	}

	r := &Runner{
		planner:       config.Planner,
		environment:   config.Environment,
		catalog:       config.Catalog,
		journal:       config.Journal,
		memory:        config.Memory,
		metrics:       config.Metrics,
		tracer:        config.Tracer,
		selectGoal:    config.GoalSelector,
		maxSteps:      config.MaxSteps,
		maxFailures:   config.MaxFailures,
		maxDepth:      config.MaxDepth,
		maxConcurrent: config.MaxConcurrent,
	}

	if r.catalog == nil {
		r.catalog = dungeon.DefaultCatalog()
	}
	if r.memory == nil {
		r.memory = agent.NewMemory()
	}
	if r.metrics == nil {
		r.metrics = &telemetry.NoopMetricsProvider{}
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(telemetry.TracerName)
	}
	if r.selectGoal == nil {
		r.selectGoal = SelectBuiltinGoal
	}
	if r.maxSteps <= 0 {
		r.maxSteps = DefaultMaxSteps
	}
	if r.maxFailures <= 0 {
		r.maxFailures = DefaultMaxFailures
	}
	if r.maxConcurrent <= 0 {
		r.maxConcurrent = 4
	}

	return r, nil
}

// Memory returns the runner's failure memory.
func (r *Runner) Memory() *agent.Memory {
	return r.memory
}

// episodeRun holds the per-episode collaborators.
type episodeRun struct {
	ep     *agent.Episode
	interp *statemachine.Interpreter
	rec    *recorder
	goal   plan.Goal
}

// RunEpisode runs one episode from start until the goal is reached, no plan
// exists, the step or failure budget is spent, or ctx is cancelled. Failed
// actions do not consume a step. The returned error is non-nil only for
// cancellation or an unexpected planner or environment error; the episode is
// returned either way.
func (r *Runner) RunEpisode(ctx context.Context, start world.State) (*agent.Episode, error) {
	ep := agent.NewEpisode(start)

	interp, err := statemachine.ForEpisode(ep)
	if err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "goap.episode", trace.WithAttributes(
		attribute.String("goap.episode_id", ep.ID),
		attribute.Int("goap.max_steps", r.maxSteps),
	))
	defer span.End()

	run := &episodeRun{ep: ep, interp: interp, rec: newRecorder(r.journal, ep.ID)}
	interp.OnTransition(func(from, to agent.Phase, reason string) {
		r.metrics.RecordPhaseTransition(ctx, from.String(), to.String(), ep.ID)
		run.rec.record(ctx, journal.TypePhaseTransitioned, journal.PhaseTransitionedPayload{From: from, To: to, Reason: reason})
		span.AddEvent("phase", trace.WithAttributes(
			attribute.String("goap.from", from.String()),
			attribute.String("goap.to", to.String()),
		))
		logging.Debug().
			Add(logging.EpisodeID(ep.ID)).
			Add(logging.FromPhase(from)).
			Add(logging.ToPhase(to)).
			Add(logging.Reason(reason)).
			Msg("phase transition")
	})
	interp.Start()
	defer interp.Stop()

	r.metrics.IncrementActiveEpisodes(ctx)
	defer r.metrics.DecrementActiveEpisodes(ctx)

	run.rec.record(ctx, journal.TypeEpisodeStarted, journal.EpisodeStartedPayload{Start: ep.Start, MaxSteps: r.maxSteps})
	logging.Info().
		Add(logging.EpisodeID(ep.ID)).
		Add(logging.WorldState(ep.Start)).
		Msg("episode started")

	err = r.loop(ctx, run)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	r.finish(ctx, run, span)
	return ep, err
}

func (r *Runner) loop(ctx context.Context, run *episodeRun) error {
	ep := run.ep

	for ep.Step < r.maxSteps {
		if err := ctx.Err(); err != nil {
			return r.abort(run, err)
		}

		if ep.Phase == agent.PhaseSelectGoal {
			done, err := r.planStep(ctx, run)
			if err != nil || done {
				return err
			}
		}

		done, err := r.actStep(ctx, run)
		if err != nil || done {
			return err
		}
	}

	return run.interp.Transition(agent.PhaseExhausted, fmt.Sprintf("step budget of %d spent", r.maxSteps))
}

// planStep selects a goal and searches for a plan. It reports done when the
// episode reached a terminal phase.
func (r *Runner) planStep(ctx context.Context, run *episodeRun) (bool, error) {
	ep := run.ep

	name, g := r.selectGoal(ep.World)
	ep.Goal = name
	run.goal = g
	run.rec.record(ctx, journal.TypeGoalSelected, journal.GoalSelectedPayload{Goal: name, World: ep.World})

	if err := run.interp.Transition(agent.PhasePlan, "goal "+name); err != nil {
		return true, err
	}

	res, err := r.planner.Search(ctx, planner.Request{
		Start:    ep.World,
		Goal:     g,
		GoalName: name,
		MaxDepth: r.maxDepth,
	})
	if err != nil {
		return true, r.abort(run, fmt.Errorf("plan search: %w", err))
	}

	payload := journal.PlanPayload{Goal: name, Plan: res.Plan, Dequeued: res.Stats.Dequeued}
	if !res.Found {
		run.rec.record(ctx, journal.TypePlanNotFound, payload)
		logging.Info().
			Add(logging.EpisodeID(ep.ID)).
			Add(logging.Goal(name)).
			Add(logging.Dequeued(res.Stats.Dequeued)).
			Msg("no valid plan found")
		return true, run.interp.Transition(agent.PhaseNoPlan, "no plan for "+name)
	}

	run.rec.record(ctx, journal.TypePlanFound, payload)
	logging.Info().
		Add(logging.EpisodeID(ep.ID)).
		Add(logging.Goal(name)).
		Add(logging.Plan(res.Plan)).
		Msg("plan found")

	if res.Plan.Len() == 0 {
		return true, run.interp.Transition(agent.PhaseAchieved, name+" already satisfied")
	}
	ep.Plan = res.Plan.Clone()
	return false, run.interp.Transition(agent.PhaseExecute, res.Plan.String())
}

// actStep executes the head of the current plan.
func (r *Runner) actStep(ctx context.Context, run *episodeRun) (bool, error) {
	ep := run.ep

	name, ok := ep.Plan.Head()
	if !ok {
		return true, fmt.Errorf("%w: executing without a plan", agent.ErrInvalidTransition)
	}
	ep.Plan = ep.Plan.Tail()

	before := ep.World
	justification := agent.Justify(name, before, ep.Goal)

	started := time.Now()
	after, success, err := r.environment.Execute(ctx, name, before)
	if err != nil {
		return true, r.abort(run, fmt.Errorf("execute %s: %w", name, err))
	}
	r.metrics.RecordActionExecution(ctx, name, success, time.Since(started))

	ep.Record(agent.StepRecord{
		Step:          ep.Step + 1,
		Goal:          ep.Goal,
		Action:        name,
		Justification: justification,
		Success:       success,
		Before:        before,
		After:         after,
	})

	logging.Info().
		Add(logging.EpisodeID(ep.ID)).
		Add(logging.Step(ep.Step + 1)).
		Add(logging.Action(name)).
		Add(logging.Success(success)).
		Add(logging.Reason(justification)).
		Msg("action executed")

	payload := journal.ActionPayload{Action: name, Goal: ep.Goal, Justification: justification, Before: before}
	if !success {
		run.rec.record(ctx, journal.TypeActionFailed, payload)
		r.memory.Reflect(agent.Failure{Action: name, State: before, Goal: ep.Goal})
		ep.Plan = nil

		if ep.Failures >= r.maxFailures {
			return true, run.interp.Transition(agent.PhaseExhausted, fmt.Sprintf("failure budget of %d spent", r.maxFailures))
		}
		return false, run.interp.Transition(agent.PhaseSelectGoal, name+" failed")
	}

	payload.After = after
	run.rec.record(ctx, journal.TypeActionSucceeded, payload)

	if run.goal(ep.World) {
		return true, run.interp.Transition(agent.PhaseAchieved, ep.Goal+" achieved")
	}

	ep.Step++
	if ep.Plan.Len() == 0 {
		return false, run.interp.Transition(agent.PhaseSelectGoal, "plan finished without reaching "+ep.Goal)
	}
	return false, nil
}

func (r *Runner) abort(run *episodeRun, cause error) error {
	if err := run.interp.Transition(agent.PhaseAborted, cause.Error()); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func (r *Runner) finish(ctx context.Context, run *episodeRun, span trace.Span) {
	ep := run.ep

	run.rec.record(ctx, journal.TypeEpisodeFinished, journal.EpisodeFinishedPayload{
		Outcome:  ep.Phase,
		Goal:     ep.Goal,
		Steps:    ep.Step,
		Failures: ep.Failures,
		World:    ep.World,
		Duration: ep.Duration(),
	})
	r.metrics.RecordEpisodeDuration(ctx, ep.Duration(), ep.Phase.String(), ep.Achieved())

	span.SetAttributes(
		attribute.String("goap.outcome", ep.Phase.String()),
		attribute.Int("goap.steps", ep.Step),
		attribute.Int("goap.failures", ep.Failures),
	)

	logging.Info().
		Add(logging.EpisodeID(ep.ID)).
		Add(logging.Phase(ep.Phase)).
		Add(logging.Goal(ep.Goal)).
		Add(logging.Count(len(ep.Steps))).
		Add(logging.WorldState(ep.World)).
		Add(logging.Duration(ep.Duration())).
		Msg("episode finished")
}
