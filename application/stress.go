package application

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
)

// History markers recorded by Stress besides action names.
const (
	StressDisabled = "disabled"
	StressRestored = "restored"
)

// StressOptions configures the random-action diagnostic mode.
type StressOptions struct {
	// Duration bounds the whole run.
	Duration time.Duration

	// Interval is the pause between ticks. Zero means no pause.
	Interval time.Duration

	// DisableChance is the chance the guardian is disabled after an action;
	// RestoreChance the chance it recovers on each disabled tick.
	DisableChance float64
	RestoreChance float64

	// MaxTicks stops the run after this many ticks. Zero means unlimited.
	MaxTicks int

	// Source supplies randomness. Defaults to a randomly seeded PCG.
	Source interface{ Float64() float64 }
}

// DefaultStressOptions returns the stock diagnostic settings.
func DefaultStressOptions() StressOptions {
	return StressOptions{
		Duration:      2 * time.Minute,
		Interval:      2 * time.Second,
		DisableChance: 0.5,
		RestoreChance: 0.23,
	}
}

// StressReport is the outcome of a stress run.
type StressReport struct {
	History []string
	Final   world.State
	Ticks   int
}

// Stress repeatedly applies randomly chosen catalog actions to start, ignoring
// goals and the planner. After each applied action the guardian may become
// disabled and skips ticks until restored. It runs until the duration or tick
// limit is reached, or ctx is done.
func (r *Runner) Stress(ctx context.Context, start world.State, opts StressOptions) StressReport {
	if opts.Source == nil {
		opts.Source = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	actions := r.catalog.Actions()
	report := StressReport{History: []string{}, Final: start.Clone()}
	down := false

	logging.Warn().
		Add(logging.Component("stress")).
		Add(logging.Duration(opts.Duration)).
		Msg("stress mode started, actions are chosen at random")

	for opts.MaxTicks <= 0 || report.Ticks < opts.MaxTicks {
		if ctx.Err() != nil {
			break
		}
		report.Ticks++

		if down {
			if opts.Source.Float64() >= opts.RestoreChance {
				stressPause(ctx, opts.Interval)
				continue
			}
			down = false
			report.History = append(report.History, StressRestored)
			logging.Info().Add(logging.Component("stress")).Msg("guardian restored")
		}

		// A restored guardian acts in the same tick.
		if len(actions) > 0 {
			a := actions[int(opts.Source.Float64()*float64(len(actions)))%len(actions)]
			if a.IsApplicable(report.Final) {
				report.Final = a.Apply(report.Final)
				report.History = append(report.History, a.Name())
				logging.Info().Add(logging.Component("stress")).Add(logging.Action(a.Name())).Msg("random action performed")

				if opts.Source.Float64() < opts.DisableChance {
					down = true
					report.History = append(report.History, StressDisabled)
					logging.Info().Add(logging.Component("stress")).Msg("guardian disabled")
				}
			} else {
				logging.Debug().Add(logging.Component("stress")).Add(logging.Action(a.Name())).Msg("action not applicable")
			}
		}

		stressPause(ctx, opts.Interval)
	}

	logging.Warn().
		Add(logging.Component("stress")).
		Add(logging.Count(len(report.History))).
		Msg("stress mode finished")

	return report
}

func stressPause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
