package agent

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/goap-go/domain/world"
)

func TestNewEpisode(t *testing.T) {
	t.Parallel()

	start := world.State{"health": world.Int(20)}
	ep := NewEpisode(start)

	if ep.ID == "" {
		t.Error("NewEpisode().ID is empty")
	}
	if ep.Phase != PhaseSelectGoal {
		t.Errorf("Phase = %q, want %q", ep.Phase, PhaseSelectGoal)
	}
	if ep.StartTime.IsZero() {
		t.Error("StartTime is zero")
	}

	start["health"] = world.Int(99)
	if ep.World.Int("health") != 20 || ep.Start.Int("health") != 20 {
		t.Error("episode should hold its own copy of the start state")
	}

	if other := NewEpisode(start); other.ID == ep.ID {
		t.Error("episode IDs should be unique")
	}
}

func TestEpisode_TransitionTo(t *testing.T) {
	t.Parallel()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		ep := NewEpisodeWithID("ep-1", world.New())
		for _, p := range []Phase{PhasePlan, PhaseExecute, PhaseExecute, PhaseAchieved} {
			if err := ep.TransitionTo(p); err != nil {
				t.Fatalf("TransitionTo(%s) error = %v", p, err)
			}
		}
		if !ep.Achieved() || !ep.IsTerminal() {
			t.Errorf("Phase = %s, want achieved", ep.Phase)
		}
		if ep.EndTime.IsZero() {
			t.Error("terminal transition should set EndTime")
		}
	})

	t.Run("invalid transition", func(t *testing.T) {
		t.Parallel()

		ep := NewEpisodeWithID("ep-2", world.New())
		if err := ep.TransitionTo(PhaseExecute); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("unknown phase", func(t *testing.T) {
		t.Parallel()

		ep := NewEpisodeWithID("ep-3", world.New())
		if err := ep.TransitionTo(Phase("dreaming")); !errors.Is(err, ErrInvalidPhase) {
			t.Errorf("error = %v, want ErrInvalidPhase", err)
		}
	})

	t.Run("terminated", func(t *testing.T) {
		t.Parallel()

		ep := NewEpisodeWithID("ep-4", world.New())
		_ = ep.TransitionTo(PhasePlan)
		_ = ep.TransitionTo(PhaseNoPlan)
		if err := ep.TransitionTo(PhasePlan); !errors.Is(err, ErrEpisodeTerminated) {
			t.Errorf("error = %v, want ErrEpisodeTerminated", err)
		}
	})
}

func TestEpisode_Record(t *testing.T) {
	t.Parallel()

	start := world.State{"inSafeZone": world.Bool(false)}
	ep := NewEpisodeWithID("ep", start)

	ep.Record(StepRecord{Action: "Retreat", Success: false, Before: start, After: start})
	after := start.With("inSafeZone", world.Bool(true))
	ep.Record(StepRecord{Action: "Retreat", Success: true, Before: start, After: after})

	if ep.Failures != 1 {
		t.Errorf("Failures = %d, want 1", ep.Failures)
	}
	if !ep.World.Bool("inSafeZone") {
		t.Errorf("World = %v, want the post-action state", ep.World)
	}
	if diff := cmp.Diff([]string{"Retreat"}, ep.Actions()); diff != "" {
		t.Errorf("Actions() mismatch (-want +got):\n%s", diff)
	}
	for _, s := range ep.Steps {
		if s.Timestamp.IsZero() {
			t.Error("Record should stamp the step")
		}
	}
}

func TestEpisode_Duration(t *testing.T) {
	t.Parallel()

	ep := NewEpisode(world.New())
	if ep.Duration() < 0 {
		t.Error("running episode duration should be non-negative")
	}
	ep.EndTime = ep.StartTime.Add(5)
	if ep.Duration() != 5 {
		t.Errorf("Duration() = %v, want 5ns", ep.Duration())
	}
}
