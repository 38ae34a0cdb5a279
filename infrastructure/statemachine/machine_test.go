package statemachine

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/statekit"
	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/goap-go/domain/agent"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

func eventOf(t statekit.EventType) statekit.Event {
	return statekit.Event{Type: t}
}

func newInterpreter(t *testing.T) (*Interpreter, *agent.Episode) {
	t.Helper()

	ep := agent.NewEpisodeWithID("ep-1", world.State{"health": world.Int(20)})
	interp, err := ForEpisode(ep)
	if err != nil {
		t.Fatalf("ForEpisode() error = %v", err)
	}
	interp.Start()
	return interp, ep
}

func TestNewEpisodeMachine(t *testing.T) {
	t.Parallel()

	machine, err := NewEpisodeMachine()
	if err != nil {
		t.Fatalf("NewEpisodeMachine() error = %v", err)
	}
	if machine == nil {
		t.Fatal("NewEpisodeMachine() returned nil machine")
	}
}

func TestEventFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phase agent.Phase
		want  string
	}{
		{agent.PhasePlan, "PLAN"},
		{agent.PhaseExecute, "EXECUTE"},
		{agent.PhaseNoPlan, "NO_PLAN"},
		{agent.PhaseAchieved, "ACHIEVE"},
		{agent.PhaseSelectGoal, "REPLAN"},
		{agent.PhaseExhausted, "EXHAUST"},
		{agent.PhaseAborted, "ABORT"},
		{agent.Phase("custom"), "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			t.Parallel()

			if got := EventFor(tt.phase); string(got) != tt.want {
				t.Errorf("EventFor(%s) = %s, want %s", tt.phase, got, tt.want)
			}
		})
	}
}

func TestPhaseFromEvent_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, p := range agent.AllPhases() {
		if p == agent.PhaseSelectGoal {
			continue
		}
		ev := EventFor(p)
		if got := phaseFromEvent(eventOf(ev)); got != p {
			t.Errorf("phaseFromEvent(%s) = %s, want %s", ev, got, p)
		}
	}
}

func TestInterpreter_Start(t *testing.T) {
	t.Parallel()

	interp, ep := newInterpreter(t)

	if interp.Phase() != agent.PhaseSelectGoal {
		t.Errorf("Phase() = %s, want select_goal", interp.Phase())
	}
	if ep.Phase != agent.PhaseSelectGoal {
		t.Errorf("episode phase = %s", ep.Phase)
	}
	if interp.IsTerminal() {
		t.Error("a fresh machine should not be terminal")
	}
	if !interp.Matches(agent.PhaseSelectGoal) || interp.Matches(agent.PhasePlan) {
		t.Error("Matches() disagrees with the current phase")
	}
	if interp.Context().Episode != ep {
		t.Error("Context() should carry the episode")
	}
}

func TestInterpreter_Lifecycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  []agent.Phase
		final agent.Phase
	}{
		{
			name:  "achieved after executing",
			path:  []agent.Phase{agent.PhasePlan, agent.PhaseExecute, agent.PhaseExecute, agent.PhaseAchieved},
			final: agent.PhaseAchieved,
		},
		{
			name:  "already satisfied",
			path:  []agent.Phase{agent.PhasePlan, agent.PhaseAchieved},
			final: agent.PhaseAchieved,
		},
		{
			name:  "no plan",
			path:  []agent.Phase{agent.PhasePlan, agent.PhaseNoPlan},
			final: agent.PhaseNoPlan,
		},
		{
			name: "replan then exhaust",
			path: []agent.Phase{
				agent.PhasePlan, agent.PhaseExecute, agent.PhaseSelectGoal,
				agent.PhasePlan, agent.PhaseExecute, agent.PhaseExhausted,
			},
			final: agent.PhaseExhausted,
		},
		{
			name:  "aborted while planning",
			path:  []agent.Phase{agent.PhasePlan, agent.PhaseAborted},
			final: agent.PhaseAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			interp, ep := newInterpreter(t)

			type move struct{ From, To agent.Phase }
			var seen []move
			interp.OnTransition(func(from, to agent.Phase, _ string) {
				seen = append(seen, move{from, to})
			})

			var want []move
			from := agent.PhaseSelectGoal
			for _, to := range tt.path {
				if err := interp.Transition(to, "test"); err != nil {
					t.Fatalf("Transition(%s) error = %v", to, err)
				}
				want = append(want, move{from, to})
				from = to
			}

			if ep.Phase != tt.final || interp.Phase() != tt.final {
				t.Errorf("phase = %s / %s, want %s", ep.Phase, interp.Phase(), tt.final)
			}
			if !interp.IsTerminal() {
				t.Error("machine should be in a final state")
			}
			if ep.EndTime.IsZero() {
				t.Error("terminal episode should have an end time")
			}
			if diff := cmp.Diff(want, seen); diff != "" {
				t.Errorf("transitions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterpreter_RejectsInvalidTransition(t *testing.T) {
	t.Parallel()

	interp, ep := newInterpreter(t)

	err := interp.Transition(agent.PhaseExecute, "skip planning")
	if !errors.Is(err, agent.ErrInvalidTransition) {
		t.Fatalf("error = %v, want ErrInvalidTransition", err)
	}
	if interp.Phase() != agent.PhaseSelectGoal || ep.Phase != agent.PhaseSelectGoal {
		t.Errorf("phase moved to %s / %s", interp.Phase(), ep.Phase)
	}
}

func TestInterpreter_TerminalIsFinal(t *testing.T) {
	t.Parallel()

	interp, _ := newInterpreter(t)
	if err := interp.Transition(agent.PhaseAborted, "cancelled"); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	if err := interp.Transition(agent.PhasePlan, "again"); !errors.Is(err, agent.ErrEpisodeTerminated) {
		t.Errorf("error = %v, want ErrEpisodeTerminated", err)
	}
}

func TestGuardCanTransition_NilContext(t *testing.T) {
	t.Parallel()

	if guardCanTransition(nil, eventOf(EventPlan)) {
		t.Error("nil context should not allow transitions")
	}
	if guardCanTransition(&Context{}, eventOf(EventPlan)) {
		t.Error("context without an episode should not allow transitions")
	}
}

func TestLogPhaseEntry_NilSafe(t *testing.T) {
	t.Parallel()

	logPhaseEntry(nil, eventOf(EventPlan))
	var c *Context
	logPhaseEntry(&c, eventOf(EventPlan))
}
