package agent

import "testing"

func TestPhase_IsTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phase Phase
		want  bool
	}{
		{PhaseSelectGoal, false},
		{PhasePlan, false},
		{PhaseExecute, false},
		{PhaseAchieved, true},
		{PhaseNoPlan, true},
		{PhaseExhausted, true},
		{PhaseAborted, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			t.Parallel()
			if got := tt.phase.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPhase_IsValid(t *testing.T) {
	t.Parallel()

	for _, p := range AllPhases() {
		if !p.IsValid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if Phase("sleeping").IsValid() {
		t.Error("unknown phase should be invalid")
	}
}

func TestPhase_CanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseSelectGoal, PhasePlan, true},
		{PhaseSelectGoal, PhaseExecute, false},
		{PhaseSelectGoal, PhaseExhausted, true},
		{PhasePlan, PhaseExecute, true},
		{PhasePlan, PhaseAchieved, true},
		{PhasePlan, PhaseNoPlan, true},
		{PhaseExecute, PhaseExecute, true},
		{PhaseExecute, PhaseSelectGoal, true},
		{PhaseExecute, PhaseExhausted, true},
		{PhaseExecute, PhaseNoPlan, false},
		{PhaseAchieved, PhasePlan, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTerminalPhases(t *testing.T) {
	t.Parallel()

	for _, p := range TerminalPhases() {
		if !p.IsTerminal() {
			t.Errorf("%s listed as terminal but IsTerminal() is false", p)
		}
	}
}
