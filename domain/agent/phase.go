// Package agent provides the guardian's episode model and cognitive layer.
package agent

// Phase identifies where an episode is in its plan/act loop.
type Phase string

const (
	PhaseSelectGoal Phase = "select_goal" // Pick a goal for the current state
	PhasePlan       Phase = "plan"        // Search for a plan
	PhaseExecute    Phase = "execute"     // Perform the next planned action
	PhaseAchieved   Phase = "achieved"    // Terminal: goal satisfied
	PhaseNoPlan     Phase = "no_plan"     // Terminal: planner found nothing
	PhaseExhausted  Phase = "exhausted"   // Terminal: step or failure budget spent
	PhaseAborted    Phase = "aborted"     // Terminal: context cancelled
)

var transitions = map[Phase][]Phase{
	PhaseSelectGoal: {PhasePlan, PhaseExhausted, PhaseAborted},
	PhasePlan:       {PhaseExecute, PhaseAchieved, PhaseNoPlan, PhaseAborted},
	PhaseExecute:    {PhaseExecute, PhaseSelectGoal, PhaseAchieved, PhaseExhausted, PhaseAborted},
}

// IsTerminal reports whether the episode ends in this phase.
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseAchieved, PhaseNoPlan, PhaseExhausted, PhaseAborted:
		return true
	default:
		return false
	}
}

// IsValid returns true if the phase is recognized.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseSelectGoal, PhasePlan, PhaseExecute, PhaseAchieved, PhaseNoPlan, PhaseExhausted, PhaseAborted:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an episode may move from p to next.
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// AllPhases returns every episode phase.
func AllPhases() []Phase {
	return []Phase{
		PhaseSelectGoal,
		PhasePlan,
		PhaseExecute,
		PhaseAchieved,
		PhaseNoPlan,
		PhaseExhausted,
		PhaseAborted,
	}
}

// TerminalPhases returns the phases an episode can finish in.
func TerminalPhases() []Phase {
	return []Phase{PhaseAchieved, PhaseNoPlan, PhaseExhausted, PhaseAborted}
}
