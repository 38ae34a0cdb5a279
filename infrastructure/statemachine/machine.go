// Package statemachine drives episode phases through a statekit statechart.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/goap-go/domain/agent"
)

// Context carries the episode through the machine.
type Context struct {
	Episode *agent.Episode
}

// NewContext creates a machine context for ep.
func NewContext(ep *agent.Episode) *Context {
	return &Context{Episode: ep}
}

// State IDs as StateID type for statekit.
const (
	stateSelectGoal statekit.StateID = statekit.StateID(agent.PhaseSelectGoal)
	statePlan       statekit.StateID = statekit.StateID(agent.PhasePlan)
	stateExecute    statekit.StateID = statekit.StateID(agent.PhaseExecute)
	stateAchieved   statekit.StateID = statekit.StateID(agent.PhaseAchieved)
	stateNoPlan     statekit.StateID = statekit.StateID(agent.PhaseNoPlan)
	stateExhausted  statekit.StateID = statekit.StateID(agent.PhaseExhausted)
	stateAborted    statekit.StateID = statekit.StateID(agent.PhaseAborted)
)

// Events understood by the episode machine.
const (
	EventPlan    statekit.EventType = "PLAN"
	EventExecute statekit.EventType = "EXECUTE"
	EventNoPlan  statekit.EventType = "NO_PLAN"
	EventAchieve statekit.EventType = "ACHIEVE"
	EventReplan  statekit.EventType = "REPLAN"
	EventExhaust statekit.EventType = "EXHAUST"
	EventAbort   statekit.EventType = "ABORT"
)

// NewEpisodeMachine creates the guardian's episode statechart.
func NewEpisodeMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("episode").
		WithInitial(stateSelectGoal).
		WithContext(&Context{}).
		WithAction("logEntry", logPhaseEntry).
		WithGuard("canTransition", guardCanTransition).
		State(stateSelectGoal).
			OnEntry("logEntry").
			On(EventPlan).Target(statePlan).Guard("canTransition").
			On(EventExhaust).Target(stateExhausted).Guard("canTransition").
			On(EventAbort).Target(stateAborted).
			Done().
		State(statePlan).
			OnEntry("logEntry").
			On(EventExecute).Target(stateExecute).Guard("canTransition").
			On(EventAchieve).Target(stateAchieved).Guard("canTransition").
			On(EventNoPlan).Target(stateNoPlan).Guard("canTransition").
			On(EventAbort).Target(stateAborted).
			Done().
		State(stateExecute).
			OnEntry("logEntry").
			On(EventExecute).Target(stateExecute).Guard("canTransition").
			On(EventReplan).Target(stateSelectGoal).Guard("canTransition").
			On(EventAchieve).Target(stateAchieved).Guard("canTransition").
			On(EventExhaust).Target(stateExhausted).Guard("canTransition").
			On(EventAbort).Target(stateAborted).
			Done().
		State(stateAchieved).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateNoPlan).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateExhausted).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateAborted).
			Final().
			OnEntry("logEntry").
			Done().
		Build()
}

// EventFor returns the event that moves an episode into phase to.
func EventFor(to agent.Phase) statekit.EventType {
	switch to {
	case agent.PhasePlan:
		return EventPlan
	case agent.PhaseExecute:
		return EventExecute
	case agent.PhaseNoPlan:
		return EventNoPlan
	case agent.PhaseAchieved:
		return EventAchieve
	case agent.PhaseSelectGoal:
		return EventReplan
	case agent.PhaseExhausted:
		return EventExhaust
	case agent.PhaseAborted:
		return EventAbort
	default:
		return statekit.EventType(to)
	}
}

// PhaseFromMachine converts a machine state ID to a phase.
func PhaseFromMachine(id statekit.StateID) agent.Phase {
	return agent.Phase(id)
}
