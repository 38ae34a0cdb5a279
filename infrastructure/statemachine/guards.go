package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/goap-go/domain/agent"
)

// guardCanTransition checks the episode's own transition table. Guards receive
// the context by value, which for *Context is the pointer itself.
func guardCanTransition(ctx *Context, event statekit.Event) bool {
	if ctx == nil || ctx.Episode == nil {
		return false
	}

	to := phaseFromEvent(event)
	return ctx.Episode.Phase.CanTransition(to)
}

// phaseFromEvent reads the target phase from the payload, falling back to the
// event type.
func phaseFromEvent(event statekit.Event) agent.Phase {
	if payload, ok := event.Payload.(TransitionPayload); ok && payload.To != "" {
		return payload.To
	}
	switch event.Type {
	case EventPlan:
		return agent.PhasePlan
	case EventExecute:
		return agent.PhaseExecute
	case EventNoPlan:
		return agent.PhaseNoPlan
	case EventAchieve:
		return agent.PhaseAchieved
	case EventReplan:
		return agent.PhaseSelectGoal
	case EventExhaust:
		return agent.PhaseExhausted
	case EventAbort:
		return agent.PhaseAborted
	default:
		return agent.Phase(event.Type)
	}
}
