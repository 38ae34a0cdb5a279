package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
)

// logPhaseEntry logs when the machine enters a phase.
// Actions receive a pointer to the context, so **Context here.
func logPhaseEntry(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Episode == nil {
		return
	}

	ep := (*ctx).Episode
	phase, reason := ep.Phase, ""
	if payload, ok := event.Payload.(TransitionPayload); ok {
		phase, reason = payload.To, payload.Reason
	}

	logging.Debug().
		Add(logging.Component("statemachine")).
		Add(logging.EpisodeID(ep.ID)).
		Add(logging.Phase(phase)).
		Add(logging.Reason(reason)).
		Msg("entered phase")
}
