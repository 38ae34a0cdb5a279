package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/goap-go/domain/agent"
)

// TransitionPayload carries the target phase and a reason with an event.
type TransitionPayload struct {
	To     agent.Phase
	Reason string
}

// TransitionFunc observes every accepted transition.
type TransitionFunc func(from, to agent.Phase, reason string)

// Interpreter wraps the statekit interpreter and keeps the episode's phase in
// step with the machine.
type Interpreter struct {
	interp       *statekit.Interpreter[*Context]
	ctx          *Context
	onTransition TransitionFunc
}

// NewInterpreter creates an interpreter bound to ctx.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// ForEpisode builds the episode machine and an interpreter for ep.
func ForEpisode(ep *agent.Episode) (*Interpreter, error) {
	machine, err := NewEpisodeMachine()
	if err != nil {
		return nil, fmt.Errorf("build episode machine: %w", err)
	}
	return NewInterpreter(machine, NewContext(ep)), nil
}

// OnTransition registers fn to run after each accepted transition.
func (i *Interpreter) OnTransition(fn TransitionFunc) {
	i.onTransition = fn
}

// Start enters the initial phase.
func (i *Interpreter) Start() {
	i.interp.Start()
	i.ctx.Episode.Phase = PhaseFromMachine(i.interp.State().Value)
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Phase returns the machine's current phase.
func (i *Interpreter) Phase() agent.Phase {
	return PhaseFromMachine(i.interp.State().Value)
}

// Transition moves the episode to phase to. The episode's transition table is
// checked first; a rejected move leaves both machine and episode unchanged.
func (i *Interpreter) Transition(to agent.Phase, reason string) error {
	from := i.ctx.Episode.Phase
	if from.IsTerminal() {
		return agent.ErrEpisodeTerminated
	}
	if !i.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", agent.ErrInvalidTransition, from, to)
	}

	i.interp.Send(statekit.Event{
		Type:    EventFor(to),
		Payload: TransitionPayload{To: to, Reason: reason},
	})

	if got := i.Phase(); got != to {
		return fmt.Errorf("%w: machine stayed in %s, wanted %s", agent.ErrInvalidTransition, got, to)
	}
	if err := i.ctx.Episode.TransitionTo(to); err != nil {
		return err
	}

	if i.onTransition != nil {
		i.onTransition(from, to, reason)
	}
	return nil
}

// CanTransition reports whether the episode may move to phase to.
func (i *Interpreter) CanTransition(to agent.Phase) bool {
	return i.ctx.Episode.Phase.CanTransition(to)
}

// IsTerminal returns true if the machine reached a final state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// Matches checks if the current state matches the given phase.
func (i *Interpreter) Matches(p agent.Phase) bool {
	return i.interp.Matches(statekit.StateID(p))
}
