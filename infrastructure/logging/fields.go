package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/goap-go/domain/agent"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// EpisodeID adds an episode ID field.
func EpisodeID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("episode_id", id)
	}
}

// Phase adds a phase field.
func Phase(p agent.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", string(p))
	}
}

// FromPhase adds a from_phase field for transitions.
func FromPhase(p agent.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_phase", string(p))
	}
}

// ToPhase adds a to_phase field for transitions.
func ToPhase(p agent.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_phase", string(p))
	}
}

// Goal adds a goal field.
func Goal(goal string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("goal", goal)
	}
}

// Action adds an action name field.
func Action(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", name)
	}
}

// Plan adds the plan rendered as "A -> B".
func Plan(p plan.Plan) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("plan", p.String()).Int("plan_len", p.Len())
	}
}

// WorldState adds the state rendered with sorted facts.
func WorldState(s world.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("world", s.String())
	}
}

// Step adds the episode step number.
func Step(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("step", n)
	}
}

// Depth adds the search budget.
func Depth(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("max_depth", n)
	}
}

// Dequeued adds the number of frontier dequeues.
func Dequeued(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("dequeued", n)
	}
}

// Found adds whether a plan was found.
func Found(found bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("found", found)
	}
}

// Success adds an outcome flag.
func Success(ok bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("success", ok)
	}
}

// Reason adds a reason field.
func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reason", reason)
	}
}

// Path adds a file path field.
func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", p)
	}
}

// Count adds a generic count field.
func Count(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("count", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// DurationNs adds a duration field in nanoseconds.
func DurationNs(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ns", d.Nanoseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
