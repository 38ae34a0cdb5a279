// Package plan provides plans, goal predicates and plan simulation.
package plan

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Goal reports whether a state satisfies an objective.
type Goal func(world.State) bool

// Plan is an ordered list of action names. An empty, non-nil plan means the
// start state already satisfies the goal.
type Plan []string

// Len returns the number of steps.
func (p Plan) Len() int {
	return len(p)
}

// Head returns the first action and whether there is one.
func (p Plan) Head() (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	return p[0], true
}

// Tail returns the plan without its first action.
func (p Plan) Tail() Plan {
	if len(p) <= 1 {
		return Plan{}
	}
	return p[1:].Clone()
}

// Clone returns an independent copy.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	c := make(Plan, len(p))
	copy(c, p)
	return c
}

// String renders the plan as "A -> B -> C".
func (p Plan) String() string {
	if len(p) == 0 {
		return "[]"
	}
	return strings.Join(p, " -> ")
}

// Walk simulates the plan from start and returns the final state.
// It fails if an action is unknown or not applicable when reached.
func Walk(catalog *action.Catalog, start world.State, p Plan) (world.State, error) {
	s := start
	for i, name := range p {
		a, ok := catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: step %d %s", ErrUnknownAction, i, name)
		}
		if !a.IsApplicable(s) {
			return nil, fmt.Errorf("%w: step %d %s in %s", ErrNotApplicable, i, name, s)
		}
		s = a.Apply(s)
	}
	return s, nil
}

// Satisfies reports whether walking p from start reaches a goal state.
func Satisfies(catalog *action.Catalog, start world.State, p Plan, goal Goal) bool {
	end, err := Walk(catalog, start, p)
	return err == nil && goal(end)
}
