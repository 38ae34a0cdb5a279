package action

import "github.com/felixgeelhaar/goap-go/domain/world"

// IsApplicable reports whether every precondition of a holds in s.
// A fact missing from s fails its requirement.
func IsApplicable(a Action, s world.State) bool {
	return a.pre.Satisfied(s)
}

// Apply returns a new state with the effects of a overlaid on s.
// s is not modified. Derived effects read s, never a partially updated state,
// so the result does not depend on effect order.
func Apply(a Action, s world.State) world.State {
	next := s.Clone()
	for fact, e := range a.eff {
		v, ok := s.Get(fact)
		next[fact] = e.Resolve(v, ok)
	}
	return next
}
