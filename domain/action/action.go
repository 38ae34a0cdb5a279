package action

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Action is a named operator with preconditions, effects and a cost.
// Actions are immutable once constructed.
type Action struct {
	name string
	pre  Preconditions
	eff  Effects
	cost int
}

// New creates an action. The maps are copied.
func New(name string, pre Preconditions, eff Effects, cost int) (Action, error) {
	if strings.TrimSpace(name) == "" {
		return Action{}, ErrEmptyName
	}
	if cost < 1 {
		return Action{}, fmt.Errorf("%w: %s has cost %d", ErrInvalidCost, name, cost)
	}
	for fact, e := range eff {
		if !e.valid() {
			return Action{}, fmt.Errorf("%w: %s.%s", ErrInvalidEffect, name, fact)
		}
	}
	for fact, r := range pre {
		if r.kind == 0 {
			return Action{}, fmt.Errorf("%w: %s.%s", ErrInvalidRequirement, name, fact)
		}
	}
	if pre == nil {
		pre = Preconditions{}
	}
	if eff == nil {
		eff = Effects{}
	}
	return Action{name: name, pre: pre.Clone(), eff: eff.Clone(), cost: cost}, nil
}

// MustNew is like New but panics on error. Intended for static tables.
func MustNew(name string, pre Preconditions, eff Effects, cost int) Action {
	a, err := New(name, pre, eff, cost)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the action name.
func (a Action) Name() string {
	return a.name
}

// Cost returns the action cost. The planner does not use it.
func (a Action) Cost() int {
	return a.cost
}

// Preconditions returns a copy of the preconditions.
func (a Action) Preconditions() Preconditions {
	return a.pre.Clone()
}

// Effects returns a copy of the effects.
func (a Action) Effects() Effects {
	return a.eff.Clone()
}

// IsApplicable reports whether the action can run in s.
func (a Action) IsApplicable(s world.State) bool {
	return IsApplicable(a, s)
}

// Apply returns the state after running the action in s.
func (a Action) Apply(s world.State) world.State {
	return Apply(a, s)
}

// String renders the action with its preconditions and effects sorted by fact.
func (a Action) String() string {
	var b strings.Builder
	b.WriteString(a.name)
	b.WriteString(" [")
	for i, fact := range sortedKeys(a.pre) {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s=%s", fact, a.pre[fact])
	}
	b.WriteString("] -> [")
	for i, fact := range sortedKeys(a.eff) {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s=%s", fact, a.eff[fact])
	}
	fmt.Fprintf(&b, "] cost=%d", a.cost)
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
