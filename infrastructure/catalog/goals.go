package catalog

import (
	"github.com/felixgeelhaar/goap-go/domain/goal"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// ResolveGoal picks the goal to plan for from start. An expression wins over
// a name. A name is looked up among the bundle's own goals before the
// built-in ones. With neither, the built-in heuristic chooses.
func (b *Bundle) ResolveGoal(start world.State, name, expr string) (string, plan.Goal, error) {
	switch {
	case expr != "":
		g, err := CompileGoal(expr)
		if err != nil {
			return "", nil, err
		}
		return expr, g, nil

	case name != "":
		if g, ok := b.Goals[name]; ok {
			return name, g, nil
		}
		k, err := goal.Parse(name)
		if err != nil {
			return "", nil, err
		}
		return k.String(), k.Predicate(), nil

	default:
		k := goal.Select(start)
		return k.String(), k.Predicate(), nil
	}
}
