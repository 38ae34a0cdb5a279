package catalog

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// ExprDerivation computes a new fact value from an expression over the
// current value, bound as "value". A failed evaluation or a result that is
// not a bool, integer or string leaves the value unchanged.
type ExprDerivation struct {
	source  string
	program *vm.Program
}

// CompileDerivation compiles src into a derivation.
func CompileDerivation(src string) (ExprDerivation, error) {
	program, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return ExprDerivation{}, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, src, err)
	}
	return ExprDerivation{source: src, program: program}, nil
}

// Derive implements action.Derivation.
func (d ExprDerivation) Derive(current world.Value) world.Value {
	out, err := expr.Run(d.program, map[string]any{"value": current.Any()})
	if err != nil {
		return current
	}
	v, err := world.FromAny(out)
	if err != nil {
		return current
	}
	return v
}

func (d ExprDerivation) String() string {
	return d.source
}

var _ action.Derivation = ExprDerivation{}

// CompileGoal compiles a boolean expression over the state's facts into a
// goal predicate. Facts missing from the state are nil; an evaluation error
// counts as unsatisfied.
func CompileGoal(src string) (plan.Goal, error) {
	program, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, src, err)
	}

	return func(s world.State) bool {
		out, err := expr.Run(program, s.Map())
		if err != nil {
			return false
		}
		b, _ := out.(bool)
		return b
	}, nil
}
