package action

import (
	"fmt"

	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Derivation computes a fact's new value from its value before the action.
// Implementations must be pure.
type Derivation interface {
	Derive(current world.Value) world.Value
	String() string
}

// Effect is the outcome an action has on one fact: either a literal value or
// a value derived from the fact's pre-action value.
type Effect struct {
	literal world.Value
	derive  Derivation
}

// Set returns a literal effect.
func Set(v world.Value) Effect {
	return Effect{literal: v}
}

// Derive returns a derived effect.
func Derive(d Derivation) Effect {
	return Effect{derive: d}
}

// IsDerived reports whether the effect is computed from the current value.
func (e Effect) IsDerived() bool {
	return e.derive != nil
}

// Derivation returns the derivation of a derived effect, or nil.
func (e Effect) Derivation() Derivation {
	return e.derive
}

// Literal returns the literal of a literal effect.
func (e Effect) Literal() world.Value {
	return e.literal
}

// Resolve returns the value the fact takes after the effect.
// An absent fact is read as Int(0) by derivations.
func (e Effect) Resolve(current world.Value, present bool) world.Value {
	if e.derive == nil {
		return e.literal
	}
	if !present {
		current = world.Int(0)
	}
	return e.derive.Derive(current)
}

// String renders the effect.
func (e Effect) String() string {
	if e.derive != nil {
		return e.derive.String()
	}
	return e.literal.String()
}

func (e Effect) valid() bool {
	if f, ok := e.derive.(Func); ok {
		return f.Fn != nil
	}
	return e.derive != nil || e.literal.IsValid()
}

// Effects maps fact names to effects.
type Effects map[string]Effect

// Clone returns an independent copy.
func (e Effects) Clone() Effects {
	c := make(Effects, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

// asInt reads an integer, treating anything else as zero.
func asInt(v world.Value) int {
	n, _ := v.AsInt()
	return n
}

// SubtractFloor subtracts Amount and clamps the result at Floor.
type SubtractFloor struct {
	Amount int
	Floor  int
}

// Derive implements Derivation.
func (d SubtractFloor) Derive(current world.Value) world.Value {
	return world.Int(max(asInt(current)-d.Amount, d.Floor))
}

func (d SubtractFloor) String() string {
	return fmt.Sprintf("max(value-%d, %d)", d.Amount, d.Floor)
}

// Add adds Amount.
type Add struct {
	Amount int
}

// Derive implements Derivation.
func (d Add) Derive(current world.Value) world.Value {
	return world.Int(asInt(current) + d.Amount)
}

func (d Add) String() string {
	return fmt.Sprintf("value+%d", d.Amount)
}

// Func wraps an arbitrary pure function with a label.
type Func struct {
	Name string
	Fn   func(world.Value) world.Value
}

// Derive implements Derivation.
func (d Func) Derive(current world.Value) world.Value {
	return d.Fn(current)
}

func (d Func) String() string {
	return d.Name
}
