// Package action provides the action model: preconditions, effects, and the
// evaluator that decides applicability and computes successor states.
package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/goap-go/domain/world"
)

// RequirementKind classifies a precondition requirement.
type RequirementKind uint8

const (
	// RequireEquals matches a fact by structural equality.
	RequireEquals RequirementKind = iota + 1
	// RequireLessThan matches an integer fact strictly below a bound.
	RequireLessThan
	// RequireGreaterThan matches an integer fact strictly above a bound.
	RequireGreaterThan
)

// Requirement is a single precondition on one fact.
type Requirement struct {
	kind  RequirementKind
	value world.Value
	bound int
}

// Equals requires the fact to equal v.
func Equals(v world.Value) Requirement {
	return Requirement{kind: RequireEquals, value: v}
}

// LessThan requires an integer fact strictly less than n.
func LessThan(n int) Requirement {
	return Requirement{kind: RequireLessThan, bound: n}
}

// GreaterThan requires an integer fact strictly greater than n.
func GreaterThan(n int) Requirement {
	return Requirement{kind: RequireGreaterThan, bound: n}
}

// Kind returns the requirement variant.
func (r Requirement) Kind() RequirementKind {
	return r.kind
}

// Value returns the literal of an Equals requirement.
func (r Requirement) Value() world.Value {
	return r.value
}

// Bound returns the bound of a relational requirement.
func (r Requirement) Bound() int {
	return r.bound
}

// Satisfied reports whether a fact value meets the requirement.
// A missing fact never satisfies anything, and relational requirements
// fail on values that are not integers.
func (r Requirement) Satisfied(v world.Value, present bool) bool {
	if !present {
		return false
	}
	switch r.kind {
	case RequireEquals:
		return v == r.value
	case RequireLessThan:
		n, ok := v.AsInt()
		return ok && n < r.bound
	case RequireGreaterThan:
		n, ok := v.AsInt()
		return ok && n > r.bound
	default:
		return false
	}
}

// String renders the requirement in catalog syntax.
func (r Requirement) String() string {
	switch r.kind {
	case RequireEquals:
		return r.value.String()
	case RequireLessThan:
		return "<" + strconv.Itoa(r.bound)
	case RequireGreaterThan:
		return ">" + strconv.Itoa(r.bound)
	default:
		return "<invalid>"
	}
}

// ParseRequirement reads a precondition value written in catalog syntax.
//
// true/false (any case) become a boolean equality, "<N" and ">N" become
// relational requirements, integers become integer equality and anything
// else is compared as a string. A relational prefix with a bound that is not
// an integer is a configuration error.
func ParseRequirement(raw string) (Requirement, error) {
	raw = strings.TrimSpace(raw)

	lower := strings.ToLower(raw)
	if lower == "true" || lower == "false" {
		return Equals(world.Bool(lower == "true")), nil
	}

	if strings.HasPrefix(raw, "<") || strings.HasPrefix(raw, ">") {
		n, err := strconv.Atoi(strings.TrimSpace(raw[1:]))
		if err != nil {
			return Requirement{}, fmt.Errorf("%w: %q", ErrInvalidRequirement, raw)
		}
		if raw[0] == '<' {
			return LessThan(n), nil
		}
		return GreaterThan(n), nil
	}

	return Equals(world.Parse(raw)), nil
}

// Preconditions maps fact names to requirements. All must hold.
type Preconditions map[string]Requirement

// Satisfied reports whether every requirement holds in s.
func (p Preconditions) Satisfied(s world.State) bool {
	for fact, req := range p {
		v, ok := s.Get(fact)
		if !req.Satisfied(v, ok) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (p Preconditions) Clone() Preconditions {
	c := make(Preconditions, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// ParsePreconditions parses a "fact=value; fact=value" list.
// Entries without "=" are ignored; each entry splits at its first "=".
func ParsePreconditions(raw string) (Preconditions, error) {
	pre := make(Preconditions)
	for _, item := range strings.Split(raw, ";") {
		fact, value, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}
		fact = strings.TrimSpace(fact)
		req, err := ParseRequirement(value)
		if err != nil {
			return nil, fmt.Errorf("fact %q: %w", fact, err)
		}
		pre[fact] = req
	}
	return pre, nil
}

// PreconditionTable holds preconditions keyed by action name.
type PreconditionTable map[string]Preconditions

// For returns the preconditions for an action, or an empty set when the
// action has no entry.
func (t PreconditionTable) For(name string) Preconditions {
	if pre, ok := t[name]; ok {
		return pre.Clone()
	}
	return Preconditions{}
}
