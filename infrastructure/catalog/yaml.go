package catalog

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Document is a full catalog definition. JSON documents share the layout.
type Document struct {
	Actions []ActionDef       `yaml:"actions" json:"actions"`
	Goals   map[string]string `yaml:"goals,omitempty" json:"goals,omitempty"`
}

// ActionDef defines one action.
//
// Precondition values are booleans, integers, strings, or "<N" / ">N"
// comparisons. Effect values are literals or a derivation written as
// {subtract: N, floor: M}, {add: N} or {expr: "..."}.
type ActionDef struct {
	Name          string         `yaml:"name" json:"name"`
	Cost          int            `yaml:"cost,omitempty" json:"cost,omitempty"`
	Preconditions map[string]any `yaml:"preconditions,omitempty" json:"preconditions,omitempty"`
	Effects       map[string]any `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// ParseDocument decodes a YAML or JSON catalog document.
func ParseDocument(src []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &doc, nil
}

// Build turns the document into a catalog and compiled goals. Actions keep
// document order; a missing cost defaults to 1.
func (d *Document) Build() (*action.Catalog, map[string]plan.Goal, error) {
	actions := make([]action.Action, 0, len(d.Actions))
	for _, def := range d.Actions {
		a, err := def.build()
		if err != nil {
			return nil, nil, err
		}
		actions = append(actions, a)
	}

	c, err := action.NewCatalog(actions...)
	if err != nil {
		return nil, nil, &ParseError{Section: "actions", Err: err}
	}

	goals := make(map[string]plan.Goal, len(d.Goals))
	names := make([]string, 0, len(d.Goals))
	for name := range d.Goals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g, err := CompileGoal(d.Goals[name])
		if err != nil {
			return nil, nil, &ParseError{Section: "goals", Key: name, Err: err}
		}
		goals[name] = g
	}

	return c, goals, nil
}

func (def ActionDef) build() (action.Action, error) {
	pre := make(action.Preconditions, len(def.Preconditions))
	for fact, raw := range def.Preconditions {
		req, err := requirement(raw)
		if err != nil {
			return action.Action{}, &ParseError{Section: def.Name, Key: fact, Err: err}
		}
		pre[fact] = req
	}

	eff := make(action.Effects, len(def.Effects))
	for fact, raw := range def.Effects {
		e, err := effect(raw)
		if err != nil {
			return action.Action{}, &ParseError{Section: def.Name, Key: fact, Err: err}
		}
		eff[fact] = e
	}

	cost := def.Cost
	if cost == 0 {
		cost = 1
	}

	a, err := action.New(def.Name, pre, eff, cost)
	if err != nil {
		return action.Action{}, &ParseError{Section: def.Name, Err: err}
	}
	return a, nil
}

func requirement(raw any) (action.Requirement, error) {
	if s, ok := raw.(string); ok {
		return action.ParseRequirement(s)
	}
	v, err := world.FromAny(raw)
	if err != nil {
		return action.Requirement{}, err
	}
	return action.Equals(v), nil
}

func effect(raw any) (action.Effect, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		v, err := world.FromAny(raw)
		if err != nil {
			return action.Effect{}, err
		}
		return action.Set(v), nil
	}

	if src, ok := m["expr"]; ok {
		s, ok := src.(string)
		if !ok {
			return action.Effect{}, fmt.Errorf("%w: expr must be a string", ErrInvalidEffect)
		}
		d, err := CompileDerivation(s)
		if err != nil {
			return action.Effect{}, err
		}
		return action.Derive(d), nil
	}

	if amount, ok := m["subtract"]; ok {
		n, err := intField(amount, "subtract")
		if err != nil {
			return action.Effect{}, err
		}
		floor := 0
		if f, ok := m["floor"]; ok {
			if floor, err = intField(f, "floor"); err != nil {
				return action.Effect{}, err
			}
		}
		return action.Derive(action.SubtractFloor{Amount: n, Floor: floor}), nil
	}

	if amount, ok := m["add"]; ok {
		n, err := intField(amount, "add")
		if err != nil {
			return action.Effect{}, err
		}
		return action.Derive(action.Add{Amount: n}), nil
	}

	return action.Effect{}, fmt.Errorf("%w: expected subtract, add or expr", ErrInvalidEffect)
}

func intField(raw any, name string) (int, error) {
	v, err := world.FromAny(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidEffect, name, err)
	}
	n, ok := v.AsInt()
	if !ok {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidEffect, name)
	}
	return n, nil
}
