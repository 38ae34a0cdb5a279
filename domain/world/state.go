package world

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// State is a snapshot of named facts.
//
// States are treated as values: operations that change facts return a new
// State and leave the receiver untouched, so a state can be shared freely
// between sibling branches of a search.
type State map[string]Value

// Key is the canonical, order-independent encoding of a State.
// Two states have the same Key exactly when they hold the same facts.
type Key string

// New creates an empty state.
func New() State {
	return make(State)
}

// FromMap builds a state from decoded scalars.
func FromMap(m map[string]any) (State, error) {
	s := make(State, len(m))
	for fact, raw := range m {
		v, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("fact %q: %w", fact, err)
		}
		s[fact] = v
	}
	return s, nil
}

// Clone returns an independent copy.
func (s State) Clone() State {
	c := make(State, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Get returns the value of a fact and whether it is present.
func (s State) Get(fact string) (Value, bool) {
	v, ok := s[fact]
	return v, ok
}

// Has reports whether the fact is present.
func (s State) Has(fact string) bool {
	_, ok := s[fact]
	return ok
}

// With returns a copy of s with fact set to v.
func (s State) With(fact string, v Value) State {
	c := s.Clone()
	c[fact] = v
	return c
}

// Bool reads a boolean fact, returning false when absent or not a Bool.
func (s State) Bool(fact string) bool {
	b, _ := s[fact].AsBool()
	return b
}

// Int reads an integer fact, returning 0 when absent or not an Int.
func (s State) Int(fact string) int {
	i, _ := s[fact].AsInt()
	return i
}

// Str reads a string fact, returning "" when absent or not a Str.
func (s State) Str(fact string) string {
	str, _ := s[fact].AsString()
	return str
}

// Facts returns the fact names in sorted order.
func (s State) Facts() []string {
	facts := make([]string, 0, len(s))
	for k := range s {
		facts = append(facts, k)
	}
	sort.Strings(facts)
	return facts
}

// Equal reports whether both states hold the same facts with equal values.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Key returns the canonical form used for visited-set membership.
func (s State) Key() Key {
	var b strings.Builder
	for i, fact := range s.Facts() {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Quote(fact))
		b.WriteByte('=')
		b.WriteString(s[fact].canonical())
	}
	return Key(b.String())
}

// Map returns the facts as plain Go values.
func (s State) Map() map[string]any {
	m := make(map[string]any, len(s))
	for k, v := range s {
		m[k] = v.Any()
	}
	return m
}

// String renders the state with facts in sorted order.
func (s State) String() string {
	if len(s) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(s))
	for _, fact := range s.Facts() {
		v := s[fact]
		if str, ok := v.AsString(); ok {
			parts = append(parts, fmt.Sprintf("%s: %q", fact, str))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fact, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
