package action

import (
	"fmt"

	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Catalog is an ordered, read-only set of actions with unique names.
// The order is the tie-break order used during planning.
type Catalog struct {
	actions []Action
	index   map[string]int
}

// NewCatalog builds a catalog in the given order.
func NewCatalog(actions ...Action) (*Catalog, error) {
	c := &Catalog{
		actions: make([]Action, 0, len(actions)),
		index:   make(map[string]int, len(actions)),
	}
	for _, a := range actions {
		if a.name == "" {
			return nil, ErrEmptyName
		}
		if _, dup := c.index[a.name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAction, a.name)
		}
		c.index[a.name] = len(c.actions)
		c.actions = append(c.actions, a)
	}
	return c, nil
}

// Actions returns the actions in catalog order.
func (c *Catalog) Actions() []Action {
	out := make([]Action, len(c.actions))
	copy(out, c.actions)
	return out
}

// Len returns the number of actions.
func (c *Catalog) Len() int {
	return len(c.actions)
}

// Lookup finds an action by name.
func (c *Catalog) Lookup(name string) (Action, bool) {
	i, ok := c.index[name]
	if !ok {
		return Action{}, false
	}
	return c.actions[i], true
}

// Names returns the action names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.actions))
	for i, a := range c.actions {
		names[i] = a.name
	}
	return names
}

// Applicable returns the actions applicable in s, in catalog order.
func (c *Catalog) Applicable(s world.State) []Action {
	var out []Action
	for _, a := range c.actions {
		if IsApplicable(a, s) {
			out = append(out, a)
		}
	}
	return out
}
