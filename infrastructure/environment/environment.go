// Package environment simulates the dungeon the guardian acts in.
package environment

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Source yields uniform floats in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Environment executes actions against a world state, failing each one with
// its configured chance.
type Environment struct {
	mu      sync.Mutex
	rng     Source
	catalog *action.Catalog
	chances map[string]float64
	grid    *Grid
}

// Option configures an Environment.
type Option func(*Environment)

// WithSource sets the random source.
func WithSource(src Source) Option {
	return func(e *Environment) {
		e.rng = src
	}
}

// WithSeed uses a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(e *Environment) {
		e.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithFailureChances replaces the per-action failure chances.
func WithFailureChances(chances map[string]float64) Option {
	return func(e *Environment) {
		e.chances = make(map[string]float64, len(chances))
		for k, v := range chances {
			e.chances[k] = v
		}
	}
}

// WithGrid sets the grid size.
func WithGrid(width, height int) Option {
	return func(e *Environment) {
		e.grid = NewGrid(width, height)
	}
}

// New creates an environment executing actions from catalog. Failure chances
// default to the dungeon's and the grid to 5x5.
func New(catalog *action.Catalog, opts ...Option) *Environment {
	e := &Environment{
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		catalog: catalog,
		chances: dungeon.FailureChances(),
		grid:    NewGrid(DefaultGridSize, DefaultGridSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute attempts the named action in s. It returns the next state and
// whether the action succeeded. A failed or unknown action returns s
// unchanged. Preconditions are not checked.
func (e *Environment) Execute(ctx context.Context, name string, s world.State) (world.State, bool, error) {
	if err := ctx.Err(); err != nil {
		return s, false, err
	}

	e.mu.Lock()
	roll := e.rng.Float64()
	catalog := e.catalog
	chance := e.chances[name]
	e.mu.Unlock()

	if roll < chance {
		return s, false, nil
	}
	a, ok := catalog.Lookup(name)
	if !ok {
		return s, false, nil
	}
	return a.Apply(s), true, nil
}

// SetCatalog swaps the catalog used for later executions.
func (e *Environment) SetCatalog(c *action.Catalog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalog = c
}

// FailureChance returns the failure chance for an action.
func (e *Environment) FailureChance(name string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chances[name]
}

// Grid returns the environment's grid.
func (e *Environment) Grid() *Grid {
	return e.grid
}

// Reset clears the grid.
func (e *Environment) Reset() {
	e.grid.Reset()
}
