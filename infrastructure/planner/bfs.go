package planner

import (
	"context"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// BFS is a breadth-first planner over a fixed catalog.
//
// It returns the first goal state dequeued, so plans are shortest by action
// count. Action cost is ignored. Ties between equal-length plans go to the
// action that comes first in the catalog. The frontier can grow to
// O(actions^maxDepth) entries; maxDepth is the only bound inside the loop.
//
// A BFS holds no per-search state and is safe for concurrent use.
type BFS struct {
	catalog *action.Catalog
}

// NewBFS creates a planner over catalog.
func NewBFS(catalog *action.Catalog) *BFS {
	if catalog == nil {
		catalog, _ = action.NewCatalog()
	}
	return &BFS{catalog: catalog}
}

// Catalog returns the planner's catalog.
func (p *BFS) Catalog() *action.Catalog {
	return p.catalog
}

// Plan searches for a plan from start to a state satisfying goal, performing
// at most maxDepth dequeues (DefaultMaxDepth when maxDepth <= 0).
// It returns (nil, false) when there is no plan.
func (p *BFS) Plan(start world.State, goal plan.Goal, maxDepth int) (plan.Plan, bool) {
	res, err := p.Search(context.Background(), Request{Start: start, Goal: goal, MaxDepth: maxDepth})
	if err != nil || !res.Found {
		return nil, false
	}
	return res.Plan, true
}

// PlanContext is Plan with a cancellation check between dequeues.
func (p *BFS) PlanContext(ctx context.Context, start world.State, goal plan.Goal, maxDepth int) (plan.Plan, bool, error) {
	res, err := p.Search(ctx, Request{Start: start, Goal: goal, MaxDepth: maxDepth})
	if err != nil {
		return nil, false, err
	}
	if !res.Found {
		return nil, false, nil
	}
	return res.Plan, true, nil
}

type node struct {
	state world.State
	path  plan.Plan
}

// Search implements Planner.
func (p *BFS) Search(ctx context.Context, req Request) (Result, error) {
	if req.Goal == nil {
		return Result{}, ErrNilGoal
	}

	start := req.Start
	if start == nil {
		start = world.New()
	}

	budget := effectiveDepth(req.MaxDepth)
	actions := p.catalog.Actions()

	frontier := []node{{state: start, path: plan.Plan{}}}
	visited := make(map[world.Key]struct{})
	var stats Stats
	stats.MaxFrontier = 1

	for range budget {
		if len(frontier) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return Result{Stats: stats}, err
		}

		current := frontier[0]
		frontier[0] = node{}
		frontier = frontier[1:]
		stats.Dequeued++

		key := current.state.Key()
		if _, seen := visited[key]; seen {
			stats.Skipped++
			continue
		}
		visited[key] = struct{}{}

		if req.Goal(current.state) {
			return Result{Plan: current.path, Found: true, Stats: stats}, nil
		}

		for _, a := range actions {
			if !action.IsApplicable(a, current.state) {
				continue
			}
			path := make(plan.Plan, len(current.path), len(current.path)+1)
			copy(path, current.path)
			frontier = append(frontier, node{
				state: action.Apply(a, current.state),
				path:  append(path, a.Name()),
			})
			stats.Enqueued++
		}
		stats.MaxFrontier = max(stats.MaxFrontier, len(frontier))
	}

	return Result{Stats: stats}, nil
}

var _ Planner = (*BFS)(nil)
