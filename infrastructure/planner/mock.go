package planner

import (
	"context"
	"sync"
)

// MockPlanner returns a predefined sequence of results for testing.
type MockPlanner struct {
	results  []Result
	index    int
	requests []Request
	mu       sync.Mutex
}

// NewMockPlanner creates a mock planner with the given results.
func NewMockPlanner(results ...Result) *MockPlanner {
	return &MockPlanner{
		results: results,
		index:   0,
	}
}

// Search returns the next result in the sequence.
func (p *MockPlanner) Search(_ context.Context, req Request) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)

	if p.index >= len(p.results) {
		// No more results: behave as if nothing was found
		return Result{}, nil
	}

	result := p.results[p.index]
	p.index++
	return result, nil
}

// Reset resets the planner to the beginning.
func (p *MockPlanner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = 0
	p.requests = nil
}

// Remaining returns the number of remaining results.
func (p *MockPlanner) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.results) - p.index
}

// Requests returns the requests received so far.
func (p *MockPlanner) Requests() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Request, len(p.requests))
	copy(out, p.requests)
	return out
}

// AddResult appends a result to the sequence.
func (p *MockPlanner) AddResult(r Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, r)
}

var _ Planner = (*MockPlanner)(nil)
