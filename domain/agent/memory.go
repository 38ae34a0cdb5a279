package agent

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Failure is one failed action remembered by the guardian.
type Failure struct {
	Action string      `json:"action"`
	State  world.State `json:"state"`
	Goal   string      `json:"goal"`
	At     time.Time   `json:"at"`
}

// Memory is an append-only record of failures. Safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	failures []Failure
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Reflect stores a failure.
func (m *Memory) Reflect(f Failure) {
	if f.At.IsZero() {
		f.At = time.Now()
	}
	f.State = f.State.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, f)
}

// Failures returns a copy of the remembered failures, oldest first.
func (m *Memory) Failures() []Failure {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Failure, len(m.failures))
	copy(out, m.failures)
	return out
}

// Len returns the number of remembered failures.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.failures)
}

// FailuresOf counts failures of the named action.
func (m *Memory) FailuresOf(action string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, f := range m.failures {
		if f.Action == action {
			n++
		}
	}
	return n
}
