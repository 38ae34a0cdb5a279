package agent

import (
	"sync"
	"testing"

	"github.com/felixgeelhaar/goap-go/domain/world"
)

func TestMemory_Reflect(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	state := world.State{"health": world.Int(20)}
	m.Reflect(Failure{Action: "HealSelf", State: state, Goal: "Survive"})
	m.Reflect(Failure{Action: "Retreat", State: state, Goal: "Survive"})
	m.Reflect(Failure{Action: "HealSelf", State: state, Goal: "Survive"})

	state["health"] = world.Int(0)

	got := m.Failures()
	if len(got) != 3 || m.Len() != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Action != "HealSelf" || got[1].Action != "Retreat" {
		t.Errorf("failures out of order: %+v", got)
	}
	if got[0].State.Int("health") != 20 {
		t.Error("Reflect should copy the state")
	}
	if got[0].At.IsZero() {
		t.Error("Reflect should stamp the failure")
	}
	if m.FailuresOf("HealSelf") != 2 {
		t.Errorf("FailuresOf(HealSelf) = %d, want 2", m.FailuresOf("HealSelf"))
	}

	got[0].Action = "mutated"
	if m.Failures()[0].Action != "HealSelf" {
		t.Error("Failures() should return a copy")
	}
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Reflect(Failure{Action: "AttackEnemy"})
			_ = m.Failures()
		}()
	}
	wg.Wait()

	if m.Len() != 100 {
		t.Errorf("Len() = %d, want 100", m.Len())
	}
}
