package plan

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

func testCatalog(t *testing.T) *action.Catalog {
	t.Helper()
	c, err := action.NewCatalog(
		action.MustNew("Open", action.Preconditions{"open": action.Equals(world.Bool(false))},
			action.Effects{"open": action.Set(world.Bool(true))}, 1),
		action.MustNew("Enter", action.Preconditions{"open": action.Equals(world.Bool(true))},
			action.Effects{"inside": action.Set(world.Bool(true))}, 1),
	)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return c
}

func TestPlan_HeadTail(t *testing.T) {
	p := Plan{"Open", "Enter"}

	head, ok := p.Head()
	if !ok || head != "Open" {
		t.Errorf("Head() = %q, %v", head, ok)
	}
	tail := p.Tail()
	if tail.Len() != 1 || tail[0] != "Enter" {
		t.Errorf("Tail() = %v", tail)
	}
	tail[0] = "changed"
	if p[1] != "Enter" {
		t.Error("Tail() shares storage with the plan")
	}

	if _, ok := (Plan{}).Head(); ok {
		t.Error("empty plan has no head")
	}
	if got := (Plan{"A"}).Tail(); got == nil || got.Len() != 0 {
		t.Errorf("Tail() of single step = %#v", got)
	}
}

func TestPlan_String(t *testing.T) {
	if got := (Plan{"A", "B"}).String(); got != "A -> B" {
		t.Errorf("String() = %q", got)
	}
	if got := (Plan{}).String(); got != "[]" {
		t.Errorf("String() = %q", got)
	}
}

func TestWalk(t *testing.T) {
	c := testCatalog(t)
	start := world.State{"open": world.Bool(false)}

	end, err := Walk(c, start, Plan{"Open", "Enter"})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if !end.Bool("inside") {
		t.Errorf("end = %v", end)
	}

	if _, err := Walk(c, start, Plan{"Enter"}); !errors.Is(err, ErrNotApplicable) {
		t.Errorf("error = %v, want ErrNotApplicable", err)
	}
	if _, err := Walk(c, start, Plan{"Fly"}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("error = %v, want ErrUnknownAction", err)
	}

	inside := func(s world.State) bool { return s.Bool("inside") }
	if !Satisfies(c, start, Plan{"Open", "Enter"}, inside) {
		t.Error("Satisfies() = false")
	}
	if Satisfies(c, start, Plan{"Open"}, inside) {
		t.Error("Satisfies() = true for incomplete plan")
	}
}
