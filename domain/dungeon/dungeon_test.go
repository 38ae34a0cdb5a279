package dungeon

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

func TestCatalog_Order(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	want := []string{HealSelf, AttackEnemy, Retreat, DefendTreasure, CallBackup, SearchForPotion, MoveToSafeZone}

	if diff := cmp.Diff(want, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, ActionNames()); diff != "" {
		t.Errorf("ActionNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_Costs(t *testing.T) {
	t.Parallel()

	want := map[string]int{
		HealSelf: 2, AttackEnemy: 1, Retreat: 2, DefendTreasure: 2,
		CallBackup: 3, SearchForPotion: 2, MoveToSafeZone: 1,
	}
	for _, a := range DefaultCatalog().Actions() {
		if a.Cost() != want[a.Name()] {
			t.Errorf("%s cost = %d, want %d", a.Name(), a.Cost(), want[a.Name()])
		}
	}
}

func TestCatalog_MissingPreconditions(t *testing.T) {
	t.Parallel()

	c, err := Catalog(action.PreconditionTable{})
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if got := len(c.Applicable(world.State{})); got != c.Len() {
		t.Errorf("applicable = %d, want all %d actions", got, c.Len())
	}
}

func TestAttackEnemy_Effects(t *testing.T) {
	t.Parallel()

	attack, _ := DefaultCatalog().Lookup(AttackEnemy)
	start := DefaultStart().With(FactHealth, world.Int(80)).With(FactStamina, world.Int(7))

	if !attack.IsApplicable(start) {
		t.Fatalf("AttackEnemy should apply in %v", start)
	}
	next := attack.Apply(start)
	if next.Int(FactStamina) != 2 || next.Bool(FactEnemyNearby) {
		t.Errorf("after attack: %v", next)
	}
}

func TestScenario_State(t *testing.T) {
	t.Parallel()

	s := DefaultScenario().State()
	want := world.State{
		FactHealth:         world.Int(50),
		FactStamina:        world.Int(10),
		FactHasPotion:      world.Bool(false),
		FactTreasureThreat: world.Str(ThreatMedium),
		FactEnemyNearby:    world.Bool(false),
		FactInSafeZone:     world.Bool(false),
	}
	if !s.Equal(want) {
		t.Errorf("State() = %v, want %v", s, want)
	}
}

func TestFailureChances(t *testing.T) {
	t.Parallel()

	chances := FailureChances()
	if chances[HealSelf] != 0.2 {
		t.Errorf("HealSelf chance = %v", chances[HealSelf])
	}
	if _, ok := chances[MoveToSafeZone]; ok {
		t.Error("MoveToSafeZone should never fail")
	}
}
