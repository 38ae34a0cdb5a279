// Package goal defines the guardian's named goals, their satisfaction checks
// and the heuristic that picks one from the current world state.
package goal

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Kind names a goal.
type Kind string

// Built-in goals.
const (
	Survive          Kind = "Survive"
	ProtectTreasure  Kind = "ProtectTreasure"
	EliminateThreat  Kind = "EliminateThreat"
	PrepareForBattle Kind = "PrepareForBattle"
	Patrol           Kind = "Patrol"
)

// Thresholds used by Select and Satisfied.
const (
	CriticalHealth = 30
	SafeHealth     = 50
	LowStamina     = 5
	ReadyStamina   = 10
)

// All returns the built-in goals in selection priority order.
func All() []Kind {
	return []Kind{Survive, ProtectTreasure, EliminateThreat, PrepareForBattle, Patrol}
}

// IsValid reports whether k is a built-in goal.
func (k Kind) IsValid() bool {
	switch k {
	case Survive, ProtectTreasure, EliminateThreat, PrepareForBattle, Patrol:
		return true
	default:
		return false
	}
}

// String returns the goal name.
func (k Kind) String() string {
	return string(k)
}

// Parse resolves a goal name case-insensitively.
func Parse(name string) (Kind, error) {
	name = strings.TrimSpace(name)
	for _, k := range All() {
		if strings.EqualFold(string(k), name) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGoal, name)
}

// Satisfied reports whether s satisfies goal k. Missing or mistyped facts
// read as false, 0 or "". A goal that is not built in is always satisfied.
func Satisfied(k Kind, s world.State) bool {
	switch k {
	case Survive:
		return s.Int(dungeon.FactHealth) >= SafeHealth && s.Bool(dungeon.FactInSafeZone)
	case ProtectTreasure:
		return s.Str(dungeon.FactTreasureThreat) == dungeon.ThreatLow
	case EliminateThreat:
		return !s.Bool(dungeon.FactEnemyNearby)
	case PrepareForBattle:
		return s.Bool(dungeon.FactHasPotion) || s.Int(dungeon.FactStamina) >= ReadyStamina
	case Patrol:
		return s.Bool(dungeon.FactInSafeZone)
	default:
		return true
	}
}

// Predicate returns the planner goal for k.
func (k Kind) Predicate() plan.Goal {
	return func(s world.State) bool {
		return Satisfied(k, s)
	}
}

// Select picks the most pressing goal for s.
func Select(s world.State) Kind {
	switch {
	case s.Int(dungeon.FactHealth) < CriticalHealth:
		return Survive
	case s.Str(dungeon.FactTreasureThreat) == dungeon.ThreatHigh:
		return ProtectTreasure
	case s.Bool(dungeon.FactEnemyNearby):
		return EliminateThreat
	case s.Int(dungeon.FactStamina) < LowStamina:
		return PrepareForBattle
	default:
		return Patrol
	}
}
