// Package dungeon defines the dungeon guardian's facts, actions and defaults.
package dungeon

import (
	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Fact names.
const (
	FactHealth         = "health"
	FactStamina        = "stamina"
	FactHasPotion      = "hasPotion"
	FactEnemyNearby    = "enemyNearby"
	FactInSafeZone     = "inSafeZone"
	FactTreasureThreat = "treasureThreatLevel"
)

// Threat levels used by FactTreasureThreat.
const (
	ThreatLow    = "low"
	ThreatMedium = "medium"
	ThreatHigh   = "high"
)

// Action names, in catalog order.
const (
	HealSelf        = "HealSelf"
	AttackEnemy     = "AttackEnemy"
	Retreat         = "Retreat"
	DefendTreasure  = "DefendTreasure"
	CallBackup      = "CallBackup"
	SearchForPotion = "SearchForPotion"
	MoveToSafeZone  = "MoveToSafeZone"
)

type actionDef struct {
	name    string
	effects action.Effects
	cost    int
}

func actionDefs() []actionDef {
	return []actionDef{
		{HealSelf, action.Effects{
			FactHealth:    action.Set(world.Int(100)),
			FactHasPotion: action.Set(world.Bool(false)),
		}, 2},
		{AttackEnemy, action.Effects{
			FactEnemyNearby: action.Set(world.Bool(false)),
			FactStamina:     action.Derive(action.SubtractFloor{Amount: 5, Floor: 0}),
		}, 1},
		{Retreat, action.Effects{
			FactInSafeZone:  action.Set(world.Bool(true)),
			FactEnemyNearby: action.Set(world.Bool(false)),
		}, 2},
		{DefendTreasure, action.Effects{
			FactTreasureThreat: action.Set(world.Str(ThreatLow)),
		}, 2},
		{CallBackup, action.Effects{
			FactEnemyNearby: action.Set(world.Bool(false)),
		}, 3},
		{SearchForPotion, action.Effects{
			FactHasPotion: action.Set(world.Bool(true)),
		}, 2},
		{MoveToSafeZone, action.Effects{
			FactInSafeZone: action.Set(world.Bool(true)),
		}, 1},
	}
}

// ActionNames returns the built-in action names in catalog order.
func ActionNames() []string {
	s := actionDefs()
	names := make([]string, len(s))
	for i, sp := range s {
		names[i] = sp.name
	}
	return names
}

// Catalog builds the built-in actions with preconditions looked up by name
// in table. Actions missing from table have no preconditions.
func Catalog(table action.PreconditionTable) (*action.Catalog, error) {
	s := actionDefs()
	actions := make([]action.Action, 0, len(s))
	for _, sp := range s {
		a, err := action.New(sp.name, table.For(sp.name), sp.effects, sp.cost)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return action.NewCatalog(actions...)
}

// DefaultPreconditions mirrors configs/goap_actions.ini.
func DefaultPreconditions() action.PreconditionTable {
	return action.PreconditionTable{
		HealSelf: {
			FactHasPotion: action.Equals(world.Bool(true)),
			FactHealth:    action.LessThan(100),
		},
		AttackEnemy: {
			FactEnemyNearby: action.Equals(world.Bool(true)),
			FactHealth:      action.GreaterThan(30),
			FactStamina:     action.GreaterThan(4),
		},
		Retreat: {
			FactEnemyNearby: action.Equals(world.Bool(true)),
		},
		DefendTreasure: {
			FactTreasureThreat: action.Equals(world.Str(ThreatHigh)),
		},
		CallBackup: {
			FactEnemyNearby: action.Equals(world.Bool(true)),
			FactHealth:      action.LessThan(30),
		},
		SearchForPotion: {
			FactHasPotion:   action.Equals(world.Bool(false)),
			FactEnemyNearby: action.Equals(world.Bool(false)),
		},
		MoveToSafeZone: {
			FactInSafeZone: action.Equals(world.Bool(false)),
		},
	}
}

// DefaultCatalog is Catalog(DefaultPreconditions()).
func DefaultCatalog() *action.Catalog {
	c, err := Catalog(DefaultPreconditions())
	if err != nil {
		panic(err)
	}
	return c
}

// FailureChances returns the probability each action fails when executed.
// Actions not listed never fail.
func FailureChances() map[string]float64 {
	return map[string]float64{
		HealSelf:        0.2,
		AttackEnemy:     0.1,
		Retreat:         0.05,
		DefendTreasure:  0.05,
		CallBackup:      0.1,
		SearchForPotion: 0.15,
	}
}

// DefaultStart is the episode start state used when none is given.
func DefaultStart() world.State {
	return world.State{
		FactHealth:         world.Int(20),
		FactEnemyNearby:    world.Bool(true),
		FactHasPotion:      world.Bool(false),
		FactTreasureThreat: world.Str(ThreatMedium),
		FactStamina:        world.Int(5),
		FactInSafeZone:     world.Bool(false),
	}
}

// Scenario is the set of inputs the interactive prompt asks for.
type Scenario struct {
	Health      int    `json:"health"`
	Stamina     int    `json:"stamina"`
	HasPotion   bool   `json:"hasPotion"`
	Threat      string `json:"treasureThreatLevel"`
	EnemyNearby bool   `json:"enemyNearby"`
	InSafeZone  bool   `json:"inSafeZone"`
}

// DefaultScenario holds the interactive prompt defaults.
func DefaultScenario() Scenario {
	return Scenario{Health: 50, Stamina: 10, Threat: ThreatMedium}
}

// State converts the scenario to a world state.
func (s Scenario) State() world.State {
	return world.State{
		FactHealth:         world.Int(s.Health),
		FactStamina:        world.Int(s.Stamina),
		FactHasPotion:      world.Bool(s.HasPotion),
		FactTreasureThreat: world.Str(s.Threat),
		FactEnemyNearby:    world.Bool(s.EnemyNearby),
		FactInSafeZone:     world.Bool(s.InSafeZone),
	}
}
