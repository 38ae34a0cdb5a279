package agent

import (
	"testing"

	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

func TestJustify(t *testing.T) {
	t.Parallel()

	withPotion := world.State{dungeon.FactHasPotion: world.Bool(true)}
	noPotion := world.State{dungeon.FactHasPotion: world.Bool(false)}

	tests := []struct {
		name   string
		action string
		state  world.State
		goal   string
		want   string
	}{
		{"heal with potion", dungeon.HealSelf, withPotion, "Survive", "I chose to heal because my health is low."},
		{"heal without potion", dungeon.HealSelf, noPotion, "Survive", "I wanted to heal, but I have no potions."},
		{"heal missing fact", dungeon.HealSelf, world.New(), "Survive", "I wanted to heal, but I have no potions."},
		{"retreat", dungeon.Retreat, noPotion, "Survive", "I chose to retreat because survival is my top priority."},
		{"attack", dungeon.AttackEnemy, noPotion, "EliminateThreat", "I chose to attack because the enemy is nearby and my health is sufficient."},
		{"defend", dungeon.DefendTreasure, noPotion, "ProtectTreasure", "I am defending the treasure because its threat level is high."},
		{"backup", dungeon.CallBackup, noPotion, "EliminateThreat", "I called for backup due to overwhelming threats."},
		{"search", dungeon.SearchForPotion, noPotion, "PrepareForBattle", "I am searching for a potion to prepare for future threats."},
		{"safe zone", dungeon.MoveToSafeZone, noPotion, "Patrol", "I am moving to a safe zone to increase my chances of survival."},
		{"unknown", "Dance", noPotion, "Patrol", "I chose to Dance to achieve my goal: Patrol."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Justify(tt.action, tt.state, tt.goal); got != tt.want {
				t.Errorf("Justify() = %q, want %q", got, tt.want)
			}
		})
	}
}
