package agent

import (
	"fmt"

	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

var reasons = map[string]string{
	dungeon.HealSelf:        "I chose to heal because my health is low.",
	dungeon.Retreat:         "I chose to retreat because survival is my top priority.",
	dungeon.AttackEnemy:     "I chose to attack because the enemy is nearby and my health is sufficient.",
	dungeon.DefendTreasure:  "I am defending the treasure because its threat level is high.",
	dungeon.CallBackup:      "I called for backup due to overwhelming threats.",
	dungeon.SearchForPotion: "I am searching for a potion to prepare for future threats.",
	dungeon.MoveToSafeZone:  "I am moving to a safe zone to increase my chances of survival.",
}

// Justify explains in plain language why the guardian is taking action
// while pursuing goal.
func Justify(action string, s world.State, goal string) string {
	if action == dungeon.HealSelf && !s.Bool(dungeon.FactHasPotion) {
		return "I wanted to heal, but I have no potions."
	}
	if reason, ok := reasons[action]; ok {
		return reason
	}
	return fmt.Sprintf("I chose to %s to achieve my goal: %s.", action, goal)
}
