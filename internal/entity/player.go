// Package entity provides the persistent player record carried between
// floors and encounters.
package entity

import (
	"github.com/samdwyer/dungeoncrawler/internal/combat"
	"github.com/samdwyer/dungeoncrawler/internal/dungeon"
	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
)

// PlayerState is the player's stats and progress outside of battle.
// Battles work on a copy and hand the final health back through Apply.
type PlayerState struct {
	Name     string        // Display name used in battle
	ClassID  string        // Class identifier (e.g., "knight")
	Floor    int           // Current dungeon floor, 0 before the first descent
	Position dungeon.Point // Position on the current floor

	MaxHealth int
	Health    int
	Attack    int
	Defense   int
	Speed     int

	Victories int
	Defeats   int
	Escapes   int
}

// NewPlayerState creates a full-health player from a class definition.
func NewPlayerState(def *gamedata.ClassDef) *PlayerState {
	return &PlayerState{
		Name:      def.Name,
		ClassID:   def.ID,
		MaxHealth: def.HP,
		Health:    def.HP,
		Attack:    def.Attack,
		Defense:   def.Defense,
		Speed:     def.Speed,
	}
}

// IsAlive returns true if the player has health remaining.
func (p *PlayerState) IsAlive() bool { return p.Health > 0 }

// Unit returns a battle unit carrying the player's current health.
func (p *PlayerState) Unit() *combat.Unit {
	u := combat.NewUnit(p.Name, p.MaxHealth, p.Attack, p.Defense)
	u.Health = p.Health
	return u
}

// Apply writes a battle outcome back into the player record.
func (p *PlayerState) Apply(out combat.Outcome) {
	p.Health = min(max(out.PlayerHealth, 0), p.MaxHealth)
	switch out.Result {
	case combat.ResultVictory:
		p.Victories++
	case combat.ResultDefeat:
		p.Defeats++
	case combat.ResultFled:
		p.Escapes++
	}
}

// Rest restores the player to full health.
func (p *PlayerState) Rest() {
	p.Health = p.MaxHealth
}

// MoveTo places the player at a position on the current floor.
func (p *PlayerState) MoveTo(pos dungeon.Point) {
	p.Position = pos
}
