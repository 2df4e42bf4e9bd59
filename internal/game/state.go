// Package game wires dungeon floors, random encounters and battles around a
// single player record.
package game

// State represents the current game state.
type State int

const (
	// StateExplore - walking the current floor, encounters may trigger
	StateExplore State = iota
	// StateBattle - a battle session is unresolved
	StateBattle
	// StateDefeated - the player has no health left; Rest revives
	StateDefeated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateBattle:
		return "battle"
	case StateDefeated:
		return "defeated"
	default:
		return "unknown"
	}
}
