package combat

// State is a phase of the encounter state machine.
type State int

const (
	// StateSetup - units are being copied into the encounter
	StateSetup State = iota
	// StatePlayerTurn - waiting for the player's action
	StatePlayerTurn
	// StateResolvingPlayerAction - the player's action is being applied
	StateResolvingPlayerAction
	// StateEnemyTurn - enemies still have to act this round
	StateEnemyTurn
	// StateResolvingEnemyTurn - one enemy attack is being applied
	StateResolvingEnemyTurn
	// StateVictory - all enemies defeated
	StateVictory
	// StateDefeat - the player was defeated
	StateDefeat
	// StateFled - the player escaped
	StateFled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StatePlayerTurn:
		return "player_turn"
	case StateResolvingPlayerAction:
		return "resolving_player_action"
	case StateEnemyTurn:
		return "enemy_turn"
	case StateResolvingEnemyTurn:
		return "resolving_enemy_turn"
	case StateVictory:
		return "victory"
	case StateDefeat:
		return "defeat"
	case StateFled:
		return "fled"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for states that end the encounter.
func (s State) IsTerminal() bool {
	return s == StateVictory || s == StateDefeat || s == StateFled
}

// Result is how an encounter ended.
type Result int

const (
	ResultVictory Result = iota + 1
	ResultDefeat
	ResultFled
)

// String returns a human-readable result name.
func (r Result) String() string {
	switch r {
	case ResultVictory:
		return "victory"
	case ResultDefeat:
		return "defeat"
	case ResultFled:
		return "fled"
	default:
		return "unknown"
	}
}

// Outcome is the final result of an encounter. PlayerHealth is meant to be
// written back to the player's persistent state by the caller.
type Outcome struct {
	Result       Result
	PlayerHealth int
}

// ActionResult describes what a single action or enemy step did.
type ActionResult struct {
	State   State    // State after the step
	Actor   string   // Who acted
	Damage  int      // Health removed from the target
	Healed  int      // Health restored
	Message string   // Battle log line
	Outcome *Outcome // Set once the encounter is over
}
