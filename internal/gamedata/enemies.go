package gamedata

import "github.com/samdwyer/dungeoncrawler/internal/combat"

// EnemyDef defines an enemy type loaded from JSON.
type EnemyDef struct {
	ID          string `json:"id"`          // Unique identifier (e.g., "goblin")
	Name        string `json:"name"`        // Display name (e.g., "Goblin")
	HP          int    `json:"hp"`          // Base hit points
	Attack      int    `json:"attack"`      // Base attack power
	Defense     int    `json:"defense"`     // Base defense value
	SpawnWeight int    `json:"spawnWeight"` // Relative spawn frequency (0 = never spawns randomly)
	Boss        bool   `json:"boss"`        // Only appears in boss encounters
}

// ToUnit returns a fresh battle unit for this enemy type.
func (e *EnemyDef) ToUnit() *combat.Unit {
	return combat.NewUnit(e.Name, e.HP, e.Attack, e.Defense)
}

// EnemiesFile represents the structure of enemies.json.
type EnemiesFile struct {
	Enemies []EnemyDef `json:"enemies"`
}

// LoadEnemies loads enemy definitions from the embedded enemies.json file.
func LoadEnemies() ([]EnemyDef, error) {
	file, err := Load[EnemiesFile]("enemies.json")
	if err != nil {
		return nil, err
	}
	return file.Enemies, nil
}

// Roster turns a list of enemy definitions into battle units. Repeated
// names get a letter suffix so the battle log can tell them apart.
func Roster(defs []*EnemyDef) []*combat.Unit {
	counts := make(map[string]int)
	for _, d := range defs {
		counts[d.Name]++
	}

	seen := make(map[string]int)
	units := make([]*combat.Unit, 0, len(defs))
	for _, d := range defs {
		u := d.ToUnit()
		if counts[d.Name] > 1 {
			u.Name = d.Name + " " + string(rune('A'+seen[d.Name]%26))
			seen[d.Name]++
		}
		units = append(units, u)
	}
	return units
}
