package config

import (
	_ "embed"

	"github.com/samdwyer/dungeoncrawler/internal/combat"
	"github.com/samdwyer/dungeoncrawler/internal/dungeon"
)

//go:embed defaults/config.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	rules := combat.DefaultRules()
	return Config{
		Dungeon: DungeonConfig{
			MinRoomSize: dungeon.DefaultMinRoomSize,
			MaxRoomSize: dungeon.DefaultMaxRoomSize,
			RoomCount:   dungeon.DefaultRoomCount,
			MapWidth:    dungeon.DefaultMapWidth,
			MapHeight:   dungeon.DefaultMapHeight,
			MaxAttempts: dungeon.DefaultMaxAttempts,
			Padding:     dungeon.DefaultPadding,
		},
		Encounters: EncounterConfig{
			Chance:     20,
			CheckEvery: 4,
			MinEnemies: 1,
			MaxEnemies: 3,
			BossID:     "hydra",
			BossCount:  3,
		},
		Battle: BattleConfig{
			HealAmount:    rules.HealAmount,
			FleeThreshold: rules.FleeThreshold,
			DamageSpread:  rules.DamageSpread,
			MinDamage:     rules.MinDamage,
		},
		Storage: StorageConfig{
			Path: "~/.dungeoncrawler/history.db",
		},
	}
}
