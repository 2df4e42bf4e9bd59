// Package config provides YAML-based configuration for dungeon generation,
// random encounters and battle rules.
package config

import (
	"errors"
	"fmt"

	"github.com/samdwyer/dungeoncrawler/internal/combat"
	"github.com/samdwyer/dungeoncrawler/internal/dungeon"
)

// ErrInvalid is returned for configuration values that cannot be used.
var ErrInvalid = errors.New("config: invalid value")

// Config contains all tunable settings.
type Config struct {
	Dungeon    DungeonConfig   `yaml:"dungeon"`
	Encounters EncounterConfig `yaml:"encounters"`
	Battle     BattleConfig    `yaml:"battle"`
	Storage    StorageConfig   `yaml:"storage"`
}

// DungeonConfig defines floor generation parameters.
type DungeonConfig struct {
	MinRoomSize int `yaml:"min_room_size"`
	MaxRoomSize int `yaml:"max_room_size"`
	RoomCount   int `yaml:"room_count"`
	MapWidth    int `yaml:"map_width"`
	MapHeight   int `yaml:"map_height"`
	MaxAttempts int `yaml:"max_attempts"`
	Padding     int `yaml:"padding"`
}

// EncounterConfig defines random and boss encounter settings.
type EncounterConfig struct {
	Chance     float64 `yaml:"chance"`      // Percent chance per check, [0,100]
	CheckEvery int     `yaml:"check_every"` // Steps walked between checks
	MinEnemies int     `yaml:"min_enemies"`
	MaxEnemies int     `yaml:"max_enemies"` // Inclusive
	BossID     string  `yaml:"boss_id"`
	BossCount  int     `yaml:"boss_count"`
}

// BattleConfig defines the battle constants.
type BattleConfig struct {
	HealAmount    int `yaml:"heal_amount"`
	FleeThreshold int `yaml:"flee_threshold"`
	DamageSpread  int `yaml:"damage_spread"`
	MinDamage     int `yaml:"min_damage"`
}

// StorageConfig defines where history is kept.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Validate checks every section and reports the first bad value.
func (c Config) Validate() error {
	if err := c.DungeonParams(1).Validate(); err != nil {
		return fmt.Errorf("%w: dungeon: %v", ErrInvalid, err)
	}

	e := c.Encounters
	switch {
	case e.Chance < 0 || e.Chance > 100:
		return fmt.Errorf("%w: encounters.chance must be within [0,100], got %g", ErrInvalid, e.Chance)
	case e.CheckEvery < 1:
		return fmt.Errorf("%w: encounters.check_every must be positive, got %d", ErrInvalid, e.CheckEvery)
	case e.MinEnemies < 1:
		return fmt.Errorf("%w: encounters.min_enemies must be positive, got %d", ErrInvalid, e.MinEnemies)
	case e.MaxEnemies < e.MinEnemies:
		return fmt.Errorf("%w: encounters.max_enemies %d below min %d", ErrInvalid, e.MaxEnemies, e.MinEnemies)
	case e.BossID == "":
		return fmt.Errorf("%w: encounters.boss_id is empty", ErrInvalid)
	case e.BossCount < 1:
		return fmt.Errorf("%w: encounters.boss_count must be positive, got %d", ErrInvalid, e.BossCount)
	}

	b := c.Battle
	switch {
	case b.HealAmount < 0:
		return fmt.Errorf("%w: battle.heal_amount must not be negative, got %d", ErrInvalid, b.HealAmount)
	case b.FleeThreshold < 0 || b.FleeThreshold > 100:
		return fmt.Errorf("%w: battle.flee_threshold must be within [0,100], got %d", ErrInvalid, b.FleeThreshold)
	case b.DamageSpread < 0:
		return fmt.Errorf("%w: battle.damage_spread must not be negative, got %d", ErrInvalid, b.DamageSpread)
	case b.MinDamage < 0:
		return fmt.Errorf("%w: battle.min_damage must not be negative, got %d", ErrInvalid, b.MinDamage)
	}
	return nil
}

// DungeonParams returns generator parameters for the given floor.
func (c Config) DungeonParams(floor int) dungeon.Params {
	d := c.Dungeon
	return dungeon.Params{
		MinRoomSize: d.MinRoomSize,
		MaxRoomSize: d.MaxRoomSize,
		RoomCount:   d.RoomCount,
		MapWidth:    d.MapWidth,
		MapHeight:   d.MapHeight,
		MaxAttempts: d.MaxAttempts,
		Padding:     d.Padding,
		Floor:       floor,
	}
}

// Rules returns the battle constants.
func (c Config) Rules() combat.Rules {
	return combat.Rules{
		HealAmount:    c.Battle.HealAmount,
		FleeThreshold: c.Battle.FleeThreshold,
		DamageSpread:  c.Battle.DamageSpread,
		MinDamage:     c.Battle.MinDamage,
	}
}
