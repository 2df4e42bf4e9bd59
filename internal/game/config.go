package game

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/samdwyer/dungeoncrawler/internal/config"
	"github.com/samdwyer/dungeoncrawler/internal/storage"
)

// History records floors and encounters. *storage.Store satisfies it.
type History interface {
	SaveFloor(ctx context.Context, rec storage.FloorRecord) (int64, error)
	SaveEncounter(ctx context.Context, rec storage.EncounterRecord) error
}

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible dungeon generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Class is the playable class id or name. Unknown classes fall back to Fighter.
	Class string

	// Settings are the generation, encounter and battle settings.
	// The zero value means config.Default().
	Settings config.Config

	// History is optional.
	History History

	Logger *log.Logger
}
