package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/dungeoncrawler/internal/combat"
	"github.com/samdwyer/dungeoncrawler/internal/config"
	"github.com/samdwyer/dungeoncrawler/internal/dungeon"
	"github.com/samdwyer/dungeoncrawler/internal/entity"
	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
	"github.com/samdwyer/dungeoncrawler/internal/storage"
	"github.com/samdwyer/dungeoncrawler/internal/telemetry"
)

var (
	// ErrWrongState is returned for operations the current game state does not allow.
	ErrWrongState = errors.New("game: wrong state")
	// ErrBlocked is returned when moving onto a tile that is not floor or not adjacent.
	ErrBlocked = errors.New("game: move blocked")
	// ErrNoEnemies is returned when no enemy could be drawn for an encounter.
	ErrNoEnemies = errors.New("game: no enemies available")
)

// Game holds the entire game state.
type Game struct {
	settings config.Config
	seed     int64
	rng      *rand.Rand
	engine   *combat.Engine
	classes  *gamedata.ClassRegistry
	enemies  *gamedata.EnemyRegistry
	player   *entity.PlayerState
	layout   *dungeon.Layout
	history  History
	logger   *log.Logger
	state    State
	steps    int // Steps walked since the last encounter check
	battle   *battle
}

// battle is the bookkeeping for the unresolved session.
type battle struct {
	session *combat.Session
	enemies []string
	boss    bool
}

// New creates a new game instance.
func New(cfg Config) (*Game, error) {
	settings := cfg.Settings
	if settings == (config.Config{}) {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	classes, err := gamedata.LoadClassRegistry()
	if err != nil {
		return nil, fmt.Errorf("game: loading classes: %w", err)
	}
	enemies, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return nil, fmt.Errorf("game: loading enemies: %w", err)
	}
	if enemies.GetByID(settings.Encounters.BossID) == nil {
		return nil, fmt.Errorf("%w: unknown boss %q", config.ErrInvalid, settings.Encounters.BossID)
	}

	class := classes.Resolve(cfg.Class)
	if _, ok := classes.Get(cfg.Class); !ok && cfg.Class != "" {
		logger.Warn("unknown class, using default", "class", cfg.Class, "default", class.Name)
	}

	rng := rand.New(rand.NewSource(seed))
	return &Game{
		settings: settings,
		seed:     seed,
		rng:      rng,
		engine:   combat.NewEngine(rng, combat.WithRules(settings.Rules()), combat.WithLogger(logger)),
		classes:  classes,
		enemies:  enemies,
		player:   entity.NewPlayerState(class),
		history:  cfg.History,
		logger:   logger,
		state:    StateExplore,
	}, nil
}

// Seed returns the seed the game was created with.
func (g *Game) Seed() int64 { return g.seed }

// State returns the current game state.
func (g *Game) State() State { return g.state }

// Player returns the player record.
func (g *Game) Player() *entity.PlayerState { return g.player }

// Layout returns the current floor, or nil before the first EnterFloor.
func (g *Game) Layout() *dungeon.Layout { return g.layout }

// Session returns the unresolved battle session, or nil.
func (g *Game) Session() *combat.Session {
	if g.battle == nil {
		return nil
	}
	return g.battle.session
}

// FloorSeed returns the generator seed for a floor, so any floor can be
// regenerated from the game seed alone.
func (g *Game) FloorSeed(floor int) int64 {
	return g.seed + int64(floor)
}

// EnterFloor generates floor n and places the player at its start.
// A floor without rooms is a hard failure and leaves the game unchanged.
func (g *Game) EnterFloor(ctx context.Context, n int) (*dungeon.Layout, error) {
	if g.state != StateExplore {
		return nil, fmt.Errorf("%w: cannot enter a floor while %s", ErrWrongState, g.state)
	}

	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.enter_floor")
	defer span.End()

	seed := g.FloorSeed(n)
	span.SetAttributes(attribute.Int("floor", n), attribute.Int64("seed", seed))

	layout, err := dungeon.Generate(ctx, seed, g.settings.DungeonParams(n), dungeon.WithLogger(g.logger))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("game: floor %d: %w", n, err)
	}

	g.layout = layout
	g.player.Floor = n
	g.player.MoveTo(layout.Spawns.Player)
	g.steps = 0

	span.SetAttributes(
		attribute.Int("rooms.placed", len(layout.Rooms)),
		attribute.Int("rooms.skipped", layout.Skipped),
	)
	g.logger.Info("entered floor", "floor", n, "rooms", len(layout.Rooms), "skipped", layout.Skipped)

	if g.history != nil {
		_, err := g.history.SaveFloor(ctx, storage.FloorRecord{
			Seed:      seed,
			Floor:     n,
			Requested: layout.Requested,
			Placed:    len(layout.Rooms),
		})
		if err != nil {
			g.logger.Warn("floor not recorded", "floor", n, "err", err)
		}
	}
	return layout, nil
}

// Move steps the player onto an adjacent floor tile. Every CheckEvery steps
// a random encounter check is made; the result reports whether it hit.
func (g *Game) Move(to dungeon.Point) (bool, error) {
	if g.state != StateExplore || g.layout == nil {
		return false, fmt.Errorf("%w: cannot move while %s", ErrWrongState, g.state)
	}
	if !dungeon.Adjacent(g.player.Position, to) || !g.layout.TileAt(to).IsPassable() {
		return false, fmt.Errorf("%w: %v -> %v", ErrBlocked, g.player.Position, to)
	}

	g.player.MoveTo(to)
	g.steps++
	if g.steps < g.settings.Encounters.CheckEvery {
		return false, nil
	}
	g.steps = 0
	return g.CheckEncounter(), nil
}

// AtExit reports whether the player stands on the floor's exit.
func (g *Game) AtExit() bool {
	return g.layout != nil && g.player.Position == g.layout.Spawns.Exit
}

// CheckEncounter rolls for a random encounter: a draw from [0,100) at or
// below the configured chance hits. No roll is made outside exploration.
func (g *Game) CheckEncounter() bool {
	if g.state != StateExplore {
		return false
	}
	chance := g.settings.Encounters.Chance
	if chance <= 0 {
		return false
	}
	roll := g.rng.Float64() * 100
	hit := roll <= chance
	g.logger.Debug("encounter check", "roll", fmt.Sprintf("%.1f", roll), "chance", chance, "hit", hit)
	return hit
}

// StartRandomEncounter starts a battle against a weighted random group.
func (g *Game) StartRandomEncounter(ctx context.Context) (*combat.Session, error) {
	if err := g.canStartBattle(); err != nil {
		return nil, err
	}
	e := g.settings.Encounters
	count := e.MinEnemies + g.rng.Intn(e.MaxEnemies-e.MinEnemies+1)

	defs := g.enemies.SpawnGroup(g.rng, count)
	if len(defs) == 0 {
		return nil, ErrNoEnemies
	}
	return g.startBattle(ctx, defs, false)
}

// StartBossEncounter starts the boss battle: BossCount copies of the boss.
func (g *Game) StartBossEncounter(ctx context.Context) (*combat.Session, error) {
	e := g.settings.Encounters
	boss := g.enemies.GetByID(e.BossID)
	if boss == nil {
		return nil, fmt.Errorf("%w: boss %q", ErrNoEnemies, e.BossID)
	}

	defs := make([]*gamedata.EnemyDef, e.BossCount)
	for i := range defs {
		defs[i] = boss
	}
	return g.startBattle(ctx, defs, true)
}

// StartEncounter starts a battle against the given enemy ids.
func (g *Game) StartEncounter(ctx context.Context, ids ...string) (*combat.Session, error) {
	defs := make([]*gamedata.EnemyDef, 0, len(ids))
	for _, id := range ids {
		def := g.enemies.GetByID(id)
		if def == nil {
			return nil, fmt.Errorf("%w: unknown enemy %q", ErrNoEnemies, id)
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, ErrNoEnemies
	}
	return g.startBattle(ctx, defs, false)
}

// canStartBattle is checked before any enemy is drawn from the random source.
func (g *Game) canStartBattle() error {
	if g.state != StateExplore {
		return fmt.Errorf("%w: cannot start a battle while %s", ErrWrongState, g.state)
	}
	return nil
}

func (g *Game) startBattle(ctx context.Context, defs []*gamedata.EnemyDef, boss bool) (*combat.Session, error) {
	if err := g.canStartBattle(); err != nil {
		return nil, err
	}

	units := gamedata.Roster(defs)
	session, err := g.engine.Start(ctx, combat.Setup{Player: g.player.Unit(), Enemies: units})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Name
	}
	g.battle = &battle{session: session, enemies: names, boss: boss}
	g.state = StateBattle

	g.logger.Info("battle started", "battle", session.ID(), "enemies", names, "boss", boss)
	return session, nil
}

// Finish applies the outcome of the unresolved session to the player and
// records it. A defeat leaves the player at 0 health until Rest.
func (g *Game) Finish(ctx context.Context) (combat.Outcome, error) {
	if g.state != StateBattle || g.battle == nil {
		return combat.Outcome{}, fmt.Errorf("%w: no battle to finish", ErrWrongState)
	}
	session := g.battle.session
	out, ok := session.Outcome()
	if !ok {
		return combat.Outcome{}, fmt.Errorf("%w: battle %s is in %s", combat.ErrInvalidState, session.ID(), session.State())
	}

	g.player.Apply(out)
	if out.Result == combat.ResultDefeat {
		g.state = StateDefeated
	} else {
		g.state = StateExplore
	}

	rec := storage.EncounterRecord{
		ID:           session.ID(),
		Floor:        g.player.Floor,
		Class:        g.player.ClassID,
		Outcome:      out.Result.String(),
		PlayerHealth: out.PlayerHealth,
		Enemies:      g.battle.enemies,
		Turns:        session.Turn(),
	}
	g.battle = nil

	if g.history != nil {
		if err := g.history.SaveEncounter(ctx, rec); err != nil {
			g.logger.Warn("encounter not recorded", "battle", rec.ID, "err", err)
		}
	}
	return out, nil
}

// Rest restores the player to full health and allows exploring again.
func (g *Game) Rest() {
	if g.state == StateBattle {
		return
	}
	g.player.Rest()
	g.state = StateExplore
}
