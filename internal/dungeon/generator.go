package dungeon

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/dungeoncrawler/internal/telemetry"
)

var (
	// ErrConfiguration is returned for parameters that cannot produce a layout.
	ErrConfiguration = errors.New("dungeon: invalid configuration")
	// ErrNoRooms is returned alongside an empty layout when no room could be placed.
	ErrNoRooms = errors.New("dungeon: no rooms placed")
)

const (
	// Default generation settings
	DefaultMinRoomSize = 5
	DefaultMaxRoomSize = 12
	DefaultRoomCount   = 8
	DefaultMapWidth    = 60
	DefaultMapHeight   = 60
	DefaultMaxAttempts = 100
	DefaultPadding     = 2

	baseEnemies     = 3
	enemiesPerFloor = 2
)

// Params controls a single floor generation.
type Params struct {
	MinRoomSize int // Inclusive lower bound for room width and height
	MaxRoomSize int // Exclusive upper bound (equal to MinRoomSize for fixed-size rooms)
	RoomCount   int
	MapWidth    int
	MapHeight   int
	MaxAttempts int // Placement tries per room before it is skipped
	Padding     int // Margin applied to both rooms in the overlap test
	Floor       int // Floor number, scales the enemy count
}

// DefaultParams returns the stock generation settings for floor 1.
func DefaultParams() Params {
	return Params{
		MinRoomSize: DefaultMinRoomSize,
		MaxRoomSize: DefaultMaxRoomSize,
		RoomCount:   DefaultRoomCount,
		MapWidth:    DefaultMapWidth,
		MapHeight:   DefaultMapHeight,
		MaxAttempts: DefaultMaxAttempts,
		Padding:     DefaultPadding,
		Floor:       1,
	}
}

// Validate checks the parameters before any random draw is made.
func (p Params) Validate() error {
	switch {
	case p.RoomCount <= 0:
		return fmt.Errorf("%w: room count must be positive, got %d", ErrConfiguration, p.RoomCount)
	case p.MinRoomSize < 1:
		return fmt.Errorf("%w: min room size must be at least 1, got %d", ErrConfiguration, p.MinRoomSize)
	case p.MaxRoomSize < p.MinRoomSize:
		return fmt.Errorf("%w: max room size %d below min %d", ErrConfiguration, p.MaxRoomSize, p.MinRoomSize)
	case p.MapWidth < p.MinRoomSize+2 || p.MapHeight < p.MinRoomSize+2:
		return fmt.Errorf("%w: map %dx%d cannot hold a %d-tile room", ErrConfiguration, p.MapWidth, p.MapHeight, p.MinRoomSize)
	case p.MaxAttempts < 1:
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrConfiguration, p.MaxAttempts)
	case p.Padding < 0:
		return fmt.Errorf("%w: padding must not be negative, got %d", ErrConfiguration, p.Padding)
	case p.Floor < 0:
		return fmt.Errorf("%w: floor must not be negative, got %d", ErrConfiguration, p.Floor)
	}
	return nil
}

// Rand is the random source used by the generator. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Generator builds floor layouts from a random source.
type Generator struct {
	rng    Rand
	logger *log.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for placement warnings.
func WithLogger(logger *log.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a generator drawing from rng.
// A nil rng is replaced by a time-seeded source.
func NewGenerator(rng Rand, opts ...Option) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Generator{
		rng:    rng,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate is a convenience wrapper that seeds a fresh generator.
func Generate(ctx context.Context, seed int64, p Params, opts ...Option) (*Layout, error) {
	return NewGenerator(rand.New(rand.NewSource(seed)), opts...).Generate(ctx, p)
}

// Generate creates one floor: rooms, corridors, walls and spawn points.
//
// Rooms that cannot be placed within MaxAttempts are skipped with a warning.
// If no room is placed at all the empty layout is returned with ErrNoRooms.
func (g *Generator) Generate(ctx context.Context, p Params) (*Layout, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tracer := telemetry.Tracer("dungeon")
	_, span := tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()
	layout := newLayout(p.Floor, p.RoomCount)

	g.logger.Debug("generating floor", "floor", p.Floor, "rooms", p.RoomCount)

	g.placeRooms(layout, p)
	g.connectRooms(layout)
	layout.deriveWalls()
	g.placeSpawns(layout, p.Floor)

	span.SetAttributes(
		attribute.Int("dungeon.floor", p.Floor),
		attribute.Int("dungeon.width", p.MapWidth),
		attribute.Int("dungeon.height", p.MapHeight),
		attribute.Int("dungeon.rooms_requested", p.RoomCount),
		attribute.Int("dungeon.room_count", len(layout.Rooms)),
		attribute.Int("dungeon.floor_tiles", layout.FloorCount()),
		attribute.Int("dungeon.wall_tiles", layout.WallCount()),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)

	if !layout.HasRooms() {
		g.logger.Error("no rooms placed", "floor", p.Floor, "requested", p.RoomCount)
		span.SetStatus(codes.Error, ErrNoRooms.Error())
		return layout, ErrNoRooms
	}

	g.logger.Debug("floor complete", "floor", p.Floor, "rooms", len(layout.Rooms),
		"enemies", len(layout.Spawns.Enemies), "treasures", len(layout.Spawns.Treasures))
	return layout, nil
}

// placeRooms samples rooms until each fits without overlap or runs out of attempts.
func (g *Generator) placeRooms(layout *Layout, p Params) {
	for i := 0; i < p.RoomCount; i++ {
		placed := false
		for attempt := 0; attempt < p.MaxAttempts; attempt++ {
			width := g.between(p.MinRoomSize, p.MaxRoomSize)
			height := g.between(p.MinRoomSize, p.MaxRoomSize)

			x, okX := g.origin(p.MapWidth, width)
			y, okY := g.origin(p.MapHeight, height)
			if !okX || !okY {
				continue
			}

			room := Room{X: x, Y: y, Width: width, Height: height}
			if overlapsAny(room, layout.Rooms, p.Padding) {
				continue
			}

			layout.Rooms = append(layout.Rooms, room)
			for _, tile := range room.Tiles() {
				layout.addFloor(tile)
			}
			placed = true
			break
		}

		if !placed {
			layout.Skipped++
			g.logger.Warn("room placement exhausted", "room", i, "attempts", p.MaxAttempts)
		}
	}
}

// between draws from [lo, hi), returning lo for an empty range.
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo)
}

// origin picks a coordinate so that a span of size fits inside [1, mapSize-1].
func (g *Generator) origin(mapSize, size int) (int, bool) {
	slack := mapSize - size - 2
	switch {
	case slack < 0:
		return 0, false
	case slack == 0:
		return 1, true
	default:
		return 1 + g.rng.Intn(slack), true
	}
}

func overlapsAny(room Room, rooms []Room, padding int) bool {
	for _, other := range rooms {
		if room.Overlaps(other, padding) {
			return true
		}
	}
	return false
}

// connectRooms chains consecutive rooms and adds one long-range link when
// there are at least four rooms.
func (g *Generator) connectRooms(layout *Layout) {
	rooms := layout.Rooms
	for i := 0; i+1 < len(rooms); i++ {
		layout.carveCorridor(rooms[i].Center(), rooms[i+1].Center())
	}
	if len(rooms) >= 4 {
		layout.carveCorridor(rooms[0].Center(), rooms[len(rooms)/2].Center())
	}
}

// carveCorridor walks x toward the target at the start row, then y toward the target.
func (l *Layout) carveCorridor(from, to Point) {
	x, y := from.X, from.Y
	for x != to.X {
		l.addFloor(Point{X: x, Y: y})
		x += step(x, to.X)
	}
	for y != to.Y {
		l.addFloor(Point{X: x, Y: y})
		y += step(y, to.Y)
	}
	l.addFloor(to)
}

func step(from, to int) int {
	if from < to {
		return 1
	}
	return -1
}

// deriveWalls marks every 8-neighbour of a floor tile that is not floor itself.
func (l *Layout) deriveWalls() {
	for tile := range l.floor {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				neighbor := tile.Add(dx, dy)
				if !l.IsFloor(neighbor) {
					l.walls[neighbor] = struct{}{}
				}
			}
		}
	}
}

// placeSpawns sets the player start, enemies, treasures and exit.
func (g *Generator) placeSpawns(layout *Layout, floor int) {
	rooms := layout.Rooms
	if len(rooms) == 0 {
		return
	}

	layout.Spawns.Player = rooms[0].Center()
	layout.Spawns.Exit = rooms[len(rooms)-1].Center()

	// No enemies in the player's room
	enemyRooms := rooms[1:]
	enemyCount := baseEnemies + enemiesPerFloor*floor
	if len(enemyRooms) > 0 {
		layout.Spawns.Enemies = make([]Point, 0, enemyCount)
		for i := 0; i < enemyCount; i++ {
			room := enemyRooms[g.rng.Intn(len(enemyRooms))]
			layout.Spawns.Enemies = append(layout.Spawns.Enemies, g.interiorPoint(room))
		}
	}

	// Treasure skips the first and last room
	treasureCount := max(1, len(rooms)/3)
	if len(rooms) > 2 {
		treasureRooms := rooms[1 : len(rooms)-1]
		layout.Spawns.Treasures = make([]Point, 0, treasureCount)
		for i := 0; i < treasureCount; i++ {
			room := treasureRooms[g.rng.Intn(len(treasureRooms))]
			layout.Spawns.Treasures = append(layout.Spawns.Treasures, g.interiorPoint(room))
		}
	}
}

// interiorPoint returns a random point at least one tile in from the room edge.
// Rooms too thin for a margin fall back to their middle row or column.
func (g *Generator) interiorPoint(room Room) Point {
	return Point{
		X: g.interiorCoord(room.X, room.Width),
		Y: g.interiorCoord(room.Y, room.Height),
	}
}

func (g *Generator) interiorCoord(lo, size int) int {
	if size <= 2 {
		return lo + size/2
	}
	return lo + 1 + g.rng.Intn(size-2)
}
