package dungeon

import (
	"cmp"
	"slices"
	"strings"
)

// Spawns holds the gameplay placement points of a floor.
type Spawns struct {
	Player    Point   // Center of the first room
	Enemies   []Point // Interior points of rooms other than the first, may repeat
	Treasures []Point // Interior points of rooms other than the first and last
	Exit      Point   // Center of the last room
}

// Layout is a generated dungeon floor.
//
// Rooms keep generation order: corridors connect consecutive rooms, the
// player starts in Rooms[0] and the exit sits in the last room.
type Layout struct {
	Floor     int
	Requested int // Rooms asked for
	Skipped   int // Rooms dropped after exhausting placement attempts
	Rooms     []Room
	Spawns    Spawns

	floor map[Point]struct{}
	walls map[Point]struct{}
}

func newLayout(floor, requested int) *Layout {
	return &Layout{
		Floor:     floor,
		Requested: requested,
		Rooms:     make([]Room, 0, requested),
		floor:     make(map[Point]struct{}),
		walls:     make(map[Point]struct{}),
	}
}

// HasRooms reports whether at least one room was placed. A layout without
// rooms has no valid spawn points.
func (l *Layout) HasRooms() bool {
	return len(l.Rooms) > 0
}

// IsFloor returns true if p is a floor tile.
func (l *Layout) IsFloor(p Point) bool {
	_, ok := l.floor[p]
	return ok
}

// IsWall returns true if p is a wall tile.
func (l *Layout) IsWall(p Point) bool {
	_, ok := l.walls[p]
	return ok
}

// FloorCount returns the number of floor tiles.
func (l *Layout) FloorCount() int { return len(l.floor) }

// WallCount returns the number of wall tiles.
func (l *Layout) WallCount() int { return len(l.walls) }

// FloorTiles returns the floor tiles sorted by row, then column.
func (l *Layout) FloorTiles() []Point {
	return sortedPoints(l.floor)
}

// WallTiles returns the wall tiles sorted by row, then column.
func (l *Layout) WallTiles() []Point {
	return sortedPoints(l.walls)
}

// RoomIndexAt returns the index of the room containing p, or -1 if p is not in a room.
func (l *Layout) RoomIndexAt(p Point) int {
	for i, room := range l.Rooms {
		if room.Contains(p) {
			return i
		}
	}
	return -1
}

// Bounds returns the inclusive corners of the box covering every floor and wall tile.
// ok is false for an empty layout.
func (l *Layout) Bounds() (lo, hi Point, ok bool) {
	first := true
	visit := func(p Point) {
		if first {
			lo, hi, first = p, p, false
			return
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	for p := range l.floor {
		visit(p)
	}
	for p := range l.walls {
		visit(p)
	}
	return lo, hi, !first
}

// TileAt returns the glyph for p, including spawn markers.
func (l *Layout) TileAt(p Point) Tile {
	if l.HasRooms() {
		switch p {
		case l.Spawns.Player:
			return TilePlayer
		case l.Spawns.Exit:
			return TileExit
		}
		if slices.Contains(l.Spawns.Treasures, p) {
			return TileTreasure
		}
		if slices.Contains(l.Spawns.Enemies, p) {
			return TileEnemy
		}
	}
	if l.IsFloor(p) {
		return TileFloor
	}
	if l.IsWall(p) {
		return TileWall
	}
	return TileEmpty
}

// ASCII renders the layout as text, one row per line, highest y first.
func (l *Layout) ASCII() string {
	lo, hi, ok := l.Bounds()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.Grow((hi.X - lo.X + 2) * (hi.Y - lo.Y + 1))
	for y := hi.Y; y >= lo.Y; y-- {
		for x := lo.X; x <= hi.X; x++ {
			b.WriteRune(l.TileAt(Point{X: x, Y: y}).Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// addFloor marks p as floor. Already present tiles are left alone.
func (l *Layout) addFloor(p Point) {
	l.floor[p] = struct{}{}
}

func sortedPoints(set map[Point]struct{}) []Point {
	points := make([]Point, 0, len(set))
	for p := range set {
		points = append(points, p)
	}
	slices.SortFunc(points, func(a, b Point) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return points
}
