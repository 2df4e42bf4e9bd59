package dungeon

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"strings"
	"testing"
)

// stubRand always answers with the value chosen by pick.
type stubRand struct {
	pick func(n int) int
}

func (s stubRand) Intn(n int) int { return s.pick(n) }

func generousParams() Params {
	p := DefaultParams()
	p.MapWidth = 200
	p.MapHeight = 200
	return p
}

func mustGenerate(t *testing.T, seed int64, p Params) *Layout {
	t.Helper()
	layout, err := Generate(context.Background(), seed, p)
	if err != nil {
		t.Fatalf("Generate(seed=%d) failed: %v", seed, err)
	}
	return layout
}

func TestGenerateReproducibility(t *testing.T) {
	seed := int64(12345)
	p := DefaultParams()

	l1 := mustGenerate(t, seed, p)
	l2 := mustGenerate(t, seed, p)

	if !slices.Equal(l1.Rooms, l2.Rooms) {
		t.Fatalf("Room sequence mismatch:\n%v\n%v", l1.Rooms, l2.Rooms)
	}
	if !slices.Equal(l1.FloorTiles(), l2.FloorTiles()) {
		t.Error("Floor tiles differ for the same seed")
	}
	if !slices.Equal(l1.WallTiles(), l2.WallTiles()) {
		t.Error("Wall tiles differ for the same seed")
	}
	if !slices.Equal(l1.Spawns.Enemies, l2.Spawns.Enemies) {
		t.Error("Enemy spawns differ for the same seed")
	}
	if !slices.Equal(l1.Spawns.Treasures, l2.Spawns.Treasures) {
		t.Error("Treasure spawns differ for the same seed")
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	l1 := mustGenerate(t, 12345, DefaultParams())
	l2 := mustGenerate(t, 54321, DefaultParams())

	if slices.Equal(l1.Rooms, l2.Rooms) {
		t.Error("Layouts with different seeds should not be identical")
	}
}

func TestGenerateTileInvariants(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		layout := mustGenerate(t, seed, DefaultParams())

		for i, room := range layout.Rooms {
			for _, p := range room.Tiles() {
				if !layout.IsFloor(p) {
					t.Fatalf("seed %d: room %d tile %v missing from floor set", seed, i, p)
				}
			}
		}

		for _, w := range layout.WallTiles() {
			if layout.IsFloor(w) {
				t.Fatalf("seed %d: %v is both wall and floor", seed, w)
			}
			if !hasFloorNeighbor(layout, w) {
				t.Fatalf("seed %d: wall %v has no adjacent floor", seed, w)
			}
		}

		// Every 8-neighbour of a floor tile is floor or wall.
		for _, f := range layout.FloorTiles() {
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					n := f.Add(dx, dy)
					if !layout.IsFloor(n) && !layout.IsWall(n) {
						t.Fatalf("seed %d: neighbour %v of floor %v is neither floor nor wall", seed, n, f)
					}
				}
			}
		}
	}
}

func TestGenerateConnectivity(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		layout := mustGenerate(t, seed, DefaultParams())
		if len(layout.Rooms) < 2 {
			continue
		}

		tiles := layout.FloorTiles()
		reached := floodFill(layout, tiles[0])
		if reached != len(tiles) {
			t.Errorf("seed %d: reached %d of %d floor tiles", seed, reached, len(tiles))
		}
	}
}

func TestGenerateAllRoomsPlaced(t *testing.T) {
	p := generousParams()
	layout := mustGenerate(t, 7, p)

	if len(layout.Rooms) != p.RoomCount {
		t.Fatalf("placed %d rooms, want %d", len(layout.Rooms), p.RoomCount)
	}
	if layout.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", layout.Skipped)
	}

	for i := range layout.Rooms {
		for j := i + 1; j < len(layout.Rooms); j++ {
			if layout.Rooms[i].Overlaps(layout.Rooms[j], p.Padding) {
				t.Errorf("rooms %d and %d overlap: %+v %+v", i, j, layout.Rooms[i], layout.Rooms[j])
			}
		}
	}
}

func TestGenerateFixedRoomSize(t *testing.T) {
	p := generousParams()
	p.MaxRoomSize = p.MinRoomSize
	layout := mustGenerate(t, 11, p)

	if len(layout.Rooms) == 0 {
		t.Fatal("no rooms placed")
	}
	for i, r := range layout.Rooms {
		if r.Width != p.MinRoomSize || r.Height != p.MinRoomSize {
			t.Errorf("room %d is %dx%d, want %dx%d", i, r.Width, r.Height, p.MinRoomSize, p.MinRoomSize)
		}
	}
}

func TestGenerateRoomBounds(t *testing.T) {
	p := DefaultParams()
	for seed := int64(1); seed <= 25; seed++ {
		layout := mustGenerate(t, seed, p)
		for _, r := range layout.Rooms {
			if r.Width < p.MinRoomSize || r.Width >= p.MaxRoomSize ||
				r.Height < p.MinRoomSize || r.Height >= p.MaxRoomSize {
				t.Errorf("seed %d: room size %dx%d outside [%d,%d)", seed, r.Width, r.Height, p.MinRoomSize, p.MaxRoomSize)
			}
			if r.X < 1 || r.Y < 1 || r.X+r.Width > p.MapWidth-1 || r.Y+r.Height > p.MapHeight-1 {
				t.Errorf("seed %d: room %+v leaves the map", seed, r)
			}
		}
	}
}

func TestGenerateSpawns(t *testing.T) {
	p := generousParams()
	p.Floor = 3

	layout := mustGenerate(t, 99, p)
	rooms := layout.Rooms
	last := rooms[len(rooms)-1]

	if layout.Spawns.Player != rooms[0].Center() {
		t.Errorf("Player spawn = %v, want %v", layout.Spawns.Player, rooms[0].Center())
	}
	if layout.Spawns.Exit != last.Center() {
		t.Errorf("Exit = %v, want %v", layout.Spawns.Exit, last.Center())
	}

	if got, want := len(layout.Spawns.Enemies), 3+2*p.Floor; got != want {
		t.Errorf("enemy count = %d, want %d", got, want)
	}
	for _, e := range layout.Spawns.Enemies {
		idx := layout.RoomIndexAt(e)
		if idx <= 0 {
			t.Errorf("enemy %v in room %d, want a room after the first", e, idx)
			continue
		}
		r := rooms[idx]
		if e.X <= r.X || e.X >= r.X+r.Width-1 || e.Y <= r.Y || e.Y >= r.Y+r.Height-1 {
			t.Errorf("enemy %v is on the edge of room %+v", e, r)
		}
	}

	if got, want := len(layout.Spawns.Treasures), max(1, len(rooms)/3); got != want {
		t.Errorf("treasure count = %d, want %d", got, want)
	}
	for _, tr := range layout.Spawns.Treasures {
		idx := layout.RoomIndexAt(tr)
		if idx <= 0 || idx == len(rooms)-1 {
			t.Errorf("treasure %v in room %d, want neither first nor last", tr, idx)
		}
	}
}

func TestGenerateSingleRoom(t *testing.T) {
	p := DefaultParams()
	p.RoomCount = 1

	layout := mustGenerate(t, 3, p)
	if len(layout.Rooms) != 1 {
		t.Fatalf("placed %d rooms, want 1", len(layout.Rooms))
	}

	room := layout.Rooms[0]
	if layout.FloorCount() != room.Width*room.Height {
		t.Errorf("FloorCount() = %d, want %d (no corridors)", layout.FloorCount(), room.Width*room.Height)
	}
	if layout.Spawns.Player != layout.Spawns.Exit {
		t.Errorf("single room should hold both player %v and exit %v", layout.Spawns.Player, layout.Spawns.Exit)
	}
	if len(layout.Spawns.Enemies) != 0 || len(layout.Spawns.Treasures) != 0 {
		t.Errorf("single room should have no enemies or treasure, got %d/%d",
			len(layout.Spawns.Enemies), len(layout.Spawns.Treasures))
	}
}

func TestGenerateNoRoomsPlaced(t *testing.T) {
	// Always draw the largest size, which never fits the map.
	gen := NewGenerator(stubRand{pick: func(n int) int { return n - 1 }})
	p := Params{MinRoomSize: 3, MaxRoomSize: 10, RoomCount: 4, MapWidth: 5, MapHeight: 5, MaxAttempts: 10, Padding: 2, Floor: 1}

	layout, err := gen.Generate(context.Background(), p)
	if !errors.Is(err, ErrNoRooms) {
		t.Fatalf("Generate() error = %v, want ErrNoRooms", err)
	}
	if layout == nil {
		t.Fatal("Generate() should still return the empty layout")
	}
	if layout.HasRooms() || layout.FloorCount() != 0 || layout.WallCount() != 0 {
		t.Errorf("expected empty layout, got %d rooms %d floor %d walls",
			len(layout.Rooms), layout.FloorCount(), layout.WallCount())
	}
	if layout.Skipped != p.RoomCount {
		t.Errorf("Skipped = %d, want %d", layout.Skipped, p.RoomCount)
	}
	if layout.ASCII() != "" {
		t.Error("ASCII() of an empty layout should be empty")
	}
}

func TestGenerateSkipsUnplaceableRooms(t *testing.T) {
	// A 9x9 map fits exactly one 5x5 room once padding is applied.
	p := Params{MinRoomSize: 5, MaxRoomSize: 5, RoomCount: 3, MapWidth: 9, MapHeight: 9, MaxAttempts: 20, Padding: 2, Floor: 1}

	layout := mustGenerate(t, 1, p)
	if len(layout.Rooms) != 1 {
		t.Fatalf("placed %d rooms, want 1", len(layout.Rooms))
	}
	if layout.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", layout.Skipped)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		valid  bool
	}{
		{"defaults", func(*Params) {}, true},
		{"fixed room size", func(p *Params) { p.MaxRoomSize = p.MinRoomSize }, true},
		{"zero rooms", func(p *Params) { p.RoomCount = 0 }, false},
		{"zero min size", func(p *Params) { p.MinRoomSize = 0 }, false},
		{"max below min", func(p *Params) { p.MaxRoomSize = p.MinRoomSize - 1 }, false},
		{"map too small", func(p *Params) { p.MapWidth = p.MinRoomSize + 1 }, false},
		{"no attempts", func(p *Params) { p.MaxAttempts = 0 }, false},
		{"negative padding", func(p *Params) { p.Padding = -1 }, false},
		{"negative floor", func(p *Params) { p.Floor = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, ErrConfiguration) {
				t.Errorf("Validate() = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestGenerateRejectsConfigurationBeforeDrawing(t *testing.T) {
	gen := NewGenerator(stubRand{pick: func(int) int {
		t.Fatal("random source used for invalid params")
		return 0
	}})

	p := DefaultParams()
	p.RoomCount = 0
	if _, err := gen.Generate(context.Background(), p); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Generate() error = %v, want ErrConfiguration", err)
	}
}

func TestCarveCorridorLShape(t *testing.T) {
	layout := newLayout(1, 0)
	layout.carveCorridor(Point{0, 0}, Point{3, 2})

	want := []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {3, 1}, {3, 2}}
	if got := layout.FloorTiles(); !slices.Equal(got, want) {
		t.Errorf("corridor tiles = %v, want %v", got, want)
	}

	// Carving the same corridor again is idempotent.
	layout.carveCorridor(Point{0, 0}, Point{3, 2})
	if layout.FloorCount() != len(want) {
		t.Errorf("FloorCount() after re-carve = %d, want %d", layout.FloorCount(), len(want))
	}
}

func TestASCIIMarkers(t *testing.T) {
	layout := mustGenerate(t, 42, DefaultParams())
	out := layout.ASCII()

	for _, marker := range []string{"@", ">", "#", "."} {
		if !strings.Contains(out, marker) {
			t.Errorf("ASCII() missing %q", marker)
		}
	}
}

func TestGenerateWithSharedRand(t *testing.T) {
	// Consecutive floors from one source differ but replay identically.
	gen1 := NewGenerator(rand.New(rand.NewSource(5)))
	gen2 := NewGenerator(rand.New(rand.NewSource(5)))
	ctx := context.Background()

	for floor := 1; floor <= 3; floor++ {
		p := DefaultParams()
		p.Floor = floor
		a, err := gen1.Generate(ctx, p)
		if err != nil {
			t.Fatal(err)
		}
		b, err := gen2.Generate(ctx, p)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(a.Rooms, b.Rooms) {
			t.Errorf("floor %d: replay mismatch", floor)
		}
	}
}

func hasFloorNeighbor(l *Layout, p Point) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if (dx != 0 || dy != 0) && l.IsFloor(p.Add(dx, dy)) {
				return true
			}
		}
	}
	return false
}

// floodFill counts floor tiles reachable from start under 4-connectivity.
func floodFill(l *Layout, start Point) int {
	seen := map[Point]bool{start: true}
	queue := []Point{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range []Point{p.Add(1, 0), p.Add(-1, 0), p.Add(0, 1), p.Add(0, -1)} {
			if l.IsFloor(n) && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(seen)
}
