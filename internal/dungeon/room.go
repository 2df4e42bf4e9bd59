package dungeon

// Point is an integer tile coordinate.
type Point struct {
	X, Y int
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Room represents a rectangular room in the dungeon.
type Room struct {
	X, Y          int // Origin corner
	Width, Height int // Dimensions of the room
}

// Center returns the integer midpoint of the room.
func (r Room) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains returns true if the given point is inside the room.
func (r Room) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Overlaps reports whether the two rooms come closer than the padding margin.
// Both rectangles are grown by padding before the AABB test, so two accepted
// rooms are always separated by more than 2*padding tiles on some axis.
func (r Room) Overlaps(other Room, padding int) bool {
	return !(r.X-padding > other.X+other.Width+padding ||
		r.X+r.Width+padding < other.X-padding ||
		r.Y-padding > other.Y+other.Height+padding ||
		r.Y+r.Height+padding < other.Y-padding)
}

// Tiles returns every coordinate of the room footprint in row-major order.
func (r Room) Tiles() []Point {
	tiles := make([]Point, 0, r.Width*r.Height)
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			tiles = append(tiles, Point{X: x, Y: y})
		}
	}
	return tiles
}
