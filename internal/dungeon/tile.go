// Package dungeon provides procedural floor layout generation.
package dungeon

// Tile represents a single map glyph in the ASCII dump.
type Tile rune

const (
	TileEmpty    Tile = ' '
	TileWall     Tile = '#'
	TileFloor    Tile = '.'
	TilePlayer   Tile = '@'
	TileEnemy    Tile = 'e'
	TileTreasure Tile = '$'
	TileExit     Tile = '>'
)

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return t != TileWall && t != TileEmpty
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
