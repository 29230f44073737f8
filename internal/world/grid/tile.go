package grid

import "fmt"

// Tile is a small integer tile code. The numeric values are shared with level
// files.
type Tile uint8

const (
	TileEmpty      Tile = 0
	TileWall       Tile = 1
	TileDoorClosed Tile = 2
	TileDoorOpen   Tile = 3

	// TileCount is one past the largest valid tile code. Tables indexed by
	// Tile are sized with it.
	TileCount = 4
)

// Valid reports whether t is a known tile code.
func (t Tile) Valid() bool {
	return t < TileCount
}

// Walkable reports whether the tile itself permits movement.
func (t Tile) Walkable() bool {
	return t == TileEmpty || t == TileDoorOpen
}

// Transparent reports whether rays pass through the tile after recording it.
func (t Tile) Transparent() bool {
	return t == TileDoorOpen
}

// IsDoor reports whether t is a door in either state.
func (t Tile) IsDoor() bool {
	return t == TileDoorClosed || t == TileDoorOpen
}

func (t Tile) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileWall:
		return "wall"
	case TileDoorClosed:
		return "door_closed"
	case TileDoorOpen:
		return "door_open"
	default:
		return fmt.Sprintf("tile(%d)", uint8(t))
	}
}

// ParseTile maps a tile name back to its code.
func ParseTile(name string) (Tile, bool) {
	for t := Tile(0); t < TileCount; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}
