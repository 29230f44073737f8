// Package grid holds a level: the tile grid, the entities placed on it and the
// per-tile light map computed by the lighting simulator.
//
// A Map is mutated only between frames. Renderers read it without locking.
package grid

import (
	"errors"
	"fmt"
	"math"

	"chosenoffset.com/crawler/internal/world/entity"
)

var (
	ErrOutOfBounds    = errors.New("cell out of bounds")
	ErrInvalidTile    = errors.New("invalid tile code")
	ErrBlocked        = errors.New("cell is not walkable")
	ErrNotADoor       = errors.New("cell is not a door")
	ErrOccupied       = errors.New("cell is occupied")
	ErrUnknownEntity  = errors.New("entity is not on this map")
	ErrLightMapLength = errors.New("light map size mismatch")
)

// Map is a width x height tile grid with its entities and light map.
type Map struct {
	width, height int
	tiles         []Tile

	entities []*entity.Entity
	pending  []*entity.Entity
	nextID   entity.ID

	ambient    float64
	light      []float64
	lightDirty bool
}

// New creates an empty map of the given size.
func New(width, height int, ambient float64) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid map dimensions: %dx%d", width, height)
	}
	m := &Map{
		width:   width,
		height:  height,
		tiles:   make([]Tile, width*height),
		ambient: clamp01(ambient),
		light:   make([]float64, width*height),
		nextID:  1,
	}
	m.fillAmbient()
	m.lightDirty = true
	return m, nil
}

// FromRows builds a map from rows of tile codes indexed [y][x].
func FromRows(rows [][]int, ambient float64) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("invalid map dimensions: no rows")
	}
	width := len(rows[0])
	m, err := New(width, len(rows), ambient)
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d width mismatch: expected %d, got %d", y, width, len(row))
		}
		for x, code := range row {
			if code < 0 || !Tile(code).Valid() {
				return nil, fmt.Errorf("tile %d at (%d, %d): %w", code, x, y, ErrInvalidTile)
			}
			m.tiles[y*width+x] = Tile(code)
		}
	}
	return m, nil
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.width }

// Height returns the number of rows.
func (m *Map) Height() int { return m.height }

// InBounds reports whether (x, y) is a cell of the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// TileAt returns the tile at (x, y). ok is false outside the map.
func (m *Map) TileAt(x, y int) (Tile, bool) {
	if !m.InBounds(x, y) {
		return TileEmpty, false
	}
	return m.tiles[y*m.width+x], true
}

// SetTile replaces the tile at (x, y) and invalidates the light map.
func (m *Map) SetTile(x, y int, t Tile) error {
	if !m.InBounds(x, y) {
		return fmt.Errorf("set tile (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	if !t.Valid() {
		return fmt.Errorf("set tile (%d, %d) to %d: %w", x, y, t, ErrInvalidTile)
	}
	idx := y*m.width + x
	if m.tiles[idx] != t {
		m.tiles[idx] = t
		m.lightDirty = true
	}
	return nil
}

// IsWalkable reports whether something could step into (x, y): the cell is on
// the map, its tile is walkable and no blocking entity stands there.
func (m *Map) IsWalkable(x, y int) bool {
	return m.walkableFor(x, y, nil)
}

func (m *Map) walkableFor(x, y int, mover *entity.Entity) bool {
	t, ok := m.TileAt(x, y)
	if !ok || !t.Walkable() {
		return false
	}
	for _, e := range m.entities {
		if e != mover && e.Blocking && e.Occupies(x, y) {
			return false
		}
	}
	return true
}

// EntitiesAt returns every entity whose truncated position is (x, y).
func (m *Map) EntitiesAt(x, y int) []*entity.Entity {
	var found []*entity.Entity
	for _, e := range m.entities {
		if e.Occupies(x, y) {
			found = append(found, e)
		}
	}
	return found
}

// Entities returns a snapshot of the entity list. Callers may mutate the map
// while ranging over it.
func (m *Map) Entities() []*entity.Entity {
	out := make([]*entity.Entity, len(m.entities))
	copy(out, m.entities)
	return out
}

// Entity looks an entity up by ID.
func (m *Map) Entity(id entity.ID) (*entity.Entity, bool) {
	for _, e := range m.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// AddEntity registers e and assigns it an ID if it has none.
func (m *Map) AddEntity(e *entity.Entity) entity.ID {
	if e.ID == 0 {
		e.ID = m.nextID
		m.nextID++
	} else if e.ID >= m.nextID {
		m.nextID = e.ID + 1
	}
	m.entities = append(m.entities, e)
	if e.EmitsLight() {
		m.lightDirty = true
	}
	return e.ID
}

// RemoveEntity unregisters e. It reports whether e was present.
func (m *Map) RemoveEntity(e *entity.Entity) bool {
	for i, cur := range m.entities {
		if cur != e {
			continue
		}
		m.entities = append(m.entities[:i:i], m.entities[i+1:]...)
		if e.EmitsLight() {
			m.lightDirty = true
		}
		return true
	}
	return false
}

// QueueRemoval marks e for removal at the next FlushRemovals. Use it while
// iterating over entities.
func (m *Map) QueueRemoval(e *entity.Entity) {
	for _, p := range m.pending {
		if p == e {
			return
		}
	}
	m.pending = append(m.pending, e)
}

// FlushRemovals removes every queued entity and returns how many were present.
func (m *Map) FlushRemovals() int {
	removed := 0
	for _, e := range m.pending {
		if m.RemoveEntity(e) {
			removed++
		}
	}
	m.pending = m.pending[:0]
	return removed
}

// MoveEntity moves e to (x, y) after checking that the target cell is walkable
// for it. The entity is unchanged on error.
func (m *Map) MoveEntity(e *entity.Entity, x, y float64) error {
	if !m.has(e) {
		return fmt.Errorf("move %s: %w", e.Kind, ErrUnknownEntity)
	}
	tx, ty := int(math.Floor(x)), int(math.Floor(y))
	if !m.InBounds(tx, ty) {
		return fmt.Errorf("move %s to (%d, %d): %w", e.Kind, tx, ty, ErrOutOfBounds)
	}
	if !m.walkableFor(tx, ty, e) {
		return fmt.Errorf("move %s to (%d, %d): %w", e.Kind, tx, ty, ErrBlocked)
	}
	ox, oy := e.Cell()
	e.X, e.Y = x, y
	if e.EmitsLight() && (ox != tx || oy != ty) {
		m.lightDirty = true
	}
	return nil
}

// SetLightEnabled switches an entity's light source on or off.
func (m *Map) SetLightEnabled(e *entity.Entity, on bool) {
	if e.Light == nil || e.Light.Enabled == on {
		return
	}
	e.Light.Enabled = on
	if m.has(e) {
		m.lightDirty = true
	}
}

func (m *Map) has(e *entity.Entity) bool {
	for _, cur := range m.entities {
		if cur == e {
			return true
		}
	}
	return false
}

// OpenDoor opens the closed door at (x, y). Opening an open door is a no-op.
func (m *Map) OpenDoor(x, y int) error {
	t, ok := m.TileAt(x, y)
	if !ok {
		return fmt.Errorf("open door (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	if !t.IsDoor() {
		return fmt.Errorf("open door (%d, %d): %w", x, y, ErrNotADoor)
	}
	if t == TileDoorOpen {
		return nil
	}
	m.setDoor(x, y, true)
	return nil
}

// CloseDoor closes the open door at (x, y). It fails with ErrOccupied while
// anything other than the door itself stands in the doorway.
func (m *Map) CloseDoor(x, y int) error {
	t, ok := m.TileAt(x, y)
	if !ok {
		return fmt.Errorf("close door (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	if !t.IsDoor() {
		return fmt.Errorf("close door (%d, %d): %w", x, y, ErrNotADoor)
	}
	if t == TileDoorClosed {
		return nil
	}
	for _, e := range m.EntitiesAt(x, y) {
		if e.Kind != entity.KindDoor {
			return fmt.Errorf("close door (%d, %d): %w by %s", x, y, ErrOccupied, e.Kind)
		}
	}
	m.setDoor(x, y, false)
	return nil
}

// ToggleDoor opens a closed door or closes an open one.
func (m *Map) ToggleDoor(x, y int) error {
	t, ok := m.TileAt(x, y)
	if !ok {
		return fmt.Errorf("toggle door (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	if t == TileDoorOpen {
		return m.CloseDoor(x, y)
	}
	return m.OpenDoor(x, y)
}

func (m *Map) setDoor(x, y int, open bool) {
	t := TileDoorClosed
	if open {
		t = TileDoorOpen
	}
	m.tiles[y*m.width+x] = t
	m.lightDirty = true
	for _, e := range m.entities {
		if e.Kind == entity.KindDoor && e.Occupies(x, y) {
			e.Blocking = !open
		}
	}
}

// Ambient returns the baseline illumination.
func (m *Map) Ambient() float64 { return m.ambient }

// SetAmbient changes the baseline illumination and invalidates the light map.
func (m *Map) SetAmbient(a float64) {
	a = clamp01(a)
	if a != m.ambient {
		m.ambient = a
		m.lightDirty = true
	}
}

// LightAt returns the illumination of cell (x, y), or ambient outside the map.
func (m *Map) LightAt(x, y int) float64 {
	if !m.InBounds(x, y) {
		return m.ambient
	}
	return m.light[y*m.width+x]
}

// LightMap exposes the row-major light values. The slice is owned by the map
// and must be treated as read-only.
func (m *Map) LightMap() []float64 { return m.light }

// SetLightMap installs freshly computed light values and clears the dirty flag.
func (m *Map) SetLightMap(values []float64) error {
	if len(values) != len(m.light) {
		return fmt.Errorf("expected %d light values, got %d: %w", len(m.light), len(values), ErrLightMapLength)
	}
	copy(m.light, values)
	m.lightDirty = false
	return nil
}

// LightDirty reports whether geometry or light sources changed since the last
// SetLightMap.
func (m *Map) LightDirty() bool { return m.lightDirty }

// InvalidateLight forces the next lighting refresh to recompute.
func (m *Map) InvalidateLight() { m.lightDirty = true }

func (m *Map) fillAmbient() {
	for i := range m.light {
		m.light[i] = m.ambient
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
