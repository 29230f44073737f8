// Package maploader reads level files and builds playable maps from them.
package maploader

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"

	"chosenoffset.com/crawler/internal/render/camera"
	"chosenoffset.com/crawler/internal/world/entity"
	"chosenoffset.com/crawler/internal/world/grid"
)

//go:embed demo.json
var demoLevel []byte

// SpawnPoint defines the player start cell and facing
type SpawnPoint struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Angle float64 `json:"angle"` // Degrees, 0 looks along +x
}

// LightData overrides an entity's light source
type LightData struct {
	Radius   float64 `json:"radius"`
	Strength float64 `json:"strength"`
	Off      bool    `json:"off,omitempty"`
}

// EntityData is one entity placed by the level
type EntityData struct {
	Type     string     `json:"type"`
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Name     string     `json:"name,omitempty"`
	Sprite   string     `json:"sprite,omitempty"`
	Anchor   string     `json:"anchor,omitempty"`
	Scale    float64    `json:"scale,omitempty"`
	Blocking *bool      `json:"blocking,omitempty"`
	Light    *LightData `json:"light,omitempty"`
}

// EnemyData describes one member of an enemy group
type EnemyData struct {
	Name   string `json:"name"`
	Sprite string `json:"sprite"`
}

// EnemyGroup is a group of enemies sharing a cell. Only the leader is drawn.
type EnemyGroup struct {
	X       int         `json:"x"`
	Y       int         `json:"y"`
	Enemies []EnemyData `json:"enemies"`
}

// LevelData represents a level file
type LevelData struct {
	Name        string       `json:"name"`
	Ambient     *float64     `json:"ambient,omitempty"`
	Tiles       [][]int      `json:"map"` // Tile codes [y][x]
	Player      SpawnPoint   `json:"player"`
	Entities    []EntityData `json:"entities"`
	EnemyGroups []EnemyGroup `json:"enemy_groups"`
}

// Level is a built level ready to play
type Level struct {
	Name   string
	Map    *grid.Map
	Player *entity.Entity
	Viewer camera.Viewer
}

// BuildOptions carries the settings a level does not define itself
type BuildOptions struct {
	Ambient       float64 // Used when the level has no ambient value
	TorchRadius   float64
	TorchStrength float64
	FOV           float64
}

// LoadLevel reads and validates a level file
func LoadLevel(path string) (*LevelData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", path, err)
	}
	level, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return level, nil
}

// ParseLevel decodes and validates level JSON
func ParseLevel(data []byte) (*LevelData, error) {
	var level LevelData
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}
	if err := validateLevelData(&level); err != nil {
		return nil, fmt.Errorf("invalid level data: %w", err)
	}
	return &level, nil
}

// DemoLevel returns the level built into the binary
func DemoLevel() *LevelData {
	level, err := ParseLevel(demoLevel)
	if err != nil {
		panic(fmt.Sprintf("embedded demo level: %v", err))
	}
	return level
}

// validateLevelData checks the parts Build cannot recover from
func validateLevelData(data *LevelData) error {
	if len(data.Tiles) == 0 || len(data.Tiles[0]) == 0 {
		return fmt.Errorf("map is empty")
	}
	width := len(data.Tiles[0])
	for y, row := range data.Tiles {
		if len(row) != width {
			return fmt.Errorf("map width mismatch at row %d: expected %d, got %d", y, width, len(row))
		}
		for x, code := range row {
			if code < 0 || !grid.Tile(code).Valid() {
				return fmt.Errorf("tile %d at (%d, %d): %w", code, x, y, grid.ErrInvalidTile)
			}
		}
	}

	p := data.Player
	if p.Y < 0 || p.Y >= len(data.Tiles) || p.X < 0 || p.X >= width {
		return fmt.Errorf("player start (%d, %d): %w", p.X, p.Y, grid.ErrOutOfBounds)
	}
	if !grid.Tile(data.Tiles[p.Y][p.X]).Walkable() {
		return fmt.Errorf("player start (%d, %d): %w", p.X, p.Y, grid.ErrBlocked)
	}
	if data.Ambient != nil && (*data.Ambient < 0 || *data.Ambient > 1) {
		return fmt.Errorf("ambient %.2f outside [0, 1]", *data.Ambient)
	}
	return nil
}

// Build creates the map, its door entities, the level's entities and the
// player. Entities that cannot be placed are skipped with a warning.
func (data *LevelData) Build(opts BuildOptions) (*Level, error) {
	ambient := opts.Ambient
	if data.Ambient != nil {
		ambient = *data.Ambient
	}
	m, err := grid.FromRows(data.Tiles, ambient)
	if err != nil {
		return nil, err
	}

	// Every door tile gets a door entity.
	for y, row := range data.Tiles {
		for x, code := range row {
			if t := grid.Tile(code); t.IsDoor() {
				m.AddEntity(entity.NewDoor(x, y, t == grid.TileDoorOpen))
			}
		}
	}

	for i, ed := range data.Entities {
		e, err := newEntity(ed)
		if err != nil {
			log.Printf("Warning: level %q entity %d: %v", data.Name, i, err)
			continue
		}
		if err := data.checkPlacement(m, e, ed.X, ed.Y); err != nil {
			log.Printf("Warning: level %q entity %d: %v", data.Name, i, err)
			continue
		}
		m.AddEntity(e)
	}

	for i, g := range data.EnemyGroups {
		if len(g.Enemies) == 0 {
			log.Printf("Warning: level %q enemy group %d is empty", data.Name, i)
			continue
		}
		leader := g.Enemies[0]
		e := entity.NewEnemy(g.X, g.Y, leader.Name, leader.Sprite)
		if err := data.checkPlacement(m, e, g.X, g.Y); err != nil {
			log.Printf("Warning: level %q enemy group %d: %v", data.Name, i, err)
			continue
		}
		m.AddEntity(e)
	}

	player := entity.NewPlayer(data.Player.X, data.Player.Y, opts.TorchRadius, opts.TorchStrength)
	id := m.AddEntity(player)

	viewer := camera.New(player.X, player.Y, data.Player.Angle*math.Pi/180, opts.FOV)
	viewer.Self = id

	return &Level{Name: data.Name, Map: m, Player: player, Viewer: viewer}, nil
}

// checkPlacement keeps entities off walls and closed doors. Blocking entities
// also need a cell free of other blocking entities and of the player start.
func (data *LevelData) checkPlacement(m *grid.Map, e *entity.Entity, x, y int) error {
	t, ok := m.TileAt(x, y)
	if !ok {
		return fmt.Errorf("(%d, %d) is off the map: %w", x, y, grid.ErrOutOfBounds)
	}
	if !t.Walkable() {
		return fmt.Errorf("(%d, %d) is a %s tile: %w", x, y, t, grid.ErrBlocked)
	}
	if !e.Blocking {
		return nil
	}
	if !m.IsWalkable(x, y) || (x == data.Player.X && y == data.Player.Y) {
		return fmt.Errorf("(%d, %d) is occupied: %w", x, y, grid.ErrOccupied)
	}
	return nil
}

func newEntity(ed EntityData) (*entity.Entity, error) {
	kind, ok := entity.ParseKind(ed.Type)
	if !ok {
		return nil, fmt.Errorf("unknown entity type %q", ed.Type)
	}

	var e *entity.Entity
	switch kind {
	case entity.KindChest:
		e = entity.NewChest(ed.X, ed.Y)
	case entity.KindItemPile:
		e = entity.NewItemPile(ed.X, ed.Y)
	case entity.KindEnemy:
		e = entity.NewEnemy(ed.X, ed.Y, ed.Name, ed.Sprite)
	case entity.KindTorch:
		e = entity.NewTorch(ed.X, ed.Y, 4, 0.8)
	case entity.KindProp:
		e = &entity.Entity{
			Kind: entity.KindProp,
			Name: ed.Name,
			X:    float64(ed.X) + 0.5,
			Y:    float64(ed.Y) + 0.5,
		}
	default:
		return nil, fmt.Errorf("entity type %q cannot be placed by a level", ed.Type)
	}

	if ed.Name != "" {
		e.Name = ed.Name
	}
	if ed.Sprite != "" || ed.Anchor != "" || ed.Scale > 0 {
		if e.Render == nil {
			e.Render = &entity.Renderable{}
		}
		if ed.Sprite != "" {
			e.Render.Sprite = ed.Sprite
		}
		if ed.Anchor != "" {
			e.Render.Anchor = entity.ParseAnchor(ed.Anchor)
		}
		if ed.Scale > 0 {
			e.Render.Scale = ed.Scale
		}
	}
	if ed.Blocking != nil {
		e.Blocking = *ed.Blocking
	}
	if ed.Light != nil {
		e.Light = &entity.LightSource{
			Radius:   ed.Light.Radius,
			Strength: ed.Light.Strength,
			Enabled:  !ed.Light.Off,
		}
	}
	return e, nil
}

// Save writes the level as indented JSON
func (data *LevelData) Save(path string) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode level: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write level file %s: %w", path, err)
	}
	return nil
}
