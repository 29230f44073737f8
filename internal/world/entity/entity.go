// Package entity defines the records placed on a level grid.
//
// An Entity is a plain record with a Kind discriminant and optional capability
// structs. Code that needs a behaviour checks for the capability instead of the
// kind: the renderer only looks at Render, the lighting simulator only at Light,
// door handling only at Interact.
package entity

import "math"

// ID identifies an entity within one map. Zero means "no entity".
type ID int

// Kind is the entity discriminant.
type Kind int

const (
	KindProp Kind = iota
	KindPlayer
	KindEnemy
	KindDoor
	KindChest
	KindItemPile
	KindTorch
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindDoor:
		return "door"
	case KindChest:
		return "chest"
	case KindItemPile:
		return "item_pile"
	case KindTorch:
		return "torch"
	default:
		return "prop"
	}
}

// ParseKind maps a level-file kind name to a Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "prop":
		return KindProp, true
	case "player":
		return KindPlayer, true
	case "enemy":
		return KindEnemy, true
	case "door":
		return KindDoor, true
	case "chest":
		return KindChest, true
	case "item_pile":
		return KindItemPile, true
	case "torch":
		return KindTorch, true
	}
	return KindProp, false
}

// Anchor selects how a sprite is placed vertically on screen.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorFloor
	AnchorCeiling
)

// ParseAnchor maps "center", "floor" and "ceiling" to an Anchor. Anything else
// is centered.
func ParseAnchor(name string) Anchor {
	switch name {
	case "floor":
		return AnchorFloor
	case "ceiling":
		return AnchorCeiling
	default:
		return AnchorCenter
	}
}

// LightSource makes an entity emit light.
type LightSource struct {
	Radius   float64 // in cells
	Strength float64 // 0..1
	Enabled  bool
}

// Renderable gives an entity a billboard sprite.
type Renderable struct {
	Sprite string
	Anchor Anchor
	Scale  float64 // world height in cells; 0 means 1
}

// Height returns the sprite's world height in cells.
func (r *Renderable) Height() float64 {
	if r.Scale <= 0 {
		return 1
	}
	return r.Scale
}

// Action is what happens when the player interacts with an entity.
type Action int

const (
	ActionNone Action = iota
	ActionToggleDoor
	ActionOpen
	ActionLoot
)

// Interactable marks an entity the player can use.
type Interactable struct {
	Action Action
}

// Entity is anything placed on the grid besides tiles.
type Entity struct {
	ID       ID
	Kind     Kind
	Name     string
	X, Y     float64
	Blocking bool

	Render   *Renderable
	Light    *LightSource
	Interact *Interactable
}

// Cell returns the integer cell the entity occupies.
func (e *Entity) Cell() (int, int) {
	return int(math.Floor(e.X)), int(math.Floor(e.Y))
}

// Occupies reports whether the entity's truncated position is (x, y).
func (e *Entity) Occupies(x, y int) bool {
	cx, cy := e.Cell()
	return cx == x && cy == y
}

// HasSprite reports whether the entity should be billboarded.
func (e *Entity) HasSprite() bool {
	return e.Render != nil && e.Render.Sprite != ""
}

// EmitsLight reports whether the entity currently contributes to the light map.
func (e *Entity) EmitsLight() bool {
	return e.Light != nil && e.Light.Enabled && e.Light.Radius > 0 && e.Light.Strength > 0
}

// NewPlayer creates the player entity at the centre of cell (x, y) carrying a torch.
func NewPlayer(x, y int, torchRadius, torchStrength float64) *Entity {
	return &Entity{
		Kind:     KindPlayer,
		Name:     "Player",
		X:        float64(x) + 0.5,
		Y:        float64(y) + 0.5,
		Blocking: true,
		Light:    &LightSource{Radius: torchRadius, Strength: torchStrength, Enabled: true},
	}
}

// NewDoor creates the door entity that sits on a door tile.
func NewDoor(x, y int, open bool) *Entity {
	return &Entity{
		Kind:     KindDoor,
		Name:     "Door",
		X:        float64(x) + 0.5,
		Y:        float64(y) + 0.5,
		Blocking: !open,
		Interact: &Interactable{Action: ActionToggleDoor},
	}
}

// NewChest creates a floor-anchored, non-blocking chest.
func NewChest(x, y int) *Entity {
	return &Entity{
		Kind:     KindChest,
		Name:     "Chest",
		X:        float64(x) + 0.5,
		Y:        float64(y) + 0.5,
		Render:   &Renderable{Sprite: "chest", Anchor: AnchorFloor, Scale: 0.5},
		Interact: &Interactable{Action: ActionOpen},
	}
}

// NewItemPile creates a small pile of loot lying on the floor.
func NewItemPile(x, y int) *Entity {
	return &Entity{
		Kind:     KindItemPile,
		Name:     "Items",
		X:        float64(x) + 0.5,
		Y:        float64(y) + 0.5,
		Render:   &Renderable{Sprite: "item_pile", Anchor: AnchorFloor, Scale: 0.35},
		Interact: &Interactable{Action: ActionLoot},
	}
}

// NewEnemy creates a blocking enemy drawn with the given sprite.
func NewEnemy(x, y int, name, sprite string) *Entity {
	if sprite == "" {
		sprite = "enemy"
	}
	return &Entity{
		Kind:     KindEnemy,
		Name:     name,
		X:        float64(x) + 0.5,
		Y:        float64(y) + 0.5,
		Blocking: true,
		Render:   &Renderable{Sprite: sprite},
	}
}

// NewTorch creates a standing torch that lights its surroundings.
func NewTorch(x, y int, radius, strength float64) *Entity {
	return &Entity{
		Kind:     KindTorch,
		Name:     "Torch",
		X:        float64(x) + 0.5,
		Y:        float64(y) + 0.5,
		Blocking: true,
		Render:   &Renderable{Sprite: "torch", Anchor: AnchorFloor, Scale: 0.8},
		Light:    &LightSource{Radius: radius, Strength: strength, Enabled: true},
	}
}
