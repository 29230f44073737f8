package game

import (
	"errors"
	"fmt"
	"log"

	"chosenoffset.com/crawler/internal/render"
	"chosenoffset.com/crawler/internal/render/lighting"
	"chosenoffset.com/crawler/internal/render/raycast"
	"chosenoffset.com/crawler/internal/simulation"
	"chosenoffset.com/crawler/internal/world/entity"
	"chosenoffset.com/crawler/internal/world/grid"
	"chosenoffset.com/crawler/internal/world/maploader"
)

// Game holds all game state and logic.
type Game struct {
	ScreenWidth     int
	ScreenHeight    int
	Level           *maploader.Level
	Renderer        *raycast.Renderer
	InputMgr        render.InputManager
	LightingManager *lighting.Manager

	// UI state
	Messages  []Message
	ShowDebug bool

	// Turns taken by the player (moves, waits and interactions)
	Turn int

	// Debug
	FrameCount int
}

// New creates a game for a built level. The light map is computed before the
// first frame.
func New(cfg *simulation.Config, level *maploader.Level, textures raycast.TextureProvider, input render.InputManager) (*Game, error) {
	r, err := raycast.New(cfg.RaycastConfig(), textures)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g := &Game{
		ScreenWidth:     cfg.Render.ScreenWidth,
		ScreenHeight:    cfg.Render.ScreenHeight,
		Level:           level,
		Renderer:        r,
		InputMgr:        input,
		LightingManager: lighting.NewManager(),
	}
	g.LightingManager.Recompute(level.Map)
	return g, nil
}

// Update handles game logic updates.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	g.updateMessages(dt)

	in := g.InputMgr
	if in.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrQuit
	}

	v := &g.Level.Viewer
	switch {
	case in.IsKeyJustPressed(render.KeyQ), in.IsKeyJustPressed(render.KeyLeft):
		v.TurnLeft()
	case in.IsKeyJustPressed(render.KeyE), in.IsKeyJustPressed(render.KeyRight):
		v.TurnRight()
	case in.IsKeyJustPressed(render.KeyW), in.IsKeyJustPressed(render.KeyUp):
		g.Step(0)
	case in.IsKeyJustPressed(render.KeyS), in.IsKeyJustPressed(render.KeyDown):
		g.Step(2)
	case in.IsKeyJustPressed(render.KeyA):
		g.Step(3)
	case in.IsKeyJustPressed(render.KeyD):
		g.Step(1)
	case in.IsKeyJustPressed(render.KeySpace):
		g.Turn++
	case in.IsKeyJustPressed(render.KeyF):
		g.Interact()
	}

	// Toggle player light with L key
	if in.IsKeyJustPressed(render.KeyL) {
		g.ToggleTorch()
	}

	g.Level.Map.FlushRemovals()
	g.LightingManager.Refresh(g.Level.Map)
	return nil
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// Step moves the player one cell in the facing direction rotated by quarter
// turns (0 forward, 1 right, 2 back, 3 left). Walking into a closed door
// opens it instead.
func (g *Game) Step(quarter int) {
	m := g.Level.Map
	p := g.Level.Player
	dx, dy := g.Level.Viewer.Step(quarter)
	px, py := p.Cell()
	tx, ty := px+dx, py+dy

	if t, ok := m.TileAt(tx, ty); ok && t == grid.TileDoorClosed {
		if err := m.OpenDoor(tx, ty); err == nil {
			g.Turn++
			g.ShowMessage("The door creaks open")
		}
		return
	}

	err := m.MoveEntity(p, float64(tx)+0.5, float64(ty)+0.5)
	switch {
	case err == nil:
		g.Turn++
		g.syncViewer()
	case errors.Is(err, grid.ErrBlocked):
		if blocker := blockingAt(m, tx, ty); blocker != nil {
			g.ShowMessage(fmt.Sprintf("%s blocks the way", blocker.Name))
		}
	default:
		log.Printf("Warning: move failed: %v", err)
	}
}

// Interact uses whatever is in the cell in front of the player.
func (g *Game) Interact() {
	m := g.Level.Map
	dx, dy := g.Level.Viewer.Step(0)
	px, py := g.Level.Player.Cell()
	tx, ty := px+dx, py+dy

	if t, ok := m.TileAt(tx, ty); ok && t.IsDoor() {
		if err := m.ToggleDoor(tx, ty); err != nil {
			if errors.Is(err, grid.ErrOccupied) {
				g.ShowMessage("Something is in the doorway")
			}
			return
		}
		g.Turn++
		if t == grid.TileDoorClosed {
			g.ShowMessage("The door creaks open")
		} else {
			g.ShowMessage("The door swings shut")
		}
		return
	}

	for _, e := range m.EntitiesAt(tx, ty) {
		if e.Interact == nil {
			continue
		}
		switch e.Interact.Action {
		case entity.ActionOpen:
			g.ShowMessage(fmt.Sprintf("You open the %s", e.Kind))
			e.Interact = nil
		case entity.ActionLoot:
			g.ShowMessage(fmt.Sprintf("You pick up the %s", e.Name))
			m.QueueRemoval(e)
		default:
			continue
		}
		g.Turn++
		return
	}
}

// ToggleTorch switches the player's carried light on or off.
func (g *Game) ToggleTorch() {
	p := g.Level.Player
	if p.Light == nil {
		return
	}
	on := !p.Light.Enabled
	g.Level.Map.SetLightEnabled(p, on)
	if on {
		g.ShowMessage("Light source activated")
	} else {
		g.ShowMessage("Light source deactivated")
	}
}

func (g *Game) syncViewer() {
	p := g.Level.Player
	v := &g.Level.Viewer
	v.SetPose(p.X, p.Y, v.Angle)
}

func blockingAt(m *grid.Map, x, y int) *entity.Entity {
	for _, e := range m.EntitiesAt(x, y) {
		if e.Blocking {
			return e
		}
	}
	return nil
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})
	log.Printf("Message: %s", text)
}
