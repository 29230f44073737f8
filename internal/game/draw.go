package game

import (
	"fmt"
	"math"

	"chosenoffset.com/crawler/internal/render"
)

// Draw renders the first-person view and the text overlay.
func (g *Game) Draw(screen render.Screen) {
	g.FrameCount++
	frame := g.Renderer.Render(g.Level.Viewer, g.Level.Map)
	screen.Present(frame)

	g.drawUI(screen)
	if g.ShowDebug {
		g.drawDebug(screen)
	}
}

func (g *Game) drawUI(screen render.Screen) {
	// Newest message at the bottom
	_, h := screen.Size()
	y := h - 16*len(g.Messages)
	for _, msg := range g.Messages {
		screen.DrawText(msg.Text, 4, y)
		y += 16
	}
}

func (g *Game) drawDebug(screen render.Screen) {
	v := g.Level.Viewer
	cx, cy := g.Level.Player.Cell()
	lines := []string{
		fmt.Sprintf("%s  turn %d  frame %d", g.Level.Name, g.Turn, g.FrameCount),
		fmt.Sprintf("cell (%d, %d) facing %.0f deg", cx, cy, v.Angle*180/math.Pi),
		fmt.Sprintf("light %.2f  ambient %.2f  recomputes %d",
			g.Level.Map.LightAt(cx, cy), g.Level.Map.Ambient(), g.LightingManager.Recomputes()),
	}
	for i, line := range lines {
		screen.DrawText(line, 4, 4+i*16)
	}
}
