package terminal

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/crawler/internal/render"
)

func TestKeyFromEvent(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want render.Key
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), render.KeyW, true},
		{tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone), render.KeyQ, true},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), render.KeySpace, true},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), render.KeyLeft, true},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), render.KeyEscape, true},
		{tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		got, ok := keyFromEvent(tt.ev)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Expected (%d, %v) for %s, got (%d, %v)", tt.want, tt.ok, tt.ev.Name(), got, ok)
		}
	}
}

func TestInputLastsOneUpdate(t *testing.T) {
	in := NewInput()
	in.press(render.KeyW)
	if !in.IsKeyPressed(render.KeyW) || !in.IsKeyJustPressed(render.KeyW) {
		t.Error("Expected W to be pressed")
	}
	in.advance()
	if in.IsKeyPressed(render.KeyW) {
		t.Error("Expected W to be released after an update")
	}
}

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	sim.SetSize(cols, rows)
	return sim
}

func TestSurfaceUsesHalfBlocks(t *testing.T) {
	sim := newSimScreen(t, 4, 2)
	defer sim.Fini()

	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{255, 0, 0, 255}
			if y%4 >= 2 {
				c = color.RGBA{0, 0, 255, 255}
			}
			frame.SetRGBA(x, y, c)
		}
	}

	s := &Surface{}
	s.Resize(4, 2, 8, 8)
	s.Present(frame)
	s.DrawText("hi", 0, 4)
	s.Flush(sim)
	sim.Show()

	cells, w, _ := sim.GetContents()
	cell := cells[0]
	if len(cell.Runes) == 0 || cell.Runes[0] != halfBlock {
		t.Fatalf("Expected half block in the first cell, got %q", cell.Runes)
	}
	fg, bg, _ := cell.Style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("Expected red foreground, got %v", fg)
	}
	if bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("Expected blue background, got %v", bg)
	}

	text := cells[1*w]
	if len(text.Runes) == 0 || text.Runes[0] != 'h' {
		t.Errorf("Expected text on the second row, got %q", text.Runes)
	}
}

type quitGame struct {
	input   render.InputManager
	updates int
	sawW    bool
	inject  func()
	draws   int
}

func (g *quitGame) Update() error {
	g.updates++
	if g.updates == 2 {
		g.inject()
	}
	if g.input.IsKeyJustPressed(render.KeyW) {
		g.sawW = true
		return render.ErrQuit
	}
	if g.updates > 500 {
		return errors.New("never saw the key")
	}
	return nil
}

func (g *quitGame) Draw(screen render.Screen) {
	g.draws++
	w, h := screen.Size()
	screen.Present(image.NewRGBA(image.Rect(0, 0, w, h)))
}

func (g *quitGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func TestRunGameStopsOnQuit(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	e := NewEngineWithScreen(sim, time.Millisecond)
	g := &quitGame{input: e.Input()}
	g.inject = func() { sim.InjectKey(tcell.KeyRune, 'w', tcell.ModNone) }

	if err := e.RunGame(g); err != nil {
		t.Fatalf("Expected clean exit, got %v", err)
	}
	if !g.sawW {
		t.Error("Expected the injected key to reach the game")
	}
	if g.draws == 0 {
		t.Error("Expected at least one frame to be drawn")
	}
}
