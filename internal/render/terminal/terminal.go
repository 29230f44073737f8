// Package terminal runs the game in a text terminal with tcell. Every cell
// shows two vertically stacked pixels using the upper half block: the glyph
// carries the top pixel as foreground and the cell background the bottom one.
package terminal

import (
	"errors"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/crawler/internal/render"
)

// DefaultTick is the update interval, roughly 60 frames per second.
const DefaultTick = 16 * time.Millisecond

const halfBlock = '▀'

var _ render.Engine = (*Engine)(nil)

// Engine implements render.Engine on top of a tcell screen.
type Engine struct {
	tick      time.Duration
	input     *Input
	newScreen func() (tcell.Screen, error)
}

// NewEngine creates a terminal engine that opens the real terminal.
func NewEngine() *Engine {
	return &Engine{
		tick:      DefaultTick,
		input:     NewInput(),
		newScreen: tcell.NewScreen,
	}
}

// NewEngineWithScreen creates an engine drawing to an existing screen, such as
// a tcell simulation screen.
func NewEngineWithScreen(screen tcell.Screen, tick time.Duration) *Engine {
	e := NewEngine()
	e.newScreen = func() (tcell.Screen, error) { return screen, nil }
	if tick > 0 {
		e.tick = tick
	}
	return e
}

// SetWindowSize is a no-op: the terminal decides its own size.
func (e *Engine) SetWindowSize(width, height int) {}

// SetWindowTitle is a no-op.
func (e *Engine) SetWindowTitle(title string) {}

// SetWindowResizable is a no-op: terminals are always resizable.
func (e *Engine) SetWindowResizable(resizable bool) {}

// Input returns the keyboard state fed by terminal events.
func (e *Engine) Input() render.InputManager {
	return e.input
}

// RunGame initialises the terminal and runs the update/draw loop until the
// game returns an error, the game asks to quit or Ctrl-C is pressed.
func (e *Engine) RunGame(game render.Game) error {
	screen, err := e.newScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()
	screen.Clear()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	surface := &Surface{}
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if k, ok := keyFromEvent(ev); ok {
					e.input.press(k)
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			err := game.Update()
			e.input.advance()
			if errors.Is(err, render.ErrQuit) {
				return nil
			}
			if err != nil {
				return err
			}

			cols, rows := screen.Size()
			w, h := game.Layout(cols, rows*2)
			surface.Resize(cols, rows, w, h)
			game.Draw(surface)
			surface.Flush(screen)
			screen.Show()
		}
	}
}

// Input tracks keys seen since the previous update. Terminals report key
// presses but no releases, so a key counts as pressed for exactly one update.
type Input struct {
	pressed map[render.Key]bool
}

// NewInput creates an empty input state.
func NewInput() *Input {
	return &Input{pressed: make(map[render.Key]bool)}
}

// IsKeyPressed reports whether key was pressed since the last update.
func (in *Input) IsKeyPressed(key render.Key) bool {
	return in.pressed[key]
}

// IsKeyJustPressed reports whether key was pressed since the last update.
func (in *Input) IsKeyJustPressed(key render.Key) bool {
	return in.pressed[key]
}

func (in *Input) press(k render.Key) {
	in.pressed[k] = true
}

// advance forgets the keys the last update has seen.
func (in *Input) advance() {
	clear(in.pressed)
}

func keyFromEvent(ev *tcell.EventKey) (render.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return render.KeyUp, true
	case tcell.KeyDown:
		return render.KeyDown, true
	case tcell.KeyLeft:
		return render.KeyLeft, true
	case tcell.KeyRight:
		return render.KeyRight, true
	case tcell.KeyEscape:
		return render.KeyEscape, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return render.KeyW, true
		case 'a', 'A':
			return render.KeyA, true
		case 's', 'S':
			return render.KeyS, true
		case 'd', 'D':
			return render.KeyD, true
		case 'q', 'Q':
			return render.KeyQ, true
		case 'e', 'E':
			return render.KeyE, true
		case 'f', 'F':
			return render.KeyF, true
		case 'l', 'L':
			return render.KeyL, true
		case ' ':
			return render.KeySpace, true
		}
	}
	return 0, false
}

type textLine struct {
	text string
	x, y int
}

// Surface is the render.Screen handed to the game. It keeps one colour per
// half-cell and the text drawn this frame until Flush writes them out.
type Surface struct {
	cols, rows    int
	width, height int
	pixels        []tcell.Color
	text          []textLine
}

// Resize sets the cell grid and the logical pixel size the game draws at.
func (s *Surface) Resize(cols, rows, width, height int) {
	s.cols, s.rows = cols, rows
	s.width, s.height = width, height
	if n := cols * rows * 2; cap(s.pixels) < n {
		s.pixels = make([]tcell.Color, n)
	} else {
		s.pixels = s.pixels[:n]
	}
	s.text = s.text[:0]
}

// Size returns the logical pixel size.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Present samples the frame down to two pixels per cell.
func (s *Surface) Present(frame *image.RGBA) {
	b := frame.Bounds()
	fw, fh := b.Dx(), b.Dy()
	if fw == 0 || fh == 0 || s.cols == 0 || s.rows == 0 {
		return
	}
	py := s.rows * 2
	for y := 0; y < py; y++ {
		sy := b.Min.Y + y*fh/py
		for x := 0; x < s.cols; x++ {
			sx := b.Min.X + x*fw/s.cols
			c := frame.RGBAAt(sx, sy)
			s.pixels[y*s.cols+x] = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
		}
	}
}

// DrawText places text at the cell under logical pixel (x, y).
func (s *Surface) DrawText(text string, x, y int) {
	if s.width == 0 || s.height == 0 {
		return
	}
	s.text = append(s.text, textLine{
		text: text,
		x:    x * s.cols / s.width,
		y:    y * s.rows / s.height,
	})
}

// Flush writes the pixels and text to the screen.
func (s *Surface) Flush(screen tcell.Screen) {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			top := s.pixels[(row*2)*s.cols+col]
			bottom := s.pixels[(row*2+1)*s.cols+col]
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			screen.SetContent(col, row, halfBlock, nil, style)
		}
	}

	textStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for _, line := range s.text {
		col := line.x
		for _, r := range line.text {
			if col >= s.cols || line.y >= s.rows {
				break
			}
			screen.SetContent(col, line.y, r, nil, textStyle)
			col++
		}
	}
	s.text = s.text[:0]
}
