package ebiten

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"chosenoffset.com/crawler/internal/render"
)

// EbitenScreen wraps the ebiten screen image to implement render.Screen.
type EbitenScreen struct {
	img       *ebiten.Image
	offscreen *ebiten.Image
}

// Size returns the width and height of the screen.
func (s *EbitenScreen) Size() (width, height int) {
	return s.img.Bounds().Dx(), s.img.Bounds().Dy()
}

// Present uploads the frame. Frames that do not match the screen size are
// uploaded to an offscreen image first and scaled with nearest filtering.
func (s *EbitenScreen) Present(frame *image.RGBA) {
	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	sw, sh := s.Size()
	if fw == sw && fh == sh {
		s.img.WritePixels(frame.Pix)
		return
	}

	if s.offscreen == nil || s.offscreen.Bounds().Dx() != fw || s.offscreen.Bounds().Dy() != fh {
		if s.offscreen != nil {
			s.offscreen.Deallocate()
		}
		s.offscreen = ebiten.NewImage(fw, fh)
	}
	s.offscreen.WritePixels(frame.Pix)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(sw)/float64(fw), float64(sh)/float64(fh))
	opts.Filter = ebiten.FilterNearest
	s.img.DrawImage(s.offscreen, opts)
}

// DrawText draws text using the debug font.
func (s *EbitenScreen) DrawText(text string, x, y int) {
	ebitenutil.DebugPrintAt(s.img, text, x, y)
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct{}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

// IsKeyPressed returns whether the specified key is currently pressed.
func (m *EbitenInputManager) IsKeyPressed(key render.Key) bool {
	k, ok := keyToEbitenKey(key)
	return ok && ebiten.IsKeyPressed(k)
}

// IsKeyJustPressed returns whether the specified key was just pressed this frame.
func (m *EbitenInputManager) IsKeyJustPressed(key render.Key) bool {
	k, ok := keyToEbitenKey(key)
	return ok && inpututil.IsKeyJustPressed(k)
}

// keyToEbitenKey converts a render.Key to an ebiten.Key.
func keyToEbitenKey(key render.Key) (ebiten.Key, bool) {
	switch key {
	case render.KeyW:
		return ebiten.KeyW, true
	case render.KeyA:
		return ebiten.KeyA, true
	case render.KeyS:
		return ebiten.KeyS, true
	case render.KeyD:
		return ebiten.KeyD, true
	case render.KeyQ:
		return ebiten.KeyQ, true
	case render.KeyE:
		return ebiten.KeyE, true
	case render.KeyF:
		return ebiten.KeyF, true
	case render.KeyL:
		return ebiten.KeyL, true
	case render.KeyUp:
		return ebiten.KeyArrowUp, true
	case render.KeyDown:
		return ebiten.KeyArrowDown, true
	case render.KeyLeft:
		return ebiten.KeyArrowLeft, true
	case render.KeyRight:
		return ebiten.KeyArrowRight, true
	case render.KeySpace:
		return ebiten.KeySpace, true
	case render.KeyEscape:
		return ebiten.KeyEscape, true
	default:
		return 0, false
	}
}

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct {
	input render.InputManager
}

// NewEngine creates a new Ebiten-based game engine.
func NewEngine() render.Engine {
	return &EbitenEngine{input: NewInputManager()}
}

// SetWindowSize sets the window size in pixels.
func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetWindowResizable enables or disables window resizing.
func (e *EbitenEngine) SetWindowResizable(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// Input returns the keyboard input manager.
func (e *EbitenEngine) Input() render.InputManager {
	return e.input
}

// RunGame runs the game loop with the provided game.
func (e *EbitenEngine) RunGame(game render.Game) error {
	return ebiten.RunGame(&gameAdapter{game: game})
}

// gameAdapter adapts a render.Game to ebiten.Game interface.
type gameAdapter struct {
	game   render.Game
	screen EbitenScreen
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	err := a.game.Update()
	if errors.Is(err, render.ErrQuit) {
		return ebiten.Termination
	}
	return err
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.screen.img = screen
	a.game.Draw(&a.screen)
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}
