package render

import (
	"errors"
	"image"
)

// ErrQuit is returned from Game.Update to end the game loop cleanly.
var ErrQuit = errors.New("quit requested")

// Screen is the surface a backend hands to the game each frame. The ray-caster
// produces whole frames in memory, so a screen only needs to show one and
// overlay some text.
type Screen interface {
	// Size returns the logical screen size in pixels.
	Size() (width, height int)

	// Present copies frame onto the screen, scaling it if the sizes differ.
	Present(frame *image.RGBA)

	// DrawText draws a line of debug text at (x, y). Backends that cannot
	// draw text may ignore it.
	DrawText(text string, x, y int)
}

// InputManager handles input from the user (keyboard).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the game reads
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyQ // Turn left
	KeyE // Turn right
	KeyF // Interact key
	KeyL // Light toggle key
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
	keyCount
)

// Keys returns every key the backends map.
func Keys() []Key {
	keys := make([]Key, 0, keyCount)
	for k := Key(0); k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// Game represents the game interface that the engine will call.
// This is typically implemented by the main game struct.
type Game interface {
	// Update updates the game logic. It is called every tick (typically 60 times per second).
	// Returning ErrQuit stops the engine without an error.
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Screen)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// Input returns the input manager fed by this engine.
	Input() InputManager

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
