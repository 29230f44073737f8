// Package simulation provides configuration for the renderer and the world
// simulation. Settings are loaded from a JSON file over built-in defaults so a
// partial file only overrides what it names.
package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"chosenoffset.com/crawler/internal/render/raycast"
	"chosenoffset.com/crawler/internal/world/grid"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all settings for a run
type Config struct {
	// Screen, projection and texture settings
	Render RenderConfig `json:"render"`

	// Light propagation
	Lighting LightingConfig `json:"lighting"`

	// Where textures and sprites are loaded from
	Assets AssetsConfig `json:"assets"`
}

// RenderConfig defines the view the ray-caster draws
type RenderConfig struct {
	ScreenWidth     int               `json:"screen_width"`
	ScreenHeight    int               `json:"screen_height"`
	FOVDegrees      float64           `json:"fov_degrees"`       // Horizontal field of view
	MaxCastDistance float64           `json:"max_cast_distance"` // Cells a ray travels before giving up
	TextureSize     int               `json:"texture_size"`      // Power of two
	FloorWorkers    int               `json:"floor_workers"`     // 0 means GOMAXPROCS
	FloorTexture    string            `json:"floor_texture"`
	CeilingTexture  string            `json:"ceiling_texture"`
	TileTextures    map[string]string `json:"tile_textures"` // Tile name -> texture name
	WindowScale     int               `json:"window_scale"`  // Window pixels per rendered pixel
}

// LightingConfig defines the light simulation
type LightingConfig struct {
	Ambient       float64 `json:"ambient"`        // Floor illumination everywhere
	TorchRadius   float64 `json:"torch_radius"`   // Player torch reach in cells
	TorchStrength float64 `json:"torch_strength"` // Player torch intensity at its own cell
}

// AssetsConfig locates image files
type AssetsConfig struct {
	Dir      string `json:"dir"`
	Manifest string `json:"manifest"` // Relative to Dir unless absolute
}

// DefaultConfig returns the settings used when no config file is given
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			ScreenWidth:     320,
			ScreenHeight:    200,
			FOVDegrees:      60,
			MaxCastDistance: raycast.DefaultMaxDistance,
			TextureSize:     64,
			FloorTexture:    "floor",
			CeilingTexture:  "ceiling",
			TileTextures: map[string]string{
				"wall":        "wall",
				"door_closed": "door_closed",
				"door_open":   "door_open",
			},
			WindowScale: 3,
		},
		Lighting: LightingConfig{
			Ambient:       0.1,
			TorchRadius:   8,
			TorchStrength: 1.0,
		},
		Assets: AssetsConfig{
			Dir:      "assets",
			Manifest: "manifest.json",
		},
	}
}

// LoadConfig loads config from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks the settings the renderer and lighting depend on
func (c *Config) Validate() error {
	r := c.Render
	if r.ScreenWidth <= 0 || r.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalidConfig, r.ScreenWidth, r.ScreenHeight)
	}
	if r.FOVDegrees <= 0 || r.FOVDegrees >= 180 {
		return fmt.Errorf("%w: fov %.1f must be between 0 and 180 degrees", ErrInvalidConfig, r.FOVDegrees)
	}
	if r.MaxCastDistance <= 0 {
		return fmt.Errorf("%w: max cast distance %.1f", ErrInvalidConfig, r.MaxCastDistance)
	}
	if r.TextureSize <= 0 || r.TextureSize&(r.TextureSize-1) != 0 {
		return fmt.Errorf("%w: texture size %d is not a power of two", ErrInvalidConfig, r.TextureSize)
	}
	if r.FloorWorkers < 0 {
		return fmt.Errorf("%w: floor workers %d", ErrInvalidConfig, r.FloorWorkers)
	}
	for name := range r.TileTextures {
		if _, ok := grid.ParseTile(name); !ok {
			return fmt.Errorf("%w: unknown tile %q in tile_textures", ErrInvalidConfig, name)
		}
	}

	l := c.Lighting
	if l.Ambient < 0 || l.Ambient > 1 {
		return fmt.Errorf("%w: ambient %.2f outside [0, 1]", ErrInvalidConfig, l.Ambient)
	}
	if l.TorchRadius < 0 || l.TorchStrength < 0 || l.TorchStrength > 1 {
		return fmt.Errorf("%w: torch radius %.1f strength %.2f", ErrInvalidConfig, l.TorchRadius, l.TorchStrength)
	}
	return nil
}

// FOV returns the field of view in radians
func (c *Config) FOV() float64 {
	return c.Render.FOVDegrees * math.Pi / 180
}

// RaycastConfig converts the render settings for the ray-caster
func (c *Config) RaycastConfig() raycast.Config {
	r := c.Render
	rc := raycast.DefaultConfig(r.ScreenWidth, r.ScreenHeight)
	rc.MaxDistance = r.MaxCastDistance
	rc.FloorWorkers = r.FloorWorkers
	if r.FloorTexture != "" {
		rc.FloorTexture = r.FloorTexture
	}
	if r.CeilingTexture != "" {
		rc.CeilingTexture = r.CeilingTexture
	}
	for name, tex := range r.TileTextures {
		if t, ok := grid.ParseTile(name); ok {
			rc.TileTextures[t] = tex
		}
	}
	return rc
}

// Save writes the config as indented JSON
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
