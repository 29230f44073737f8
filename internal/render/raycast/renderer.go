// Package raycast renders a first-person view of a grid map.
//
// A frame is drawn in three passes into one RGBA buffer: floor and ceiling
// (inverse perspective mapping), walls (per-column DDA, back-to-front so open
// doors composite over what is behind them) and sprites (far-to-near, each
// column depth-tested against the walls' per-column z-buffer). The order is
// fixed: walls need the floor underneath them and sprites need the z-buffer
// the walls leave behind.
package raycast

import (
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"

	"chosenoffset.com/crawler/internal/render/camera"
	"chosenoffset.com/crawler/internal/render/texture"
	"chosenoffset.com/crawler/internal/world/grid"
)

const (
	// DefaultMaxDistance is how far rays travel before giving up, in cells.
	DefaultMaxDistance = 20.0

	// minDistance keeps projected heights finite for hits at the camera.
	minDistance = 1e-3
	// maxWallScale caps projected heights at this many screen heights.
	maxWallScale = 32
	// minSpriteDepth culls sprites at or behind the camera plane.
	minSpriteDepth = 0.1
	// eyeHeight is the camera height above the floor as a fraction of a wall.
	eyeHeight = 0.5
)

// TextureProvider supplies textures and sprites. Texture must always return a
// usable texture (a placeholder for unknown names); Sprite reports false for
// sprites that should not be drawn.
type TextureProvider interface {
	Texture(name string) *texture.Texture
	Sprite(name string) (*texture.Sprite, bool)
	TextureSize() int
}

// Config sizes the renderer and names the textures it draws.
type Config struct {
	Width, Height int
	MaxDistance   float64

	// FloorWorkers bounds the goroutines used by the floor/ceiling pass.
	// Zero means GOMAXPROCS.
	FloorWorkers int

	FloorTexture   string
	CeilingTexture string
	// TileTextures maps every tile code to a texture name.
	TileTextures [grid.TileCount]string
}

// DefaultConfig returns a configuration using the placeholder texture names.
func DefaultConfig(width, height int) Config {
	cfg := Config{
		Width:          width,
		Height:         height,
		MaxDistance:    DefaultMaxDistance,
		FloorTexture:   "floor",
		CeilingTexture: "ceiling",
	}
	for t := grid.Tile(0); t < grid.TileCount; t++ {
		cfg.TileTextures[t] = t.String()
	}
	return cfg
}

// Renderer turns a viewer pose and a map into pixels. Besides reusable
// buffers it keeps only the projection constant and the last pose.
type Renderer struct {
	cfg      Config
	textures TextureProvider

	frame   *image.RGBA
	zbuf    []float64
	horizon float64

	projDist float64
	pose     camera.Viewer

	hits    []Hit
	rayDX   []float64
	rayDY   []float64
	visible []spriteRef
}

// New creates a renderer. The texture provider is required.
func New(cfg Config, textures TextureProvider) (*Renderer, error) {
	if textures == nil {
		return nil, errors.New("raycast: texture provider is required")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("raycast: invalid screen size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MaxDistance <= 0 {
		cfg.MaxDistance = DefaultMaxDistance
	}
	if cfg.FloorWorkers <= 0 {
		cfg.FloorWorkers = runtime.GOMAXPROCS(0)
	}
	cfg.FloorWorkers = min(cfg.FloorWorkers, cfg.Height)

	r := &Renderer{
		cfg:      cfg,
		textures: textures,
		frame:    image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		zbuf:     make([]float64, cfg.Width),
		horizon:  float64(cfg.Height) / 2,
		hits:     make([]Hit, 0, 8),
		rayDX:    make([]float64, cfg.Width),
		rayDY:    make([]float64, cfg.Width),
	}
	return r, nil
}

// SetTileTexture changes the texture drawn for tile t.
func (r *Renderer) SetTileTexture(t grid.Tile, name string) error {
	if !t.Valid() {
		return fmt.Errorf("raycast: tile %d: %w", t, grid.ErrInvalidTile)
	}
	r.cfg.TileTextures[t] = name
	return nil
}

// Render draws one frame and returns the frame buffer. The buffer is reused
// by the next call.
func (r *Renderer) Render(v camera.Viewer, m *grid.Map) *image.RGBA {
	if v.FOV != r.pose.FOV || r.projDist == 0 {
		r.projDist = v.ProjectionPlaneDist(r.cfg.Width)
	}
	r.pose = v

	r.clear()
	r.drawFloorCeiling(v, m)
	r.drawWalls(v, m)
	r.drawSprites(v, m)
	return r.frame
}

// Frame returns the most recently rendered frame.
func (r *Renderer) Frame() *image.RGBA { return r.frame }

// ZBuffer returns the per-column distance to the nearest opaque wall of the
// last frame, after fisheye correction. Columns with no wall hold +Inf.
func (r *Renderer) ZBuffer() []float64 { return r.zbuf }

// Pose returns the viewer of the last frame.
func (r *Renderer) Pose() camera.Viewer { return r.pose }

// ProjectionPlaneDist returns the cached projection constant.
func (r *Renderer) ProjectionPlaneDist() float64 { return r.projDist }

// ProjectedHeight converts a corrected distance to an on-screen height in
// pixels. Distances near zero are clamped so the result stays finite.
func (r *Renderer) ProjectedHeight(distance float64) float64 {
	if r.projDist == 0 {
		r.projDist = r.pose.ProjectionPlaneDist(r.cfg.Width)
	}
	h := r.projDist / math.Max(distance, minDistance)
	return math.Min(h, float64(r.cfg.Height)*maxWallScale)
}

// CastColumn returns the hits of screen column x for viewer v, nearest first.
func (r *Renderer) CastColumn(v camera.Viewer, tiles TileSource, x int) []Hit {
	ox, oy := v.Origin()
	return Cast(tiles, ox, oy, v.RayAngle(x, r.cfg.Width), r.cfg.MaxDistance, nil)
}

func (r *Renderer) clear() {
	pix := r.frame.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = 0
		pix[i+1] = 0
		pix[i+2] = 0
		pix[i+3] = 0xff
	}
}

// lightScale converts a light value in [0, 1] to an 8.8 fixed-point factor.
func lightScale(light float64) uint32 {
	if light <= 0 {
		return 0
	}
	if light >= 1 {
		return 256
	}
	return uint32(light * 256)
}

func shade(c uint8, scale uint32) uint8 {
	return uint8(uint32(c) * scale >> 8)
}
