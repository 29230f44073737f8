package raycast

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"chosenoffset.com/crawler/internal/placeholders"
	"chosenoffset.com/crawler/internal/render/camera"
	"chosenoffset.com/crawler/internal/render/texture"
	"chosenoffset.com/crawler/internal/world/entity"
	"chosenoffset.com/crawler/internal/world/grid"
)

var magenta = color.RGBA{255, 0, 255, 255}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// boxMap returns a w x h map with walls on the border.
func boxMap(t *testing.T, w, h int, ambient float64) *grid.Map {
	t.Helper()
	m, err := grid.New(w, h, ambient)
	if err != nil {
		t.Fatalf("Failed to create map: %v", err)
	}
	for x := 0; x < w; x++ {
		m.SetTile(x, 0, grid.TileWall)
		m.SetTile(x, h-1, grid.TileWall)
	}
	for y := 0; y < h; y++ {
		m.SetTile(0, y, grid.TileWall)
		m.SetTile(w-1, y, grid.TileWall)
	}
	return m
}

func newRenderer(t *testing.T, w, h int, store *texture.Store) *Renderer {
	t.Helper()
	if store == nil {
		store, _ = texture.NewStore(16)
	}
	r, err := New(DefaultConfig(w, h), store)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}
	return r
}

func TestNewValidatesConfig(t *testing.T) {
	store, _ := texture.NewStore(16)
	if _, err := New(DefaultConfig(0, 10), store); err == nil {
		t.Error("Expected error for zero width")
	}
	if _, err := New(DefaultConfig(10, 10), nil); err == nil {
		t.Error("Expected error for missing texture provider")
	}
}

func TestCastStraightCorridor(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		angle float64
		side  int
	}{
		{"along x", 11, 3, 0, 0},
		{"along y", 3, 11, math.Pi / 2, 1},
	}
	for _, tt := range tests {
		m := boxMap(t, tt.w, tt.h, 0.1)
		v := camera.New(1.5, 1.5, tt.angle, camera.DefaultFOV)
		r := newRenderer(t, 64, 48, nil)

		hits := r.CastColumn(v, m, 32)
		if len(hits) != 1 {
			t.Fatalf("%s: expected 1 hit, got %d", tt.name, len(hits))
		}
		if math.Abs(hits[0].Distance-9.0) > 1e-6 {
			t.Errorf("%s: expected distance 9.0 from the camera, got %f", tt.name, hits[0].Distance)
		}
		if hits[0].Side != tt.side {
			t.Errorf("%s: expected side %d, got %d", tt.name, tt.side, hits[0].Side)
		}
		if hits[0].Tile != grid.TileWall {
			t.Errorf("%s: expected wall hit, got %s", tt.name, hits[0].Tile)
		}
	}
}

func TestOpenDoorProducesTwoHits(t *testing.T) {
	m := boxMap(t, 9, 3, 0.1)
	m.SetTile(4, 1, grid.TileDoorOpen)
	v := camera.New(1.5, 1.5, 0, camera.DefaultFOV)
	r := newRenderer(t, 64, 48, nil)

	hits := r.CastColumn(v, m, 32)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if !hits[0].Transparent || hits[0].Tile != grid.TileDoorOpen {
		t.Errorf("Expected a transparent door first, got %+v", hits[0])
	}
	if math.Abs(hits[0].Distance-3.0) > 1e-6 {
		t.Errorf("Expected door at 3.0, got %f", hits[0].Distance)
	}
	if hits[1].Transparent || math.Abs(hits[1].Distance-7.0) > 1e-6 {
		t.Errorf("Expected opaque wall at 7.0, got %+v", hits[1])
	}

	r.Render(v, m)
	if z := r.ZBuffer()[32]; math.Abs(z-7.0) > 1e-6 {
		t.Errorf("Expected z-buffer to hold the wall distance 7.0, got %f", z)
	}

	m.SetTile(4, 1, grid.TileDoorClosed)
	r.Render(v, m)
	if z := r.ZBuffer()[32]; math.Abs(z-3.0) > 1e-6 {
		t.Errorf("Expected closed door to stop the ray at 3.0, got %f", z)
	}
}

func TestEnclosedRoomTerminates(t *testing.T) {
	m := boxMap(t, 6, 6, 0.2)
	r := newRenderer(t, 40, 30, nil)
	for _, pos := range [][2]float64{{1.5, 1.5}, {2.5, 3.5}, {4.5, 4.5}} {
		for a := 0.0; a < 2*math.Pi; a += math.Pi / 7 {
			v := camera.New(pos[0], pos[1], a, camera.DefaultFOV)
			r.Render(v, m)
			for x, z := range r.ZBuffer() {
				if math.IsInf(z, 1) || z > DefaultMaxDistance {
					t.Fatalf("Expected every ray to hit a wall from %v at %f, column %d got %f", pos, a, x, z)
				}
			}
		}
	}
}

func TestFisheyeCorrectionFlattensWall(t *testing.T) {
	m := boxMap(t, 11, 15, 0.5)
	v := camera.New(1.5, 7.5, 0, camera.DefaultFOV)
	r := newRenderer(t, 64, 48, nil)
	r.Render(v, m)
	for x, z := range r.ZBuffer() {
		if math.Abs(z-9.0) > 1e-6 {
			t.Errorf("Expected corrected distance 9.0 at column %d, got %f", x, z)
		}
	}
}

func TestProjectedHeightIsMonotonic(t *testing.T) {
	r := newRenderer(t, 320, 200, nil)
	r.Render(camera.New(1.5, 1.5, 0, math.Pi/2), boxMap(t, 3, 3, 0))
	if got := r.ProjectionPlaneDist(); math.Abs(got-160) > 1e-9 {
		t.Errorf("Expected projection distance 160, got %f", got)
	}

	prev := math.Inf(1)
	for d := 0.0; d <= 20; d += 0.25 {
		h := r.ProjectedHeight(d)
		if math.IsInf(h, 0) || math.IsNaN(h) {
			t.Fatalf("Expected finite height at distance %f, got %f", d, h)
		}
		if h > prev {
			t.Errorf("Expected height to shrink with distance, got %f after %f at %f", h, prev, d)
		}
		prev = h
	}
	if h := r.ProjectedHeight(1); math.Abs(h-160) > 1e-9 {
		t.Errorf("Expected one cell at distance 1 to be 160px, got %f", h)
	}
}

func hasColor(img *image.RGBA, c color.RGBA) bool {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == c.R && img.Pix[i+1] == c.G && img.Pix[i+2] == c.B {
			return true
		}
	}
	return false
}

func TestSpriteHiddenBehindWall(t *testing.T) {
	m := boxMap(t, 12, 3, 1.0)
	m.SetTile(5, 1, grid.TileWall)
	m.AddEntity(entity.NewEnemy(8, 1, "Ghoul", "enemy"))

	store, _ := texture.NewStore(16)
	store.AddSprite("enemy", solid(8, 8, magenta))
	r := newRenderer(t, 64, 48, store)
	v := camera.New(1.5, 1.5, 0, camera.DefaultFOV)

	frame := r.Render(v, m)
	if hasColor(frame, magenta) {
		t.Error("Expected sprite behind the wall to be hidden")
	}

	m.SetTile(5, 1, grid.TileEmpty)
	frame = r.Render(v, m)
	if !hasColor(frame, magenta) {
		t.Error("Expected sprite to be visible once the wall is gone")
	}
	if c := frame.RGBAAt(32, 24); c != magenta {
		t.Errorf("Expected sprite at screen centre, got %v", c)
	}
}

func TestViewerEntityIsNotDrawn(t *testing.T) {
	m := boxMap(t, 12, 3, 1.0)
	player := entity.NewPlayer(1, 1, 8, 1)
	player.Render = &entity.Renderable{Sprite: "enemy"}
	id := m.AddEntity(player)

	store, _ := texture.NewStore(16)
	store.AddSprite("enemy", solid(8, 8, magenta))
	r := newRenderer(t, 64, 48, store)

	v := camera.New(player.X, player.Y, 0, camera.DefaultFOV)
	v.Self = id
	if hasColor(r.Render(v, m), magenta) {
		t.Error("Expected the viewer's own sprite to be skipped")
	}
}

func TestFloorAndCeilingTextures(t *testing.T) {
	red := color.RGBA{200, 0, 0, 255}
	blue := color.RGBA{0, 0, 200, 255}
	store, _ := texture.NewStore(16)
	store.AddTexture("floor", solid(16, 16, red))
	store.AddTexture("ceiling", solid(16, 16, blue))

	m := boxMap(t, 31, 31, 1.0)
	r := newRenderer(t, 64, 48, store)
	frame := r.Render(camera.New(15.5, 15.5, 0, camera.DefaultFOV), m)

	if c := frame.RGBAAt(32, 47); c != red {
		t.Errorf("Expected floor colour %v on the bottom row, got %v", red, c)
	}
	if c := frame.RGBAAt(32, 0); c != blue {
		t.Errorf("Expected ceiling colour %v on the top row, got %v", blue, c)
	}
}

func TestLightTintsFloor(t *testing.T) {
	white := color.RGBA{200, 200, 200, 255}
	store, _ := texture.NewStore(16)
	store.AddTexture("floor", solid(16, 16, white))

	m := boxMap(t, 31, 31, 0.5)
	light := make([]float64, 31*31)
	for i := range light {
		light[i] = 0.5
	}
	if err := m.SetLightMap(light); err != nil {
		t.Fatalf("Failed to set light map: %v", err)
	}

	r := newRenderer(t, 64, 48, store)
	frame := r.Render(camera.New(15.5, 15.5, 0, camera.DefaultFOV), m)
	if c := frame.RGBAAt(32, 47); c.R != 100 {
		t.Errorf("Expected half-lit floor red 100, got %d", c.R)
	}
}

func TestFloorWorkersProduceIdenticalFrames(t *testing.T) {
	m := boxMap(t, 16, 16, 0.3)
	m.SetTile(8, 5, grid.TileDoorOpen)
	m.AddEntity(entity.NewChest(6, 6))
	v := camera.New(3.5, 4.5, 0.4, camera.DefaultFOV)

	var frames [][]byte
	for _, workers := range []int{1, 3, 7} {
		cfg := DefaultConfig(96, 64)
		cfg.FloorWorkers = workers
		store, _ := texture.NewStore(16)
		r, err := New(cfg, store)
		if err != nil {
			t.Fatalf("Failed to create renderer: %v", err)
		}
		frames = append(frames, bytes.Clone(r.Render(v, m).Pix))
	}
	for i := 1; i < len(frames); i++ {
		if !bytes.Equal(frames[0], frames[i]) {
			t.Errorf("Expected frame %d to match the single-worker frame", i)
		}
	}
}

func TestRenderWithoutTexturesIsOpaque(t *testing.T) {
	m := boxMap(t, 8, 8, 0.2)
	m.SetTile(4, 4, grid.TileDoorClosed)
	m.AddEntity(entity.NewItemPile(3, 3))
	r := newRenderer(t, 32, 24, nil)
	frame := r.Render(camera.New(2.5, 2.5, math.Pi/4, camera.DefaultFOV), m)
	for i := 3; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] != 0xff {
			t.Fatalf("Expected opaque frame, got alpha %d at byte %d", frame.Pix[i], i)
		}
	}
}

func TestSetTileTextureRejectsUnknownTile(t *testing.T) {
	r := newRenderer(t, 8, 8, nil)
	if err := r.SetTileTexture(grid.TileCount, "x"); err == nil {
		t.Error("Expected error for unknown tile code")
	}
	if err := r.SetTileTexture(grid.TileWall, "brick"); err != nil {
		t.Errorf("Expected wall texture to be replaced, got %v", err)
	}
}

// magentaRows returns the first and last row of column x drawn in magenta, or
// -1, -1 if there are none.
func magentaRows(img *image.RGBA, x int) (int, int) {
	first, last := -1, -1
	for y := 0; y < img.Bounds().Dy(); y++ {
		if img.RGBAAt(x, y) == magenta {
			if first < 0 {
				first = y
			}
			last = y
		}
	}
	return first, last
}

func TestSpritesDrawnFarToNear(t *testing.T) {
	green := color.RGBA{0, 255, 0, 255}
	red := color.RGBA{255, 0, 0, 255}
	m := boxMap(t, 12, 3, 1.0)
	m.AddEntity(entity.NewEnemy(5, 1, "Near", "green"))
	far := entity.NewEnemy(8, 1, "Far", "red")
	far.Render.Scale = 3
	m.AddEntity(far)

	store, _ := texture.NewStore(16)
	store.AddSprite("green", solid(8, 8, green))
	store.AddSprite("red", solid(8, 8, red))
	r := newRenderer(t, 64, 48, store)

	frame := r.Render(camera.New(1.5, 1.5, 0, camera.DefaultFOV), m)
	if c := frame.RGBAAt(32, 24); c != green {
		t.Errorf("Expected the near sprite at screen centre, got %v", c)
	}
	if !hasColor(frame, red) {
		t.Error("Expected the taller far sprite to show above the near one")
	}
}

func TestSpriteAnchors(t *testing.T) {
	const horizon = 24
	tests := []struct {
		name   string
		anchor entity.Anchor
		check  func(first, last int) bool
	}{
		{"center", entity.AnchorCenter, func(first, last int) bool { return first < horizon && last > horizon }},
		{"floor", entity.AnchorFloor, func(first, last int) bool { return first > horizon && last >= 29 }},
		{"ceiling", entity.AnchorCeiling, func(first, last int) bool { return last < horizon && first <= 18 }},
	}

	store, _ := texture.NewStore(16)
	store.AddSprite("enemy", solid(8, 8, magenta))
	v := camera.New(1.5, 1.5, 0, camera.DefaultFOV)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := boxMap(t, 12, 3, 1.0)
			e := entity.NewEnemy(5, 1, "Ghoul", "enemy")
			e.Render = &entity.Renderable{Sprite: "enemy", Anchor: tt.anchor, Scale: 0.4}
			m.AddEntity(e)

			r := newRenderer(t, 64, 48, store)
			first, last := magentaRows(r.Render(v, m), 32)
			if first < 0 {
				t.Fatal("Expected the sprite to be drawn in the centre column")
			}
			if !tt.check(first, last) {
				t.Errorf("Expected %s anchor placement around horizon %d, got rows %d..%d", tt.name, horizon, first, last)
			}
		})
	}
}

func TestSpriteWidthFollowsRayAngles(t *testing.T) {
	m := boxMap(t, 12, 3, 1.0)
	m.AddEntity(entity.NewEnemy(5, 1, "Ghoul", "enemy"))
	store, _ := texture.NewStore(16)
	store.AddSprite("enemy", solid(8, 8, magenta))
	r := newRenderer(t, 64, 48, store)
	v := camera.New(1.5, 1.5, 0, camera.DefaultFOV)

	frame := r.Render(v, m)
	left, right := -1, -1
	for x := 0; x < 64; x++ {
		if frame.RGBAAt(x, 24) == magenta {
			if left < 0 {
				left = x
			}
			right = x
		}
	}
	if left < 0 {
		t.Fatal("Expected the sprite to be visible")
	}

	// A one-cell-wide sprite 4.5 cells in front of the camera spans
	// +-atan(0.5/4.5) around the facing direction.
	edge := math.Atan2(0.5, 4.5)
	column := v.FOV / 64
	offset := func(x int) float64 {
		return math.Remainder(v.RayAngle(x, 64)-v.Angle, 2*math.Pi)
	}
	if d := math.Abs(offset(left) + edge); d > column+1e-9 {
		t.Errorf("Expected left edge at %f rad, column %d is at %f", -edge, left, offset(left))
	}
	if d := math.Abs(offset(right) - edge); d > column+1e-9 {
		t.Errorf("Expected right edge at %f rad, column %d is at %f", edge, right, offset(right))
	}
}

func TestLightTintsWalls(t *testing.T) {
	grey := color.RGBA{200, 200, 200, 255}
	store, _ := texture.NewStore(16)
	store.AddTexture("wall", solid(16, 16, grey))

	m := boxMap(t, 12, 3, 0.5)
	r := newRenderer(t, 64, 48, store)
	frame := r.Render(camera.New(1.5, 1.5, 0, camera.DefaultFOV), m)
	if c := frame.RGBAAt(32, 24); c != (color.RGBA{100, 100, 100, 255}) {
		t.Errorf("Expected half-lit wall {100 100 100 255}, got %v", c)
	}
}

func TestOpenDoorShowsWallBehind(t *testing.T) {
	grey := color.RGBA{200, 200, 200, 255}
	store, _ := texture.NewStore(16)
	store.AddTexture("wall", solid(16, 16, grey))
	store.AddTexture("door_open", placeholders.Door(16, true))
	store.AddTexture("door_closed", placeholders.Door(16, false))

	m := boxMap(t, 12, 3, 1.0)
	r := newRenderer(t, 64, 48, store)
	v := camera.New(1.5, 1.5, 0, camera.DefaultFOV)

	m.SetTile(4, 1, grid.TileDoorOpen)
	if c := r.Render(v, m).RGBAAt(32, 24); c != grey {
		t.Errorf("Expected the wall through the open door, got %v", c)
	}
	if !hasColor(r.Frame(), placeholders.ColorPalette.DoorIron) {
		t.Error("Expected the open door frame to be drawn")
	}

	m.SetTile(4, 1, grid.TileDoorClosed)
	if c := r.Render(v, m).RGBAAt(32, 24); c == grey {
		t.Error("Expected the closed door to hide the wall")
	}
}
