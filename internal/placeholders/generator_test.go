package placeholders

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestColorForNameIsDeterministic(t *testing.T) {
	a := ColorForName("mossy_wall")
	b := ColorForName("mossy_wall")
	if a != b {
		t.Errorf("Expected identical colours, got %v and %v", a, b)
	}
	if a.A != 255 {
		t.Errorf("Expected opaque colour, got alpha %d", a.A)
	}
	if ColorForName("mossy_wall") == ColorForName("brick_wall") {
		t.Error("Expected different names to produce different colours")
	}
}

func TestStoneWallIsSeeded(t *testing.T) {
	a := StoneWall(32, 9)
	b := StoneWall(32, 9)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("Expected identical textures for the same seed, differ at byte %d", i)
		}
	}
}

func TestOpenDoorHasTransparentCentre(t *testing.T) {
	img := Door(32, true)
	if a := img.RGBAAt(16, 16).A; a != 0 {
		t.Errorf("Expected transparent centre, got alpha %d", a)
	}
	if a := img.RGBAAt(0, 16).A; a != 255 {
		t.Errorf("Expected opaque frame, got alpha %d", a)
	}

	closed := Door(32, false)
	if a := closed.RGBAAt(16, 16).A; a != 255 {
		t.Errorf("Expected closed door to be opaque, got alpha %d", a)
	}
}

func TestGenerateAssets(t *testing.T) {
	dir := t.TempDir()
	assets, err := GenerateAssets(dir, 16)
	if err != nil {
		t.Fatalf("Failed to generate assets: %v", err)
	}
	if len(assets.Textures) != 5 {
		t.Errorf("Expected 5 textures, got %d", len(assets.Textures))
	}
	if len(assets.Sprites) != 4 {
		t.Errorf("Expected 4 sprites, got %d", len(assets.Sprites))
	}
	for name, rel := range assets.Textures {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("Expected texture %s on disk: %v", name, err)
		}
	}
}

func TestPatternedTiles(t *testing.T) {
	base := color.RGBA{10, 10, 10, 255}
	mark := color.RGBA{200, 0, 0, 255}

	tests := []struct {
		pattern string
		marked  image.Point
		plain   image.Point
	}{
		{"grid", image.Pt(0, 5), image.Pt(1, 1)},
		{"dots", image.Pt(4, 4), image.Pt(1, 1)},
		{"diagonal", image.Pt(15, 0), image.Pt(3, 1)},
		{"unknown", image.Pt(-1, -1), image.Pt(5, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			img := CreatePatternedTile(16, base, mark, tt.pattern)
			if tt.marked.X >= 0 {
				if got := img.RGBAAt(tt.marked.X, tt.marked.Y); got != mark {
					t.Errorf("Expected pattern colour at %v, got %v", tt.marked, got)
				}
			}
			if got := img.RGBAAt(tt.plain.X, tt.plain.Y); got != base {
				t.Errorf("Expected base colour at %v, got %v", tt.plain, got)
			}
		})
	}
}

func TestBuiltinArtNames(t *testing.T) {
	textures := Textures(16)
	for _, name := range []string{"wall", "door_closed", "door_open", "floor", "ceiling"} {
		img, ok := textures[name]
		if !ok {
			t.Errorf("Expected built-in texture %q", name)
			continue
		}
		if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
			t.Errorf("Expected %s to be 16x16, got %v", name, b)
		}
	}
	if n := len(Sprites(16)); n != 4 {
		t.Errorf("Expected 4 built-in sprites, got %d", n)
	}
}
