package placeholders

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"os"
	"path/filepath"
)

// StoneWall draws a speckled stone texture with vertical mortar lines. The
// same seed always yields the same image.
func StoneWall(size int, seed uint64) *image.RGBA {
	base := ColorPalette.WallStone
	img := CreateSolidTile(size, base)
	rng := rand.New(rand.NewPCG(seed, 0x5eed))

	for i := 0; i < size*size/40; i++ {
		darkness := 10 + rng.IntN(20)
		fillRect(img, rng.IntN(size), rng.IntN(size), 1+rng.IntN(4), shift(base, -darkness))
	}
	for i := 0; i < size*size/130; i++ {
		brightness := 10 + rng.IntN(10)
		fillRect(img, rng.IntN(size), rng.IntN(size), 1+rng.IntN(3), shift(base, brightness))
	}

	step := max(size/8, 1)
	for x := 0; x < size; x += step {
		for y := 0; y < size; y++ {
			img.SetRGBA(x, y, ColorPalette.Mortar)
		}
	}
	// Staggered horizontal courses.
	for y := 0; y < size; y += 2 * step {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, ColorPalette.Mortar)
		}
	}
	return img
}

// Floor draws the flagstone floor texture.
func Floor(size int) *image.RGBA {
	return CreatePatternedTile(size, ColorPalette.FloorStone, Darken(ColorPalette.FloorStone, 0.7), "grid")
}

// Ceiling draws the ceiling texture.
func Ceiling(size int) *image.RGBA {
	return CreatePatternedTile(size, ColorPalette.CeilingStone, Lighten(ColorPalette.CeilingStone, 0.1), "dots")
}

// Door draws a door texture. A closed door is solid planks with iron bands; an
// open door is only the frame, with a fully transparent centre so whatever lies
// behind it shows through.
func Door(size int, open bool) *image.RGBA {
	frame := max(size/8, 1)
	if open {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if x < frame || x >= size-frame || y < frame {
					img.SetRGBA(x, y, ColorPalette.DoorIron)
				}
			}
		}
		return img
	}

	img := CreateBorderedTile(size, ColorPalette.DoorWood, ColorPalette.DoorIron, frame)
	plank := max(size/6, 2)
	for x := frame; x < size-frame; x += plank {
		for y := frame; y < size-frame; y++ {
			img.SetRGBA(x, y, Darken(ColorPalette.DoorWood, 0.7))
		}
	}
	for _, y := range []int{size / 4, 3 * size / 4} {
		for x := frame; x < size-frame; x++ {
			img.SetRGBA(x, y, ColorPalette.DoorIron)
			img.SetRGBA(x, y+1, ColorPalette.DoorIron)
		}
	}
	return img
}

// Chest draws a treasure chest sprite, wider than it is tall.
func Chest(size int) *image.RGBA {
	w, h := size, size*2/3
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := ColorPalette.ChestWood
			switch {
			case x == 0 || y == 0 || x == w-1 || y == h-1:
				c = ColorPalette.Outline
			case y == h/3 || x == w/2:
				c = ColorPalette.ChestBand
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// ItemPile draws a heap of coins.
func ItemPile(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size/2))
	cx, h := size/2, size/2
	for y := 0; y < h; y++ {
		half := (y + 1) * cx / h
		for x := cx - half; x < cx+half; x++ {
			c := ColorPalette.Gold
			if (x+y)%5 == 0 {
				c = Darken(ColorPalette.Gold, 0.75)
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Enemy draws a round creature with two eyes.
func Enemy(size int) *image.RGBA {
	img := CreateCircle(size, ColorPalette.EnemySkin, ColorPalette.Outline)
	eye := max(size/10, 1)
	fillRect(img, size/3-eye/2, size/3, eye, ColorPalette.EnemyEye)
	fillRect(img, 2*size/3-eye/2, size/3, eye, ColorPalette.EnemyEye)
	return img
}

// Torch draws a standing torch: a handle topped with a flame.
func Torch(size int) *image.RGBA {
	w, h := size/2, size
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	handle := max(w/5, 1)
	for y := h / 3; y < h; y++ {
		for x := w/2 - handle/2; x < w/2+handle/2+1; x++ {
			img.SetRGBA(x, y, ColorPalette.TorchHandle)
		}
	}
	flame := h / 3
	for y := 0; y < flame; y++ {
		half := (y + 1) * (w / 2) / flame
		for x := w/2 - half; x < w/2+half; x++ {
			img.SetRGBA(x, y, ColorPalette.TorchFlame)
		}
	}
	return img
}

// Textures renders the built-in tile, floor and ceiling textures keyed by the
// names the renderer asks for.
func Textures(size int) map[string]*image.RGBA {
	return map[string]*image.RGBA{
		"wall":        StoneWall(size, 1),
		"door_closed": Door(size, false),
		"door_open":   Door(size, true),
		"floor":       Floor(size),
		"ceiling":     Ceiling(size),
	}
}

// Sprites renders the built-in entity sprites keyed by sprite name.
func Sprites(size int) map[string]*image.RGBA {
	return map[string]*image.RGBA{
		"chest":     Chest(size),
		"item_pile": ItemPile(size),
		"enemy":     Enemy(size),
		"torch":     Torch(size),
	}
}

// Assets is the named art produced by GenerateAssets, as paths relative to
// the output directory.
type Assets struct {
	Textures map[string]string
	Sprites  map[string]string
}

// GenerateAssets renders every placeholder texture and sprite into dir as PNG
// files.
func GenerateAssets(dir string, size int) (*Assets, error) {
	for _, sub := range []string{"textures", "sprites"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	textures, sprites := Textures(size), Sprites(size)

	assets := &Assets{Textures: map[string]string{}, Sprites: map[string]string{}}
	for name, img := range textures {
		rel := filepath.Join("textures", name+".png")
		if err := SavePNG(img, filepath.Join(dir, rel)); err != nil {
			return nil, fmt.Errorf("failed to save texture %s: %w", name, err)
		}
		assets.Textures[name] = rel
	}
	for name, img := range sprites {
		rel := filepath.Join("sprites", name+".png")
		if err := SavePNG(img, filepath.Join(dir, rel)); err != nil {
			return nil, fmt.Errorf("failed to save sprite %s: %w", name, err)
		}
		assets.Sprites[name] = rel
	}
	return assets, nil
}

func fillRect(img *image.RGBA, x, y, size int, c color.RGBA) {
	b := img.Bounds()
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			if image.Pt(x+dx, y+dy).In(b) {
				img.SetRGBA(x+dx, y+dy, c)
			}
		}
	}
}

func shift(c color.RGBA, delta int) color.RGBA {
	ch := func(v uint8) uint8 {
		return uint8(min(max(int(v)+delta, 0), 255))
	}
	return color.RGBA{ch(c.R), ch(c.G), ch(c.B), c.A}
}
