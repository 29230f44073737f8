package placeholders

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// TileSize is the standard size for placeholder textures
const TileSize = 64

// ColorPalette defines colors for the generated dungeon art
var ColorPalette = struct {
	// Surfaces
	FloorStone   color.RGBA
	CeilingStone color.RGBA
	WallStone    color.RGBA
	Mortar       color.RGBA
	DoorWood     color.RGBA
	DoorIron     color.RGBA

	// Sprites
	ChestWood   color.RGBA
	ChestBand   color.RGBA
	Gold        color.RGBA
	EnemySkin   color.RGBA
	EnemyEye    color.RGBA
	TorchFlame  color.RGBA
	TorchHandle color.RGBA

	// Outline
	Outline color.RGBA
}{
	FloorStone:   color.RGBA{70, 65, 60, 255},    // Dark stone gray
	CeilingStone: color.RGBA{45, 42, 40, 255},    // Soot-darkened stone
	WallStone:    color.RGBA{100, 100, 110, 255}, // Dungeon wall
	Mortar:       color.RGBA{80, 80, 90, 255},    // Mortar lines
	DoorWood:     color.RGBA{110, 75, 45, 255},   // Oak planks
	DoorIron:     color.RGBA{60, 60, 65, 255},    // Iron bands

	ChestWood:   color.RGBA{140, 100, 60, 255},
	ChestBand:   color.RGBA{200, 170, 60, 255},
	Gold:        color.RGBA{255, 215, 0, 255},
	EnemySkin:   color.RGBA{90, 150, 70, 255},
	EnemyEye:    color.RGBA{255, 50, 50, 255},
	TorchFlame:  color.RGBA{255, 160, 40, 255},
	TorchHandle: color.RGBA{90, 60, 35, 255},

	Outline: color.RGBA{20, 18, 15, 255},
}

// ColorForName returns a stable mid-range colour derived from name, used for
// flat placeholder textures.
func ColorForName(name string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()
	channel := func(shift uint) uint8 {
		return uint8(64 + (sum>>shift)&0x7f)
	}
	return color.RGBA{R: channel(0), G: channel(8), B: channel(16), A: 255}
}

// Flat returns a size x size texture filled with the colour for name.
func Flat(name string, size int) *image.RGBA {
	return CreateSolidTile(size, ColorForName(name))
}

// CreateSolidTile creates a simple solid-colored tile
func CreateSolidTile(size int, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// CreateBorderedTile creates a tile with a border
func CreateBorderedTile(size int, fillColor, borderColor color.RGBA, borderWidth int) *image.RGBA {
	img := CreateSolidTile(size, fillColor)
	for i := 0; i < borderWidth; i++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, i, borderColor)
			img.SetRGBA(x, size-1-i, borderColor)
			img.SetRGBA(i, x, borderColor)
			img.SetRGBA(size-1-i, x, borderColor)
		}
	}
	return img
}

// CreatePatternedTile creates a tile with a simple pattern
func CreatePatternedTile(size int, baseColor, patternColor color.RGBA, pattern string) *image.RGBA {
	img := CreateSolidTile(size, baseColor)

	switch pattern {
	case "grid":
		step := max(size/4, 1)
		for i := 0; i < size; i += step {
			for x := 0; x < size; x++ {
				img.SetRGBA(x, i, patternColor)
				img.SetRGBA(i, x, patternColor)
			}
		}
	case "dots":
		quarter := size / 4
		threeQuarter := 3 * size / 4
		dots := []image.Point{{quarter, quarter}, {threeQuarter, quarter}, {quarter, threeQuarter}, {threeQuarter, threeQuarter}}
		for _, p := range dots {
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					img.SetRGBA(p.X+dx, p.Y+dy, patternColor)
				}
			}
		}
	case "diagonal":
		for i := 0; i < size; i++ {
			img.SetRGBA(i, i, patternColor)
			img.SetRGBA(i, size-1-i, patternColor)
		}
	}

	return img
}

// CreateCircle creates a circular sprite on a transparent background
func CreateCircle(size int, fillColor, outlineColor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	center := size / 2
	radius := size/2 - 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := x - center
			dy := y - center
			distSq := dx*dx + dy*dy

			if distSq <= radius*radius {
				img.SetRGBA(x, y, fillColor)
			} else if distSq <= (radius+1)*(radius+1) {
				img.SetRGBA(x, y, outlineColor)
			}
		}
	}

	return img
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of a color
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
