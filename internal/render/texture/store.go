// Package texture loads and caches wall/floor textures and sprite images as
// raw pixel arrays for the ray-caster.
//
// Every texture is resampled to the same power-of-two square size at load time,
// so texture coordinates can be wrapped with a bitmask. Sprites keep their
// native size and alpha.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"chosenoffset.com/crawler/internal/placeholders"
)

// ErrNotPowerOfTwo is returned for texture sizes that cannot be wrapped with a mask.
var ErrNotPowerOfTwo = errors.New("texture size must be a power of two")

// Texture is an immutable Size x Size non-premultiplied RGBA pixel grid.
type Texture struct {
	Name        string
	Size        int
	Pix         []uint8
	Placeholder bool
}

// Offset returns the index into Pix of texel (x, y), wrapping both
// coordinates into the texture.
func (t *Texture) Offset(x, y int) int {
	mask := t.Size - 1
	return ((y&mask)*t.Size + (x & mask)) * 4
}

// Sprite is an immutable non-premultiplied RGBA image of any size.
type Sprite struct {
	Name          string
	Width, Height int
	Pix           []uint8
}

// Offset returns the index into Pix of pixel (x, y). The caller keeps x and y
// inside the sprite.
func (s *Sprite) Offset(x, y int) int {
	return (y*s.Width + x) * 4
}

// Store caches textures and sprites by name. It is filled between frames and
// read-only while rendering.
type Store struct {
	size     int
	textures map[string]*Texture
	sprites  map[string]*Sprite
}

// NewStore creates a store whose textures are all size x size.
func NewStore(size int) (*Store, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("texture size %d: %w", size, ErrNotPowerOfTwo)
	}
	return &Store{
		size:     size,
		textures: make(map[string]*Texture),
		sprites:  make(map[string]*Sprite),
	}, nil
}

// TextureSize returns the common edge length of all textures.
func (s *Store) TextureSize() int {
	return s.size
}

// LoadTexture decodes the image at path and registers it under name.
// On failure nothing is registered; Texture(name) will then hand out a
// placeholder.
func (s *Store) LoadTexture(name, path string) (*Texture, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", name, err)
	}
	return s.AddTexture(name, img), nil
}

// AddTexture resamples img to the store's texture size and registers it.
func (s *Store) AddTexture(name string, img image.Image) *Texture {
	dst := image.NewNRGBA(image.Rect(0, 0, s.size, s.size))
	b := img.Bounds()
	switch {
	case b.Dx() == s.size && b.Dy() == s.size:
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	case b.Dx() < s.size || b.Dy() < s.size:
		// Upscaling keeps texels crisp.
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	default:
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	}
	tex := &Texture{Name: name, Size: s.size, Pix: dst.Pix}
	s.textures[name] = tex
	return tex
}

// AddPlaceholders registers the built-in procedural textures and sprites.
// They are marked as placeholders and are replaced by anything loaded later
// under the same name.
func (s *Store) AddPlaceholders() {
	for name, img := range placeholders.Textures(s.size) {
		s.AddTexture(name, img).Placeholder = true
	}
	for name, img := range placeholders.Sprites(s.size) {
		s.AddSprite(name, img)
	}
}

// HasTexture reports whether a real (non-placeholder) texture is registered.
func (s *Store) HasTexture(name string) bool {
	tex, ok := s.textures[name]
	return ok && !tex.Placeholder
}

// Texture returns the texture registered under name. Unknown names get a
// flat placeholder in a colour derived from the name; it is created once and
// cached.
func (s *Store) Texture(name string) *Texture {
	if tex, ok := s.textures[name]; ok {
		return tex
	}
	log.Printf("Warning: texture %q not loaded, using placeholder", name)
	tex := s.AddTexture(name, placeholders.Flat(name, s.size))
	tex.Placeholder = true
	return tex
}

// TextureArray returns the raw pixel array of the named texture for tight
// sampling loops.
func (s *Store) TextureArray(name string) []uint8 {
	return s.Texture(name).Pix
}

// LoadSprite decodes the image at path and registers it under name.
func (s *Store) LoadSprite(name, path string) (*Sprite, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprite %s: %w", name, err)
	}
	return s.AddSprite(name, img), nil
}

// AddSprite registers img as a sprite at its native size.
func (s *Store) AddSprite(name string, img image.Image) *Sprite {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	sp := &Sprite{Name: name, Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
	s.sprites[name] = sp
	return sp
}

// Sprite returns the sprite registered under name.
func (s *Store) Sprite(name string) (*Sprite, bool) {
	sp, ok := s.sprites[name]
	return sp, ok && sp.Width > 0 && sp.Height > 0
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}
