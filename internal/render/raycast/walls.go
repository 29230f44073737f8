package raycast

import (
	"math"

	"chosenoffset.com/crawler/internal/render/camera"
	"chosenoffset.com/crawler/internal/render/texture"
	"chosenoffset.com/crawler/internal/world/grid"
)

// drawWalls casts one ray per screen column, draws its hits back to front and
// records the nearest opaque hit in the z-buffer.
func (r *Renderer) drawWalls(v camera.Viewer, m *grid.Map) {
	var tiles [grid.TileCount]*texture.Texture
	for t := grid.Tile(1); t < grid.TileCount; t++ {
		tiles[t] = r.textures.Texture(r.cfg.TileTextures[t])
	}
	ox, oy := v.Origin()

	for x := 0; x < r.cfg.Width; x++ {
		ra := v.RayAngle(x, r.cfg.Width)
		dirX, dirY := math.Cos(ra), math.Sin(ra)
		corr := math.Cos(ra - v.Angle)

		r.hits = Cast(m, ox, oy, ra, r.cfg.MaxDistance, r.hits[:0])
		r.zbuf[x] = math.Inf(1)
		for i := len(r.hits) - 1; i >= 0; i-- {
			h := r.hits[i]
			dist := h.Distance * corr
			if !h.Transparent {
				r.zbuf[x] = math.Min(r.zbuf[x], dist)
			}
			r.drawWallSlice(x, h, dist, dirX, dirY, tiles[h.Tile], m.LightAt(h.MapX, h.MapY))
		}
	}
}

// drawWallSlice scales one texture column to the projected height of a hit
// and blits it into screen column x. Fully transparent texels are skipped so
// whatever is behind an open door shows through.
func (r *Renderer) drawWallSlice(x int, h Hit, dist, dirX, dirY float64, tex *texture.Texture, light float64) {
	lineH := r.ProjectedHeight(dist)
	top := r.horizon - lineH*(1-eyeHeight)
	bottom := top + lineH

	y0 := max(0, int(math.Floor(top)))
	y1 := min(r.cfg.Height, int(math.Ceil(bottom)))
	if y0 >= y1 {
		return
	}

	texX := textureColumn(h, dirX, dirY, tex.Size)
	mask := tex.Size - 1
	step := float64(tex.Size) / lineH
	scale := lightScale(light)
	pix := r.frame.Pix
	stride := r.frame.Stride

	for y := y0; y < y1; y++ {
		texY := int((float64(y)+0.5-top)*step) & mask
		s := (texY*tex.Size + texX) * 4
		a := tex.Pix[s+3]
		if a == 0 {
			continue
		}
		d := y*stride + x*4
		blend(pix[d:d+4:d+4], tex.Pix[s:s+4:s+4], scale)
	}
}

// blend composites a non-premultiplied source pixel, tinted by scale, over an
// opaque destination pixel.
func blend(dst, src []uint8, scale uint32) {
	a := uint32(src[3])
	if a == 0xff {
		dst[0] = shade(src[0], scale)
		dst[1] = shade(src[1], scale)
		dst[2] = shade(src[2], scale)
		dst[3] = 0xff
		return
	}
	inv := 0xff - a
	for i := 0; i < 3; i++ {
		c := uint32(shade(src[i], scale))
		dst[i] = uint8((c*a + uint32(dst[i])*inv) / 0xff)
	}
	dst[3] = 0xff
}
