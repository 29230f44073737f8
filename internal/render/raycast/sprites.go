package raycast

import (
	"math"
	"sort"

	"chosenoffset.com/crawler/internal/render/camera"
	"chosenoffset.com/crawler/internal/render/texture"
	"chosenoffset.com/crawler/internal/world/entity"
	"chosenoffset.com/crawler/internal/world/grid"
)

type spriteRef struct {
	e      *entity.Entity
	sprite *texture.Sprite
	distSq float64
}

// drawSprites billboards every visible sprite entity far to near. Sprites are
// not depth-tested against each other, only against the wall z-buffer.
func (r *Renderer) drawSprites(v camera.Viewer, m *grid.Map) {
	r.visible = r.visible[:0]
	for _, e := range m.Entities() {
		if e.ID == v.Self || !e.HasSprite() {
			continue
		}
		sp, ok := r.textures.Sprite(e.Render.Sprite)
		if !ok {
			continue
		}
		dx, dy := e.X-v.X, e.Y-v.Y
		r.visible = append(r.visible, spriteRef{e: e, sprite: sp, distSq: dx*dx + dy*dy})
	}
	sort.Slice(r.visible, func(i, j int) bool {
		return r.visible[i].distSq > r.visible[j].distSq
	})

	ox, oy := v.Origin()
	cos, sin := v.Direction()
	for _, ref := range r.visible {
		dx, dy := ref.e.X-ox, ref.e.Y-oy
		depth := cos*dx + sin*dy
		if depth < minSpriteDepth {
			continue
		}
		horiz := -sin*dx + cos*dy
		cx, cy := ref.e.Cell()
		r.drawSprite(ref.sprite, ref.e.Render, horiz, depth, v.FOV, m.LightAt(cx, cy))
	}
}

// screenColumn maps a camera-space point to a fractional screen column with
// the same angle-to-column mapping the wall rays use.
func (r *Renderer) screenColumn(horiz, depth, fov float64) float64 {
	return (math.Atan2(horiz, depth)/fov + 0.5) * float64(r.cfg.Width)
}

// drawSprite blits a camera-facing sprite whose centre sits at camera-space
// (horiz, depth), skipping columns where a wall is nearer.
func (r *Renderer) drawSprite(sp *texture.Sprite, rend *entity.Renderable, horiz, depth, fov, light float64) {
	full := r.ProjectedHeight(depth)
	h := full * rend.Height()

	// Columns are linear in angle, so the width comes from the angular span
	// of the sprite's world width rather than from its projected height.
	halfW := rend.Height() * float64(sp.Width) / float64(sp.Height) / 2
	left := r.screenColumn(horiz-halfW, depth, fov)
	w := r.screenColumn(horiz+halfW, depth, fov) - left

	var top float64
	switch rend.Anchor {
	case entity.AnchorFloor:
		top = r.horizon + full*eyeHeight - h
	case entity.AnchorCeiling:
		top = r.horizon - full*(1-eyeHeight)
	default:
		top = r.horizon - h/2
	}

	x0 := max(0, int(math.Floor(left)))
	x1 := min(r.cfg.Width, int(math.Ceil(left+w)))
	y0 := max(0, int(math.Floor(top)))
	y1 := min(r.cfg.Height, int(math.Ceil(top+h)))
	if x0 >= x1 || y0 >= y1 {
		return
	}

	scale := lightScale(light)
	pix := r.frame.Pix
	stride := r.frame.Stride
	for x := x0; x < x1; x++ {
		if depth >= r.zbuf[x] {
			continue
		}
		tx := int((float64(x) + 0.5 - left) / w * float64(sp.Width))
		if tx < 0 || tx >= sp.Width {
			continue
		}
		for y := y0; y < y1; y++ {
			ty := int((float64(y) + 0.5 - top) / h * float64(sp.Height))
			if ty < 0 || ty >= sp.Height {
				continue
			}
			s := sp.Offset(tx, ty)
			if sp.Pix[s+3] == 0 {
				continue
			}
			d := y*stride + x*4
			blend(pix[d:d+4:d+4], sp.Pix[s:s+4:s+4], scale)
		}
	}
}
