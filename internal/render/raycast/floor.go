package raycast

import (
	"math"

	"golang.org/x/sync/errgroup"

	"chosenoffset.com/crawler/internal/render/camera"
	"chosenoffset.com/crawler/internal/render/texture"
	"chosenoffset.com/crawler/internal/world/grid"
)

// drawFloorCeiling maps every row below the horizon onto the floor and every
// row above it onto the ceiling. Rows are independent, so the frame is split
// into bands of rows that are filled concurrently.
func (r *Renderer) drawFloorCeiling(v camera.Viewer, m *grid.Map) {
	// Per-column ray direction scaled so that (rayDX, rayDY) * rowDist lands
	// on the floor point at perpendicular distance rowDist.
	for x := range r.rayDX {
		ra := v.RayAngle(x, r.cfg.Width)
		corr := math.Cos(ra - v.Angle)
		r.rayDX[x] = math.Cos(ra) / corr
		r.rayDY[x] = math.Sin(ra) / corr
	}

	// Texture lookups may create placeholders, so resolve them before fanning out.
	floor := r.textures.Texture(r.cfg.FloorTexture)
	ceiling := r.textures.Texture(r.cfg.CeilingTexture)
	ox, oy := v.Origin()

	height := r.cfg.Height
	workers := r.cfg.FloorWorkers
	bandSize := (height + workers - 1) / workers

	// Bands never fail; the group only bounds how many run at once.
	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < height; y0 += bandSize {
		y1 := min(y0+bandSize, height)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				r.drawPlaneRow(y, ox, oy, floor, ceiling, m)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// drawPlaneRow fills screen row y. Rows further than the maximum cast
// distance stay black.
func (r *Renderer) drawPlaneRow(y int, ox, oy float64, floor, ceiling *texture.Texture, m *grid.Map) {
	p := float64(y) + 0.5 - r.horizon
	tex := floor
	if p < 0 {
		p = -p
		tex = ceiling
	}
	rowDist := eyeHeight * r.projDist / p
	if rowDist > r.cfg.MaxDistance {
		return
	}

	size := float64(tex.Size)
	mask := tex.Size - 1
	src := tex.Pix
	dst := r.frame.Pix[y*r.frame.Stride : y*r.frame.Stride+r.cfg.Width*4]

	lastCX, lastCY := math.MinInt, math.MinInt
	var scale uint32
	for x := 0; x < r.cfg.Width; x++ {
		wx := ox + rowDist*r.rayDX[x]
		wy := oy + rowDist*r.rayDY[x]
		fx, fy := math.Floor(wx), math.Floor(wy)
		cx, cy := int(fx), int(fy)
		if cx != lastCX || cy != lastCY {
			scale = lightScale(m.LightAt(cx, cy))
			lastCX, lastCY = cx, cy
		}

		tx := int((wx-fx)*size) & mask
		ty := int((wy-fy)*size) & mask
		s := (ty*tex.Size + tx) * 4
		d := dst[x*4 : x*4+4 : x*4+4]
		d[0] = shade(src[s], scale)
		d[1] = shade(src[s+1], scale)
		d[2] = shade(src[s+2], scale)
		d[3] = 0xff
	}
}
