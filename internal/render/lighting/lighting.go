package lighting

import (
	"log"
	"math"

	"chosenoffset.com/crawler/internal/world/grid"
)

// Source is a light emitter resolved to the cell it sits in.
type Source struct {
	X, Y     int     // Grid cell
	Radius   float64 // Reach in cells
	Strength float64 // Intensity at the source cell (0.0 to 1.0)
}

// Manager keeps a map's light map up to date.
type Manager struct {
	recomputes int
	debug      bool
}

// NewManager creates a new lighting manager
func NewManager() *Manager {
	return &Manager{}
}

// SetDebug enables a log line per recompute.
func (m *Manager) SetDebug(on bool) {
	m.debug = on
}

// Recomputes returns how many full light passes have run.
func (m *Manager) Recomputes() int {
	return m.recomputes
}

// Refresh recomputes the light map if the map reports a change since the last
// pass. It returns true when a recompute happened.
func (m *Manager) Refresh(g *grid.Map) bool {
	if !g.LightDirty() {
		return false
	}
	m.Recompute(g)
	return true
}

// Recompute rebuilds the whole light map from every enabled source.
func (m *Manager) Recompute(g *grid.Map) {
	sources := Sources(g)
	values := Compute(g, sources)
	if err := g.SetLightMap(values); err != nil {
		log.Printf("Warning: failed to install light map: %v", err)
		return
	}
	m.recomputes++
	if m.debug {
		log.Printf("lighting: recomputed %dx%d map from %d sources", g.Width(), g.Height(), len(sources))
	}
}

// Sources collects the enabled light sources of all entities on g.
func Sources(g *grid.Map) []Source {
	var sources []Source
	for _, e := range g.Entities() {
		if !e.EmitsLight() {
			continue
		}
		x, y := e.Cell()
		sources = append(sources, Source{
			X:        x,
			Y:        y,
			Radius:   e.Light.Radius,
			Strength: e.Light.Strength,
		})
	}
	return sources
}

// Falloff is the smoothstep attenuation 1 - 3r^2 + 2r^3 with r = distance/radius.
// It is 1 at the source and 0 at or beyond the radius.
func Falloff(distance, radius float64) float64 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	r := distance / radius
	if r < 0 {
		r = 0
	}
	return 1 - 3*r*r + 2*r*r*r
}

type node struct {
	x, y  int
	light float64
}

var neighbours = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Compute floods light from each source over 4-connected walkable cells.
// Walls are lit but do not pass light on. Each cell keeps the brightest
// contribution, never the sum, and the result is clamped to [ambient, 1].
func Compute(g *grid.Map, sources []Source) []float64 {
	width, height := g.Width(), g.Height()
	ambient := g.Ambient()

	light := make([]float64, width*height)
	for i := range light {
		light[i] = ambient
	}
	visited := make([]bool, width*height)
	queue := make([]node, 0, 64)

	for _, src := range sources {
		if !g.InBounds(src.X, src.Y) {
			continue
		}
		for i := range visited {
			visited[i] = false
		}

		start := src.Y*width + src.X
		visited[start] = true
		light[start] = math.Max(light[start], src.Strength)

		queue = append(queue[:0], node{src.X, src.Y, src.Strength})
		for head := 0; head < len(queue); head++ {
			cur := queue[head]
			if cur.light <= ambient {
				continue
			}
			for _, d := range neighbours {
				nx, ny := cur.x+d[0], cur.y+d[1]
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				idx := ny*width + nx
				if visited[idx] {
					continue
				}
				dx, dy := float64(nx-src.X), float64(ny-src.Y)
				distance := math.Sqrt(dx*dx + dy*dy)
				if distance > src.Radius {
					continue
				}
				value := src.Strength * Falloff(distance, src.Radius)

				tile, _ := g.TileAt(nx, ny)
				if !tile.Walkable() {
					light[idx] = math.Max(light[idx], value)
					continue
				}
				visited[idx] = true
				light[idx] = math.Max(light[idx], value)
				queue = append(queue, node{nx, ny, value})
			}
		}
	}

	for i, v := range light {
		if v < ambient {
			v = ambient
		}
		if v > 1 {
			v = 1
		}
		light[i] = v
	}
	return light
}
