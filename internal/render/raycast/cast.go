package raycast

import (
	"math"

	"chosenoffset.com/crawler/internal/world/grid"
)

// Hit is one tile boundary crossed by a ray. Hits are transient: they are
// produced per column and discarded once drawn.
type Hit struct {
	Distance    float64 // along the ray from its origin, before fisheye correction
	Tile        grid.Tile
	X, Y        float64 // exact point where the ray entered the tile
	Side        int     // 0: crossed a vertical grid line (x = const), 1: a horizontal one
	MapX, MapY  int
	Transparent bool
}

// TileSource is the part of a map a ray needs.
type TileSource interface {
	TileAt(x, y int) (grid.Tile, bool)
}

// Cast marches a ray from (ox, oy) along angle through the grid with DDA and
// appends a Hit for every non-empty tile it enters, nearest first. Transparent
// tiles are recorded and passed through; any other tile ends the ray. Leaving
// the map or exceeding maxDist ends the ray without a hit.
func Cast(tiles TileSource, ox, oy, angle, maxDist float64, hits []Hit) []Hit {
	dirX, dirY := math.Cos(angle), math.Sin(angle)
	mapX, mapY := int(math.Floor(ox)), int(math.Floor(oy))

	deltaX, deltaY := math.Inf(1), math.Inf(1)
	if dirX != 0 {
		deltaX = math.Abs(1 / dirX)
	}
	if dirY != 0 {
		deltaY = math.Abs(1 / dirY)
	}

	stepX, sideX := 1, math.Inf(1)
	switch {
	case dirX < 0:
		stepX = -1
		sideX = (ox - float64(mapX)) * deltaX
	case dirX > 0:
		sideX = (float64(mapX) + 1 - ox) * deltaX
	}
	stepY, sideY := 1, math.Inf(1)
	switch {
	case dirY < 0:
		stepY = -1
		sideY = (oy - float64(mapY)) * deltaY
	case dirY > 0:
		sideY = (float64(mapY) + 1 - oy) * deltaY
	}

	for {
		var dist float64
		var side int
		if sideX < sideY {
			dist = sideX
			sideX += deltaX
			mapX += stepX
			side = 0
		} else {
			dist = sideY
			sideY += deltaY
			mapY += stepY
			side = 1
		}
		if dist > maxDist {
			return hits
		}

		tile, ok := tiles.TileAt(mapX, mapY)
		if !ok {
			return hits
		}
		if tile == grid.TileEmpty {
			continue
		}

		hits = append(hits, Hit{
			Distance:    dist,
			Tile:        tile,
			X:           ox + dist*dirX,
			Y:           oy + dist*dirY,
			Side:        side,
			MapX:        mapX,
			MapY:        mapY,
			Transparent: tile.Transparent(),
		})
		if !tile.Transparent() {
			return hits
		}
	}
}

// textureColumn picks the texel column for a hit from the fractional hit
// coordinate along the face, mirrored so every face reads left to right.
func textureColumn(h Hit, dirX, dirY float64, size int) int {
	var frac float64
	if h.Side == 0 {
		frac = h.Y - math.Floor(h.Y)
	} else {
		frac = h.X - math.Floor(h.X)
	}
	if (h.Side == 0 && dirX < 0) || (h.Side == 1 && dirY > 0) {
		frac = 1 - frac
	}
	return int(frac*float64(size)) & (size - 1)
}
