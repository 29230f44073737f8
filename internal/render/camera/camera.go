// Package camera holds the viewer pose the ray-caster renders from.
package camera

import (
	"math"

	"chosenoffset.com/crawler/internal/world/entity"
)

// DefaultFOV is a 60 degree horizontal field of view.
const DefaultFOV = math.Pi / 3

// BackOffset is how far behind the viewer rays start, in cells.
const BackOffset = 0.5

// Viewer is a position on the grid plus a facing. Angle 0 looks along +X and
// angles grow towards +Y.
type Viewer struct {
	X, Y  float64
	Angle float64
	FOV   float64

	// Self is the entity standing at the viewer's position, if any. It is
	// never drawn as a sprite.
	Self entity.ID
}

// New creates a viewer at (x, y) looking along angle.
func New(x, y, angle, fov float64) Viewer {
	if fov <= 0 || fov >= math.Pi {
		fov = DefaultFOV
	}
	return Viewer{X: x, Y: y, Angle: NormalizeAngle(angle), FOV: fov}
}

// NormalizeAngle maps a to [0, 2*pi).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// SetPose moves and turns the viewer.
func (v *Viewer) SetPose(x, y, angle float64) {
	v.X, v.Y = x, y
	v.Angle = NormalizeAngle(angle)
}

// Direction returns the unit facing vector.
func (v Viewer) Direction() (float64, float64) {
	return math.Cos(v.Angle), math.Sin(v.Angle)
}

// Origin returns the virtual camera position rays are cast from: BackOffset
// cells behind the viewer.
func (v Viewer) Origin() (float64, float64) {
	dx, dy := v.Direction()
	return v.X - BackOffset*dx, v.Y - BackOffset*dy
}

// RayAngle returns the angle of the ray for screen column x, normalised to
// [0, 2*pi).
func (v Viewer) RayAngle(x, screenWidth int) float64 {
	return NormalizeAngle(v.Angle - v.FOV/2 + (float64(x)/float64(screenWidth))*v.FOV)
}

// ProjectionPlaneDist converts world distance to on-screen height for the
// viewer's field of view: (screenWidth/2) / tan(fov/2).
func (v Viewer) ProjectionPlaneDist(screenWidth int) float64 {
	return (float64(screenWidth) / 2) / math.Tan(v.FOV/2)
}

// TurnLeft rotates the viewer a quarter turn counter-clockwise, snapped to the
// grid axes.
func (v *Viewer) TurnLeft() {
	v.Angle = snapQuarter(v.Angle - math.Pi/2)
}

// TurnRight rotates the viewer a quarter turn clockwise, snapped to the grid
// axes.
func (v *Viewer) TurnRight() {
	v.Angle = snapQuarter(v.Angle + math.Pi/2)
}

// Step returns the grid step for moving in the facing direction rotated by
// quarter turns (0 forward, 1 right, 2 back, 3 left).
func (v Viewer) Step(quarter int) (int, int) {
	a := v.Angle + float64(quarter)*math.Pi/2
	return int(math.Round(math.Cos(a))), int(math.Round(math.Sin(a)))
}

func snapQuarter(a float64) float64 {
	q := math.Round(NormalizeAngle(a) / (math.Pi / 2))
	return NormalizeAngle(q * math.Pi / 2)
}
