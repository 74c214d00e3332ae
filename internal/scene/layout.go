// Package scene computes where cards sit and how they move.
//
// Everything here is a pure function of its inputs: the layout engine owns
// no state, and the Transform values it advances belong to the caller.
package scene

import "math"

// DefaultRadius is the circle radius used when none is configured.
const DefaultRadius = 5.0

// Vec3 is a point or offset in world space. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v*s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// PositionOnCircle places item index of total evenly on a horizontal circle
// of the given radius, starting on +X and turning toward +Z. A single item
// sits at the origin.
func PositionOnCircle(index, total int, radius float64) Vec3 {
	if total == 1 {
		return Vec3{}
	}
	angle := float64(index) / float64(total) * 2 * math.Pi
	return Vec3{
		X: radius * math.Cos(angle),
		Y: 0,
		Z: radius * math.Sin(angle),
	}
}

// Layout returns PositionOnCircle for every index in [0, total).
func Layout(total int, radius float64) []Vec3 {
	if total <= 0 {
		return nil
	}
	out := make([]Vec3, total)
	for i := range out {
		out[i] = PositionOnCircle(i, total, radius)
	}
	return out
}

// StepToward moves current a fixed fraction of the way to target.
//
// delta is accepted for symmetry with rate-based updates but not used: the
// step is per frame, so perceived speed follows the frame rate. For
// 0 < smoothing <= 1 the result never passes target.
func StepToward(current, target, smoothing, delta float64) float64 {
	_ = delta
	return current + (target-current)*smoothing
}
