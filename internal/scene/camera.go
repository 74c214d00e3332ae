package scene

import "math"

// Camera orbits the origin at a fixed height and projects world points onto
// a character grid.
type Camera struct {
	Yaw      float64 // radians about the vertical axis
	Pitch    float64 // radians, positive looks down on the scene
	Distance float64
	FOV      float64 // projection scale in cells per world unit at distance 1
	Aspect   float64 // cell height / cell width, about 2 in most terminals
}

// Screen is a projected point. Depth grows away from the camera.
type Screen struct {
	X, Y    int
	Depth   float64
	Scale   float64 // apparent size factor at this depth
	Visible bool
}

// NewCamera returns a camera at distance looking slightly down.
func NewCamera(distance float64) Camera {
	return Camera{Pitch: 0.35, Distance: distance, FOV: 12, Aspect: 2}
}

// RotateY rotates p about the vertical axis.
func RotateY(p Vec3, angle float64) Vec3 {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return Vec3{
		X: p.X*cos + p.Z*sin,
		Y: p.Y,
		Z: -p.X*sin + p.Z*cos,
	}
}

// RotateX rotates p about the horizontal axis.
func RotateX(p Vec3, angle float64) Vec3 {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return Vec3{
		X: p.X,
		Y: p.Y*cos - p.Z*sin,
		Z: p.Y*sin + p.Z*cos,
	}
}

// Orbit turns the camera by dyaw radians.
func (c *Camera) Orbit(dyaw float64) {
	c.Yaw = math.Mod(c.Yaw+dyaw, 2*math.Pi)
}

// Zoom multiplies the distance by factor, clamped to [min, max].
func (c *Camera) Zoom(factor, minDist, maxDist float64) {
	c.Distance = math.Max(minDist, math.Min(maxDist, c.Distance*factor))
}

// Project maps p onto a width x height grid centered on the screen.
func (c Camera) Project(p Vec3, width, height int) Screen {
	v := RotateX(RotateY(p, c.Yaw), c.Pitch)
	z := v.Z + c.Distance
	if z < 0.1 {
		return Screen{Depth: z}
	}
	scale := c.FOV / z
	x := int(math.Round(v.X*scale)) + width/2
	y := int(math.Round(-v.Y*scale/c.Aspect)) + height/2
	return Screen{
		X:       x,
		Y:       y,
		Depth:   z,
		Scale:   c.Distance / z,
		Visible: x >= 0 && x < width && y >= 0 && y < height,
	}
}
