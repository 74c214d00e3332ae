package scene

import (
	"math"
	"testing"
)

func TestProjectOriginIsCentered(t *testing.T) {
	c := NewCamera(8)
	s := c.Project(Vec3{}, 80, 24)
	if s.X != 40 || s.Y != 12 || !s.Visible {
		t.Errorf("origin projected to %+v", s)
	}
	if !near(s.Depth, 8) || !near(s.Scale, 1) {
		t.Errorf("depth/scale = %v/%v", s.Depth, s.Scale)
	}
}

func TestProjectNearerIsLarger(t *testing.T) {
	c := NewCamera(8)
	c.Pitch = 0
	front := c.Project(Vec3{Z: -3}, 80, 24)
	back := c.Project(Vec3{Z: 3}, 80, 24)
	if front.Depth >= back.Depth {
		t.Errorf("front depth %v should be less than back %v", front.Depth, back.Depth)
	}
	if front.Scale <= back.Scale {
		t.Errorf("front scale %v should exceed back %v", front.Scale, back.Scale)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	c := NewCamera(2)
	c.Pitch = 0
	if s := c.Project(Vec3{Z: -5}, 80, 24); s.Visible {
		t.Errorf("point behind camera should be hidden: %+v", s)
	}
}

func TestRotateY(t *testing.T) {
	p := RotateY(Vec3{X: 1}, math.Pi/2)
	if !near(p.X, 0) || !near(p.Z, -1) {
		t.Errorf("got %+v", p)
	}
}

func TestOrbitAndZoom(t *testing.T) {
	c := NewCamera(8)
	c.Orbit(3 * math.Pi)
	if !near(c.Yaw, math.Pi) {
		t.Errorf("Yaw=%v, want pi", c.Yaw)
	}
	c.Zoom(10, 4, 20)
	if c.Distance != 20 {
		t.Errorf("Distance=%v, want clamp to 20", c.Distance)
	}
	c.Zoom(0.01, 4, 20)
	if c.Distance != 4 {
		t.Errorf("Distance=%v, want clamp to 4", c.Distance)
	}
}
