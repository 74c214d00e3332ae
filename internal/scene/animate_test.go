package scene

import (
	"math"
	"testing"
)

func TestTargets(t *testing.T) {
	a := DefaultAnimator()
	base := Vec3{Y: 1}

	tests := []struct {
		name              string
		hovered, selected bool
		scale, y          float64
	}{
		{"idle", false, false, 1, 1},
		{"hovered", true, false, 1.2, 1.3},
		{"selected", false, true, 1.2, 1.5},
		{"both", true, true, 1.2, 1.8},
	}
	for _, tt := range tests {
		scale, y := a.Targets(base, tt.hovered, tt.selected)
		if !near(scale, tt.scale) || !near(y, tt.y) {
			t.Errorf("%s: got scale=%v y=%v, want %v %v", tt.name, scale, y, tt.scale, tt.y)
		}
	}
}

func TestStepEasesTowardHover(t *testing.T) {
	a := DefaultAnimator()
	tr := RestingTransform(Vec3{})

	tr = a.Step(tr, Vec3{}, true, false, 0.5)
	if !near(tr.Scale, 1.02) {
		t.Errorf("Scale=%v, want 1.02", tr.Scale)
	}
	if !near(tr.Y, 0.03) {
		t.Errorf("Y=%v, want 0.03", tr.Y)
	}
	if !near(tr.Rotation, 0.15) {
		t.Errorf("Rotation=%v, want 0.15", tr.Rotation)
	}
}

func TestStepRotationScalesWithDelta(t *testing.T) {
	a := DefaultAnimator()
	tr := RestingTransform(Vec3{})
	for i := 0; i < 10; i++ {
		tr = a.Step(tr, Vec3{}, false, false, 0.1)
	}
	if !near(tr.Rotation, 0.3) {
		t.Errorf("Rotation=%v after 1s, want 0.3", tr.Rotation)
	}
}

func TestStepSettlesBackWhenReleased(t *testing.T) {
	a := DefaultAnimator()
	tr := RestingTransform(Vec3{})
	for i := 0; i < 100; i++ {
		tr = a.Step(tr, Vec3{}, false, true, 1.0/30)
	}
	if math.Abs(tr.Scale-1.2) > 1e-3 || math.Abs(tr.Y-0.5) > 1e-3 {
		t.Fatalf("selected card did not settle: %+v", tr)
	}
	for i := 0; i < 200; i++ {
		prev := tr
		tr = a.Step(tr, Vec3{}, false, false, 1.0/30)
		if tr.Scale > prev.Scale || tr.Y > prev.Y {
			t.Fatalf("release not monotonic at frame %d: %+v -> %+v", i, prev, tr)
		}
		if tr.Scale < 1 || tr.Y < 0 {
			t.Fatalf("overshot at frame %d: %+v", i, tr)
		}
	}
}
