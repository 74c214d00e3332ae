package ui

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/abelbrown/pokedeck/internal/scene"
)

// cameraRig damps orbit and zoom. Keys move target; view springs toward it
// once per animation frame and is what gets drawn.
type cameraRig struct {
	spring  harmonica.Spring
	target  scene.Camera
	view    scene.Camera
	yawVel  float64
	distVel float64
}

func newCameraRig(cam scene.Camera, frame time.Duration) cameraRig {
	fps := 30
	if frame > 0 {
		fps = max(int(time.Second/frame), 1)
	}
	return cameraRig{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.9),
		target: cam,
		view:   cam,
	}
}

func (r *cameraRig) orbit(dyaw float64) {
	r.target.Orbit(dyaw)
}

func (r *cameraRig) zoom(factor float64) {
	r.target.Zoom(factor, minCameraDst, maxCameraDst)
}

// update advances the view one frame. Yaw takes the short way round.
func (r *cameraRig) update() {
	goal := r.view.Yaw + shortestArc(r.target.Yaw-r.view.Yaw)
	r.view.Yaw, r.yawVel = r.spring.Update(r.view.Yaw, r.yawVel, goal)
	r.view.Distance, r.distVel = r.spring.Update(r.view.Distance, r.distVel, r.target.Distance)
}

// shortestArc maps an angle difference into (-π, π].
func shortestArc(d float64) float64 {
	d = math.Mod(d, 2*math.Pi)
	switch {
	case d > math.Pi:
		d -= 2 * math.Pi
	case d <= -math.Pi:
		d += 2 * math.Pi
	}
	return d
}
