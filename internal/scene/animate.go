package scene

import "github.com/abelbrown/pokedeck/internal/config"

// Transform is the animated state of one card.
type Transform struct {
	Scale    float64
	Y        float64
	Rotation float64 // radians about the card's vertical axis
}

// RestingTransform is the state of a card that has not been animated yet,
// sitting at base.
func RestingTransform(base Vec3) Transform {
	return Transform{Scale: 1, Y: base.Y}
}

// Animator advances card transforms toward their hover and selection
// targets once per frame.
type Animator struct {
	RotationSpeed  float64
	ScaleSmooth    float64
	PositionSmooth float64
	HoverScale     float64
	HoverLift      float64
	SelectedLift   float64
}

// NewAnimator builds an Animator from configured rates.
func NewAnimator(c config.AnimationConfig) Animator {
	return Animator{
		RotationSpeed:  c.RotationSpeed,
		ScaleSmooth:    c.ScaleSmooth,
		PositionSmooth: c.PositionSmooth,
		HoverScale:     c.HoverScale,
		HoverLift:      c.HoverLift,
		SelectedLift:   c.SelectedLift,
	}
}

// DefaultAnimator uses the stock animation rates.
func DefaultAnimator() Animator {
	return NewAnimator(config.DefaultConfig().Animation)
}

// Targets returns the scale and height a card at base is easing toward.
func (a Animator) Targets(base Vec3, hovered, selected bool) (scale, y float64) {
	scale = 1
	if hovered || selected {
		scale = a.HoverScale
	}
	y = base.Y
	if hovered {
		y += a.HoverLift
	}
	if selected {
		y += a.SelectedLift
	}
	return scale, y
}

// Step advances t by one frame of delta seconds. Rotation is a rate and
// scales with delta; scale and height are eased per frame.
func (a Animator) Step(t Transform, base Vec3, hovered, selected bool, delta float64) Transform {
	scale, y := a.Targets(base, hovered, selected)
	return Transform{
		Scale:    StepToward(t.Scale, scale, a.ScaleSmooth, delta),
		Y:        StepToward(t.Y, y, a.PositionSmooth, delta),
		Rotation: t.Rotation + a.RotationSpeed*delta,
	}
}
