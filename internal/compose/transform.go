package compose

import (
	"github.com/ivolkov/animframe/internal/anim"
)

// Transform is a layer's fully resolved appearance at one time instant.
// ScaleX/ScaleY are the effective per-axis scales: the uniform scale and
// the per-axis scales compose multiplicatively.
type Transform struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	Opacity        float64
	FlipH, FlipV   bool
}

// resolveTransform evaluates every animatable property of a layer at time
// t. Properties without a track (or whose track has no valid samples)
// fall back to the layer's static defaults.
func resolveTransform(l *anim.Layer, t float64) Transform {
	scale := l.Track("scale").ValueAt(t, l.Scale)
	scaleX := l.Track("scale_x").ValueAt(t, l.ScaleX)
	scaleY := l.Track("scale_y").ValueAt(t, l.ScaleY)

	return Transform{
		X:        l.Track("x").ValueAt(t, l.X),
		Y:        l.Track("y").ValueAt(t, l.Y),
		ScaleX:   scale * scaleX,
		ScaleY:   scale * scaleY,
		Rotation: l.Track("rotation").ValueAt(t, l.Rotation),
		Opacity:  l.Track("opacity").ValueAt(t, l.Opacity),
		FlipH:    l.Track("flip_h").ValueAt(t, l.FlipH) > 0.5,
		FlipV:    l.Track("flip_v").ValueAt(t, l.FlipV) > 0.5,
	}
}
