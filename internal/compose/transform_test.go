package compose

import (
	"testing"

	"github.com/ivolkov/animframe/internal/anim"
	"github.com/ivolkov/animframe/internal/timeline"
)

func TestResolveTransformStaticsAndTracks(t *testing.T) {
	layer := anim.Layer{
		ID:      "a",
		Kind:    anim.KindForeground,
		X:       5,
		Y:       -3,
		Scale:   2,
		ScaleX:  1,
		ScaleY:  0.5,
		Opacity: 0.8,
		Keyframes: map[string]*timeline.Track{
			"x": timeline.NewTrack([]timeline.Sample{
				{Time: 0, Value: 0},
				{Time: 2, Value: 100},
			}),
		},
	}

	tr := resolveTransform(&layer, 1.0)

	if tr.X != 50 {
		t.Errorf("tracked x = %v, want 50", tr.X)
	}
	if tr.Y != -3 {
		t.Errorf("static y = %v, want -3", tr.Y)
	}
	// Uniform and per-axis scales compose multiplicatively.
	if tr.ScaleX != 2 || tr.ScaleY != 1 {
		t.Errorf("effective scale = (%v,%v), want (2,1)", tr.ScaleX, tr.ScaleY)
	}
	if tr.Opacity != 0.8 {
		t.Errorf("opacity = %v, want 0.8", tr.Opacity)
	}
}

func TestResolveTransformFlipThreshold(t *testing.T) {
	tests := []struct {
		value float64
		want  bool
	}{
		{0, false},
		{0.5, false}, // strictly greater than 0.5 flips
		{0.51, true},
		{1, true},
	}

	for _, tt := range tests {
		layer := anim.Layer{FlipH: tt.value, Scale: 1, ScaleX: 1, ScaleY: 1, Opacity: 1}
		if got := resolveTransform(&layer, 0).FlipH; got != tt.want {
			t.Errorf("flip_h=%v: resolved %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestResolveTransformTrackOverHalfFlips(t *testing.T) {
	layer := anim.Layer{
		Scale: 1, ScaleX: 1, ScaleY: 1, Opacity: 1,
		Keyframes: map[string]*timeline.Track{
			"flip_v": timeline.NewTrack([]timeline.Sample{
				{Time: 0, Value: 0},
				{Time: 1, Value: 1},
			}),
		},
	}

	if resolveTransform(&layer, 0.25).FlipV {
		t.Error("flip_v at 0.25 resolves to 0.25, should not flip")
	}
	if !resolveTransform(&layer, 0.75).FlipV {
		t.Error("flip_v at 0.75 resolves to 0.75, should flip")
	}
}

func TestResolveTransformEmptyTrackFallsBack(t *testing.T) {
	layer := anim.Layer{
		Rotation: 45, Scale: 1, ScaleX: 1, ScaleY: 1, Opacity: 1,
		Keyframes: map[string]*timeline.Track{
			"rotation": timeline.NewTrack(nil),
		},
	}
	if got := resolveTransform(&layer, 0).Rotation; got != 45 {
		t.Errorf("rotation = %v, want static fallback 45", got)
	}
}
