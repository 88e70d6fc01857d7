package anim

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ivolkov/animframe/internal/timeline"
)

// Layer kinds. The kind decides sizing semantics: backgrounds honor a
// fit/fill/stretch mode against the canvas, foregrounds scale from their
// own pixel dimensions.
const (
	KindBackground = "background"
	KindForeground = "foreground"
)

// Background sizing modes.
const (
	BGFit     = "fit"
	BGFill    = "fill"
	BGStretch = "stretch"
)

// Project holds the render-wide settings of an animation. It is treated
// as immutable for the duration of a render call.
type Project struct {
	Width         int     `json:"width" yaml:"width"`
	Height        int     `json:"height" yaml:"height"`
	FPS           int     `json:"fps" yaml:"fps"`
	TotalFrames   int     `json:"total_frames" yaml:"total_frames"`
	Duration      float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	MaskExpansion int     `json:"mask_expansion" yaml:"mask_expansion"`
	MaskFeather   int     `json:"mask_feather" yaml:"mask_feather"`
}

// normalize fills the derived and defaulted fields the same way the wire
// format does: missing dimensions fall back to 512, FPS to 30, and
// total_frames/duration derive from each other.
func (p *Project) normalize() {
	if p.Width <= 0 {
		p.Width = 512
	}
	if p.Height <= 0 {
		p.Height = 512
	}
	if p.FPS <= 0 {
		p.FPS = 30
	}
	if p.TotalFrames <= 0 {
		if p.Duration > 0 {
			p.TotalFrames = int(p.Duration * float64(p.FPS))
		}
		if p.TotalFrames < 1 {
			p.TotalFrames = 1
		}
	}
	if p.Duration <= 0 {
		p.Duration = float64(p.TotalFrames) / float64(p.FPS)
	}
}

// Layer describes one still raster plus its animation data. The position
// of a layer in Animation.Layers is its z-order: earlier layers are drawn
// first and overdrawn by later ones. The renderer never reorders layers.
type Layer struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind string `json:"type" yaml:"type"`

	// ImageData references the layer raster: a base64 data URI or a file
	// path, resolved by the source decoder.
	ImageData string `json:"image_data,omitempty" yaml:"image_data,omitempty"`

	// BGMode selects fit/fill/stretch sizing; background layers only.
	BGMode string `json:"bg_mode,omitempty" yaml:"bg_mode,omitempty"`

	// CustomMask optionally references a grayscale raster multiplied into
	// the layer's alpha channel; foreground layers only.
	CustomMask string `json:"customMask,omitempty" yaml:"customMask,omitempty"`

	// Keyframes maps property names (x, y, scale, scale_x, scale_y,
	// rotation, opacity, flip_h, flip_v) to their tracks.
	Keyframes map[string]*timeline.Track `json:"keyframes,omitempty" yaml:"keyframes,omitempty"`

	// Static defaults used when a property has no track (or a track with
	// no valid samples).
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Scale    float64 `json:"scale" yaml:"scale"`
	ScaleX   float64 `json:"scale_x" yaml:"scale_x"`
	ScaleY   float64 `json:"scale_y" yaml:"scale_y"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
	Opacity  float64 `json:"opacity" yaml:"opacity"`
	FlipH    float64 `json:"flip_h" yaml:"flip_h"`
	FlipV    float64 `json:"flip_v" yaml:"flip_v"`
}

// layerDefaults is the zero description of a layer before any fields are
// decoded: multiplicative properties default to 1, backgrounds to fit.
func layerDefaults() Layer {
	return Layer{
		Kind:    KindForeground,
		BGMode:  BGFit,
		Scale:   1,
		ScaleX:  1,
		ScaleY:  1,
		Opacity: 1,
	}
}

func (l *Layer) UnmarshalJSON(data []byte) error {
	type plain Layer
	aux := plain(layerDefaults())
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = Layer(aux)
	l.normalize()
	return nil
}

func (l *Layer) UnmarshalYAML(node *yaml.Node) error {
	type plain Layer
	aux := plain(layerDefaults())
	if err := node.Decode(&aux); err != nil {
		return err
	}
	*l = Layer(aux)
	l.normalize()
	return nil
}

func (l *Layer) normalize() {
	if l.Kind != KindBackground {
		l.Kind = KindForeground
	}
	if l.BGMode == "" {
		l.BGMode = BGFit
	}
}

// Track returns the keyframe track for a property, or nil when none is
// defined.
func (l *Layer) Track(prop string) *timeline.Track {
	if l.Keyframes == nil {
		return nil
	}
	return l.Keyframes[prop]
}

// Animation is a complete declarative animation description.
type Animation struct {
	Project Project `json:"project" yaml:"project"`
	Layers  []Layer `json:"layers" yaml:"layers"`
}

// Decode parses a JSON animation description. The project's derived
// fields are normalized; layer data is left as-is for the renderer to
// resolve (decode failures there drop individual layers, not the whole
// animation).
func Decode(data []byte) (*Animation, error) {
	var a Animation
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("malformed animation description: %w", err)
	}
	a.Project.normalize()
	return &a, nil
}

// DecodeYAML parses a YAML animation description.
func DecodeYAML(data []byte) (*Animation, error) {
	var a Animation
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("malformed animation description: %w", err)
	}
	a.Project.normalize()
	return &a, nil
}
