package timeline

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Sample is a single keyframe: the value of one animatable property at a
// specific moment (seconds from the start of the animation).
type Sample struct {
	Time  float64
	Value float64
}

// Track holds the ordered keyframe samples of one property. Tracks are
// built either directly via NewTrack or by unmarshalling an animation
// description; malformed entries are dropped at construction and counted,
// never treated as zeroes.
type Track struct {
	samples   []Sample
	discarded int
}

// NewTrack builds a track from raw samples. Input order is not trusted:
// samples are stably sorted by time, so duplicate times keep their
// original relative order. Samples with a NaN or infinite time or value
// are discarded.
func NewTrack(samples []Sample) *Track {
	t := &Track{}
	for _, s := range samples {
		if !finite(s.Time) || !finite(s.Value) {
			t.discarded++
			continue
		}
		t.samples = append(t.samples, s)
	}
	sort.SliceStable(t.samples, func(i, j int) bool {
		return t.samples[i].Time < t.samples[j].Time
	})
	return t
}

// Len reports the number of valid samples.
func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.samples)
}

// Discarded reports how many entries were dropped during construction
// because they were not well-formed {time, value} records.
func (t *Track) Discarded() int {
	if t == nil {
		return 0
	}
	return t.discarded
}

// ValueAt evaluates the track at the given time. Times before the first
// sample clamp to the first value, times after the last clamp to the last
// value, and times in between interpolate linearly between the bracketing
// pair. A track with no valid samples yields def.
func (t *Track) ValueAt(time, def float64) float64 {
	if t == nil || len(t.samples) == 0 {
		return def
	}

	first := t.samples[0]
	if time <= first.Time {
		return first.Value
	}
	last := t.samples[len(t.samples)-1]
	if time >= last.Time {
		return last.Value
	}

	for i := 0; i < len(t.samples)-1; i++ {
		k1, k2 := t.samples[i], t.samples[i+1]
		if k1.Time <= time && time <= k2.Time {
			span := k2.Time - k1.Time
			ratio := 0.0
			if span > 0 {
				ratio = (time - k1.Time) / span
			}
			return k1.Value + (k2.Value-k1.Value)*ratio
		}
	}
	return def
}

// UnmarshalJSON accepts the wire form of a track: a list of objects each
// carrying numeric "time" and "value" fields. Entries of any other shape
// are discarded individually; a non-list payload yields an empty track
// counted as one discard.
func (t *Track) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = Track{discarded: 1}
		return nil
	}

	var samples []Sample
	discarded := 0
	for _, entry := range raw {
		var fields struct {
			Time  *flexFloat `json:"time"`
			Value *flexFloat `json:"value"`
		}
		if err := json.Unmarshal(entry, &fields); err != nil || fields.Time == nil || fields.Value == nil {
			discarded++
			continue
		}
		samples = append(samples, Sample{Time: float64(*fields.Time), Value: float64(*fields.Value)})
	}

	*t = *NewTrack(samples)
	t.discarded += discarded
	return nil
}

// MarshalJSON emits the wire form of the track: a time-ordered list of
// {time, value} objects.
func (t *Track) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire())
}

// MarshalYAML mirrors MarshalJSON for YAML descriptions.
func (t *Track) MarshalYAML() (interface{}, error) {
	return t.wire(), nil
}

func (t *Track) wire() []wireSample {
	out := make([]wireSample, 0, len(t.samples))
	for _, s := range t.samples {
		out = append(out, wireSample{Time: s.Time, Value: s.Value})
	}
	return out
}

type wireSample struct {
	Time  float64 `json:"time" yaml:"time"`
	Value float64 `json:"value" yaml:"value"`
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML descriptions.
func (t *Track) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		*t = Track{discarded: 1}
		return nil
	}

	var samples []Sample
	discarded := 0
	for _, entry := range node.Content {
		var fields struct {
			Time  *flexFloat `yaml:"time"`
			Value *flexFloat `yaml:"value"`
		}
		if err := entry.Decode(&fields); err != nil || fields.Time == nil || fields.Value == nil {
			discarded++
			continue
		}
		samples = append(samples, Sample{Time: float64(*fields.Time), Value: float64(*fields.Value)})
	}

	*t = *NewTrack(samples)
	t.discarded += discarded
	return nil
}

// flexFloat tolerates numbers that arrive as JSON/YAML strings, which UI
// descriptions produce for hand-edited keyframes.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(num)
	return nil
}

func (f *flexFloat) UnmarshalYAML(node *yaml.Node) error {
	var num float64
	if err := node.Decode(&num); err == nil {
		*f = flexFloat(num)
		return nil
	}
	var str string
	if err := node.Decode(&str); err != nil {
		return err
	}
	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(num)
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
