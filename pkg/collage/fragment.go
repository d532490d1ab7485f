package collage

import (
	"encoding/json"
	"maps"
	"math"
)

// =============================================================================
// Fragment
// =============================================================================

// Fragment is one placed piece of a source image.
//
// X and Y locate the top-left corner before rotation. Rotation is applied
// about the centre. Depth orders drawing: higher depth is drawn later and
// appears in front.
//
// JSON keys that are not fields of Fragment are kept in Extra and written
// back unchanged, so renderer-specific properties survive a round trip
// through the engine.
type Fragment struct {
	SourceImageRef   int      `json:"source_image_ref"`
	X                float64  `json:"x"`
	Y                float64  `json:"y"`
	Width            float64  `json:"width"`
	Height           float64  `json:"height"`
	Rotation         float64  `json:"rotation"`
	Depth            float64  `json:"depth"`
	Mask             *Mask    `json:"mask,omitempty"`
	MaskName         string   `json:"mask_name,omitempty"`
	ForceFullOpacity bool     `json:"force_full_opacity,omitempty"`
	IsCloned         bool     `json:"is_cloned,omitempty"`
	Opacity          *float64 `json:"opacity,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Mask describes the clipping shape a renderer should apply.
type Mask struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type,omitempty"`
}

// Area returns Width*Height.
func (f Fragment) Area() float64 { return f.Width * f.Height }

// Center returns the fragment centre point.
func (f Fragment) Center() (x, y float64) { return f.X + f.Width/2, f.Y + f.Height/2 }

// Rect returns the unrotated box.
func (f Fragment) Rect() Rect { return Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height} }

// Bounds returns the axis-aligned box enclosing the rotated fragment.
func (f Fragment) Bounds() Rect {
	if f.Rotation == 0 {
		return f.Rect()
	}
	cx, cy := f.Center()
	sin, cos := math.Sincos(f.Rotation)
	hw := math.Abs(f.Width/2*cos) + math.Abs(f.Height/2*sin)
	hh := math.Abs(f.Width/2*sin) + math.Abs(f.Height/2*cos)
	return Rect{X: cx - hw, Y: cy - hh, Width: 2 * hw, Height: 2 * hh}
}

// Clone returns a deep copy that shares no pointers or maps with f.
func (f Fragment) Clone() Fragment {
	c := f
	if f.Mask != nil {
		m := *f.Mask
		c.Mask = &m
	}
	if f.Opacity != nil {
		o := *f.Opacity
		c.Opacity = &o
	}
	if f.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(f.Extra))
		for k, v := range f.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// CloneFragments deep-copies a list.
func CloneFragments(fs []Fragment) []Fragment {
	out := make([]Fragment, len(fs))
	for i, f := range fs {
		out[i] = f.Clone()
	}
	return out
}

// Float returns a pointer to v, for optional fields such as Opacity.
func Float(v float64) *float64 { return &v }

// =============================================================================
// JSON
// =============================================================================

type fragmentFields Fragment

var knownFragmentKeys = []string{
	"source_image_ref", "x", "y", "width", "height", "rotation", "depth",
	"mask", "mask_name", "force_full_opacity", "is_cloned", "opacity",
}

// MarshalJSON writes the known fields followed by any preserved extras.
func (f Fragment) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(fragmentFields(f))
	if err != nil || len(f.Extra) == 0 {
		return data, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	for k, v := range f.Extra {
		if _, ok := obj[k]; !ok {
			obj[k] = v
		}
	}
	return json.Marshal(obj)
}

// UnmarshalJSON reads the known fields and keeps every other key in Extra.
func (f *Fragment) UnmarshalJSON(data []byte) error {
	var fields fragmentFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	for _, k := range knownFragmentKeys {
		delete(obj, k)
	}
	fields.Extra = nil
	if len(obj) > 0 {
		fields.Extra = maps.Clone(obj)
	}
	*f = Fragment(fields)
	return nil
}
