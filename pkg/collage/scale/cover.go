// Package scale fits mask shapes into fragment boxes.
package scale

import "github.com/matzehuels/assemblage/pkg/errors"

const (
	// DefaultMaxZoom caps how far a mask may be enlarged.
	DefaultMaxZoom = 2.0

	// Coverage is the fraction of the target box the constraining axis fills.
	Coverage = 0.9
)

// Size is a scaled width and height.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Option configures ToCover.
type Option func(*options)

type options struct {
	maxZoom float64
}

// WithMaxZoom overrides [DefaultMaxZoom]. Non-positive values are ignored.
func WithMaxZoom(z float64) Option {
	return func(o *options) {
		if z > 0 {
			o.maxZoom = z
		}
	}
}

// ToCover sizes a mask of maskW×maskH for a target box of targetW×targetH.
// The fit is contain-style, not cover-style: the mask keeps its aspect
// ratio and the constraining axis spans 90% of the target, so the result
// always lies inside the box.
//
// When the mask is relatively wider than the target, the target width
// constrains; otherwise the target height does. The scale factor never
// exceeds the max zoom, so small masks are not blown up past it.
//
// Any dimension that is not strictly positive yields an INVALID_DIMENSIONS
// error with the message "all dimensions must be positive".
func ToCover(maskW, maskH, targetW, targetH float64, opts ...Option) (Size, error) {
	if err := errors.ValidateDimensions(maskW, maskH, targetW, targetH); err != nil {
		return Size{}, err
	}
	o := options{maxZoom: DefaultMaxZoom}
	for _, opt := range opts {
		opt(&o)
	}

	var factor float64
	if maskW/maskH > targetW/targetH {
		factor = targetW * Coverage / maskW
	} else {
		factor = targetH * Coverage / maskH
	}
	factor = min(factor, o.maxZoom)

	return Size{Width: maskW * factor, Height: maskH * factor}, nil
}
