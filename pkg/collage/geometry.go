package collage

import (
	"math"

	"github.com/matzehuels/assemblage/pkg/errors"
)

// Canvas is the drawing area fragments are placed on.
type Canvas struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// MaxCanvasSide bounds each canvas side so coverage rasters stay small.
const MaxCanvasSide = 8192.0

// Validate reports an INVALID_DIMENSIONS error unless both sides are
// positive and no larger than MaxCanvasSide.
func (c Canvas) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return errors.New(errors.ErrCodeInvalidDimensions, "canvas must have positive width and height, got %gx%g", c.Width, c.Height)
	}
	if c.Width > MaxCanvasSide || c.Height > MaxCanvasSide {
		return errors.New(errors.ErrCodeInvalidDimensions, "canvas sides must not exceed %g", MaxCanvasSide)
	}
	return nil
}

// Area returns Width*Height.
func (c Canvas) Area() float64 { return c.Width * c.Height }

// Center returns the canvas centre point.
func (c Canvas) Center() (x, y float64) { return c.Width / 2, c.Height / 2 }

// Pixels returns the raster size covering the canvas.
func (c Canvas) Pixels() (w, h int) {
	return int(math.Ceil(c.Width)), int(math.Ceil(c.Height))
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Center returns the rectangle centre point.
func (r Rect) Center() (x, y float64) { return r.X + r.Width/2, r.Y + r.Height/2 }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Intersects reports whether r and o share a region of positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}
