package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
	outline    bool
}

// WithScale sets the PNG scale factor (default 1.0).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGBackground overrides the composition's background colour.
func WithPNGBackground(hex string) PNGOption { return func(r *pngRenderer) { r.background = hex } }

// WithPNGOutline strokes every fragment.
func WithPNGOutline() PNGOption { return func(r *pngRenderer) { r.outline = true } }

// RenderPNG rasterizes c with placeholder colours.
func RenderPNG(c collage.Composition, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, background: c.Background}
	for _, opt := range opts {
		opt(&r)
	}

	w := int(math.Ceil(c.Canvas.Width * r.scale))
	h := int(math.Ceil(c.Canvas.Height * r.scale))
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.Scale(r.scale, r.scale)

	bg := background(r.background)
	dc.SetRGB(bg.R, bg.G, bg.B)
	dc.Clear()

	for _, f := range c.Fragments {
		dc.Push()
		if f.Rotation != 0 {
			cx, cy := f.Center()
			dc.RotateAbout(f.Rotation, cx, cy)
		}
		col := ImageColor(f.SourceImageRef)
		dc.DrawRectangle(f.X, f.Y, f.Width, f.Height)
		dc.SetRGBA(col.R, col.G, col.B, Opacity(f))
		if r.outline {
			dc.FillPreserve()
			dc.SetRGB(0.2, 0.2, 0.2)
			dc.SetLineWidth(1 / r.scale)
			dc.Stroke()
		} else {
			dc.Fill()
		}
		dc.Pop()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
