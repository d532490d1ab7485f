package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	images     []string
	background string
	outline    bool
}

// WithImages makes fragment i reference images[SourceImageRef] instead of a
// placeholder colour. Out-of-range refs fall back to the placeholder.
func WithImages(urls []string) SVGOption { return func(r *svgRenderer) { r.images = urls } }

// WithBackground overrides the composition's background colour.
func WithBackground(hex string) SVGOption { return func(r *svgRenderer) { r.background = hex } }

// WithOutline strokes every fragment, which helps when inspecting layouts.
func WithOutline() SVGOption { return func(r *svgRenderer) { r.outline = true } }

// RenderSVG renders c as a standalone SVG document.
func RenderSVG(c collage.Composition, opts ...SVGOption) []byte {
	r := svgRenderer{background: c.Background}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		c.Canvas.Width, c.Canvas.Height, c.Canvas.Width, c.Canvas.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", background(r.background).Hex())

	for i, f := range c.Fragments {
		r.renderFragment(&buf, i, f)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderFragment(buf *bytes.Buffer, i int, f collage.Fragment) {
	cx, cy := f.Center()
	fmt.Fprintf(buf, `  <g id="fragment-%d" data-image="%d" opacity="%.3f"`, i, f.SourceImageRef, Opacity(f))
	if f.Rotation != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%.3f %.2f %.2f)"`, f.Rotation*180/math.Pi, cx, cy)
	}
	if f.Mask != nil && f.Mask.Enabled {
		fmt.Fprintf(buf, ` data-mask="%s"`, html.EscapeString(f.Mask.Type))
	}
	if f.IsCloned {
		buf.WriteString(` data-cloned="true"`)
	}
	buf.WriteString(">\n")

	if url, ok := r.imageURL(f.SourceImageRef); ok {
		fmt.Fprintf(buf, `    <image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
			html.EscapeString(url), f.X, f.Y, f.Width, f.Height)
	} else {
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			f.X, f.Y, f.Width, f.Height, ImageColor(f.SourceImageRef).Hex())
	}
	if r.outline {
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#333333" stroke-width="1"/>`+"\n",
			f.X, f.Y, f.Width, f.Height)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) imageURL(ref int) (string, bool) {
	if ref < 0 || ref >= len(r.images) || r.images[ref] == "" {
		return "", false
	}
	return r.images[ref], true
}
