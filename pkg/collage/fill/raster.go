package fill

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// SampleStride is the pixel step of the blank-ratio sampler.
const SampleStride = 4

// BlankRatio returns the estimated share of the canvas not covered by any
// fragment, in [0, 1]. No fragments yields 1.
func BlankRatio(c collage.Canvas, frags []collage.Fragment) float64 {
	w, h := c.Pixels()
	if len(frags) == 0 || w <= 0 || h <= 0 {
		return 1
	}

	// A fresh context is transparent black, which reads as blank.
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	for _, f := range frags {
		dc.Push()
		if f.Rotation != 0 {
			cx, cy := f.Center()
			dc.RotateAbout(f.Rotation, cx, cy)
		}
		dc.DrawRectangle(f.X, f.Y, f.Width, f.Height)
		dc.Fill()
		dc.Pop()
	}
	return blankShare(dc.Image(), w*h)
}

func blankShare(img image.Image, total int) float64 {
	blank := 0
	if rgba, ok := img.(*image.RGBA); ok {
		for i := 0; i < len(rgba.Pix); i += 4 * SampleStride {
			if rgba.Pix[i] == 0 {
				blank += SampleStride
			}
		}
	} else {
		b := img.Bounds()
		n := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if n%SampleStride == 0 {
					if r, _, _, _ := img.At(x, y).RGBA(); r == 0 {
						blank += SampleStride
					}
				}
				n++
			}
		}
	}
	return min(1, float64(blank)/float64(total))
}
