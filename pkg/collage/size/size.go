// Package size draws fragment dimensions for each collage variation.
//
// Every model picks a size bucket (a fraction range of the canvas), then
// stretches width and height independently so fragments vary in aspect.
// Widths are fractions of the canvas width and heights fractions of the
// canvas height.
package size

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// Dims is a fragment width and height in canvas pixels.
type Dims struct {
	Width  float64
	Height float64
}

// Bucket is a range of canvas fractions.
type Bucket struct {
	Lo, Hi float64
}

// Size buckets shared by all variations.
var (
	Small  = Bucket{0.15, 0.25}
	Medium = Bucket{0.20, 0.25}
	Large  = Bucket{0.35, 0.50}
)

// draw returns a value in [Lo, Hi).
func (b Bucket) draw(rng *rand.Rand) float64 { return collage.Uniform(rng, b.Lo, b.Hi) }

// at interpolates the bucket at t in [0, 1].
func (b Bucket) at(t float64) float64 { return b.Lo + t*(b.Hi-b.Lo) }

// FocalRadius is the normalized centre distance inside which Focal favours
// medium and large fragments.
const FocalRadius = 0.3

// Sample dispatches to the model for v. (x, y) is the fragment position and
// only matters for [collage.Focal].
func Sample(rng *rand.Rand, v collage.Variation, c collage.Canvas, x, y float64) Dims {
	switch v {
	case collage.Organic:
		return Organic(rng, c)
	case collage.Focal:
		return Focal(rng, c, x, y)
	default:
		return Classic(rng, c)
	}
}

// Classic draws small 30%, medium 50%, large 10%, and medium for the rest,
// each axis then scaled by an independent factor in [0.6, 1.0).
func Classic(rng *rand.Rand, c collage.Canvas) Dims {
	var base float64
	switch r := rng.Float64(); {
	case r < 0.3:
		base = Small.draw(rng)
	case r < 0.8:
		base = Medium.draw(rng)
	case r < 0.9:
		base = Large.draw(rng)
	default:
		base = Medium.draw(rng)
	}
	return stretch(rng, c, base, 0.6)
}

// Organic draws small 35%, medium 50%, large 10%, and medium for the rest,
// with per-axis factors in [0.5, 1.0).
func Organic(rng *rand.Rand, c collage.Canvas) Dims {
	var base float64
	switch r := rng.Float64(); {
	case r < 0.35:
		base = Small.draw(rng)
	case r < 0.85:
		base = Medium.draw(rng)
	case r < 0.95:
		base = Large.draw(rng)
	default:
		base = Medium.draw(rng)
	}
	return stretch(rng, c, base, 0.5)
}

// Focal sizes by distance from the canvas centre. With d the distance in
// normalized coordinates, fragments within [FocalRadius] are medium 60%,
// large 30%, medium 10%; farther ones are small 70%, medium 30%. Within a
// bucket the fraction grows as d shrinks. Per-axis factors are in [0.6, 1.0).
func Focal(rng *rand.Rand, c collage.Canvas, x, y float64) Dims {
	d := math.Hypot(x/c.Width-0.5, y/c.Height-0.5)
	closeness := max(0, 1-d)

	var b Bucket
	r := rng.Float64()
	if d < FocalRadius {
		switch {
		case r < 0.6:
			b = Medium
		case r < 0.9:
			b = Large
		default:
			b = Medium
		}
	} else {
		if r < 0.7 {
			b = Small
		} else {
			b = Medium
		}
	}
	return stretch(rng, c, b.at(closeness), 0.6)
}

func stretch(rng *rand.Rand, c collage.Canvas, base, minFactor float64) Dims {
	return Dims{
		Width:  c.Width * base * collage.Uniform(rng, minFactor, 1),
		Height: c.Height * base * collage.Uniform(rng, minFactor, 1),
	}
}
