package placement

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/collage/size"
)

// Planner tuning.
const (
	// EdgeBias is the margin, as a canvas fraction, kept clear by biased draws.
	EdgeBias = 0.05
	// EdgeBiasChance is how often a fragment uses EdgeBias.
	EdgeBiasChance = 0.3
	// CenterPull moves each sampled position this fraction toward the centre.
	CenterPull = 0.05

	// MaxRotation caps the rotation the planner assigns, in radians.
	MaxRotation = 0.15
	// TiltChance is how often a fragment is rotated at all.
	TiltChance = 0.25

	// BleedOverflow lets a fragment hang 95% of its size past the edge.
	BleedOverflow = 0.95
	// DefaultOverflow lets a fragment hang 75% of its size past the edge.
	DefaultOverflow = 0.75
	// BleedChance is how often BleedOverflow is chosen.
	BleedChance = 0.4

	// MaxAttempts bounds the crowding retries per fragment.
	MaxAttempts = 20
)

// Params configures Plan.
type Params struct {
	Variation       collage.Variation
	AllowRepetition bool

	// Usage, if set, receives one Record call per placed fragment. With
	// repetition allowed and a positive MaxRepeats it also steers picks
	// toward less used images.
	Usage *collage.Usage
}

// Plan places n fragments drawing from imageCount source images. The result
// is unsorted and carries depths in [0, 1). It is empty when n or
// imageCount is not positive.
func Plan(rng *rand.Rand, c collage.Canvas, n, imageCount int, p Params) []collage.Fragment {
	frags := make([]collage.Fragment, 0, max(n, 0))
	if n <= 0 || imageCount <= 0 {
		return frags
	}

	images := newPicker(rng, imageCount, p.AllowRepetition, p.Usage)
	for range n {
		x, y := samplePosition(rng, c)

		var rotation float64
		if rng.Float64() >= 1-TiltChance {
			rotation = collage.Sign(rng) * rng.Float64() * MaxRotation
		}

		dims := size.Sample(rng, p.Variation, c, x, y)

		overflow := DefaultOverflow
		if rng.Float64() < BleedChance {
			overflow = BleedOverflow
		}

		x, y = spread(rng, c, frags, x, y, dims, overflow)

		frags = append(frags, collage.Fragment{
			SourceImageRef: images.pick(),
			X:              x,
			Y:              y,
			Width:          dims.Width,
			Height:         dims.Height,
			Rotation:       rotation,
			Depth:          rng.Float64(),
		})
	}
	return frags
}

func samplePosition(rng *rand.Rand, c collage.Canvas) (x, y float64) {
	bias := 0.0
	if rng.Float64() < EdgeBiasChance {
		bias = EdgeBias
	}
	x = collage.Uniform(rng, bias, 1-bias) * c.Width
	y = collage.Uniform(rng, bias, 1-bias) * c.Height

	cx, cy := c.Center()
	x += (cx - x) * CenterPull
	y += (cy - y) * CenterPull
	return x, y
}

// spread clamps the candidate into the overflow band and pushes it away from
// crowded neighbours. The final position is returned even when the last
// attempt still crowds a neighbour.
func spread(rng *rand.Rand, c collage.Canvas, placed []collage.Fragment, x, y float64, d size.Dims, overflow float64) (float64, float64) {
	minDistance := max(d.Width, d.Height) * 1.1

	for range MaxAttempts {
		x = clamp(x, -d.Width*overflow, c.Width-d.Width*(1-overflow))
		y = clamp(y, -d.Height*overflow, c.Height-d.Height*(1-overflow))

		crowded := false
		for _, other := range placed {
			ox, oy := other.Center()
			dx := x + d.Width/2 - ox
			dy := y + d.Height/2 - oy
			if math.Hypot(dx, dy) >= requiredDistance(d.Width, other.Width) {
				continue
			}
			crowded = true
			if dx == 0 {
				dx = 0.1
			}
			if dy == 0 {
				dy = 0.1
			}
			push := minDistance * 1.8 * collage.Uniform(rng, 0.8, 1.2)
			mag := math.Hypot(dx, dy)
			x += dx / mag * push
			y += dy / mag * push
			break
		}
		if !crowded {
			break
		}
	}
	return x, y
}

// requiredDistance is the centre spacing two fragments of the given widths
// need. Very different sizes may overlap more.
func requiredDistance(w, other float64) float64 {
	ratio := max(w/other, other/w)
	factor := 0.9
	if ratio > 2.5 {
		factor = 0.4
	}
	return (w + other) * factor
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
