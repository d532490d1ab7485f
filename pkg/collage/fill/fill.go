package fill

import (
	"cmp"
	"io"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/collage/scale"
)

// Defaults applied by Fill for zero option values.
const (
	DefaultTargetBlankRatio = 0.03
	DefaultMaxIterations    = 10
	DefaultMinBlankAreaSize = 1000
)

// Clone placement tuning.
const (
	// Jitter is the largest offset, in pixels per axis, from the centred
	// position of a clone.
	Jitter = 10.0
	// CloneOpacity is used when the source has no opacity of its own.
	CloneOpacity = 0.95
	// MaxTiltChange is the largest rotation change of a clone, in radians.
	MaxTiltChange = 2.5 * math.Pi / 180
)

// Options configures Fill. Zero numeric values select the defaults.
type Options struct {
	// TargetBlankRatio stops the loop once the blank ratio is at or below
	// it. A negative value never stops the loop, so filling runs until
	// another stop condition holds.
	TargetBlankRatio float64
	// MaxIterations caps the number of clones. A negative value disables
	// filling.
	MaxIterations int
	// MinBlankAreaSize is the smallest blank region, in px², worth filling.
	// Non-positive values select the default.
	MinBlankAreaSize float64

	// Rand drives source selection and jitter. Nil uses an unseeded source.
	Rand *rand.Rand
	// Logger receives one debug line per iteration. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		TargetBlankRatio: DefaultTargetBlankRatio,
		MaxIterations:    DefaultMaxIterations,
		MinBlankAreaSize: DefaultMinBlankAreaSize,
	}
}

func (o *Options) setDefaults() {
	if o.TargetBlankRatio == 0 {
		o.TargetBlankRatio = DefaultTargetBlankRatio
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.MinBlankAreaSize <= 0 {
		o.MinBlankAreaSize = DefaultMinBlankAreaSize
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Result is the outcome of Fill.
type Result struct {
	// Filled holds deep copies of the input fragments followed by the
	// clones, in insertion order.
	Filled            []collage.Fragment `json:"filled_elements"`
	InitialBlankRatio float64            `json:"initial_blank_ratio"`
	FinalBlankRatio   float64            `json:"final_blank_ratio"`
	Iterations        int                `json:"iterations"`
	// History is the blank ratio after each kept clone.
	History []float64 `json:"history,omitempty"`
}

// Fill clones existing fragments into the largest blank regions of the
// canvas until the blank ratio reaches the target, the iteration cap is hit,
// no region or source is left, or a clone fails to lower the ratio.
//
// The clone that fails to lower the ratio is removed before Fill returns,
// unlike a plain append-then-check loop. Filled therefore always holds
// len(elements)+Iterations fragments, and FinalBlankRatio matches the last
// History entry.
func Fill(c collage.Canvas, elements []collage.Fragment, opts Options) Result {
	opts.setDefaults()
	rng, logger := opts.Rand, opts.Logger

	working := collage.CloneFragments(elements)
	ratio := BlankRatio(c, working)
	res := Result{InitialBlankRatio: ratio}

	for ratio > opts.TargetBlankRatio && res.Iterations < opts.MaxIterations {
		rect, ok := LargestBlankRect(c, working, opts.MinBlankAreaSize)
		if !ok {
			logger.Debug("no blank region left", "ratio", ratio)
			break
		}
		src, ok := pickSource(rng, working)
		if !ok {
			logger.Debug("no source fragment", "ratio", ratio)
			break
		}
		clone, err := cloneInto(rng, src, rect)
		if err != nil {
			logger.Debug("skip degenerate source", "err", err)
			break
		}

		working = append(working, clone)
		next := BlankRatio(c, working)
		if next >= ratio {
			working = working[:len(working)-1]
			logger.Debug("clone did not reduce blank space", "ratio", ratio, "with_clone", next)
			break
		}
		logger.Debug("filled blank region",
			"iteration", res.Iterations+1,
			"rect", rect,
			"ratio", ratio,
			"new_ratio", next)
		ratio = next
		res.Iterations++
		res.History = append(res.History, ratio)
	}

	res.Filled = working
	res.FinalBlankRatio = ratio
	return res
}

// pickSource prefers fragments that are not clones themselves and draws
// uniformly from the larger half by area.
func pickSource(rng *rand.Rand, working []collage.Fragment) (collage.Fragment, bool) {
	pool := make([]collage.Fragment, 0, len(working))
	for _, f := range working {
		if !f.IsCloned {
			pool = append(pool, f)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, working...)
	}
	if len(pool) == 0 {
		return collage.Fragment{}, false
	}
	slices.SortStableFunc(pool, func(a, b collage.Fragment) int {
		return cmp.Compare(b.Area(), a.Area())
	})
	half := pool[:(len(pool)+1)/2]
	return half[rng.IntN(len(half))], true
}

// cloneInto sizes src to cover rect and centres it there with jitter. All
// pass-through fields are copied; the anchor flag is not, so a composition
// keeps a single anchor.
func cloneInto(rng *rand.Rand, src collage.Fragment, rect collage.Rect) (collage.Fragment, error) {
	s, err := scale.ToCover(src.Width, src.Height, rect.Width, rect.Height)
	if err != nil {
		return collage.Fragment{}, err
	}

	clone := src.Clone()
	clone.Width, clone.Height = s.Width, s.Height
	clone.X = rect.X + (rect.Width-s.Width)/2 + (rng.Float64()-0.5)*2*Jitter
	clone.Y = rect.Y + (rect.Height-s.Height)/2 + (rng.Float64()-0.5)*2*Jitter

	opacity := CloneOpacity
	if src.Opacity != nil && *src.Opacity != 0 {
		opacity = *src.Opacity * collage.Uniform(rng, 0.9, 1)
	}
	clone.Opacity = collage.Float(opacity)

	clone.Rotation = 0
	if src.Rotation != 0 {
		clone.Rotation = src.Rotation + (rng.Float64()-0.5)*2*MaxTiltChange
	}

	clone.IsCloned = true
	clone.ForceFullOpacity = false
	return clone, nil
}
