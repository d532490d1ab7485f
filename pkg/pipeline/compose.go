package pipeline

import (
	"math/rand/v2"

	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/collage/depth"
	"github.com/matzehuels/assemblage/pkg/collage/fill"
	"github.com/matzehuels/assemblage/pkg/collage/mask"
	"github.com/matzehuels/assemblage/pkg/collage/placement"
	"github.com/matzehuels/assemblage/pkg/collage/sink"
)

// fillStream separates the fill random stream from the compose stream so
// refilling a composition never replays its placement draws.
const fillStream = 0x9e3779b97f4a7c15

// =============================================================================
// Compose
// =============================================================================

// Compose generates a composition: fragment count, placement, depth
// processing, masks and a background colour, all drawn from one stream
// seeded by opts.Seed. Options must already carry defaults.
//
// Picks are recorded in opts.Usage when one is attached.
func Compose(opts Options) (collage.Composition, error) {
	v, err := collage.ParseVariation(opts.Variation)
	if err != nil {
		return collage.Composition{}, err
	}
	c := opts.Canvas()
	if err := c.Validate(); err != nil {
		return collage.Composition{}, err
	}

	rng := collage.NewRand(opts.Seed)
	n := placement.FragmentCount(rng, opts.ImageCount, opts.Complexity, opts.MaxFragments)
	frags := placement.Plan(rng, c, n, opts.ImageCount, placement.Params{
		Variation:       v,
		AllowRepetition: !opts.NoRepetition,
		Usage:           opts.Usage,
	})
	frags = depth.Process(rng, frags, v)
	if !opts.NoMasks {
		mask.Assign(rng, frags)
	}

	return collage.Composition{
		Canvas:     c,
		Variation:  v,
		Seed:       opts.Seed,
		ImageCount: opts.ImageCount,
		Background: sink.PickBackground(rng),
		Fragments:  frags,
		BlankRatio: fill.BlankRatio(c, frags),
	}, nil
}

// =============================================================================
// Fill
// =============================================================================

// FillComposition runs the negative-space filler over comp and returns the
// updated composition with the filler's result. comp is not modified.
func FillComposition(comp collage.Composition, opts Options) (collage.Composition, fill.Result) {
	res := fill.Fill(comp.Canvas, comp.Fragments, fill.Options{
		TargetBlankRatio: opts.TargetBlankRatio,
		MaxIterations:    opts.MaxIterations,
		MinBlankAreaSize: opts.MinBlankAreaSize,
		Rand:             fillRand(opts.Seed),
		Logger:           opts.Logger,
	})

	out := comp
	out.Fragments = res.Filled
	out.InitialBlankRatio = res.InitialBlankRatio
	out.BlankRatio = res.FinalBlankRatio
	out.FillIterations = comp.FillIterations + res.Iterations
	return out, res
}

func fillRand(seed uint64) *rand.Rand {
	return collage.NewRand(seed ^ fillStream)
}
