// Package depth finalises paint order and rotation for planned fragments.
package depth

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/assemblage/pkg/collage"
)

const (
	// Layers is the number of paint strata depths are snapped to.
	Layers = 5
	// LayerJitter is the share of a stratum a depth may move within.
	LayerJitter = 0.8

	// MaxRotation caps rotations after processing, in radians.
	MaxRotation = 0.12
	// TiltChance is how often a fragment keeps a rotation.
	TiltChance = 0.75
	// AnchorUprightChance is how often the front fragment is set upright.
	AnchorUprightChance = 0.7

	// FocalPercentile marks the area threshold of the largest 30% of
	// fragments in the focal pass.
	FocalPercentile = 0.7
	// FocalPromoteChance is how often a large fragment is moved forward.
	FocalPromoteChance = 0.8
	// FocalMinDepth is the lowest depth a promoted fragment gets.
	FocalMinDepth = 0.7
)

// Process snaps depths to strata, rerolls rotations, marks the front-most
// fragment as the opaque anchor and sorts by depth ascending. For
// [collage.Focal] the largest fragments are additionally moved forward and
// straightened. The slice is modified in place and returned.
func Process(rng *rand.Rand, frags []collage.Fragment, v collage.Variation) []collage.Fragment {
	if len(frags) == 0 {
		return frags
	}

	for i := range frags {
		f := &frags[i]
		layer := max(0, min(math.Floor(f.Depth*Layers), Layers-1))
		f.Depth = (layer + rng.Float64()*LayerJitter) / Layers
		f.Rotation = 0
		if rng.Float64() < TiltChance {
			f.Rotation = collage.Sign(rng) * rng.Float64() * MaxRotation
		}
		f.ForceFullOpacity = false
	}

	anchor := 0
	for i := range frags {
		if frags[i].Depth > frags[anchor].Depth {
			anchor = i
		}
	}
	frags[anchor].ForceFullOpacity = true
	if rng.Float64() < AnchorUprightChance {
		frags[anchor].Rotation = 0
	}

	sortByDepth(frags)

	if v == collage.Focal {
		promoteLargest(rng, frags)
		sortByDepth(frags)
	}
	return frags
}

func promoteLargest(rng *rand.Rand, frags []collage.Fragment) {
	areas := make([]float64, len(frags))
	for i, f := range frags {
		areas[i] = f.Area()
	}
	slices.Sort(areas)
	threshold := stat.Quantile(FocalPercentile, stat.Empirical, areas, nil)

	for i := range frags {
		f := &frags[i]
		if f.Area() < threshold || rng.Float64() >= FocalPromoteChance {
			continue
		}
		f.Depth = collage.Uniform(rng, FocalMinDepth, 1)
		limit := 0.1
		if rng.Float64() < 0.7 {
			limit = 0.05
		}
		f.Rotation = collage.Sign(rng) * rng.Float64() * limit
	}
}

func sortByDepth(frags []collage.Fragment) {
	slices.SortStableFunc(frags, func(a, b collage.Fragment) int {
		return cmp.Compare(a.Depth, b.Depth)
	})
}
