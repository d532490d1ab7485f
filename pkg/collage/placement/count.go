package placement

import (
	"math"
	"math/rand/v2"
)

// MinFragments is the floor applied by FragmentCount.
const MinFragments = 3

// FragmentCount derives the number of fragments for a composition:
// floor(images × complexity × 0.7 × r) with r in [0.75, 1.05), clamped to
// [MinFragments, maxFragments]. It returns 0 when there are no images or
// maxFragments is not positive.
func FragmentCount(rng *rand.Rand, images int, complexity float64, maxFragments int) int {
	if images <= 0 || maxFragments <= 0 {
		return 0
	}
	r := 0.75 + rng.Float64()*0.3
	n := int(math.Floor(float64(images) * complexity * 0.7 * r))
	return min(max(n, MinFragments), maxFragments)
}
