package placement

import (
	"math/rand/v2"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// leastUsedBias is the chance a capped pick prefers the least-used images.
const leastUsedBias = 0.8

type picker struct {
	rng    *rand.Rand
	n      int
	repeat bool
	usage  *collage.Usage
	order  []int
	next   int
}

func newPicker(rng *rand.Rand, n int, repeat bool, usage *collage.Usage) *picker {
	p := &picker{rng: rng, n: n, repeat: repeat, usage: usage}
	if !repeat {
		p.order = rng.Perm(n)
	}
	return p
}

func (p *picker) pick() int {
	var ref int
	switch {
	case !p.repeat:
		ref = p.order[p.next%p.n]
		p.next++
	case p.usage != nil && p.usage.MaxRepeats > 0:
		ref = p.pickCapped()
	default:
		ref = p.rng.IntN(p.n)
	}
	if p.usage != nil {
		p.usage.Record(ref)
	}
	return ref
}

// pickCapped draws among images below the repeat cap. Once every image hit
// the cap the counters start over.
func (p *picker) pickCapped() int {
	candidates := p.available()
	if len(candidates) == 0 {
		p.usage.Reset()
		candidates = p.available()
	}
	if p.rng.Float64() < leastUsedBias {
		candidates = p.leastUsed(candidates)
	}
	return candidates[p.rng.IntN(len(candidates))]
}

func (p *picker) available() []int {
	refs := make([]int, 0, p.n)
	for i := range p.n {
		if !p.usage.Exhausted(i) {
			refs = append(refs, i)
		}
	}
	return refs
}

func (p *picker) leastUsed(refs []int) []int {
	lowest := p.usage.Count(refs[0])
	for _, r := range refs[1:] {
		lowest = min(lowest, p.usage.Count(r))
	}
	out := refs[:0:0]
	for _, r := range refs {
		if p.usage.Count(r) == lowest {
			out = append(out, r)
		}
	}
	return out
}
