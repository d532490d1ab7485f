// Package mask assigns clipping shapes to planned fragments.
//
// The engine only records which shape a renderer should use. Generating
// the shape outlines is the renderer's job.
package mask

import (
	"math/rand/v2"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// Shape names understood by renderers.
const (
	Circle    = "circle"
	Triangle  = "triangle"
	Rectangle = "rectangle"
	Ellipse   = "ellipse"
	Diamond   = "diamond"
	Hexagon   = "hexagon"
	Arc       = "arc"
	Arch      = "arch"
)

// Types is the draw pool for Assign. The basic shapes appear twice so they
// come up more often than the decorative ones.
var Types = []string{
	Circle, Triangle, Rectangle, Ellipse, Diamond, Hexagon, Arc, Arch,
	Circle, Triangle, Rectangle,
}

// EnableChance is the probability a fragment is masked.
const EnableChance = 0.3

// Assign gives every fragment a mask record: enabled with probability
// EnableChance, with a type drawn uniformly from Types. Fragments that
// already carry a mask are left alone.
func Assign(rng *rand.Rand, frags []collage.Fragment) {
	for i := range frags {
		if frags[i].Mask != nil {
			continue
		}
		frags[i].Mask = &collage.Mask{
			Enabled: rng.Float64() < EnableChance,
			Type:    Types[rng.IntN(len(Types))],
		}
	}
}

// Valid reports whether name is a known shape.
func Valid(name string) bool {
	switch name {
	case Circle, Triangle, Rectangle, Ellipse, Diamond, Hexagon, Arc, Arch:
		return true
	}
	return false
}
