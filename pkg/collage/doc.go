// Package collage defines the data model shared by the layout engine.
//
// A [Composition] is a list of [Fragment] values laid out on a [Canvas].
// Each fragment references one source image by index and carries the
// geometry, depth and rotation the renderer needs. The engine never looks at
// image pixels; it only decides where references go.
//
// # Engine stages
//
// The subpackages implement one stage each and are wired together by
// pkg/pipeline:
//
//   - [github.com/matzehuels/assemblage/pkg/collage/placement]: how many
//     fragments, where they go, which image each one shows
//   - [github.com/matzehuels/assemblage/pkg/collage/size]: per-variation
//     fragment size distributions
//   - [github.com/matzehuels/assemblage/pkg/collage/depth]: depth layering,
//     rotation finalisation and the focal anchor
//   - [github.com/matzehuels/assemblage/pkg/collage/fill]: blank-space
//     measurement and the negative-space filler
//   - [github.com/matzehuels/assemblage/pkg/collage/scale]: cover scaling of
//     mask shapes into fragment boxes
//
// # Randomness
//
// Every randomized operation takes a *rand.Rand so callers can make runs
// reproducible. [NewRand] builds the PCG source used across the module.
//
// # Units
//
// Coordinates and sizes are in canvas pixels with the origin at the top
// left. Rotations are radians, positive clockwise, applied about the
// fragment centre.
package collage
