// Package fill measures uncovered canvas area and fills it with clones.
//
// # Measuring
//
// [BlankRatio] rasterizes every fragment as an opaque rotated rectangle
// onto an off-screen canvas and samples every [SampleStride]th pixel to
// estimate the uncovered share. [LargestBlankRect] works on a coarser grid
// of [CellSize] pixel cells marked occupied wherever a fragment's rotated
// bounding box touches them.
//
// # Filling
//
// [Fill] repeatedly finds the largest blank rectangle, clones one of the
// larger existing fragments into it and keeps the clone only if the blank
// ratio went down. It stops at the target ratio, the iteration cap, or the
// first clone that does not help. Input fragments are never modified.
package fill
