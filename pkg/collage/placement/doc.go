// Package placement decides how many fragments a composition gets, where
// they go and which source image each one shows.
//
// # Planning
//
// [Plan] places fragments one at a time. Each fragment samples a position
// (sometimes kept off the outer 5% margin, always pulled slightly toward the
// centre), a rotation, a size from pkg/collage/size and an overflow
// allowance that lets it bleed past the canvas edge. Candidates that crowd an
// earlier fragment are pushed away along the centre-to-centre vector and
// retried up to [MaxAttempts] times. After that the last position is kept
// even if it still overlaps: the planner is best-effort and never rejects a
// fragment.
//
// # Image selection
//
// With repetition allowed, images are drawn uniformly at random. Without it,
// images follow a shuffled order that wraps around once every image was
// used. A caller-owned [collage.Usage] can be supplied to record picks and
// to cap repeats across compositions.
package placement
