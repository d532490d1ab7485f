package fill

import (
	"math"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// CellSize is the side of an occupancy grid cell in pixels.
const CellSize = 20

type grid struct {
	cols, rows int
	occupied   []bool
}

func newGrid(c collage.Canvas, frags []collage.Fragment) *grid {
	g := &grid{
		cols: int(math.Ceil(c.Width / CellSize)),
		rows: int(math.Ceil(c.Height / CellSize)),
	}
	g.occupied = make([]bool, g.cols*g.rows)
	for _, f := range frags {
		g.mark(c, f.Bounds())
	}
	return g
}

func (g *grid) mark(c collage.Canvas, b collage.Rect) {
	if b.MaxX() <= 0 || b.MaxY() <= 0 || b.X >= c.Width || b.Y >= c.Height {
		return
	}
	x0 := max(0, int(math.Floor(b.X/CellSize)))
	y0 := max(0, int(math.Floor(b.Y/CellSize)))
	x1 := min(g.cols-1, int(math.Ceil(b.MaxX()/CellSize))-1)
	y1 := min(g.rows-1, int(math.Ceil(b.MaxY()/CellSize))-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.occupied[y*g.cols+x] = true
		}
	}
}

// runs returns, per cell, the number of free cells starting there and
// extending right.
func (g *grid) runs() []int {
	out := make([]int, len(g.occupied))
	for y := range g.rows {
		n := 0
		for x := g.cols - 1; x >= 0; x-- {
			i := y*g.cols + x
			if g.occupied[i] {
				n = 0
			} else {
				n++
			}
			out[i] = n
		}
	}
	return out
}

// LargestBlankRect returns the largest rectangle of free grid cells whose
// pixel area, clipped to the canvas, is at least minArea. The second result
// is false when no rectangle qualifies.
func LargestBlankRect(c collage.Canvas, frags []collage.Fragment, minArea float64) (collage.Rect, bool) {
	if c.Width <= 0 || c.Height <= 0 {
		return collage.Rect{}, false
	}
	g := newGrid(c, frags)
	runs := g.runs()

	var best collage.Rect
	bestArea, found := 0.0, false
	for y := range g.rows {
		for x := range g.cols {
			width := runs[y*g.cols+x]
			for yy := y; yy < g.rows && width > 0; yy++ {
				width = min(width, runs[yy*g.cols+x])
				if width == 0 {
					break
				}
				r := cellRect(c, x, y, width, yy-y+1)
				if a := r.Area(); a >= minArea && a > bestArea {
					best, bestArea, found = r, a, true
				}
			}
		}
	}
	return best, found
}

func cellRect(c collage.Canvas, x, y, cols, rows int) collage.Rect {
	px, py := float64(x*CellSize), float64(y*CellSize)
	return collage.Rect{
		X:      px,
		Y:      py,
		Width:  min(float64(cols*CellSize), c.Width-px),
		Height: min(float64(rows*CellSize), c.Height-py),
	}
}
