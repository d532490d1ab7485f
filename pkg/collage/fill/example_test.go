package fill_test

import (
	"fmt"

	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/collage/fill"
)

func ExampleBlankRatio() {
	c := collage.Canvas{Width: 800, Height: 800}
	frags := []collage.Fragment{{X: 0, Y: 0, Width: 400, Height: 800}}
	fmt.Printf("%.2f\n", fill.BlankRatio(c, frags))
	// Output: 0.50
}

func ExampleLargestBlankRect() {
	c := collage.Canvas{Width: 200, Height: 200}
	frags := []collage.Fragment{{X: 0, Y: 0, Width: 140, Height: 200}}
	r, ok := fill.LargestBlankRect(c, frags, 1000)
	fmt.Println(ok, r.X, r.Y, r.Width, r.Height)
	// Output: true 140 0 60 200
}

func ExampleFill() {
	c := collage.Canvas{Width: 800, Height: 800}
	res := fill.Fill(c, []collage.Fragment{{Width: 800, Height: 800}}, fill.Options{Rand: collage.NewRand(1)})
	fmt.Println(len(res.Filled), res.Iterations, res.FinalBlankRatio)
	// Output: 1 0 0
}
