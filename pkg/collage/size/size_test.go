package size

import (
	"testing"

	"github.com/matzehuels/assemblage/pkg/collage"
)

var canvas = collage.Canvas{Width: 1000, Height: 800}

func TestModelsStayWithinBuckets(t *testing.T) {
	tests := []struct {
		name      string
		minFactor float64
		sample    func(seed int) Dims
	}{
		{"classic", 0.6, func(seed int) Dims { return Classic(collage.NewRand(uint64(seed)), canvas) }},
		{"organic", 0.5, func(seed int) Dims { return Organic(collage.NewRand(uint64(seed)), canvas) }},
		{"focal", 0.6, func(seed int) Dims {
			rng := collage.NewRand(uint64(seed))
			return Focal(rng, canvas, rng.Float64()*canvas.Width, rng.Float64()*canvas.Height)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := range 2000 {
				d := tt.sample(seed)
				checkRange(t, d.Width/canvas.Width, Small.Lo*tt.minFactor, Large.Hi)
				checkRange(t, d.Height/canvas.Height, Small.Lo*tt.minFactor, Large.Hi)
			}
		})
	}
}

func checkRange(t *testing.T, frac, lo, hi float64) {
	t.Helper()
	if frac < lo || frac >= hi {
		t.Fatalf("fraction %v outside [%v, %v)", frac, lo, hi)
	}
}

func TestClassicBucketMix(t *testing.T) {
	large := 0
	const n = 20000
	for seed := range n {
		d := Classic(collage.NewRand(uint64(seed)), collage.Canvas{Width: 1000, Height: 1000})
		// Only the large bucket can exceed 0.25 of the canvas on an axis.
		if d.Width > 250 || d.Height > 250 {
			large++
		}
	}
	// Large is drawn 10% of the time; a large draw can still stretch below
	// 0.25 on both axes, so the observed share sits somewhat under 10%.
	if got := float64(large) / n; got < 0.06 || got > 0.11 {
		t.Errorf("large share = %v, want about 0.1", got)
	}
}

func TestFocalFavoursCentre(t *testing.T) {
	var centre, edge float64
	const n = 5000
	for seed := range n {
		rng := collage.NewRand(uint64(seed))
		c := Focal(rng, canvas, canvas.Width/2, canvas.Height/2)
		e := Focal(rng, canvas, 0, 0)
		centre += c.Width * c.Height
		edge += e.Width * e.Height
	}
	if centre <= 2*edge {
		t.Errorf("mean centre area %v should far exceed edge area %v", centre/n, edge/n)
	}
}

func TestFocalOutsideRadiusNeverLarge(t *testing.T) {
	for seed := range 2000 {
		rng := collage.NewRand(uint64(seed))
		d := Focal(rng, canvas, canvas.Width, canvas.Height)
		if d.Width > Medium.Hi*canvas.Width || d.Height > Medium.Hi*canvas.Height {
			t.Fatalf("corner fragment %+v exceeds the medium bucket", d)
		}
	}
}

func TestSampleDispatch(t *testing.T) {
	for _, v := range collage.Variations {
		a := Sample(collage.NewRand(9), v, canvas, 100, 100)
		var b Dims
		switch v {
		case collage.Classic:
			b = Classic(collage.NewRand(9), canvas)
		case collage.Organic:
			b = Organic(collage.NewRand(9), canvas)
		case collage.Focal:
			b = Focal(collage.NewRand(9), canvas, 100, 100)
		}
		if a != b {
			t.Errorf("Sample(%s) = %+v, want %+v", v, a, b)
		}
	}
}
