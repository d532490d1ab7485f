package fill

import (
	"testing"

	"github.com/matzehuels/assemblage/pkg/collage"
)

func TestLargestBlankRect(t *testing.T) {
	tests := []struct {
		name    string
		canvas  collage.Canvas
		frags   []collage.Fragment
		minArea float64
		want    collage.Rect
		wantOK  bool
	}{
		{
			name:    "empty canvas",
			canvas:  collage.Canvas{Width: 200, Height: 100},
			minArea: 1000,
			want:    collage.Rect{Width: 200, Height: 100},
			wantOK:  true,
		},
		{
			name:    "fully covered",
			canvas:  collage.Canvas{Width: 200, Height: 200},
			frags:   []collage.Fragment{{Width: 200, Height: 200}},
			minArea: 1,
		},
		{
			name:    "right strip free",
			canvas:  collage.Canvas{Width: 200, Height: 200},
			frags:   []collage.Fragment{{Width: 140, Height: 200}},
			minArea: 1000,
			want:    collage.Rect{X: 140, Width: 60, Height: 200},
			wantOK:  true,
		},
		{
			name:    "partial cell counts as occupied",
			canvas:  collage.Canvas{Width: 200, Height: 200},
			frags:   []collage.Fragment{{Width: 141, Height: 200}},
			minArea: 1000,
			want:    collage.Rect{X: 160, Width: 40, Height: 200},
			wantOK:  true,
		},
		{
			name:    "below minimum area",
			canvas:  collage.Canvas{Width: 200, Height: 200},
			frags:   []collage.Fragment{{Width: 180, Height: 200}},
			minArea: 5000,
		},
		{
			name:    "clipped to canvas edge",
			canvas:  collage.Canvas{Width: 210, Height: 100},
			frags:   []collage.Fragment{{Width: 200, Height: 100}},
			minArea: 1,
			want:    collage.Rect{X: 200, Width: 10, Height: 100},
			wantOK:  true,
		},
		{
			name:   "hole in the middle",
			canvas: collage.Canvas{Width: 300, Height: 300},
			frags: []collage.Fragment{
				{Width: 300, Height: 100},
				{Y: 200, Width: 300, Height: 100},
				{Y: 100, Width: 100, Height: 100},
				{X: 200, Y: 100, Width: 100, Height: 100},
			},
			minArea: 1000,
			want:    collage.Rect{X: 100, Y: 100, Width: 100, Height: 100},
			wantOK:  true,
		},
		{
			name:    "off canvas fragment ignored",
			canvas:  collage.Canvas{Width: 100, Height: 100},
			frags:   []collage.Fragment{{X: 500, Y: 500, Width: 50, Height: 50}},
			minArea: 1000,
			want:    collage.Rect{Width: 100, Height: 100},
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LargestBlankRect(tt.canvas, tt.frags, tt.minArea)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (rect %+v)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("rect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLargestBlankRectUsesRotatedBounds(t *testing.T) {
	c := collage.Canvas{Width: 400, Height: 400}
	// Upright this leaves x >= 240 free; tilted its bounds reach further right.
	f := collage.Fragment{X: 0, Y: 0, Width: 240, Height: 400, Rotation: 0.3}
	got, ok := LargestBlankRect(c, []collage.Fragment{f}, 1000)
	if !ok {
		t.Fatal("expected a blank rect")
	}
	if got.X < f.Bounds().MaxX()-CellSize {
		t.Errorf("rect %+v overlaps the rotated bounds %+v", got, f.Bounds())
	}
}

func TestLargestBlankRectIsFree(t *testing.T) {
	rng := collage.NewRand(3)
	for range 100 {
		var frags []collage.Fragment
		for range rng.IntN(6) + 1 {
			frags = append(frags, collage.Fragment{
				X: rng.Float64() * 700, Y: rng.Float64() * 700,
				Width: rng.Float64()*200 + 10, Height: rng.Float64()*200 + 10,
			})
		}
		r, ok := LargestBlankRect(canvas, frags, 400)
		if !ok {
			continue
		}
		if r.Area() < 400 {
			t.Fatalf("rect %+v below minimum area", r)
		}
		for _, f := range frags {
			if r.Intersects(f.Bounds()) {
				t.Fatalf("rect %+v intersects fragment %+v", r, f.Bounds())
			}
		}
	}
}
