package collage

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/assemblage/pkg/errors"
)

func TestParseVariation(t *testing.T) {
	tests := []struct {
		in      string
		want    Variation
		wantErr bool
	}{
		{"classic", Classic, false},
		{"Organic", Organic, false},
		{" FOCAL ", Focal, false},
		{"", Classic, false},
		{"mosaic", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVariation(%q) error = %v", tt.in, err)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidVariation) {
				t.Errorf("code = %v, want INVALID_VARIATION", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseVariation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanvasValidate(t *testing.T) {
	if err := (Canvas{800, 600}).Validate(); err != nil {
		t.Errorf("valid canvas: %v", err)
	}
	if err := (Canvas{MaxCanvasSide, MaxCanvasSide}).Validate(); err != nil {
		t.Errorf("canvas at the side cap: %v", err)
	}
	for _, c := range []Canvas{{0, 600}, {800, -1}, {MaxCanvasSide + 1, 600}, {800, 1e8}} {
		if err := c.Validate(); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
			t.Errorf("Validate(%v) = %v, want INVALID_DIMENSIONS", c, err)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	tests := []struct {
		b    Rect
		want bool
	}{
		{Rect{5, 5, 10, 10}, true},
		{Rect{10, 0, 10, 10}, false},
		{Rect{-5, -5, 3, 3}, false},
		{Rect{2, 2, 1, 1}, true},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.b); got != tt.want {
			t.Errorf("Intersects(%v) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestUsage(t *testing.T) {
	u := NewUsage(2)
	u.Record(1)
	u.Record(1)
	u.Record(4)

	if u.Count(1) != 2 || u.Count(4) != 1 || u.Count(7) != 0 {
		t.Errorf("counts = %v", u.Counts)
	}
	if !u.Exhausted(1) || u.Exhausted(4) {
		t.Error("Exhausted should follow MaxRepeats")
	}
	if u.Total() != 3 {
		t.Errorf("Total() = %d, want 3", u.Total())
	}

	u.Reset()
	if u.Total() != 0 || u.MaxRepeats != 2 {
		t.Errorf("after Reset: %+v", u)
	}

	var nilUsage *Usage
	if nilUsage.Count(1) != 0 || nilUsage.Exhausted(1) || nilUsage.Total() != 0 {
		t.Error("nil Usage should read as empty")
	}
}

func TestUnlimitedUsageNeverExhausts(t *testing.T) {
	u := NewUsage(0)
	for range 100 {
		u.Record(0)
	}
	if u.Exhausted(0) {
		t.Error("MaxRepeats 0 should never exhaust")
	}
}

func TestCompositionFileRoundTrip(t *testing.T) {
	c := Composition{
		Canvas:    Canvas{Width: 400, Height: 300},
		Variation: Organic,
		Seed:      7,
		Fragments: []Fragment{
			{SourceImageRef: 0, Width: 50, Height: 40},
			{SourceImageRef: 1, Width: 60, Height: 30, IsCloned: true},
		},
		BlankRatio: 0.25,
	}
	path := filepath.Join(t.TempDir(), "c.json")
	if err := WriteCompositionFile(c, path); err != nil {
		t.Fatalf("WriteCompositionFile: %v", err)
	}
	got, err := ReadCompositionFile(path)
	if err != nil {
		t.Fatalf("ReadCompositionFile: %v", err)
	}
	if got.Variation != Organic || len(got.Fragments) != 2 || got.Cloned() != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestUnmarshalCompositionRejectsBadCanvas(t *testing.T) {
	for _, data := range []string{
		`{"canvas":{"width":0,"height":10},"fragments":[]}`,
		`{"canvas":{"width":100000000,"height":100000000},"fragments":[]}`,
	} {
		_, err := UnmarshalComposition([]byte(data))
		if !errors.Is(err, errors.ErrCodeInvalidDimensions) {
			t.Errorf("UnmarshalComposition(%s) err = %v, want INVALID_DIMENSIONS", data, err)
		}
	}
}

func TestNewRandDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for range 10 {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed should produce the same sequence")
		}
	}
}
