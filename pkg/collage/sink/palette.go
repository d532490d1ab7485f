package sink

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// Backgrounds is the pool PickBackground draws from.
var Backgrounds = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEEAD",
	"#D4A5A5", "#9B59B6", "#3498DB", "#E67E22", "#2ECC71",
}

// DefaultBackground is used when a composition has none or an invalid one.
const DefaultBackground = "#FFFFFF"

// PickBackground draws a background colour.
func PickBackground(rng *rand.Rand) string {
	return Backgrounds[rng.IntN(len(Backgrounds))]
}

// goldenAngle spreads consecutive image hues around the colour wheel.
const goldenAngle = 137.508

// ImageColor returns a stable placeholder colour for an image index.
func ImageColor(ref int) colorful.Color {
	hue := math.Mod(float64(ref)*goldenAngle, 360)
	if hue < 0 {
		hue += 360
	}
	return colorful.Hcl(hue, 0.45, 0.7).Clamped()
}

// background parses hex, falling back to DefaultBackground.
func background(hex string) colorful.Color {
	if c, err := colorful.Hex(hex); err == nil {
		return c
	}
	c, _ := colorful.Hex(DefaultBackground)
	return c
}

// Opacity returns the draw opacity of f.
func Opacity(f collage.Fragment) float64 {
	switch {
	case f.ForceFullOpacity:
		return 1
	case f.Opacity != nil:
		return max(0, min(*f.Opacity, 1))
	default:
		return 0.55 + 0.45*max(0, min(f.Depth, 1))
	}
}
