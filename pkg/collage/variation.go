package collage

import (
	"strings"

	"github.com/matzehuels/assemblage/pkg/errors"
)

// Variation selects the placement and sizing style of a composition.
type Variation string

// Supported variations.
const (
	// Classic favours medium fragments spread evenly.
	Classic Variation = "classic"
	// Organic allows looser aspect ratios and more small fragments.
	Organic Variation = "organic"
	// Focal sizes fragments by distance from the centre and lifts the
	// largest ones to the front.
	Focal Variation = "focal"
)

// Variations lists every supported variation in display order.
var Variations = []Variation{Classic, Organic, Focal}

// ParseVariation resolves a case-insensitive variation name.
// An empty name yields [Classic].
func ParseVariation(s string) (Variation, error) {
	switch v := Variation(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return Classic, nil
	case Classic, Organic, Focal:
		return v, nil
	}
	return "", errors.New(errors.ErrCodeInvalidVariation, "unknown variation %q (want classic, organic or focal)", s)
}

// Description returns a one-line summary for pickers and help text.
func (v Variation) Description() string {
	switch v {
	case Organic:
		return "loose, uneven fragments with more small pieces"
	case Focal:
		return "large fragments near the centre, small ones at the edges"
	default:
		return "balanced medium fragments across the canvas"
	}
}
