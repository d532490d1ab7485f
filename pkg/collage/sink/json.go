package sink

import "github.com/matzehuels/assemblage/pkg/collage"

// RenderJSON serializes c as indented JSON.
func RenderJSON(c collage.Composition) ([]byte, error) {
	return collage.MarshalComposition(c)
}
