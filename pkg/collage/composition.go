package collage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Composition is a complete collage layout ready for rendering.
type Composition struct {
	ID                string     `json:"id,omitempty"`
	Canvas            Canvas     `json:"canvas"`
	Variation         Variation  `json:"variation"`
	Seed              uint64     `json:"seed"`
	ImageCount        int        `json:"image_count"`
	Background        string     `json:"background,omitempty"`
	Fragments         []Fragment `json:"fragments"`
	InitialBlankRatio float64    `json:"initial_blank_ratio,omitempty"`
	BlankRatio        float64    `json:"blank_ratio"`
	FillIterations    int        `json:"fill_iterations,omitempty"`
	CreatedAt         time.Time  `json:"created_at,omitzero"`
}

// Cloned returns the number of fragments added by the filler.
func (c *Composition) Cloned() int {
	n := 0
	for _, f := range c.Fragments {
		if f.IsCloned {
			n++
		}
	}
	return n
}

// MarshalComposition serializes a Composition to indented JSON.
func MarshalComposition(c Composition) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// UnmarshalComposition deserializes JSON bytes into a Composition and
// validates the canvas.
func UnmarshalComposition(data []byte) (Composition, error) {
	var c Composition
	if err := json.Unmarshal(data, &c); err != nil {
		return Composition{}, fmt.Errorf("unmarshal composition: %w", err)
	}
	if err := c.Canvas.Validate(); err != nil {
		return Composition{}, err
	}
	if c.Variation == "" {
		c.Variation = Classic
	}
	return c, nil
}

// WriteCompositionFile writes a Composition to a JSON file.
func WriteCompositionFile(c Composition, path string) error {
	data, err := MarshalComposition(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadCompositionFile reads a Composition from a JSON file.
func ReadCompositionFile(path string) (Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Composition{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalComposition(data)
}
