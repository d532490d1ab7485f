package mask

import (
	"testing"

	"github.com/matzehuels/assemblage/pkg/collage"
)

func TestAssign(t *testing.T) {
	const n = 5000
	frags := make([]collage.Fragment, n)
	Assign(collage.NewRand(7), frags)

	enabled := 0
	for _, f := range frags {
		if f.Mask == nil {
			t.Fatal("every fragment should get a mask record")
		}
		if !Valid(f.Mask.Type) {
			t.Fatalf("unknown mask type %q", f.Mask.Type)
		}
		if f.Mask.Enabled {
			enabled++
		}
	}
	if got := float64(enabled) / n; got < 0.27 || got > 0.33 {
		t.Errorf("enabled share = %v, want about %v", got, EnableChance)
	}
}

func TestAssignKeepsExisting(t *testing.T) {
	frags := []collage.Fragment{{Mask: &collage.Mask{Enabled: true, Type: Arch}}}
	Assign(collage.NewRand(1), frags)
	if frags[0].Mask.Type != Arch || !frags[0].Mask.Enabled {
		t.Errorf("existing mask overwritten: %+v", frags[0].Mask)
	}
}

func TestValid(t *testing.T) {
	for _, name := range Types {
		if !Valid(name) {
			t.Errorf("Valid(%q) = false", name)
		}
	}
	if Valid("star") {
		t.Error("Valid(star) = true")
	}
}
