package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		input   []float64
		wantErr bool
	}{
		{"all positive", []float64{100, 200, 300, 400}, false},
		{"fractional", []float64{0.5, 1e-9}, false},
		{"none", nil, false},

		{"zero", []float64{100, 0}, true},
		{"negative", []float64{-1, 100}, true},
		{"NaN", []float64{math.NaN()}, true},
		{"infinite", []float64{math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.input...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDimensions(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeInvalidDimensions) {
					t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidDimensions)
				}
				if UserMessage(err) != "all dimensions must be positive" {
					t.Errorf("message = %q", UserMessage(err))
				}
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "0b5c4a3e-7b1f-4d8e-9a55-1f2e3d4c5b6a", false},
		{"underscore", "default_session", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"slash", "a/b", true},
		{"dot dot", "..", true},
		{"space", "a b", true},
		{"unicode", "héllo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/collage.svg", false},
		{"absolute", "/tmp/collage.png", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "out\x00.svg", true},
		{"newline", "out\n.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/a.jpg", false},
		{"http", "http://example.com/a.jpg", false},
		{"data", "data:image/png;base64,AAAA", false},

		{"empty", "", true},
		{"javascript", "javascript:alert(1)", true},
		{"file", "file:///etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
