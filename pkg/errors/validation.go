package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDimensions rejects any value that is not a finite positive number.
// The message matches the cover scaler's contract so callers can surface it
// verbatim.
func ValidateDimensions(dims ...float64) error {
	for _, d := range dims {
		if !(d > 0) || math.IsInf(d, 0) {
			return New(ErrCodeInvalidDimensions, "all dimensions must be positive")
		}
	}
	return nil
}

// ValidateID validates an opaque identifier taken from a URL path or a flag.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 128 characters
//   - Only letters, digits, '-' and '_'
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "id too long (max 128 characters)")
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			return New(ErrCodeInvalidInput, "id contains invalid character %q", r)
		}
	}
	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates an image URL embedded into rendered output.
// Only http, https and data URLs are accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, scheme := range []string{"http://", "https://", "data:image/"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use http, https or data:image scheme")
}
