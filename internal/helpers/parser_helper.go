package helpers

import (
	"strings"

	"github.com/mreyesc/parkeo/internal/apperr"
)

// NormalizePlate canonicalizes a license plate as typed by a payer:
// uppercase, with spaces, dots and dashes stripped. Plates are stored
// and compared only in this form.
func NormalizePlate(plate string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(plate)) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '.':
			// separators are dropped
		default:
			return "", apperr.Validation("license plate contains invalid characters")
		}
	}
	normalized := b.String()
	if len(normalized) < 4 || len(normalized) > 10 {
		return "", apperr.Validation("license plate must be 4-10 characters")
	}
	return normalized, nil
}
