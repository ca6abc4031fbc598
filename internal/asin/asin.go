// Package asin validates Amazon Standard Identification Numbers. Validation
// is the gate in front of every fetch, optimize and history operation: an
// invalid token is rejected before any network or storage access happens.
package asin

import "strings"

const length = 10

// Valid reports whether s has the shape of an ASIN: exactly 10 characters
// drawn from A-Z and 0-9. It does not mutate or normalize its input;
// callers upper-case first via Normalize.
func Valid(s string) bool {
	if len(s) != length {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}

	return true
}

// Normalize trims surrounding whitespace and upper-cases a raw token so it
// can be validated and used as a storage key.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
