// Package phonex normalizes and validates phone numbers.
package phonex

import "strings"

// Normalize strips every character except digits and '+'.
// A non-phone input (no digits, no '+') normalizes to the empty string.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the raw, pre-normalization input: it must start with '+',
// contain no Latin or Cyrillic letters, and carry exactly 11 digits once
// everything else is stripped.
func Validate(raw string) bool {
	if !strings.HasPrefix(raw, "+") {
		return false
	}
	digits := 0
	for _, r := range raw {
		if isLetter(r) {
			return false
		}
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits == 11
}

func isLetter(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r >= 'А' && r <= 'я', r == 'ё', r == 'Ё':
		return true
	}
	return false
}
