// Package mac canonicalizes raw MAC-like strings into a fixed 12-hex-digit
// uppercase form and extracts the OUI vendor prefix.
package mac

import (
	"regexp"
	"strings"
)

// NormalizedLength - Digits in a canonical address.
const NormalizedLength = 12

// PrefixLength - Digits in an OUI vendor prefix.
const PrefixLength = 6

var nonHexRegex = regexp.MustCompile(`[^0-9A-Fa-f]`)

// Normalize - Canonicalize a raw address string. Strips every non-hex
// character and uppercases the remainder. Returns ok=false if the stripped
// result is not exactly 12 hex digits; the caller decides whether to drop
// the row or retain it with unknown downstream fields.
func Normalize(raw string) (string, bool) {
	stripped := nonHexRegex.ReplaceAllString(raw, "")
	if len(stripped) != NormalizedLength {
		return "", false
	}
	return strings.ToUpper(stripped), true
}

// OUIPrefix - First 6 hex digits of a normalized address, identifying the
// assigned manufacturer. Returns empty for addresses that are too short.
func OUIPrefix(normalized string) string {
	if len(normalized) < PrefixLength {
		return ""
	}
	return normalized[:PrefixLength]
}
