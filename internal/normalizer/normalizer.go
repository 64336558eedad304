// Package normalizer turns raw text into lowercase tokens for lexical
// overlap scoring. Only Latin letters, digits and Hangul syllables survive;
// every other rune acts as a separator.
package normalizer

import "strings"

// Tokens lowercases text, drops every rune outside the allowlist and splits
// on whitespace. Empty input yields an empty sequence. Pure function.
func Tokens(text string) []string {
	if text == "" {
		return nil
	}
	mapped := strings.Map(keep, strings.ToLower(text))
	fields := strings.Fields(mapped)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func keep(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r
	case r >= '0' && r <= '9':
		return r
	case r >= '가' && r <= '힣': // Hangul syllables
		return r
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return r
	default:
		return ' '
	}
}
