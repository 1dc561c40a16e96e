// Package normalize folds free text into the diacritic-free lowercase form used
// for keyword matching.
package normalize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokens is the set of whitespace-separated words of a normalized string.
type Tokens map[string]struct{}

// Has reports whether token is part of the set.
func (t Tokens) Has(token string) bool {
	_, ok := t[token]
	return ok
}

// Text decomposes text (NFKD), drops every non-ASCII rune and lowercases the rest.
// Text(Text(x)) == Text(x).
func Text(text string) string {
	if text == "" {
		return ""
	}
	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r >= utf8.RuneSelf {
			continue
		}
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Split returns the whitespace tokens of normalized text as a set.
func Split(normalized string) Tokens {
	fields := strings.Fields(normalized)
	tokens := make(Tokens, len(fields))
	for _, field := range fields {
		tokens[field] = struct{}{}
	}
	return tokens
}

// Query normalizes raw once and derives its token set.
func Query(raw string) (string, Tokens) {
	normalized := Text(raw)
	return normalized, Split(normalized)
}

// ASCIIFold applies only the decomposition and ASCII filter, preserving case.
func ASCIIFold(text string) string {
	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}
