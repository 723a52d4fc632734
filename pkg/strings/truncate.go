package strings

import (
	"strings"
)

// DefaultExcerptLen is the default length of excerpts written to logs.
const DefaultExcerptLen = 200

// MinExcerptLen is the smallest maxLen Excerpt accepts. It leaves room for
// one character plus "...".
const MinExcerptLen = 4

// Excerpt folds s onto a single line and shortens it to at most maxLen runes,
// ending with "..." when shortened. Runs of whitespace, including newlines,
// collapse to one space. maxLen below MinExcerptLen is raised to it.
//
// Response bodies pass through Excerpt before they are logged so a large or
// multi-line payload stays on one log line.
func Excerpt(s string, maxLen int) string {
	if maxLen < MinExcerptLen {
		maxLen = MinExcerptLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
