package model

import (
	"regexp"
	"strings"
	"unicode"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s.]+`)

// DefaultLabeler converts a question id into a human-friendly label. It splits
// on separators and camelCase or letter/digit boundaries, so "favoriteFeature"
// becomes "Favorite Feature" and "q10" becomes "Q 10".
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		for _, part := range splitBoundaries(word) {
			segments = append(segments, titleCase(part))
		}
	}
	return strings.Join(segments, " ")
}

func splitBoundaries(input string) []string {
	runes := []rune(input)
	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, r := runes[i-1], runes[i]
		boundary := (unicode.IsLower(prev) && unicode.IsUpper(r)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(r)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(r))
		if boundary {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}

func titleCase(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
