package render

import (
	"strings"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// FieldSubset selects fields by section title or question id. A field is kept
// when it matches any entry. An empty subset keeps everything.
type FieldSubset struct {
	Sections []string
	Names    []string
}

// Empty reports whether the subset has no filters.
func (s FieldSubset) Empty() bool {
	return len(normaliseTokens(s.Sections)) == 0 && len(normaliseTokens(s.Names)) == 0
}

// ApplySubset removes the fields of form that do not match subset. Matching is
// case-insensitive and ignores surrounding whitespace.
func ApplySubset(form *model.FormModel, subset FieldSubset) {
	if form == nil || subset.Empty() {
		return
	}

	sections := normaliseTokens(subset.Sections)
	names := normaliseTokens(subset.Names)

	filtered := make([]model.Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		if _, ok := names[normaliseToken(field.Name)]; ok {
			filtered = append(filtered, field)
			continue
		}
		if section := normaliseToken(field.Section); section != "" {
			if _, ok := sections[section]; ok {
				filtered = append(filtered, field)
			}
		}
	}
	if len(filtered) == 0 {
		filtered = nil
	}
	form.Fields = filtered
}

func normaliseTokens(values []string) map[string]struct{} {
	result := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			result[token] = struct{}{}
		}
	}
	return result
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
