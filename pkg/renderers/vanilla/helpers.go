package vanilla

import (
	"strconv"
	"strings"
	"unicode"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "sf-" + trimmed
}

// optionID derives a stable element id for one option of a field:
// ("q2", "Feature A") -> "sf-q2-feature-a".
func optionID(name, option string) string {
	var b strings.Builder
	b.WriteString(controlID(name))
	dash := true
	b.WriteByte('-')
	for _, r := range option {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// usesFieldset reports whether a component renders several inputs and is
// labelled by a legend instead of a label element.
func usesFieldset(component string) bool {
	switch component {
	case "radio", "checkbox-group", "rating":
		return true
	default:
		return false
	}
}

func ratingOptions(scale int) []string {
	out := make([]string, 0, scale)
	for i := 1; i <= scale; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}
