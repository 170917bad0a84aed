package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// Hidden input names carrying the survey identity on HTML submissions.
const (
	HiddenSurveyID = "_survey"
	HiddenVersion  = "_version"
)

// HiddenField is a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken builds a hidden field carrying token under the backend's input
// name ("_csrf", "csrf_token", ...).
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SurveyFields identifies the survey and version a submission was rendered
// from.
func SurveyFields(form model.FormModel) []HiddenField {
	return []HiddenField{
		Hidden(HiddenSurveyID, form.SurveyID),
		Hidden(HiddenVersion, strconv.Itoa(form.Version)),
	}
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored; later fields win on collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders fields by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{
			Name:  name,
			Value: fields[name],
		})
	}
	return result
}
