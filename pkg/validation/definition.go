package validation

import (
	"fmt"
	"regexp"
	"strings"

	pkgmodel "github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

// DefinitionIssue represents a problem found in a survey definition with
// optional location metadata.
type DefinitionIssue struct {
	Source  string `json:"source,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// DefinitionResult captures the outcome of checking a survey definition.
type DefinitionResult struct {
	Valid  bool              `json:"valid"`
	Issues []DefinitionIssue `json:"issues,omitempty"`
}

// ValidateDefinition parses a JSON or YAML survey definition and reports every
// problem it can find: structural errors first, then per-question issues such
// as rules that do not compile or choice questions without options.
func ValidateDefinition(raw []byte, source string) DefinitionResult {
	result := DefinitionResult{Valid: true}

	s, err := survey.Parse(raw, source)
	if err != nil {
		result.add(issueFromError(source, err))
		return result
	}

	for _, q := range s.Questions {
		if _, err := Compile(pkgmodel.RulesFor(q)); err != nil {
			result.add(DefinitionIssue{Source: source, Field: q.ID, Message: trimPrefixes(err.Error())})
		}
		for _, message := range questionWarnings(q) {
			result.add(DefinitionIssue{Source: source, Field: q.ID, Message: message})
		}
	}
	return result
}

func (r *DefinitionResult) add(issue DefinitionIssue) {
	r.Valid = false
	r.Issues = append(r.Issues, issue)
}

func questionWarnings(q survey.Question) []string {
	var out []string
	switch q.Type {
	case survey.QuestionMultipleChoice, survey.QuestionSingleChoice, survey.QuestionDropdown:
		if len(q.Options()) == 0 {
			out = append(out, "question has no options")
		}
	case survey.QuestionRating:
		if q.Rating.Scale < 1 {
			out = append(out, "rating scale must be at least 1")
		}
	case survey.QuestionNumber:
		if q.Number.MinValue != nil && q.Number.MaxValue != nil && *q.Number.MinValue > *q.Number.MaxValue {
			out = append(out, fmt.Sprintf("minValue %v is greater than maxValue %v", *q.Number.MinValue, *q.Number.MaxValue))
		}
	case survey.QuestionFileUpload:
		if q.File.MaxSizeMB < 0 {
			out = append(out, "maxSizeMB must not be negative")
		}
	}
	return out
}

var questionRefPattern = regexp.MustCompile(`question "([^"]+)"`)

func issueFromError(source string, err error) DefinitionIssue {
	if err == nil {
		return DefinitionIssue{Source: source, Message: "unknown error"}
	}
	msg := strings.TrimSpace(err.Error())
	issue := DefinitionIssue{Source: source}
	if match := questionRefPattern.FindStringSubmatch(msg); match != nil {
		issue.Field = match[1]
	}
	msg = strings.Replace(msg, source+": ", "", 1)
	issue.Message = trimPrefixes(msg)
	return issue
}

func trimPrefixes(msg string) string {
	msg = strings.TrimPrefix(msg, "survey: ")
	msg = strings.TrimPrefix(msg, "validation: ")
	return strings.TrimSpace(msg)
}
