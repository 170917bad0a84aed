package model

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/survey"
)

// RulesFor derives the ordered validation rules for a question. The
// question's Validation bag wins; variant bounds (date range, number range,
// rating scale, upload limits) fill in whatever it leaves unset. A question is
// required when either its Required flag or Validation.Required is true.
func RulesFor(q survey.Question) []ValidationRule {
	v := survey.Validation{}
	if q.Validation != nil {
		v = *q.Validation
	}

	var rules []ValidationRule
	add := func(kind, key, value string) {
		rule := ValidationRule{Kind: kind}
		if key != "" {
			rule.Params = map[string]string{key: value}
		}
		rules = append(rules, rule)
	}

	if q.Required || (v.Required != nil && *v.Required) {
		add(ValidationRuleRequired, "", "")
	}
	if v.MinLength != nil {
		add(ValidationRuleMinLength, "value", strconv.Itoa(*v.MinLength))
	}
	if v.MaxLength != nil {
		add(ValidationRuleMaxLength, "value", strconv.Itoa(*v.MaxLength))
	}

	minValue, maxValue := v.MinValue, v.MaxValue
	switch {
	case q.Type == survey.QuestionNumber && q.Number != nil:
		minValue = firstFloat(minValue, q.Number.MinValue)
		maxValue = firstFloat(maxValue, q.Number.MaxValue)
	case q.Type == survey.QuestionRating && q.Rating != nil && q.Rating.Scale > 0:
		one, scale := 1.0, float64(q.Rating.Scale)
		minValue = firstFloat(minValue, &one)
		maxValue = firstFloat(maxValue, &scale)
	}
	if minValue != nil {
		add(ValidationRuleMin, "value", formatFloat(*minValue))
	}
	if maxValue != nil {
		add(ValidationRuleMax, "value", formatFloat(*maxValue))
	}

	if v.Pattern != nil && *v.Pattern != "" {
		add(ValidationRulePattern, "pattern", *v.Pattern)
	}

	minDate, maxDate := deref(v.MinDate), deref(v.MaxDate)
	if q.Type == survey.QuestionDate && q.Date != nil {
		minDate = firstString(minDate, q.Date.MinDate)
		maxDate = firstString(maxDate, q.Date.MaxDate)
	}
	if minDate != "" {
		add(ValidationRuleMinDate, "value", minDate)
	}
	if maxDate != "" {
		add(ValidationRuleMaxDate, "value", maxDate)
	}

	accepted, maxSize := v.AcceptedFileTypes, v.MaxSizeMB
	if q.Type == survey.QuestionFileUpload && q.File != nil {
		if len(accepted) == 0 {
			accepted = q.File.AcceptedFileTypes
		}
		if maxSize == nil && q.File.MaxSizeMB > 0 {
			limit := q.File.MaxSizeMB
			maxSize = &limit
		}
	}
	if len(accepted) > 0 {
		add(ValidationRuleAcceptedFileTypes, "types", strings.Join(accepted, ","))
	}
	if maxSize != nil {
		add(ValidationRuleMaxSize, "value", formatFloat(*maxSize))
	}

	return rules
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstFloat(primary, fallback *float64) *float64 {
	if primary != nil {
		return primary
	}
	return fallback
}

func firstString(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
