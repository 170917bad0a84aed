package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	pkgmodel "github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

func fail(rule, message string, params map[string]string) *Failure {
	return &Failure{Rule: rule, Message: message, Params: params}
}

func required() Validator {
	return func(v survey.Value) *Failure {
		if v.IsEmpty() {
			return fail(pkgmodel.ValidationRuleRequired, "This field is required.", nil)
		}
		return nil
	}
}

// minLength exempts empty strings; an empty list still fails so a
// multi-select with minLength 1 requires a selection.
func minLength(limit int) Validator {
	params := map[string]string{"value": strconv.Itoa(limit)}
	return func(v survey.Value) *Failure {
		switch v.Kind {
		case survey.KindList:
			if len(v.List) < limit {
				return fail(pkgmodel.ValidationRuleMinLength, fmt.Sprintf("Select at least %d %s.", limit, plural(limit, "option")), params)
			}
		case survey.KindString:
			if v.Str != "" && v.Len() < limit {
				return fail(pkgmodel.ValidationRuleMinLength, fmt.Sprintf("Enter at least %d %s.", limit, plural(limit, "character")), params)
			}
		}
		return nil
	}
}

func maxLength(limit int) Validator {
	params := map[string]string{"value": strconv.Itoa(limit)}
	return func(v survey.Value) *Failure {
		switch v.Kind {
		case survey.KindList:
			if len(v.List) > limit {
				return fail(pkgmodel.ValidationRuleMaxLength, fmt.Sprintf("Select at most %d %s.", limit, plural(limit, "option")), params)
			}
		case survey.KindString:
			if v.Len() > limit {
				return fail(pkgmodel.ValidationRuleMaxLength, fmt.Sprintf("Enter at most %d %s.", limit, plural(limit, "character")), params)
			}
		}
		return nil
	}
}

func minValue(bound float64) Validator {
	text := strconv.FormatFloat(bound, 'f', -1, 64)
	params := map[string]string{"value": text}
	return func(v survey.Value) *Failure {
		if v.Kind == survey.KindNumber && v.Num < bound {
			return fail(pkgmodel.ValidationRuleMin, "Must be at least "+text+".", params)
		}
		return nil
	}
}

func maxValue(bound float64) Validator {
	text := strconv.FormatFloat(bound, 'f', -1, 64)
	params := map[string]string{"value": text}
	return func(v survey.Value) *Failure {
		if v.Kind == survey.KindNumber && v.Num > bound {
			return fail(pkgmodel.ValidationRuleMax, "Must be at most "+text+".", params)
		}
		return nil
	}
}

func pattern(expr string, re *regexp.Regexp) Validator {
	params := map[string]string{"pattern": expr}
	return func(v survey.Value) *Failure {
		if v.Kind != survey.KindString || v.Str == "" {
			return nil
		}
		if !re.MatchString(v.Str) {
			return fail(pkgmodel.ValidationRulePattern, "Does not match the expected format.", params)
		}
		return nil
	}
}

func minDate(raw string, bound time.Time) Validator {
	params := map[string]string{"value": raw}
	return func(v survey.Value) *Failure {
		date, failure := answerDate(v, pkgmodel.ValidationRuleMinDate, params)
		if failure != nil || date.IsZero() {
			return failure
		}
		if date.Before(bound) {
			return fail(pkgmodel.ValidationRuleMinDate, "Date must be on or after "+raw+".", params)
		}
		return nil
	}
}

func maxDate(raw string, bound time.Time) Validator {
	params := map[string]string{"value": raw}
	return func(v survey.Value) *Failure {
		date, failure := answerDate(v, pkgmodel.ValidationRuleMaxDate, params)
		if failure != nil || date.IsZero() {
			return failure
		}
		if date.After(bound) {
			return fail(pkgmodel.ValidationRuleMaxDate, "Date must be on or before "+raw+".", params)
		}
		return nil
	}
}

// answerDate returns the zero time for empty answers so date bounds do not
// fire on optional questions.
func answerDate(v survey.Value, rule string, params map[string]string) (time.Time, *Failure) {
	if v.Kind != survey.KindString || strings.TrimSpace(v.Str) == "" {
		return time.Time{}, nil
	}
	date, err := ParseDate(v.Str)
	if err != nil {
		return time.Time{}, fail(rule, "Enter a valid date ("+err.Error()+").", params)
	}
	return date, nil
}

func acceptedFileTypes(types []string) Validator {
	params := map[string]string{"types": strings.Join(types, ",")}
	return func(v survey.Value) *Failure {
		if v.Kind != survey.KindFile || v.File == nil {
			return nil
		}
		if !acceptsFile(types, *v.File) {
			return fail(pkgmodel.ValidationRuleAcceptedFileTypes, "File type must be one of: "+strings.Join(types, ", ")+".", params)
		}
		return nil
	}
}

func maxSize(limitMB float64) Validator {
	text := strconv.FormatFloat(limitMB, 'f', -1, 64)
	params := map[string]string{"value": text}
	return func(v survey.Value) *Failure {
		if v.Kind != survey.KindFile || v.File == nil {
			return nil
		}
		if v.File.SizeMB() > limitMB {
			return fail(pkgmodel.ValidationRuleMaxSize, "File must be "+text+"MB or smaller.", params)
		}
		return nil
	}
}

// acceptsFile matches the declared MIME type against exact types, "type/*"
// wildcards and ".ext" suffixes.
func acceptsFile(types []string, file survey.FileRef) bool {
	mimeType := normalizeMIME(file.MIMEType)
	name := strings.ToLower(file.Name)
	for _, accepted := range types {
		switch {
		case strings.HasPrefix(accepted, "."):
			if strings.HasSuffix(name, accepted) {
				return true
			}
		case strings.HasSuffix(accepted, "/*"):
			if strings.HasPrefix(mimeType, strings.TrimSuffix(accepted, "*")) {
				return true
			}
		case accepted == mimeType:
			return true
		}
	}
	return false
}

func normalizeMIME(raw string) string {
	if idx := strings.Index(raw, ";"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
