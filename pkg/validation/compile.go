package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	pkgmodel "github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/survey"
)

// ErrInvalidRule is returned when a rule carries parameters that cannot be
// compiled (bad regex, non-numeric bound, unparseable date).
var ErrInvalidRule = errors.New("invalid validation rule")

// DateLayout is the calendar date format used by date answers and bounds.
const DateLayout = "2006-01-02"

// Failure is a single named validation failure.
type Failure struct {
	Rule    string            `json:"rule"`
	Message string            `json:"message"`
	Params  map[string]string `json:"params,omitempty"`
}

// Error implements error so a failure can travel through error returns.
func (f Failure) Error() string {
	return f.Rule + ": " + f.Message
}

// Validator checks one value and returns nil when the value passes.
type Validator func(survey.Value) *Failure

// Run evaluates every validator and collects all failures. Validators are
// independent; one failing does not stop the others.
func Run(validators []Validator, value survey.Value) []Failure {
	var out []Failure
	for _, validate := range validators {
		if failure := validate(value); failure != nil {
			out = append(out, *failure)
		}
	}
	return out
}

// Compile turns validation rules into validators, preserving rule order.
// Unknown rule kinds are rejected.
func Compile(rules []pkgmodel.ValidationRule) ([]Validator, error) {
	validators := make([]Validator, 0, len(rules))
	for _, rule := range rules {
		validate, err := compileRule(rule)
		if err != nil {
			return nil, err
		}
		validators = append(validators, validate)
	}
	return validators, nil
}

// CompileSpec compiles a declarative Validation bag directly. A nil spec
// yields only the required check when required is set.
func CompileSpec(spec *survey.Validation, required bool) ([]Validator, error) {
	return Compile(pkgmodel.RulesFor(survey.Question{Required: required, Validation: spec}))
}

// MustCompile is like Compile but panics on error. Intended for rules known
// at build time.
func MustCompile(rules []pkgmodel.ValidationRule) []Validator {
	validators, err := Compile(rules)
	if err != nil {
		panic(err)
	}
	return validators
}

func compileRule(rule pkgmodel.ValidationRule) (Validator, error) {
	switch rule.Kind {
	case pkgmodel.ValidationRuleRequired:
		return required(), nil
	case pkgmodel.ValidationRuleMinLength, pkgmodel.ValidationRuleMaxLength:
		limit, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		if rule.Kind == pkgmodel.ValidationRuleMinLength {
			return minLength(limit), nil
		}
		return maxLength(limit), nil
	case pkgmodel.ValidationRuleMin, pkgmodel.ValidationRuleMax:
		bound, err := floatParam(rule, "value")
		if err != nil {
			return nil, err
		}
		if rule.Kind == pkgmodel.ValidationRuleMin {
			return minValue(bound), nil
		}
		return maxValue(bound), nil
	case pkgmodel.ValidationRulePattern:
		expr := rule.Params["pattern"]
		if expr == "" {
			return nil, fmt.Errorf("validation: %w: pattern rule without expression", ErrInvalidRule)
		}
		re, err := regexp.Compile(`^(?:` + expr + `)$`)
		if err != nil {
			return nil, fmt.Errorf("validation: %w: pattern %q: %v", ErrInvalidRule, expr, err)
		}
		return pattern(expr, re), nil
	case pkgmodel.ValidationRuleMinDate, pkgmodel.ValidationRuleMaxDate:
		raw := rule.Params["value"]
		bound, err := ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("validation: %w: %s %q: %v", ErrInvalidRule, rule.Kind, raw, err)
		}
		if rule.Kind == pkgmodel.ValidationRuleMinDate {
			return minDate(raw, bound), nil
		}
		return maxDate(raw, bound), nil
	case pkgmodel.ValidationRuleAcceptedFileTypes:
		types := splitTypes(rule.Params["types"])
		if len(types) == 0 {
			return nil, fmt.Errorf("validation: %w: acceptedFileTypes without types", ErrInvalidRule)
		}
		return acceptedFileTypes(types), nil
	case pkgmodel.ValidationRuleMaxSize:
		limit, err := floatParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return maxSize(limit), nil
	default:
		return nil, fmt.Errorf("validation: %w: unknown kind %q", ErrInvalidRule, rule.Kind)
	}
}

// ParseDate parses a calendar date. RFC 3339 timestamps are accepted and
// truncated to their date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected date in %s format", DateLayout)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func intParam(rule pkgmodel.ValidationRule, key string) (int, error) {
	raw := rule.Params[key]
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("validation: %w: %s %q is not a non-negative integer", ErrInvalidRule, rule.Kind, raw)
	}
	return n, nil
}

func floatParam(rule pkgmodel.ValidationRule, key string) (float64, error) {
	raw := rule.Params[key]
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("validation: %w: %s %q is not a number", ErrInvalidRule, rule.Kind, raw)
	}
	return f, nil
}

func splitTypes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if normalized := normalizeMIME(part); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}
