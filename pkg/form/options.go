package form

import (
	"github.com/goliatone/go-surveyform/pkg/validation"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

// Option configures New.
type Option func(*config)

type config struct {
	evaluator visibility.Evaluator
	extras    map[string]any
	initial   map[string]any
	extra     map[string][]validation.Validator
}

// WithConditionalLogic enables show/hide evaluation of the fields'
// conditional logic using evaluator. Logic is dormant without this option.
func WithConditionalLogic(evaluator visibility.Evaluator) Option {
	return func(c *config) {
		c.evaluator = evaluator
	}
}

// WithExtras exposes additional values to the logic evaluator under the
// `extras.` prefix.
func WithExtras(extras map[string]any) Option {
	return func(c *config) {
		if c.extras == nil {
			c.extras = make(map[string]any, len(extras))
		}
		for k, v := range extras {
			c.extras[k] = v
		}
	}
}

// WithValues pre-fills fields with raw answers, coerced as in Form.Set.
func WithValues(values map[string]any) Option {
	return func(c *config) {
		if c.initial == nil {
			c.initial = make(map[string]any, len(values))
		}
		for k, v := range values {
			c.initial[k] = v
		}
	}
}

// WithValidators appends custom validators to a field after its compiled
// rules.
func WithValidators(field string, validators ...validation.Validator) Option {
	return func(c *config) {
		if c.extra == nil {
			c.extra = make(map[string][]validation.Validator)
		}
		c.extra[field] = append(c.extra[field], validators...)
	}
}
