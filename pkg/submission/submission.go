// Package submission turns a filled form into either the answer value tree or
// the set of failing fields, and converts accepted answers into a
// survey.Response.
package submission

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-surveyform/pkg/form"
	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/validation"
)

// ErrInvalid is matched by every *InvalidError.
var ErrInvalid = errors.New("submission is invalid")

// Rule names used for answers that never reached a validator.
const (
	RuleType    = "type"
	RuleUnknown = "unknown"
)

// Result is the outcome of Submit. Exactly one of Values or Failures is set.
type Result struct {
	Valid    bool                            `json:"valid"`
	Values   map[string]survey.Value         `json:"values,omitempty"`
	Failures map[string][]validation.Failure `json:"failures,omitempty"`

	order []string
}

// Submit validates every visible field of f. A valid form yields the value
// tree; an invalid one yields no values and the failures keyed by question
// id.
func Submit(f *form.Form) Result {
	failures := f.Validate()

	order := make([]string, 0, len(f.Fields()))
	for _, field := range f.Fields() {
		order = append(order, field.Name)
	}

	if len(failures) > 0 {
		return Result{Valid: false, Failures: failures, order: order}
	}
	return Result{Valid: true, Values: f.Values(), order: order}
}

// FailingFields lists the failing question ids in display order.
func (r Result) FailingFields() []string {
	var out []string
	seen := make(map[string]struct{}, len(r.Failures))
	for _, name := range r.order {
		if _, ok := r.Failures[name]; ok {
			out = append(out, name)
			seen[name] = struct{}{}
		}
	}
	// failures merged in from Fill may name fields the form does not have
	var extra []string
	for name := range r.Failures {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Err returns nil for a valid result and an *InvalidError otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &InvalidError{Fields: r.FailingFields(), Failures: r.Failures}
}

// ToResponse converts a valid result into the external submission record.
// Answers follow display order. respondentID is stored as given.
func (r Result) ToResponse(surveyID, respondentID string, at time.Time) (survey.Response, error) {
	if !r.Valid {
		return survey.Response{}, fmt.Errorf("submission: to response: %w", r.Err())
	}
	resp := survey.Response{
		SurveyID:     surveyID,
		RespondentID: respondentID,
		ResponseTime: at.UTC(),
		Answers:      make([]survey.Answer, 0, len(r.Values)),
	}
	for _, name := range r.order {
		value, ok := r.Values[name]
		if !ok {
			continue
		}
		resp.Answers = append(resp.Answers, survey.Answer{QuestionID: name, Value: value})
	}
	return resp, nil
}

// InvalidError reports the failing fields of a rejected submission.
type InvalidError struct {
	Fields   []string
	Failures map[string][]validation.Failure
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("submission: %d invalid %s: %s", len(e.Fields), plural(len(e.Fields), "field"), strings.Join(e.Fields, ", "))
}

func (e *InvalidError) Is(target error) bool { return target == ErrInvalid }

// Fill applies raw answers to f, as decoded from JSON or form posts. Answers
// that cannot be stored are returned as failures: RuleUnknown for ids the
// form does not have and RuleType for values of the wrong shape or unknown
// options.
func Fill(f *form.Form, answers map[string]any) map[string][]validation.Failure {
	var failures map[string][]validation.Failure
	add := func(id string, failure validation.Failure) {
		if failures == nil {
			failures = make(map[string][]validation.Failure)
		}
		failures[id] = append(failures[id], failure)
	}

	for _, field := range f.Fields() {
		raw, ok := answers[field.Name]
		if !ok {
			continue
		}
		if err := f.Set(field.Name, raw); err != nil {
			add(field.Name, validation.Failure{Rule: RuleType, Message: typeMessage(err)})
		}
	}
	for id := range answers {
		if _, ok := f.Node(id); !ok {
			add(id, validation.Failure{Rule: RuleUnknown, Message: "This question is not part of the survey."})
		}
	}
	return failures
}

func typeMessage(err error) string {
	switch {
	case errors.Is(err, form.ErrUnknownOption):
		return "Select one of the listed options."
	case errors.Is(err, form.ErrTypeMismatch):
		return "This answer has the wrong format."
	default:
		return err.Error()
	}
}

// Merge folds extra failures into r, turning it invalid when any are given.
func (r Result) Merge(extra map[string][]validation.Failure) Result {
	if len(extra) == 0 {
		return r
	}
	merged := make(map[string][]validation.Failure, len(r.Failures)+len(extra))
	for id, failures := range r.Failures {
		merged[id] = append(merged[id], failures...)
	}
	for id, failures := range extra {
		merged[id] = append(merged[id], failures...)
	}
	return Result{Valid: false, Failures: merged, order: r.order}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
