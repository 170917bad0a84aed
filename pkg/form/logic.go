package form

import (
	"fmt"

	"github.com/goliatone/go-surveyform/pkg/survey"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

func (f *Form) enableLogic(evaluator visibility.Evaluator, extras map[string]any) error {
	f.evaluator = evaluator
	f.extras = extras
	f.rules = make(map[string]string)
	f.dependents = make(map[string][]string)

	for _, field := range f.model.Fields {
		if len(field.Logic) == 0 {
			continue
		}
		rule, err := visibility.Expression(field.Logic)
		if err != nil {
			return fmt.Errorf("form: field %q: %w", field.Name, err)
		}
		f.rules[field.Name] = rule

		seen := make(map[string]bool)
		for _, logic := range field.Logic {
			if _, ok := f.fields[logic.QuestionID]; !ok {
				return fmt.Errorf("form: field %q: %w: %q", field.Name, survey.ErrUnknownLogicTarget, logic.QuestionID)
			}
			if !seen[logic.QuestionID] {
				seen[logic.QuestionID] = true
				f.dependents[logic.QuestionID] = append(f.dependents[logic.QuestionID], field.Name)
			}
		}
	}
	return f.evaluateAll()
}

func (f *Form) evaluateAll() error {
	// Display order lets earlier triggers settle before later dependents.
	for _, field := range f.model.Fields {
		if _, ok := f.rules[field.Name]; !ok {
			continue
		}
		if _, err := f.evaluate(field.Name); err != nil {
			return err
		}
	}
	return nil
}

// refresh re-evaluates the fields depending on changed, following chains of
// dependents whose visibility flips.
func (f *Form) refresh(changed string) error {
	if f.evaluator == nil {
		return nil
	}
	queue := append([]string(nil), f.dependents[changed]...)
	visited := map[string]bool{changed: true}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		flipped, err := f.evaluate(id)
		if err != nil {
			return err
		}
		if flipped {
			queue = append(queue, f.dependents[id]...)
		}
	}
	return nil
}

// evaluate updates the hidden flag of one field and reports whether it
// changed. Hidden fields contribute no value to the evaluation context.
func (f *Form) evaluate(id string) (bool, error) {
	visible, err := f.evaluator.Eval(id, f.rules[id], f.logicContext())
	if err != nil {
		return false, fmt.Errorf("form: field %q: evaluate logic: %w", id, err)
	}
	was := f.hidden[id]
	if visible {
		delete(f.hidden, id)
	} else {
		f.hidden[id] = true
	}
	return was == visible, nil
}

func (f *Form) logicContext() visibility.Context {
	ctx := visibility.ContextFromValues(f.Values())
	ctx.Extras = f.extras
	return ctx
}
