// Package visibility evaluates whether survey questions are shown. Rules are
// strings understood by an Evaluator (see the expr subpackage); Expression
// derives one from a question's conditional logic.
package visibility

// Evaluator determines whether a field should be visible based on a rule
// string and the current answers.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the raw answers keyed
// by question id while Extras lets callers inject flags such as the rendering
// channel.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}
