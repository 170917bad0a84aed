package visibility

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-surveyform/pkg/survey"
)

// ErrUnsupportedLogicValue is returned when a logic rule compares against a
// value that cannot be expressed as a literal.
var ErrUnsupportedLogicValue = errors.New("unsupported logic value")

// Expression turns a question's conditional logic into a rule string for an
// Evaluator. When any show rule exists the question is visible only if one of
// them matches; any matching hide rule hides it. No rules yields "", which
// evaluators treat as always visible.
func Expression(rules []survey.ConditionalLogic) (string, error) {
	var shows, hides []string
	for _, rule := range rules {
		lit, err := literal(rule.Value)
		if err != nil {
			return "", fmt.Errorf("visibility: rule on %q: %w", rule.QuestionID, err)
		}
		cond := Identifier(rule.QuestionID) + " == " + lit
		switch rule.Action {
		case survey.LogicShow:
			shows = append(shows, cond)
		case survey.LogicHide:
			hides = append(hides, cond)
		default:
			return "", fmt.Errorf("visibility: %w: %q", survey.ErrUnknownLogicAction, rule.Action)
		}
	}

	var parts []string
	if len(shows) > 0 {
		parts = append(parts, "("+strings.Join(shows, " || ")+")")
	}
	for _, hide := range hides {
		parts = append(parts, "!("+hide+")")
	}
	return strings.Join(parts, " && "), nil
}

// Identifier renders a question id for an expression. Plain words are kept
// as they are; anything else is wrapped in backticks.
func Identifier(id string) string {
	if plainIdentifier(id) {
		return id
	}
	return "`" + identifierEscaper.Replace(id) + "`"
}

var identifierEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`")

func plainIdentifier(id string) bool {
	if id == "" || strings.HasPrefix(id, "extras.") {
		return false
	}
	switch strings.ToLower(id) {
	case "true", "false", "null", "nil":
		return false
	}
	for i, r := range id {
		letter := r == '_' || unicode.IsLetter(r)
		if i == 0 && !letter {
			return false
		}
		if !letter && !unicode.IsDigit(r) && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

func literal(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "null", nil
	case string:
		return strconv.Quote(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case survey.Value:
		return literal(v.Raw())
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedLogicValue, value)
	}
}

// ContextFromValues builds an evaluation context from answer values.
func ContextFromValues(values map[string]survey.Value) Context {
	raw := make(map[string]any, len(values))
	for id, value := range values {
		raw[id] = value.Raw()
	}
	return Context{Values: raw}
}
