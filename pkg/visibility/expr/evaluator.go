package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/visibility"
)

// Evaluator is a small, dependency-free visibility evaluator over answer
// values.
//
// Supported forms:
//   - truthiness: `q5`
//   - comparisons: `q1 == "Daily"`, `q7 != 0`, `q5 == true`, `q4 == null`
//   - composition: `q5 == true && !(q1 == "Rarely")`, `a || b`
//
// Identifiers are question ids read from visibility.Context.Values, or from
// visibility.Context.Extras with the `extras.` prefix. Ids that are not plain
// words are written in backticks (`usage freq` == "x"), with \` and \\ as
// escapes; a backticked id never reads extras. When the answer is a list,
// `==` tests membership and `!=` its negation.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval evaluates rule; an empty rule is always visible.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	node, err := Parse(rule)
	if err != nil {
		return false, err
	}
	if node == nil {
		return true, nil
	}
	return node.eval(ctx)
}

// Node is a parsed expression.
type Node interface {
	eval(ctx visibility.Context) (bool, error)
}

// Parse compiles rule into a Node. A blank rule yields a nil Node.
func Parse(rule string) (Node, error) {
	if strings.TrimSpace(rule) == "" {
		return nil, nil
	}
	tokens, err := tokenize(rule)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", p.tokens[p.pos].raw)
	}
	return node, nil
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind   tokenKind
	raw    string
	quoted bool
}

var operators = []struct {
	text string
	kind tokenKind
}{
	{"==", tokenEq},
	{"!=", tokenNeq},
	{"&&", tokenAnd},
	{"||", tokenOr},
	{"!", tokenNot},
	{"(", tokenLParen},
	{")", tokenRParen},
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	rest := input

scan:
	for {
		rest = strings.TrimLeft(rest, " \t\r\n")
		if rest == "" {
			return tokens, nil
		}

		for _, op := range operators {
			if strings.HasPrefix(rest, op.text) {
				tokens = append(tokens, token{kind: op.kind, raw: op.text})
				rest = rest[len(op.text):]
				continue scan
			}
		}

		switch rest[0] {
		case '`':
			name, n, err := readIdentifier(rest)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenIdentifier, raw: name, quoted: true})
			rest = rest[n:]
			continue
		case '"', '\'':
			value, n, err := readString(rest)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			rest = rest[n:]
			continue
		case '=', '&', '|':
			return nil, fmt.Errorf("visibility/expr: unexpected %q; use ==, && or ||", rest[0])
		}

		end := strings.IndexAny(rest, " \t\r\n()!=&|")
		if end < 0 {
			end = len(rest)
		}
		word := rest[:end]
		rest = rest[end:]
		tokens = append(tokens, classify(word))
	}
}

// readString reads a quoted literal at the start of s and returns its value
// and the number of bytes consumed.
func readString(s string) (string, int, error) {
	quote := s[0]
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == quote:
			body := s[1:i]
			if quote == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return "", 0, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
			}
			return value, i + 1, nil
		}
	}
	return "", 0, errors.New("visibility/expr: unterminated string literal")
}

// readIdentifier reads a backticked identifier at the start of s.
func readIdentifier(s string) (string, int, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '`' || s[i+1] == '\\') {
				i++
			}
			b.WriteByte(s[i])
		case '`':
			return b.String(), i + 1, nil
		default:
			b.WriteByte(s[i])
		}
	}
	return "", 0, errors.New("visibility/expr: unterminated identifier")
}

func classify(word string) token {
	switch strings.ToLower(word) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(word)}
	case "null", "nil":
		return token{kind: tokenNull, raw: "null"}
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return token{kind: tokenNumber, raw: word}
	}
	return token{kind: tokenIdentifier, raw: word}
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek(kind tokenKind) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind
}

func (p *parser) match(kind tokenKind) bool {
	if !p.peek(kind) {
		return false
	}
	p.pos++
	return true
}

func (p *parser) or() (Node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
	return left, nil
}

func (p *parser) and() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
	return left, nil
}

func (p *parser) unary() (Node, error) {
	if p.match(tokenNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Node, error) {
	if p.match(tokenLParen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	if !p.peek(tokenIdentifier) {
		if p.pos >= len(p.tokens) {
			return nil, errors.New("visibility/expr: empty expression")
		}
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", p.tokens[p.pos].raw)
	}
	ident := p.tokens[p.pos]
	p.pos++

	for _, op := range []tokenKind{tokenEq, tokenNeq} {
		if p.match(op) {
			lit, err := p.literal()
			if err != nil {
				return nil, err
			}
			return compareNode{identifier: ident.raw, quoted: ident.quoted, negate: op == tokenNeq, literal: lit}, nil
		}
	}
	return truthyNode{identifier: ident.raw, quoted: ident.quoted}, nil
}

func (p *parser) literal() (token, error) {
	if p.pos >= len(p.tokens) {
		return token{}, errors.New("visibility/expr: missing literal")
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokenString, tokenNumber, tokenBool, tokenNull:
		return tok, nil
	case tokenIdentifier:
		// bare words compare as strings
		return token{kind: tokenString, raw: tok.raw}, nil
	default:
		return token{}, fmt.Errorf("visibility/expr: expected literal, got %q", tok.raw)
	}
}

type orNode struct{ left, right Node }

func (n orNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

type andNode struct{ left, right Node }

func (n andNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

type notNode struct{ inner Node }

func (n notNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	return !ok, err
}

type truthyNode struct {
	identifier string
	quoted     bool
}

func (n truthyNode) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.identifier, n.quoted)
	return truthy(value), nil
}

type compareNode struct {
	identifier string
	quoted     bool
	negate     bool
	literal    token
}

func (n compareNode) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.identifier, n.quoted)

	var (
		equal bool
		err   error
	)
	if items, ok := listItems(value); ok && n.literal.kind != tokenNull {
		for _, item := range items {
			if equal, err = matches(item, n.literal); err != nil || equal {
				break
			}
		}
	} else {
		equal, err = matches(value, n.literal)
	}
	if err != nil {
		return false, err
	}
	return equal != n.negate, nil
}

func matches(value any, lit token) (bool, error) {
	switch lit.kind {
	case tokenNull:
		return value == nil, nil
	case tokenBool:
		got, _ := coerceBool(value)
		return got == (lit.raw == "true"), nil
	case tokenNumber:
		want, err := strconv.ParseFloat(lit.raw, 64)
		if err != nil {
			return false, fmt.Errorf("visibility/expr: invalid number literal %q", lit.raw)
		}
		got, ok := coerceNumber(value)
		return ok && got == want, nil
	case tokenString:
		return coerceString(value) == lit.raw, nil
	default:
		return false, errors.New("visibility/expr: unsupported literal")
	}
}

func lookup(ctx visibility.Context, key string, quoted bool) (any, bool) {
	if rest, ok := strings.CutPrefix(key, "extras."); ok && !quoted {
		v, found := ctx.Extras[rest]
		return v, found
	}
	v, found := ctx.Values[key]
	return v, found
}

func listItems(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
	}
	return truthy(value), true
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(value)
	}
}
