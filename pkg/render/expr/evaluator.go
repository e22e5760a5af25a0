// Package expr evaluates the conditional expressions allowed inside
// {{ ... }} placeholder tokens. It is a small, dependency-free evaluator:
// expressions are tokenized and parsed by recursive descent, and identifiers
// resolve only against the supplied values map. There is no ambient scope, no
// property access, and no function calls, so template authors cannot reach
// engine internals from a placeholder.
//
// Supported forms:
//   - bare identifiers: `status`
//   - comparisons: `status === 'active'`, `count != 3`, `agreed == true`
//   - boolean composition: `a && b`, `a || !b`, parentheses
//   - ternary selection: `status === 'active' ? 'Active' : 'Inactive'`
//
// `===`/`!==` compare without type coercion; `==`/`!=` coerce operands the
// way form values usually need (numbers and booleans arrive as strings).
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Eval parses and evaluates expression against values. Ternary expressions
// yield the selected branch's value; boolean forms yield a bool; a bare
// identifier yields the bound value (nil when unbound). Malformed expressions
// return an error.
func Eval(expression string, values map[string]any) (any, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, errors.New("expr: empty expression")
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}

	stream := &tokenStream{tokens: tokens}
	node, err := parseTernary(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node.eval(values), nil
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq       // ==
	tokenStrictEq // ===
	tokenNeq      // !=
	tokenStrictNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
	tokenQuestion
	tokenColon
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func() byte {
		if i >= len(input) {
			return 0
		}
		return input[i]
	}

	for i < len(input) {
		ch := peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			i++
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
		case ch == ')':
			i++
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
		case ch == '?':
			i++
			tokens = append(tokens, token{kind: tokenQuestion, raw: "?"})
		case ch == ':':
			i++
			tokens = append(tokens, token{kind: tokenColon, raw: ":"})
		case ch == '!':
			i++
			if strings.HasPrefix(input[i:], "==") {
				i += 2
				tokens = append(tokens, token{kind: tokenStrictNeq, raw: "!=="})
			} else if peek() == '=' {
				i++
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
			} else {
				tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			}
		case ch == '=':
			if strings.HasPrefix(input[i:], "===") {
				i += 3
				tokens = append(tokens, token{kind: tokenStrictEq, raw: "==="})
			} else if strings.HasPrefix(input[i:], "==") {
				i += 2
				tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			} else {
				return nil, errors.New("expr: unexpected '='; use '==' or '==='")
			}
		case ch == '&':
			if !strings.HasPrefix(input[i:], "&&") {
				return nil, errors.New("expr: unexpected '&'; use '&&'")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
		case ch == '|':
			if !strings.HasPrefix(input[i:], "||") {
				return nil, errors.New("expr: unexpected '|'; use '||'")
			}
			i += 2
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
		case ch == '"' || ch == '\'':
			value, rest, err := scanString(input[i:])
			if err != nil {
				return nil, err
			}
			i = len(input) - len(rest)
			tokens = append(tokens, token{kind: tokenString, raw: value})
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\n\r()!=&|?:'\"", rune(input[i])) {
				i++
			}
			raw := input[start:i]
			switch raw {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: raw})
			case "null", "undefined":
				tokens = append(tokens, token{kind: tokenNull, raw: "null"})
			default:
				if _, err := strconv.ParseFloat(raw, 64); err == nil {
					tokens = append(tokens, token{kind: tokenNumber, raw: raw})
				} else {
					tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
				}
			}
		}
	}
	return tokens, nil
}

// scanString consumes a single- or double-quoted literal from the head of
// input and returns the unescaped value plus the remaining input.
func scanString(input string) (string, string, error) {
	quote := input[0]
	var b strings.Builder
	escaped := false
	for i := 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == quote {
			return b.String(), input[i+1:], nil
		}
		b.WriteByte(c)
	}
	return "", "", errors.New("expr: unterminated string literal")
}

type node interface {
	eval(values map[string]any) any
}

type literalNode struct{ value any }

func (n literalNode) eval(map[string]any) any { return n.value }

type identifierNode struct{ name string }

func (n identifierNode) eval(values map[string]any) any {
	if values == nil {
		return nil
	}
	return values[n.name]
}

type ternaryNode struct {
	cond, then, other node
}

func (n ternaryNode) eval(values map[string]any) any {
	if Truthy(n.cond.eval(values)) {
		return n.then.eval(values)
	}
	return n.other.eval(values)
}

type orNode struct{ left, right node }

func (n orNode) eval(values map[string]any) any {
	return Truthy(n.left.eval(values)) || Truthy(n.right.eval(values))
}

type andNode struct{ left, right node }

func (n andNode) eval(values map[string]any) any {
	return Truthy(n.left.eval(values)) && Truthy(n.right.eval(values))
}

type notNode struct{ inner node }

func (n notNode) eval(values map[string]any) any {
	return !Truthy(n.inner.eval(values))
}

type compareNode struct {
	left, right node
	op          tokenKind
}

func (n compareNode) eval(values map[string]any) any {
	left := n.left.eval(values)
	right := n.right.eval(values)
	switch n.op {
	case tokenStrictEq:
		return strictEqual(left, right)
	case tokenStrictNeq:
		return !strictEqual(left, right)
	case tokenEq:
		return looseEqual(left, right)
	default:
		return !looseEqual(left, right)
	}
}

type tokenStream struct {
	tokens []token
	pos    int
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) peekKind() (tokenKind, bool) {
	if s.pos >= len(s.tokens) {
		return 0, false
	}
	return s.tokens[s.pos].kind, true
}

func parseTernary(s *tokenStream) (node, error) {
	cond, err := parseOr(s)
	if err != nil {
		return nil, err
	}
	if !s.match(tokenQuestion) {
		return cond, nil
	}
	then, err := parseTernary(s)
	if err != nil {
		return nil, err
	}
	if !s.match(tokenColon) {
		return nil, errors.New("expr: ternary is missing ':'")
	}
	other, err := parseTernary(s)
	if err != nil {
		return nil, err
	}
	return ternaryNode{cond: cond, then: then, other: other}, nil
}

func parseOr(s *tokenStream) (node, error) {
	left, err := parseAnd(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenOr) {
		right, err := parseAnd(s)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(s *tokenStream) (node, error) {
	left, err := parseComparison(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenAnd) {
		right, err := parseComparison(s)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseComparison(s *tokenStream) (node, error) {
	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	kind, ok := s.peekKind()
	if !ok {
		return left, nil
	}
	switch kind {
	case tokenEq, tokenStrictEq, tokenNeq, tokenStrictNeq:
		s.pos++
		right, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return compareNode{left: left, right: right, op: kind}, nil
	}
	return left, nil
}

func parseUnary(s *tokenStream) (node, error) {
	if s.match(tokenNot) {
		inner, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parseOperand(s)
}

func parseOperand(s *tokenStream) (node, error) {
	if s.match(tokenLParen) {
		inner, err := parseTernary(s)
		if err != nil {
			return nil, err
		}
		if !s.match(tokenRParen) {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, nil
	}

	kind, ok := s.peekKind()
	if !ok {
		return nil, errors.New("expr: unexpected end of expression")
	}
	tok := s.tokens[s.pos]
	switch kind {
	case tokenIdentifier:
		s.pos++
		return identifierNode{name: tok.raw}, nil
	case tokenString:
		s.pos++
		return literalNode{value: tok.raw}, nil
	case tokenNumber:
		s.pos++
		f, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expr: invalid number literal %q", tok.raw)
		}
		return literalNode{value: f}, nil
	case tokenBool:
		s.pos++
		return literalNode{value: tok.raw == "true"}, nil
	case tokenNull:
		s.pos++
		return literalNode{value: nil}, nil
	default:
		return nil, fmt.Errorf("expr: expected operand, got %q", tok.raw)
	}
}

// Truthy reports whether a resolved value counts as truthy: nil, false,
// zero numbers, and blank strings are falsy; everything else is truthy.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

// strictEqual mirrors `===`: values must agree in kind and value. All numeric
// kinds normalize to float64 so `3` compares equal to float64(3).
func strictEqual(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	if lf, ok := asNumber(left); ok {
		rf, ok := asNumber(right)
		return ok && lf == rf
	}
	switch lv := left.(type) {
	case string:
		rv, ok := right.(string)
		return ok && lv == rv
	case bool:
		rv, ok := right.(bool)
		return ok && lv == rv
	default:
		return false
	}
}

// looseEqual mirrors `==` with form-friendly coercion: if either side is a
// bool both coerce to bool, if either parses as a number both compare
// numerically, otherwise the string forms are compared.
func looseEqual(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	if _, ok := left.(bool); ok {
		return coerceBool(left) == coerceBool(right)
	}
	if _, ok := right.(bool); ok {
		return coerceBool(left) == coerceBool(right)
	}
	if lf, ok := asNumber(left); ok {
		if rf, ok := coerceNumber(right); ok {
			return lf == rf
		}
		return false
	}
	if rf, ok := asNumber(right); ok {
		if lf, ok := coerceNumber(left); ok {
			return lf == rf
		}
		return false
	}
	return coerceString(left) == coerceString(right)
}

// asNumber converts native numeric kinds only; strings do not qualify.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// coerceNumber additionally accepts numeric strings.
func coerceNumber(value any) (float64, bool) {
	if f, ok := asNumber(value); ok {
		return f, true
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
		return strings.TrimSpace(v) != ""
	default:
		return Truthy(value)
	}
}

// coerceString renders any supported value as the string form used in
// comparisons and substitutions.
func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(value)
	}
}

// Stringify exposes the evaluator's string coercion so the renderer
// substitutes values exactly the way comparisons see them.
func Stringify(value any) string {
	return coerceString(value)
}
