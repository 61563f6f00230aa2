// Package formula evaluates admin-authored arithmetic price formulas against
// live field values.
//
// The grammar is deliberately narrow: numeric literals, field-name
// identifiers, the four basic operators, unary minus, and parentheses.
// Formulas are tokenized and parsed into an expression tree before
// evaluation, so a field name is always resolved as a whole token and never
// as a fragment of a longer name. No general-purpose interpreter is involved
// at any point.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrEmpty is returned when the formula contains no expression.
var ErrEmpty = errors.New("formula: empty formula")

// Evaluate resolves every identifier in the formula against values and
// computes the result. Missing, empty, or non-numeric values resolve to 0,
// matching the behavior the authoring side documents. A non-finite result
// (division by zero and friends) is an error.
func Evaluate(input string, values map[string]any) (float64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrEmpty
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, ErrEmpty
	}

	node, err := parse(tokens)
	if err != nil {
		return 0, err
	}

	result := node.eval(values)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("formula: result is not finite")
	}
	return result, nil
}

// FormatPrice rounds to two decimal places for display.
func FormatPrice(value float64) string {
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', 2, 64)
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdentifier
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '+':
			tokens = append(tokens, token{kind: tokenPlus, raw: "+"})
			i++
		case ch == '-':
			tokens = append(tokens, token{kind: tokenMinus, raw: "-"})
			i++
		case ch == '*':
			tokens = append(tokens, token{kind: tokenStar, raw: "*"})
			i++
		case ch == '/':
			tokens = append(tokens, token{kind: tokenSlash, raw: "/"})
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			raw := input[start:i]
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("formula: invalid number literal %q", raw)
			}
			tokens = append(tokens, token{kind: tokenNumber, raw: raw})
		case isIdentStart(ch):
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdentifier, raw: input[start:i]})
		default:
			return nil, fmt.Errorf("formula: unexpected character %q", string(ch))
		}
	}

	return tokens, nil
}

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || ch >= '0' && ch <= '9'
}

type exprNode interface {
	eval(values map[string]any) float64
}

type exprNumber struct {
	value float64
}

func (n exprNumber) eval(map[string]any) float64 { return n.value }

type exprVariable struct {
	name string
}

func (n exprVariable) eval(values map[string]any) float64 {
	value, ok := values[n.name]
	if !ok {
		return 0
	}
	number, ok := coerceNumber(value)
	if !ok {
		return 0
	}
	return number
}

type exprNegate struct {
	inner exprNode
}

func (n exprNegate) eval(values map[string]any) float64 {
	return -n.inner.eval(values)
}

type exprBinary struct {
	op          tokenKind
	left, right exprNode
}

func (n exprBinary) eval(values map[string]any) float64 {
	left := n.left.eval(values)
	right := n.right.eval(values)
	switch n.op {
	case tokenPlus:
		return left + right
	case tokenMinus:
		return left - right
	case tokenStar:
		return left * right
	default:
		return left / right
	}
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseSum(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("formula: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseSum(stream *tokenStream) (exprNode, error) {
	left, err := parseProduct(stream)
	if err != nil {
		return nil, err
	}
	for {
		var op tokenKind
		switch {
		case stream.match(tokenPlus):
			op = tokenPlus
		case stream.match(tokenMinus):
			op = tokenMinus
		default:
			return left, nil
		}
		right, err := parseProduct(stream)
		if err != nil {
			return nil, err
		}
		left = exprBinary{op: op, left: left, right: right}
	}
}

func parseProduct(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for {
		var op tokenKind
		switch {
		case stream.match(tokenStar):
			op = tokenStar
		case stream.match(tokenSlash):
			op = tokenSlash
		default:
			return left, nil
		}
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprBinary{op: op, left: left, right: right}
	}
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenMinus) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNegate{inner: inner}, nil
	}
	if stream.match(tokenPlus) {
		return parseUnary(stream)
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseSum(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("formula: missing closing ')'")
		}
		return inner, nil
	}

	if tok, ok := stream.consume(tokenNumber); ok {
		value, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("formula: invalid number literal %q", tok.raw)
		}
		return exprNumber{value: value}, nil
	}

	if tok, ok := stream.consume(tokenIdentifier); ok {
		return exprVariable{name: tok.raw}, nil
	}

	if stream.pos >= len(stream.tokens) {
		return nil, errors.New("formula: unexpected end of formula")
	}
	return nil, fmt.Errorf("formula: unexpected token %q", stream.tokens[stream.pos].raw)
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) {
		return false
	}
	if s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) {
		return token{}, false
	}
	if s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case []string:
		// Checkbox values do not carry a numeric interpretation.
		return 0, false
	default:
		return 0, false
	}
}
