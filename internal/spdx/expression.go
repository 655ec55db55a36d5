package spdx

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/spdxscan/domain"
)

// ParseExpression parses an SPDX license expression into a tree.
//
// Grammar, loosest binding first:
//
//	or-expr   := and-expr ("OR" and-expr)*
//	and-expr  := with-expr ("AND" with-expr)*
//	with-expr := primary ("WITH" exception-id)?
//	primary   := license-id "+"? | "(" or-expr ")"
//
// Identifiers are case-sensitive; the operators are the uppercase tokens
// AND, OR and WITH. Anything else, including lowercase operators, is
// treated as an identifier and rejected by the grammar.
func ParseExpression(input string) (*domain.LicenseExpr, error) {
	tokens, err := tokenizeExpr(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty license expression")
	}
	p := &exprParser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected token %q after expression", p.tokens[p.pos])
	}
	return expr, nil
}

func tokenizeExpr(input string) ([]string, error) {
	var tokens []string
	for i := 0; i < len(input); {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(' || c == ')':
			tokens = append(tokens, string(c))
			i++
		case isIdentChar(c):
			j := i
			for j < len(input) && isIdentChar(input[j]) {
				j++
			}
			// Trailing "+" binds to the identifier (GPL-2.0+)
			if j < len(input) && input[j] == '+' {
				j++
			}
			tokens = append(tokens, input[i:j])
			i = j
		default:
			return nil, fmt.Errorf("invalid character %q in license expression", c)
		}
	}
	return tokens, nil
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '-' || c == '.'
}

type exprParser struct {
	tokens []string
	pos    int
}

func (p *exprParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *exprParser) next() string {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *exprParser) parseOr() (*domain.LicenseExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == "OR" {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &domain.LicenseExpr{Operator: domain.ExprOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseAnd() (*domain.LicenseExpr, error) {
	left, err := p.parseWith()
	if err != nil {
		return nil, err
	}
	for p.peek() == "AND" {
		p.next()
		right, err := p.parseWith()
		if err != nil {
			return nil, err
		}
		left = &domain.LicenseExpr{Operator: domain.ExprAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseWith() (*domain.LicenseExpr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek() == "WITH" {
		p.next()
		exc := p.next()
		if exc == "" || exc == "(" || exc == ")" || isOperator(exc) {
			return nil, fmt.Errorf("WITH must be followed by an exception identifier")
		}
		if !expr.IsLeaf() {
			return nil, fmt.Errorf("WITH applies to a single license identifier")
		}
		expr.Exception = exc
	}
	return expr, nil
}

func (p *exprParser) parsePrimary() (*domain.LicenseExpr, error) {
	tok := p.next()
	switch {
	case tok == "":
		return nil, fmt.Errorf("unexpected end of license expression")
	case tok == "(":
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		return expr, nil
	case tok == ")" || isOperator(tok):
		return nil, fmt.Errorf("unexpected token %q", tok)
	default:
		leaf := &domain.LicenseExpr{License: tok}
		if strings.HasSuffix(tok, "+") {
			leaf.License = strings.TrimSuffix(tok, "+")
			leaf.OrLater = true
		}
		return leaf, nil
	}
}

func isOperator(tok string) bool {
	return tok == "AND" || tok == "OR" || tok == "WITH"
}

// ValidateExpression checks every leaf identifier against the known set
// and returns the unknown license and exception identifiers in
// left-to-right order
func ValidateExpression(expr *domain.LicenseExpr, set *LicenseSet) (unknownLicenses, unknownExceptions []string) {
	for _, id := range expr.Leaves() {
		if !set.HasLicense(id) {
			unknownLicenses = append(unknownLicenses, id)
		}
	}
	for _, id := range expr.Exceptions() {
		if !set.HasException(id) {
			unknownExceptions = append(unknownExceptions, id)
		}
	}
	return unknownLicenses, unknownExceptions
}
