package parser

import (
	"strings"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/token"
)

// parseTypeExpr parses a syntactic type: a named path with optional generics
// (`List<Int>`), a function type (`(Int, Int) -> Bool`), a tuple type
// (`(Int, Str)`), or unit (`()`).
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	tok := p.cur
	if p.curIs(token.LPAREN) {
		return p.parseParenTypeExpr(tok)
	}
	path := p.parseTypePath()
	var generics []ast.TypeExpr
	if p.curIs(token.LT) {
		p.advance()
		for !p.curIs(token.GT) {
			generics = append(generics, p.parseTypeExpr())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.GT)
	}
	return ast.NewNamedType(p.span(tok), path, generics)
}

// parseTypePath accepts a dotted type path, e.g. `json.Value`.
func (p *Parser) parseTypePath() string {
	var parts []string
	parts = append(parts, p.expect(token.IDENT).Lexeme)
	for p.curIs(token.DOT) {
		p.advance()
		parts = append(parts, p.expect(token.IDENT).Lexeme)
	}
	return strings.Join(parts, ".")
}

// parseParenTypeExpr disambiguates `()` (unit), `(T1, T2)` (tuple), and
// `(T1, T2) -> Ret` (function type), all of which open with '('.
func (p *Parser) parseParenTypeExpr(start token.Token) ast.TypeExpr {
	p.advance() // '('
	if p.curIs(token.RPAREN) {
		p.advance()
		if p.curIs(token.ARROW) {
			p.advance()
			ret := p.parseTypeExpr()
			return ast.NewFunctionType(p.span(start), nil, ret)
		}
		return ast.NewUnitType(p.span(start))
	}
	var elems []ast.TypeExpr
	for !p.curIs(token.RPAREN) {
		elems = append(elems, p.parseTypeExpr())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	if p.curIs(token.ARROW) {
		p.advance()
		ret := p.parseTypeExpr()
		return ast.NewFunctionType(p.span(start), elems, ret)
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return ast.NewTupleType(p.span(start), elems)
}
