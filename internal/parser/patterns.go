package parser

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/token"
)

// parsePattern parses one pattern: wildcard, binding, literal, enum-variant,
// struct-destructure, or list pattern (spec.md §3's Pattern data model).
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.cur
	switch tok.Type {
	case token.UNDERSCORE:
		p.advance()
		return ast.NewWildcard(tok.Span(p.file))
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE:
		lit := p.parsePrefix()
		return ast.NewLiteralPattern(p.span(tok), lit)
	case token.MINUS:
		lit := p.parsePrefix()
		return ast.NewLiteralPattern(p.span(tok), lit)
	case token.LBRACKET:
		return p.parseListPattern(tok)
	case token.IDENT:
		return p.parseIdentLedPattern(tok)
	default:
		p.advance()
		return ast.NewWildcard(p.span(tok))
	}
}

// parseIdentLedPattern disambiguates a bare binding (`x`), an enum-variant
// pattern (`Enum.Variant(sub...)` or `Variant(sub...)`), and a
// struct-destructure pattern (`Name{field: pattern, ...}`), all of which
// start with an identifier.
func (p *Parser) parseIdentLedPattern(start token.Token) ast.Pattern {
	name := start.Lexeme
	p.advance()

	enumName := ""
	variantName := name
	if p.curIs(token.DOT) {
		p.advance()
		enumName = name
		variantName = p.expect(token.IDENT).Lexeme
	}

	if p.curIs(token.LPAREN) {
		p.advance()
		var subs []ast.Pattern
		for !p.curIs(token.RPAREN) {
			subs = append(subs, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		return ast.NewEnumVariantPattern(p.span(start), enumName, variantName, subs)
	}

	if p.curIs(token.LBRACE) {
		p.advance()
		fields := map[string]ast.Pattern{}
		for !p.curIs(token.RBRACE) {
			fname := p.expect(token.IDENT).Lexeme
			p.expect(token.COLON)
			fields[fname] = p.parsePattern()
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
		return ast.NewStructDestructurePattern(p.span(start), name, fields)
	}

	if enumName != "" || isUpperIdent(variantName) {
		// A capitalized bare identifier with no payload, e.g. `None`, still
		// denotes a unit enum variant rather than a fresh binding.
		return ast.NewEnumVariantPattern(p.span(start), enumName, variantName, nil)
	}
	return ast.NewBindingPattern(p.span(start), name)
}

func isUpperIdent(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

// parseListPattern parses `[head..., rest?, ...tail]`.
func (p *Parser) parseListPattern(start token.Token) ast.Pattern {
	p.advance() // '['
	var head, tail []ast.Pattern
	var rest *ast.BindingPattern
	seenRest := false
	for !p.curIs(token.RBRACKET) {
		if p.curIs(token.DOTDOT) {
			p.advance()
			name := p.expect(token.IDENT).Lexeme
			b := ast.NewBindingPattern(p.span(start), name)
			rest = b
			seenRest = true
		} else {
			elem := p.parsePattern()
			if seenRest {
				tail = append(tail, elem)
			} else {
				head = append(head, elem)
			}
		}
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return ast.NewListPattern(p.span(start), head, rest, tail)
}
