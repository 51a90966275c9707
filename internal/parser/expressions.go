package parser

import (
	"strconv"
	"strings"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/token"
)

// Precedence levels, lowest to highest, per spec.md §4.B's operator table:
// or < and < not < is/comparisons < +/- < * / % < unary < call/index/member.
type precedence int

const (
	LOWEST precedence = iota
	OR_PREC
	AND_PREC
	NOT_PREC
	COMPARE_PREC
	ADD_PREC
	MUL_PREC
	UNARY_PREC
	CALL_PREC
)

var infixPrecedence = map[token.Type]precedence{
	token.OR:     OR_PREC,
	token.AND:    AND_PREC,
	token.IS:     COMPARE_PREC,
	token.EQ:     COMPARE_PREC,
	token.NOT_EQ: COMPARE_PREC,
	token.LT:     COMPARE_PREC,
	token.LTE:    COMPARE_PREC,
	token.GT:     COMPARE_PREC,
	token.GTE:    COMPARE_PREC,
	token.PLUS:   ADD_PREC,
	token.MINUS:  ADD_PREC,
	token.STAR:   MUL_PREC,
	token.SLASH:  MUL_PREC,
	token.PERCENT: MUL_PREC,
	token.DOTDOT: ADD_PREC,
	token.DOT:    CALL_PREC,
	token.LPAREN: CALL_PREC,
	token.LBRACKET: CALL_PREC,
}

func (p *Parser) peekPrecedence() precedence {
	if prec, ok := infixPrecedence[p.cur.Type]; ok {
		return prec
	}
	return LOWEST
}

// parseExpression implements Pratt precedence climbing: a prefix parser
// produces the left operand, then infix operators are folded in while their
// precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec precedence) ast.Expression {
	left := p.parsePrefix()
	for !p.curIs(token.NEWLINE) && !p.curIs(token.EOF) && p.peekPrecedence() > minPrec {
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur
	switch tok.Type {
	case token.NOT:
		p.advance()
		operand := p.parseExpression(NOT_PREC)
		return ast.NewUnaryOp(p.span(tok), "not", operand)
	case token.MINUS:
		p.advance()
		operand := p.parseExpression(UNARY_PREC)
		return ast.NewUnaryOp(p.span(tok), "-", operand)
	case token.AWAIT:
		p.advance()
		operand := p.parseExpression(UNARY_PREC)
		return ast.NewAwait(p.span(tok), operand)
	case token.SPAWN:
		p.advance()
		operand := p.parseExpression(UNARY_PREC)
		return ast.NewSpawn(p.span(tok), operand)
	case token.LAMBDA:
		return p.parseLambda()
	case token.MATCH:
		return p.parseMatch()
	case token.INT:
		p.advance()
		return ast.NewIntLiteral(tok.Span(p.file), int64Literal(tok))
	case token.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(strings.ReplaceAll(tok.Lexeme, "_", ""), 64)
		return ast.NewFloatLiteral(tok.Span(p.file), v)
	case token.STRING:
		p.advance()
		return ast.NewStringLiteral(tok.Span(p.file), tok.Lexeme)
	case token.FSTRING:
		return p.parseFString(tok)
	case token.TRUE:
		p.advance()
		return ast.NewBoolLiteral(tok.Span(p.file), true)
	case token.FALSE:
		p.advance()
		return ast.NewBoolLiteral(tok.Span(p.file), false)
	case token.NONE:
		p.advance()
		return ast.NewUnitLiteral(tok.Span(p.file))
	case token.SELF, token.IDENT:
		p.advance()
		ident := ast.NewIdentifier(tok.Span(p.file), tok.Lexeme)
		if p.curIs(token.LBRACE) && p.structLiteralAllowed() {
			return p.parseStructLit(tok, ident.Name)
		}
		return ident
	case token.LPAREN:
		p.advance()
		if p.curIs(token.RPAREN) {
			p.advance()
			return ast.NewUnitLiteral(p.span(tok))
		}
		inner := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		return inner
	case token.LBRACKET:
		return p.parseListLitOrComprehension(tok)
	case token.LBRACE:
		return p.parseDictLitOrComprehension(tok)
	default:
		p.errorf(tok, diagnostics.ParseError, "unexpected token %s (%q) in expression", tok.Type, tok.Lexeme)
		p.advance()
		return ast.NewUnitLiteral(tok.Span(p.file))
	}
}

// structLiteralAllowed guards against ambiguity between `if x {` (never
// valid; Otter if-headers end in ':') and `Name{...}` struct literals, so
// it is always safe to treat IDENT '{' as a struct literal in expression
// position.
func (p *Parser) structLiteralAllowed() bool { return true }

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.cur
	switch tok.Type {
	case token.DOT:
		p.advance()
		name := p.expect(token.IDENT).Lexeme
		return ast.NewMemberAccess(p.span(tok), left, name)
	case token.LPAREN:
		return p.parseCall(left, tok)
	case token.LBRACKET:
		p.advance()
		idx := p.parseExpression(LOWEST)
		p.expect(token.RBRACKET)
		return ast.NewIndex(p.span(tok), left, idx)
	case token.IS:
		p.advance()
		negated := false
		if p.curIs(token.NOT) {
			p.advance()
			negated = true
		}
		right := p.parseExpression(COMPARE_PREC)
		return ast.NewIsCheck(p.span(tok), negated, left, right)
	case token.AND:
		p.advance()
		right := p.parseExpression(AND_PREC)
		return ast.NewLogicalOp(p.span(tok), "and", left, right)
	case token.OR:
		p.advance()
		right := p.parseExpression(OR_PREC)
		return ast.NewLogicalOp(p.span(tok), "or", left, right)
	case token.DOTDOT:
		p.advance()
		right := p.parseExpression(ADD_PREC)
		return ast.NewRangeExpr(p.span(tok), left, right)
	case token.EQ, token.NOT_EQ, token.LT, token.LTE, token.GT, token.GTE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		p.advance()
		prec := infixPrecedence[tok.Type]
		right := p.parseExpression(prec)
		return ast.NewBinaryOp(p.span(tok), string(tok.Type), left, right)
	default:
		p.errorf(tok, diagnostics.ParseError, "unexpected infix token %s", tok.Type)
		p.advance()
		return left
	}
}

func (p *Parser) parseCall(callee ast.Expression, start token.Token) ast.Expression {
	p.expect(token.LPAREN)
	var args []ast.Expression
	for !p.curIs(token.RPAREN) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return ast.NewCall(p.span(start), callee, args)
}

func (p *Parser) parseStructLit(start token.Token, name string) ast.Expression {
	p.expect(token.LBRACE)
	var fields []ast.StructLitField
	for !p.curIs(token.RBRACE) {
		fname := p.expect(token.IDENT).Lexeme
		p.expect(token.COLON)
		fval := p.parseExpression(LOWEST)
		fields = append(fields, ast.StructLitField{Name: fname, Value: fval})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return ast.NewStructLit(p.span(start), name, fields)
}

// parseListLitOrComprehension parses `[e1, e2, ...]` or `[Yield for Target in
// Iter if Filter]`.
func (p *Parser) parseListLitOrComprehension(start token.Token) ast.Expression {
	p.advance() // '['
	if p.curIs(token.RBRACKET) {
		p.advance()
		return ast.NewListLit(p.span(start), nil)
	}
	first := p.parseExpression(LOWEST)
	if p.curIs(token.FOR) {
		p.advance()
		target := p.parsePattern()
		p.expect(token.IN)
		iter := p.parseExpression(LOWEST)
		var filter ast.Expression
		if p.curIs(token.IF) {
			p.advance()
			filter = p.parseExpression(LOWEST)
		}
		p.expect(token.RBRACKET)
		return ast.NewListComprehension(p.span(start), first, target, iter, filter)
	}
	elems := []ast.Expression{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACKET) {
			break
		}
		elems = append(elems, p.parseExpression(LOWEST))
	}
	p.expect(token.RBRACKET)
	return ast.NewListLit(p.span(start), elems)
}

// parseDictLitOrComprehension parses `{k: v, ...}` or `{K: V for Target in
// Iter if Filter}`.
func (p *Parser) parseDictLitOrComprehension(start token.Token) ast.Expression {
	p.advance() // '{'
	if p.curIs(token.RBRACE) {
		p.advance()
		return ast.NewDictLit(p.span(start), nil)
	}
	key := p.parseExpression(LOWEST)
	p.expect(token.COLON)
	value := p.parseExpression(LOWEST)
	if p.curIs(token.FOR) {
		p.advance()
		target := p.parsePattern()
		p.expect(token.IN)
		iter := p.parseExpression(LOWEST)
		var filter ast.Expression
		if p.curIs(token.IF) {
			p.advance()
			filter = p.parseExpression(LOWEST)
		}
		p.expect(token.RBRACE)
		return ast.NewDictComprehension(p.span(start), key, value, target, iter, filter)
	}
	entries := []ast.DictEntry{{Key: key, Value: value}}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACE) {
			break
		}
		k := p.parseExpression(LOWEST)
		p.expect(token.COLON)
		v := p.parseExpression(LOWEST)
		entries = append(entries, ast.DictEntry{Key: k, Value: v})
	}
	p.expect(token.RBRACE)
	return ast.NewDictLit(p.span(start), entries)
}

// parseLambda parses `lambda p1, p2: expr`.
func (p *Parser) parseLambda() ast.Expression {
	start := p.cur
	p.advance() // 'lambda'
	var params []ast.Param
	for !p.curIs(token.COLON) {
		params = append(params, ast.Param{Name: p.expect(token.IDENT).Lexeme})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.COLON)
	body := p.parseExpression(LOWEST)
	bodySpan := body.Span()
	return ast.NewLambda(p.span(start), params, []ast.Statement{ast.NewExprStmt(bodySpan, body)})
}

// parseMatch parses `match Scrutinee: (case Pattern: Body)+`.
func (p *Parser) parseMatch() ast.Expression {
	start := p.cur
	p.advance() // 'match'
	scrutinee := p.parseExpression(LOWEST)
	p.expect(token.COLON)
	p.expect(token.NEWLINE)
	p.expect(token.INDENT)

	var arms []ast.MatchArm
	p.skipNewlines()
	for p.curIs(token.CASE) {
		p.advance()
		pat := p.parsePattern()
		body := p.parseBlock()
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body})
		p.skipNewlines()
	}
	p.expect(token.DEDENT)
	return ast.NewMatch(p.span(start), scrutinee, arms)
}

// parseFString re-enters the expression parser on each embedded-expression
// segment the lexer captured (spec.md §3's f-string pre-split model).
func (p *Parser) parseFString(tok token.Token) ast.Expression {
	p.advance()
	segs, _ := tok.Literal.([]lexer.FStringSegment)
	var pieces []ast.FStringPiece
	for _, seg := range segs {
		if !seg.IsExpr {
			pieces = append(pieces, ast.FStringPiece{Literal: seg.Literal})
			continue
		}
		sub := New(p.file, seg.ExprSource, p.sink)
		expr := sub.parseExpression(LOWEST)
		pieces = append(pieces, ast.FStringPiece{Expr: expr})
	}
	return ast.NewFString(tok.Span(p.file), pieces)
}
