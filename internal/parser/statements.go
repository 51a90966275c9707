package parser

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/token"
)

// parseStatement parses one statement inside a function/block body.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.LET:
		return p.parseLet()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		tok := p.cur
		p.advance()
		p.endOfStatement()
		return ast.NewBreakStmt(p.span(tok))
	case token.CONTINUE:
		tok := p.cur
		p.advance()
		p.endOfStatement()
		return ast.NewContinueStmt(p.span(tok))
	case token.PASS:
		tok := p.cur
		p.advance()
		p.endOfStatement()
		return ast.NewPassStmt(p.span(tok))
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.TRY:
		return p.parseTry()
	case token.RAISE:
		return p.parseRaise()
	default:
		return p.parseExprOrAssignStatement()
	}
}

// parseLet handles `let name [: Type] = value`.
func (p *Parser) parseLet() *ast.LetStmt {
	start := p.cur
	p.advance() // 'let'
	name := p.expect(token.IDENT).Lexeme
	var annotation ast.TypeExpr
	if p.curIs(token.COLON) {
		p.advance()
		annotation = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	p.endOfStatement()
	return ast.NewLetStmt(p.span(start), name, annotation, value)
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	start := p.cur
	p.advance() // 'return'
	var value ast.Expression
	if !p.curIs(token.NEWLINE) && !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		value = p.parseExpression(LOWEST)
	}
	p.endOfStatement()
	return ast.NewReturnStmt(p.span(start), value)
}

func (p *Parser) parseRaise() *ast.RaiseStmt {
	start := p.cur
	p.advance() // 'raise'
	var value ast.Expression
	if !p.curIs(token.NEWLINE) && !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		value = p.parseExpression(LOWEST)
	}
	p.endOfStatement()
	return ast.NewRaiseStmt(p.span(start), value)
}

// parseIf parses `if Cond: Body (elif Cond: Body)* (else: Body)?`.
func (p *Parser) parseIf() *ast.IfStmt {
	start := p.cur
	p.advance() // 'if'
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock()

	var elifs []ast.ElifClause
	var els []ast.Statement
	for p.curIs(token.ELIF) {
		p.advance()
		elifCond := p.parseExpression(LOWEST)
		elifBody := p.parseBlock()
		elifs = append(elifs, ast.ElifClause{Cond: elifCond, Body: elifBody})
	}
	if p.curIs(token.ELSE) {
		p.advance()
		els = p.parseBlock()
	}
	return ast.NewIfStmt(p.span(start), cond, body, elifs, els)
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	start := p.cur
	p.advance() // 'while'
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock()
	return ast.NewWhileStmt(p.span(start), cond, body)
}

// parseFor parses `for Target in Iter: Body`.
func (p *Parser) parseFor() *ast.ForStmt {
	start := p.cur
	p.advance() // 'for'
	target := p.parsePattern()
	p.expect(token.IN)
	iter := p.parseExpression(LOWEST)
	body := p.parseBlock()
	return ast.NewForStmt(p.span(start), target, iter, body)
}

// parseTry parses `try: Body (except Pattern?: Body)* (else: Body)? (finally: Body)?`.
func (p *Parser) parseTry() *ast.TryStmt {
	start := p.cur
	p.advance() // 'try'
	body := p.parseBlock()

	var handlers []ast.ExceptHandler
	for p.curIs(token.EXCEPT) {
		p.advance()
		var pat ast.Pattern
		if !p.curIs(token.COLON) {
			pat = p.parsePattern()
		}
		handlerBody := p.parseBlock()
		handlers = append(handlers, ast.ExceptHandler{Pattern: pat, Body: handlerBody})
	}
	var els, finally []ast.Statement
	if p.curIs(token.ELSE) {
		p.advance()
		els = p.parseBlock()
	}
	if p.curIs(token.FINALLY) {
		p.advance()
		finally = p.parseBlock()
	}
	return ast.NewTryStmt(p.span(start), body, handlers, els, finally)
}

// compoundOps maps a compound-assignment token to the plain binary operator
// it desugars to: `x += e` becomes `x = x + e` (spec.md §4.B).
var compoundOps = map[token.Type]string{
	token.PLUS_ASSIGN:    "+",
	token.MINUS_ASSIGN:   "-",
	token.STAR_ASSIGN:    "*",
	token.SLASH_ASSIGN:   "/",
	token.PERCENT_ASSIGN: "%",
}

// parseExprOrAssignStatement parses either a bare expression statement, a
// plain assignment, or a compound assignment (desugared here at parse time).
func (p *Parser) parseExprOrAssignStatement() ast.Statement {
	start := p.cur
	expr := p.parseExpression(LOWEST)
	switch {
	case p.curIs(token.ASSIGN):
		p.advance()
		value := p.parseExpression(LOWEST)
		p.endOfStatement()
		return ast.NewAssignStmt(p.span(start), expr, value)
	default:
		if op, ok := compoundOps[p.cur.Type]; ok {
			p.advance()
			rhs := p.parseExpression(LOWEST)
			span := p.span(start)
			desugared := ast.NewBinaryOp(span, op, expr, rhs)
			p.endOfStatement()
			return ast.NewAssignStmt(span, expr, desugared)
		}
	}
	p.endOfStatement()
	return ast.NewExprStmt(p.span(start), expr)
}

// parseUse parses `use path/to/mod [as alias]`.
func (p *Parser) parseUse() *ast.UseStmt {
	start := p.cur
	p.advance() // 'use'
	path := p.parseModulePath()
	alias := ""
	if p.curIs(token.AS) {
		p.advance()
		alias = p.expect(token.IDENT).Lexeme
	}
	p.endOfStatement()
	return ast.NewUseStmt(p.span(start), path, alias)
}

// parsePubUse parses `pub use path/to/mod[.symbol] [as alias]`.
func (p *Parser) parsePubUse() *ast.PubUseStmt {
	start := p.cur
	p.advance() // 'use' (the 'pub' was already consumed by parsePub)
	path := p.parseModulePath()
	symbol := ""
	if p.curIs(token.DOT) {
		p.advance()
		symbol = p.expect(token.IDENT).Lexeme
	}
	alias := ""
	if p.curIs(token.AS) {
		p.advance()
		alias = p.expect(token.IDENT).Lexeme
	}
	p.endOfStatement()
	return ast.NewPubUseStmt(p.span(start), path, symbol, alias)
}

// parseModulePath accepts a `/`-or-`:`-separated path, with a leading `.`/`..`
// anchor, as one lexeme run of IDENT/DOT/SLASH/COLON tokens (spec.md §4.C).
func (p *Parser) parseModulePath() string {
	var b []byte
	for {
		switch p.cur.Type {
		case token.IDENT, token.DOT, token.COLON:
			b = append(b, p.cur.Lexeme...)
			p.advance()
			continue
		}
		if p.cur.Lexeme == "/" {
			b = append(b, '/')
			p.advance()
			continue
		}
		break
	}
	return string(b)
}

func (p *Parser) parseGenericsDecl() []string {
	if !p.curIs(token.LT) {
		return nil
	}
	p.advance()
	var names []string
	for !p.curIs(token.GT) {
		names = append(names, p.expect(token.IDENT).Lexeme)
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return names
}

// parseTypeAlias parses `[pub] type Name<Generics...> = Underlying`.
func (p *Parser) parseTypeAlias(vis ast.Visibility) *ast.TypeAliasDecl {
	start := p.cur
	p.advance() // 'type'
	name := p.expect(token.IDENT).Lexeme
	generics := p.parseGenericsDecl()
	p.expect(token.ASSIGN)
	underlying := p.parseTypeExpr()
	p.endOfStatement()
	return ast.NewTypeAliasDecl(p.span(start), vis, name, generics, underlying)
}

// parseStruct parses `[pub] struct Name<Generics...>: field: Type ... fn methods...`.
func (p *Parser) parseStruct(vis ast.Visibility) *ast.StructDecl {
	start := p.cur
	p.advance() // 'struct'
	name := p.expect(token.IDENT).Lexeme
	generics := p.parseGenericsDecl()
	p.expect(token.COLON)
	p.expect(token.NEWLINE)
	p.expect(token.INDENT)

	var fields []ast.StructField
	var methods []*ast.FunctionDecl
	p.skipNewlines()
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if p.curIs(token.FN) {
			methods = append(methods, p.parseFunction(ast.ModulePrivate))
		} else if p.curIs(token.PUB) && p.peekIs(token.FN) {
			p.advance()
			methods = append(methods, p.parseFunction(ast.Public))
		} else {
			fname := p.expect(token.IDENT).Lexeme
			p.expect(token.COLON)
			ftype := p.parseTypeExpr()
			fields = append(fields, ast.StructField{Name: fname, Type: ftype})
			p.endOfStatement()
		}
		p.skipNewlines()
	}
	p.expect(token.DEDENT)
	return ast.NewStructDecl(p.span(start), vis, name, generics, fields, methods)
}

// parseEnum parses `[pub] enum Name<Generics...>: Variant(Payload...) ...`.
func (p *Parser) parseEnum(vis ast.Visibility) *ast.EnumDecl {
	start := p.cur
	p.advance() // 'enum'
	name := p.expect(token.IDENT).Lexeme
	generics := p.parseGenericsDecl()
	p.expect(token.COLON)
	p.expect(token.NEWLINE)
	p.expect(token.INDENT)

	var variants []ast.EnumVariant
	p.skipNewlines()
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		vname := p.expect(token.IDENT).Lexeme
		var payload []ast.TypeExpr
		if p.curIs(token.LPAREN) {
			p.advance()
			for !p.curIs(token.RPAREN) {
				payload = append(payload, p.parseTypeExpr())
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
		variants = append(variants, ast.EnumVariant{Name: vname, Payload: payload})
		p.endOfStatement()
		p.skipNewlines()
	}
	p.expect(token.DEDENT)
	return ast.NewEnumDecl(p.span(start), vis, name, generics, variants)
}

// parseFunction parses `[pub] fn name<Generics...>(params...) -> Ret: Body`.
// Default-valued parameters must come after all non-default ones (spec.md
// §4.B's default-order rule); violations are reported but parsing continues.
func (p *Parser) parseFunction(vis ast.Visibility) *ast.FunctionDecl {
	start := p.cur
	p.advance() // 'fn'
	name := p.expect(token.IDENT).Lexeme
	generics := p.parseGenericsDecl()
	p.expect(token.LPAREN)

	var params []ast.Param
	seenDefault := false
	for !p.curIs(token.RPAREN) {
		if p.curIs(token.SELF) {
			p.advance()
			params = append(params, ast.Param{Name: "self", IsSelf: true})
		} else {
			pname := p.expect(token.IDENT).Lexeme
			var ptype ast.TypeExpr
			if p.curIs(token.COLON) {
				p.advance()
				ptype = p.parseTypeExpr()
			}
			var def ast.Expression
			if p.curIs(token.ASSIGN) {
				p.advance()
				def = p.parseExpression(LOWEST)
				seenDefault = true
			} else if seenDefault {
				p.errorf(p.cur, diagnostics.DefaultParamOrder,
					"parameter %q without a default follows a defaulted parameter", pname)
			}
			params = append(params, ast.Param{Name: pname, Type: ptype, Default: def})
		}
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)

	var ret ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseTypeExpr()
	}
	body := p.parseBlock()
	return ast.NewFunctionDecl(p.span(start), vis, name, generics, params, ret, body)
}
