// Package parser implements OtterLang's recursive-descent, Pratt-style
// parser (spec.md §4.B), producing the AST defined in internal/ast.
package parser

import (
	"strconv"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/token"
)

// Parser consumes a lexer.TokenStream and builds a *ast.Module.
type Parser struct {
	file   string
	source string
	stream *lexer.TokenStream
	sink   *diagnostics.Sink

	cur  token.Token
	peek token.Token
}

func New(file, source string, sink *diagnostics.Sink) *Parser {
	l := lexer.New(file, source, sink)
	p := &Parser{file: file, source: source, stream: lexer.NewTokenStream(l), sink: sink}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.stream.Next()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) span(start token.Token) token.Span {
	return token.Span{File: p.file, Lo: start.Offset, Hi: p.cur.Offset, Line: start.Line, Column: start.Column}
}

func (p *Parser) errorf(tok token.Token, code diagnostics.Code, format string, args ...interface{}) {
	p.sink.Report(diagnostics.PhaseParser, code, tok.Span(p.file), format, args...)
}

// expect advances past a token of type t, or reports ParseError and
// resyncs at the next NEWLINE/DEDENT per spec.md §7's recovery policy.
func (p *Parser) expect(t token.Type) token.Token {
	tok := p.cur
	if p.cur.Type != t {
		p.errorf(p.cur, diagnostics.ParseError, "expected %s, got %s (%q)", t, p.cur.Type, p.cur.Lexeme)
		p.syncToStatementBoundary()
		return tok
	}
	p.advance()
	return tok
}

func (p *Parser) syncToStatementBoundary() {
	for !p.curIs(token.NEWLINE) && !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		p.advance()
	}
}

// skipNewlines consumes any run of blank-line NEWLINEs.
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// ParseModule parses an entire compilation unit (spec.md §4.B top-level
// restriction: only use/pub-use/type/struct/enum/fn/let/expr-stmt are
// legal at module scope).
func (p *Parser) ParseModule() *ast.Module {
	start := p.cur
	var items []ast.Item
	p.skipNewlines()
	for !p.curIs(token.EOF) {
		item := p.parseItem()
		if item != nil {
			items = append(items, item)
		}
		p.skipNewlines()
	}
	return ast.NewModule(p.span(start), p.file, items)
}

func (p *Parser) parseItem() ast.Item {
	switch p.cur.Type {
	case token.USE:
		return p.parseUse()
	case token.PUB:
		return p.parsePub()
	case token.TYPE:
		return p.parseTypeAlias(ast.ModulePrivate)
	case token.STRUCT:
		return p.parseStruct(ast.ModulePrivate)
	case token.ENUM:
		return p.parseEnum(ast.ModulePrivate)
	case token.FN:
		return p.parseFunction(ast.ModulePrivate)
	case token.LET:
		return p.parseLet()
	case token.IF, token.WHILE, token.FOR, token.TRY, token.MATCH, token.RETURN,
		token.BREAK, token.CONTINUE, token.RAISE:
		// spec.md §4.B: "bare control-flow is a parse error" at module scope.
		p.errorf(p.cur, diagnostics.IllegalTopLevel, "%s is not allowed at module scope", p.cur.Type)
		p.syncToStatementBoundary()
		return nil
	default:
		start := p.cur
		expr := p.parseExpression(LOWEST)
		p.endOfStatement()
		return ast.NewExprStmt(p.span(start), expr)
	}
}

// parsePub handles `pub use`, `pub type`, `pub struct`, `pub enum`, `pub fn`.
func (p *Parser) parsePub() ast.Item {
	p.advance() // consume 'pub'
	switch p.cur.Type {
	case token.USE:
		return p.parsePubUse()
	case token.TYPE:
		return p.parseTypeAlias(ast.Public)
	case token.STRUCT:
		return p.parseStruct(ast.Public)
	case token.ENUM:
		return p.parseEnum(ast.Public)
	case token.FN:
		return p.parseFunction(ast.Public)
	default:
		p.errorf(p.cur, diagnostics.IllegalTopLevel, "expected a declaration after 'pub'")
		p.syncToStatementBoundary()
		return nil
	}
}

// endOfStatement expects the logical-line terminator: a NEWLINE, a DEDENT
// (when this is the last statement in a block), or EOF.
func (p *Parser) endOfStatement() {
	if p.curIs(token.NEWLINE) {
		p.advance()
		return
	}
	if p.curIs(token.DEDENT) || p.curIs(token.EOF) {
		return
	}
	p.errorf(p.cur, diagnostics.ParseError, "expected end of statement, got %s", p.cur.Type)
	p.syncToStatementBoundary()
	if p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// parseBlock parses either `: INDENT stmt* DEDENT` or an inline single
// statement after the header colon (spec.md §4.B header-colon rule).
func (p *Parser) parseBlock() []ast.Statement {
	p.expect(token.COLON)
	if p.curIs(token.NEWLINE) {
		p.advance()
		p.expect(token.INDENT)
		var stmts []ast.Statement
		p.skipNewlines()
		for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
			if s := p.parseStatement(); s != nil {
				stmts = append(stmts, s)
			}
			p.skipNewlines()
		}
		p.expect(token.DEDENT)
		return stmts
	}
	s := p.parseStatement()
	if s == nil {
		return nil
	}
	return []ast.Statement{s}
}

func int64Literal(tok token.Token) int64 {
	if v, ok := tok.Literal.(int64); ok {
		return v
	}
	v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
	return v
}
