package lexer

import (
	"testing"

	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/token"
)

func tokenTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	sink := diagnostics.NewSink()
	l := New("t.ot", src, sink)
	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	return types
}

func assertTypes(t *testing.T, got []token.Type, want ...token.Type) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLayoutIndentDedent(t *testing.T) {
	src := "if x:\n    y\n    z\nw\n"
	got := tokenTypes(t, src)
	assertTypes(t, got,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.NEWLINE,
		token.IDENT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.NEWLINE,
		token.EOF,
	)
}

func TestLayoutSameIndentEmitsNewline(t *testing.T) {
	got := tokenTypes(t, "a\nb\n")
	assertTypes(t, got, token.IDENT, token.NEWLINE, token.IDENT, token.NEWLINE, token.EOF)
}

func TestLayoutTabInIndentIsError(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("t.ot", "if x:\n\ty\n", sink)
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	found := false
	for _, d := range sink.Diagnostics {
		if d.Code == diagnostics.LayoutError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a LayoutError diagnostic for a tab in leading whitespace, got %v", sink.Diagnostics)
	}
}

func TestLayoutUnexpectedIndentIsError(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("t.ot", "a\n    b\n", sink)
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if !sink.HasErrors() {
		t.Fatalf("expected a LayoutError for an unindented line gaining indentation")
	}
}

func TestBlankLinesDoNotDedent(t *testing.T) {
	src := "if x:\n    y\n\n    z\nw\n"
	got := tokenTypes(t, src)
	assertTypes(t, got,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.NEWLINE,
		token.IDENT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.NEWLINE,
		token.EOF,
	)
}

func TestBracketsSuppressLayout(t *testing.T) {
	src := "x = (1,\n     2)\n"
	got := tokenTypes(t, src)
	assertTypes(t, got,
		token.IDENT, token.ASSIGN, token.LPAREN, token.INT, token.COMMA, token.INT, token.RPAREN, token.NEWLINE, token.EOF,
	)
}

func TestNumberLiteralsUnderscoresIgnored(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("t.ot", "1_000_000\n", sink)
	tok := l.NextToken()
	if tok.Type != token.INT {
		t.Fatalf("expected INT, got %s", tok.Type)
	}
	if n, ok := tok.Literal.(int64); !ok || n != 1000000 {
		t.Fatalf("expected literal 1000000, got %v", tok.Literal)
	}
}

func TestTrailingDotWithoutFractionIsLexError(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("t.ot", "1.\n", sink)
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if !sink.HasErrors() {
		t.Fatalf("expected a lex error for a trailing '.' with no fractional digits")
	}
}

func TestStringEscapes(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("t.ot", `"a\nb"` + "\n", sink)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %s (%v)", tok.Type, sink.Diagnostics)
	}
	if s, ok := tok.Literal.(string); !ok || s != "a\nb" {
		t.Fatalf("expected decoded value %q, got %v", "a\nb", tok.Literal)
	}
}

func TestFStringSegments(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("t.ot", `f"len={len(xs)} first={xs[0]}"` + "\n", sink)
	tok := l.NextToken()
	if tok.Type != token.FSTRING {
		t.Fatalf("expected FSTRING, got %s (%v)", tok.Type, sink.Diagnostics)
	}
	segs, ok := tok.Literal.([]FStringSegment)
	if !ok {
		t.Fatalf("expected []FStringSegment literal, got %T", tok.Literal)
	}
	var exprs int
	for _, s := range segs {
		if s.IsExpr {
			exprs++
		}
	}
	if exprs != 2 {
		t.Fatalf("expected 2 embedded expressions, got %d (%+v)", exprs, segs)
	}
}

func TestKeywordsVsIdentifiers(t *testing.T) {
	got := tokenTypes(t, "fn struct enum match case spawn await\n")
	assertTypes(t, got,
		token.FN, token.STRUCT, token.ENUM, token.MATCH, token.CASE, token.SPAWN, token.AWAIT, token.NEWLINE, token.EOF,
	)
}

func TestEmptyFileYieldsOnlyEOF(t *testing.T) {
	got := tokenTypes(t, "")
	assertTypes(t, got, token.EOF)
}

func TestUnicodeIdentifier(t *testing.T) {
	got := tokenTypes(t, "café = 1\n")
	assertTypes(t, got, token.IDENT, token.ASSIGN, token.INT, token.NEWLINE, token.EOF)
}
