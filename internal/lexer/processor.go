package lexer

import "github.com/otterlang/otter/internal/token"

const lookaheadBufferSize = 10

// TokenStream is a buffered view over a Lexer supporting bounded lookahead,
// which the Pratt parser needs for its precedence decisions.
type TokenStream struct {
	l      *Lexer
	buffer []token.Token
	pos    int
}

func NewTokenStream(l *Lexer) *TokenStream {
	return &TokenStream{l: l}
}

func (ts *TokenStream) Next() token.Token {
	if ts.pos < len(ts.buffer) {
		t := ts.buffer[ts.pos]
		ts.pos++
		return t
	}
	return ts.l.NextToken()
}

// Peek returns up to n tokens ahead without consuming them.
func (ts *TokenStream) Peek(n int) []token.Token {
	for len(ts.buffer)-ts.pos < n {
		next := ts.l.NextToken()
		ts.buffer = append(ts.buffer, next)
		if next.Type == token.EOF {
			break
		}
	}
	if ts.pos > lookaheadBufferSize {
		ts.buffer = ts.buffer[ts.pos:]
		ts.pos = 0
	}
	end := ts.pos + n
	if end > len(ts.buffer) {
		end = len(ts.buffer)
	}
	return ts.buffer[ts.pos:end]
}
