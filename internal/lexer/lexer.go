package lexer

import (
	"hulk/internal/source"
	"hulk/internal/token"
)

// Lexer produces significant tokens from a single file, attaching leading
// trivia to each one.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // accumulated leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token with its Leading trivia collected.
// After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-length span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// Drain consumes tokens until EOF and returns them, EOF included.
func (lx *Lexer) Drain() []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}
