package lexer

import (
	"hulk/internal/diag"
	"hulk/internal/token"
)

// scanNumber scans [0-9]+(\.[0-9]+)?, decimal only, stored as written.
// A dot not followed by a digit is left for the next token.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	// "1foo" is one bad token, not a number followed by an ident.
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		bad := string(lx.file.Content[sp.Start:sp.End])
		lx.report(diag.LexBadNumber, sp, "malformed number literal: "+bad)
		return token.Token{Kind: token.Invalid, Span: sp, Text: bad}
	}

	return token.Token{Kind: token.NumberLit, Span: sp, Text: text}
}
