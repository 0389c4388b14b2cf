package lexer

import (
	"hulk/internal/token"
)

// scanIdentOrKeyword scans [A-Za-z][A-Za-z_0-9]* and classifies keywords.
// Token.Text is exactly the source slice.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
