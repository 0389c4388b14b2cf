package lexer

import (
	"fmt"

	"hulk/internal/diag"
	"hulk/internal/token"
)

// scanOperatorOrPunct scans operators and punctuation, longest match first.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	mk := func(kind token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	// two-byte operators
	switch {
	case lx.try2(':', '='):
		return mk(token.ColonAssign)
	case lx.try2('=', '='):
		return mk(token.EqEq)
	case lx.try2('=', '>'):
		return mk(token.FatArrow)
	case lx.try2('!', '='):
		return mk(token.BangEq)
	case lx.try2('<', '='):
		return mk(token.LtEq)
	case lx.try2('>', '='):
		return mk(token.GtEq)
	}

	b := lx.cursor.Bump()
	switch b {
	case '+':
		return mk(token.Plus)
	case '-':
		return mk(token.Minus)
	case '*':
		return mk(token.Star)
	case '/':
		return mk(token.Slash)
	case '%':
		return mk(token.Percent)
	case '^':
		return mk(token.Caret)
	case '@':
		return mk(token.At)
	case '=':
		return mk(token.Assign)
	case '!':
		return mk(token.Bang)
	case '<':
		return mk(token.Lt)
	case '>':
		return mk(token.Gt)
	case '&':
		return mk(token.Amp)
	case '|':
		return mk(token.Pipe)
	case ':':
		return mk(token.Colon)
	case ';':
		return mk(token.Semicolon)
	case ',':
		return mk(token.Comma)
	case '.':
		return mk(token.Dot)
	case '(':
		return mk(token.LParen)
	case ')':
		return mk(token.RParen)
	case '{':
		return mk(token.LBrace)
	case '}':
		return mk(token.RBrace)
	}

	tok := mk(token.Invalid)
	lx.report(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unexpected character %q", b))
	return tok
}
