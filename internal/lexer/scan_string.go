package lexer

import (
	"strings"

	"hulk/internal/diag"
	"hulk/internal/token"
)

// scanString scans a double-quoted string literal with backslash escapes.
// Token.Text keeps the quotes and raw escapes; use Unquote for the value.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		if b == '\\' {
			lx.cursor.Bump()
			esc := lx.cursor.Peek()
			switch esc {
			case '"', '\\', 'n', 't':
				lx.cursor.Bump()
			default:
				sp := lx.cursor.SpanFrom(start)
				lx.report(diag.LexBadEscape, sp, "unknown escape sequence in string literal")
				lx.cursor.Bump()
			}
			continue
		}
		if b == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{
				Kind: token.StringLit,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			}
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{
		Kind: token.Invalid,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

// Unquote decodes a raw string literal token text (quotes included) into its
// runtime value. Unknown escapes pass the escaped byte through.
func Unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	if !strings.ContainsRune(text, '\\') {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 >= len(text) {
			b.WriteByte(c)
			continue
		}
		i++
		switch text[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(text[i])
		}
	}
	return b.String()
}
