package lexer

import (
	"hulk/internal/diag"
	"hulk/internal/token"
)

// collectLeadingTrivia gathers consecutive trivia before a significant token:
// runs of spaces/tabs coalesce into one TriviaSpace, runs of newlines into one
// TriviaNewline, // line comments, and /* */ block comments (unterminated
// block comments report and stop at EOF).
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' {
			if lx.scanCommentIntoHold() {
				continue
			}
		}

		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if lx.try2('*', '/') {
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true
	default:
		return false
	}
}
