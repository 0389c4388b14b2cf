package parser

import (
	"hulk/internal/diag"
	"hulk/internal/source"
	"hulk/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan returns the best span for a diagnostic. For EOF or an
// empty Invalid token the position right after lastSpan reads better.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if (peek.Kind == token.EOF || peek.Kind == token.Invalid) && peek.Span.Start == peek.Span.End {
		if p.lastSpan.End > 0 {
			return source.Span{
				File:  p.lastSpan.File,
				Start: p.lastSpan.End,
				End:   p.lastSpan.End,
			}
		}
	}
	return peek.Span
}

// expect requires the given token kind. On mismatch it reports and returns
// (invalid, false) without consuming.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// err reports an error at the current diagnostic span.
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if p.opts.Enough() {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}
