package lexer

import (
	"hulk/internal/diag"
	"hulk/internal/source"
)

// Options configure a Lexer. Reporter may be nil; diagnostics are then
// dropped but lexing continues.
type Options struct {
	Reporter diag.Reporter
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
