package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"hulk/internal/diag"
	"hulk/internal/source"
)

// Pretty renders diagnostics in a human-readable form. Walks bag.Items()
// (bag.Sort() is expected beforehand). Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline under the span, then the
// notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := prettyPrinter{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *prettyPrinter) diagnostic(d diag.Diagnostic) {
	p.header(d.Severity, d.Code, d.Primary, d.Message)
	p.sourceLine(d.Primary)
	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			p.note(n)
		}
	}
}

func (p *prettyPrinter) header(sev diag.Severity, code diag.Code, sp source.Span, msg string) {
	path, pos := p.fs.Position(sp)
	fmt.Fprintf(p.w, "%s:%d:%d: %s %s: %s\n",
		p.path(path), pos.Line, pos.Col,
		p.severity(sev), code.String(), msg)
}

func (p *prettyPrinter) note(n diag.Note) {
	path, pos := p.fs.Position(n.Span)
	fmt.Fprintf(p.w, "  %s:%d:%d: note: %s\n", p.path(path), pos.Line, pos.Col, n.Msg)
	p.sourceLine(n.Span)
}

// sourceLine prints the line containing the span start plus an underline.
// Tabs in the prefix are preserved so the underline stays aligned.
func (p *prettyPrinter) sourceLine(sp source.Span) {
	start, end := p.fs.Resolve(sp)
	line := p.fs.Line(sp.File, start.Line)
	if line == nil {
		return
	}
	fmt.Fprintf(p.w, "  %s\n", string(line))

	underlineLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		underlineLen = int(end.Col - start.Col)
	}
	var pad strings.Builder
	for i := uint32(0); i+1 < start.Col && int(i) < len(line); i++ {
		if line[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	marker := "^"
	if underlineLen > 1 {
		marker += strings.Repeat("~", underlineLen-1)
	}
	fmt.Fprintf(p.w, "  %s%s\n", pad.String(), p.underline(marker))
}

func (p *prettyPrinter) path(path string) string {
	if p.opts.PathMode == PathModeBasename {
		return filepath.Base(path)
	}
	return path
}

func (p *prettyPrinter) severity(sev diag.Severity) string {
	if !p.opts.Color {
		return sev.String()
	}
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(sev.String())
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(sev.String())
	default:
		return color.New(color.FgCyan).Sprint(sev.String())
	}
}

func (p *prettyPrinter) underline(marker string) string {
	if !p.opts.Color {
		return marker
	}
	return color.New(color.FgGreen, color.Bold).Sprint(marker)
}
