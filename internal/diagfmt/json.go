package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"hulk/internal/diag"
	"hulk/internal/source"
)

// LocationJSON is a file location in JSON output.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary note in JSON output.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is one diagnostic in JSON output.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	path, _ := fs.Position(span)
	if opts.PathMode == PathModeBasename {
		path = filepath.Base(path)
	}

	loc := LocationJSON{
		File:      path,
		StartByte: span.Start,
		EndByte:   span.End,
	}

	if opts.IncludePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}

	return loc
}

// BuildDiagnosticsOutput assembles the JSON structure without serializing it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := 0; i < maxItems; i++ {
		d := items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Name:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  n.Msg,
					Location: makeLocation(n.Span, fs, opts),
				})
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       bag.Len(),
	}
}

// JSON serializes the bag with two-space indentation.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out := BuildDiagnosticsOutput(bag, fs, opts)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
