package driver

import (
	"fortio.org/safecast"

	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/lexer"
	"hulk/internal/parser"
	"hulk/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Parse loads a file and parses it into a fresh arena set.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseInto(fs, fileID, maxDiagnostics)
}

// ParseSource parses in-memory content registered under path, used by
// tests and by callers that already hold the text.
func ParseSource(path string, content []byte, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(path, content)
	return parseInto(fs, fileID, maxDiagnostics)
}

func parseInto(fs *source.FileSet, fileID source.FileID, maxDiagnostics int) (*ParseResult, error) {
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}

	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(file, lexer.Options{
		Reporter: &diag.BagReporter{Bag: bag},
	})
	result := parser.ParseFile(fs, lx, builder, parser.Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	})

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
	}, nil
}
