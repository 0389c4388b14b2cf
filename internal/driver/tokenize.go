package driver

import (
	"hulk/internal/diag"
	"hulk/internal/lexer"
	"hulk/internal/source"
	"hulk/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads a file and runs the lexer over it to completion.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{
		Reporter: &diag.BagReporter{Bag: bag},
	})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.Drain(),
		Bag:     bag,
	}, nil
}
