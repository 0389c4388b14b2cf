package driver

import (
	"fortio.org/safecast"

	"hulk/internal/diag"
	"hulk/internal/sema"
)

type CheckResult struct {
	*ParseResult
	Sema *sema.Result
}

// Check parses a file and runs semantic analysis over it. Analysis runs
// even when the parse produced errors, so callers see as many diagnostics
// as one pass can find.
func Check(path string, maxDiagnostics int) (*CheckResult, error) {
	parsed, err := Parse(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return checkParsed(parsed, maxDiagnostics)
}

// CheckSource is Check over in-memory content.
func CheckSource(path string, content []byte, maxDiagnostics int) (*CheckResult, error) {
	parsed, err := ParseSource(path, content, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return checkParsed(parsed, maxDiagnostics)
}

func checkParsed(parsed *ParseResult, maxDiagnostics int) (*CheckResult, error) {
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}
	res := sema.Check(parsed.Builder, parsed.FileID, sema.Options{
		Reporter:  &diag.BagReporter{Bag: parsed.Bag},
		MaxErrors: maxErrors,
	})
	return &CheckResult{ParseResult: parsed, Sema: res}, nil
}
