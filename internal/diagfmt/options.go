package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps the path as registered in the FileSet.
	PathModeAuto PathMode = iota
	// PathModeBasename strips the directory part.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col
	PathMode         PathMode
	Max              int // output truncation, does not touch the Bag
	IncludeNotes     bool
}
