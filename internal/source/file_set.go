package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans to
// human-readable positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and
// returns a new FileID. It always creates a new FileID even if a file with
// the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// AddVirtual stores an in-memory file (tests, stdin).
func (fileSet *FileSet) AddVirtual(path string, content []byte) FileID {
	return fileSet.Add(path, content, FileVirtual)
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// Get returns the file for id, or nil if id is out of range.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Lookup returns the latest FileID registered under path.
func (fileSet *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Len returns the number of files in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Position resolves the start of a span to path plus line/column.
func (fileSet *FileSet) Position(sp Span) (string, LineCol) {
	f := fileSet.Get(sp.File)
	if f == nil {
		return "", LineCol{Line: 1, Col: 1}
	}
	return f.Path, lineColAt(f.LineIdx, sp.Start)
}

// Resolve maps both ends of a span to line/column positions.
func (fileSet *FileSet) Resolve(sp Span) (LineCol, LineCol) {
	f := fileSet.Get(sp.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return lineColAt(f.LineIdx, sp.Start), lineColAt(f.LineIdx, sp.End)
}

// Line returns the content of the 1-based line number, without the newline.
func (fileSet *FileSet) Line(id FileID, line uint32) []byte {
	f := fileSet.Get(id)
	if f == nil || line == 0 || int(line) > len(f.LineIdx) {
		return nil
	}
	start := f.LineIdx[line-1]
	end := uint32(len(f.Content))
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line] - 1
	}
	if end < start {
		end = start
	}
	return f.Content[start:end]
}
