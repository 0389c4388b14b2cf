package source

import (
	"bytes"
	"path/filepath"
	"sort"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], true
	}
	return content, false
}

func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte{'\r'}) {
		return content, false
	}
	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' {
			if i+1 < len(content) && content[i+1] == '\n' {
				continue
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, content[i])
	}
	return out, true
}

func normalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// buildLineIndex records the byte offset of the first character of each line.
// LineIdx[0] is always 0.
func buildLineIndex(content []byte) []uint32 {
	idx := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i+1))
		}
	}
	return idx
}

// lineColAt resolves a byte offset against a line index.
func lineColAt(lineIdx []uint32, off uint32) LineCol {
	line := sort.Search(len(lineIdx), func(i int) bool {
		return lineIdx[i] > off
	})
	// line is 1-based already: Search returns the count of starts <= off.
	start := lineIdx[line-1]
	return LineCol{Line: uint32(line), Col: off - start + 1}
}
