package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddVirtualAndGet(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.hulk", []byte("print(1);\nprint(2);\n"))

	f := fs.Get(id)
	if f == nil {
		t.Fatal("expected file")
	}
	if f.Path != "test.hulk" {
		t.Errorf("unexpected path %q", f.Path)
	}
	if f.Flags&FileVirtual == 0 {
		t.Error("expected virtual flag")
	}
	if fs.Len() != 1 {
		t.Errorf("expected 1 file, got %d", fs.Len())
	}

	got, ok := fs.Lookup("test.hulk")
	if !ok || got != id {
		t.Errorf("Lookup = %v, %v; want %v", got, ok, id)
	}
}

func TestGetOutOfRange(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(FileID(5)) != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestPositionAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.hulk", []byte("abc\ndefgh\n"))

	// "e" on line 2.
	sp := Span{File: id, Start: 5, End: 6}
	path, lc := fs.Position(sp)
	if path != "pos.hulk" {
		t.Errorf("unexpected path %q", path)
	}
	if lc.Line != 2 || lc.Col != 2 {
		t.Errorf("expected 2:2, got %d:%d", lc.Line, lc.Col)
	}

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 8})
	if start.Line != 1 || start.Col != 1 {
		t.Errorf("unexpected start %d:%d", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 5 {
		t.Errorf("unexpected end %d:%d", end.Line, end.Col)
	}
}

func TestLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.hulk", []byte("first\nsecond\nthird"))

	if got := string(fs.Line(id, 2)); got != "second" {
		t.Errorf("line 2 = %q", got)
	}
	if got := string(fs.Line(id, 3)); got != "third" {
		t.Errorf("line 3 = %q", got)
	}
	if fs.Line(id, 0) != nil {
		t.Error("line 0 should be nil")
	}
	if fs.Line(id, 99) != nil {
		t.Error("out-of-range line should be nil")
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.hulk")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("print(1);\r\nprint(2);\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 {
		t.Error("expected BOM flag")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected CRLF flag")
	}
	if string(f.Content) != "print(1);\nprint(2);\n" {
		t.Errorf("unexpected content %q", f.Content)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Errorf("Cover = %v", got)
	}

	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Error("cross-file cover must leave the span unchanged")
	}

	if (Span{Start: 3, End: 3}).Empty() != true {
		t.Error("expected empty span")
	}
	if (Span{Start: 3, End: 7}).Len() != 4 {
		t.Error("unexpected span length")
	}
}
