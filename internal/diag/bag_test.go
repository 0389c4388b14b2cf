package diag

import (
	"testing"

	"hulk/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagCapEnforced(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 5; i++ {
		bag.Add(NewError(SynUnexpectedToken, span(0, uint32(i), uint32(i+1)), "boom"))
	}
	if bag.Len() != 2 {
		t.Errorf("expected cap of 2, got %d", bag.Len())
	}
}

func TestHasErrorsAndWarnings(t *testing.T) {
	bag := NewBag(8)
	if bag.HasErrors() || bag.HasWarnings() {
		t.Error("empty bag must report nothing")
	}

	bag.Add(New(SevWarning, SynUnexpectedToken, span(0, 0, 1), "warn"))
	if bag.HasErrors() {
		t.Error("warning must not count as error")
	}
	if !bag.HasWarnings() {
		t.Error("expected warning")
	}

	bag.Add(NewError(SemaUnknownName, span(0, 1, 2), "err"))
	if !bag.HasErrors() {
		t.Error("expected error")
	}
}

func TestSortOrdersBySpan(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewError(SynExpectSemicolon, span(0, 10, 11), "second"))
	bag.Add(NewError(SynUnexpectedToken, span(0, 2, 3), "first"))
	bag.Add(NewError(SemaUnknownName, span(1, 0, 1), "third"))

	bag.Sort()
	items := bag.Items()
	if items[0].Message != "first" || items[1].Message != "second" || items[2].Message != "third" {
		t.Errorf("unexpected order: %v", items)
	}
}

func TestDedupRemovesRepeats(t *testing.T) {
	bag := NewBag(8)
	d := NewError(SynUnexpectedToken, span(0, 2, 3), "dup")
	bag.Add(d)
	bag.Add(d)
	bag.Add(NewError(SynUnexpectedToken, span(0, 4, 5), "other"))

	bag.Dedup()
	if bag.Len() != 2 {
		t.Errorf("expected 2 after dedup, got %d", bag.Len())
	}
}

func TestMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(SynUnexpectedToken, span(0, 0, 1), "a"))
	b := NewBag(1)
	b.Add(NewError(SynExpectSemicolon, span(0, 1, 2), "b"))

	a.Merge(b)
	if a.Len() != 2 {
		t.Errorf("expected 2 after merge, got %d", a.Len())
	}
}

func TestBagReporter(t *testing.T) {
	bag := NewBag(8)
	rep := &BagReporter{Bag: bag}
	rep.Report(SemaTypeMismatch, SevError, span(0, 0, 3), "mismatch", []Note{{Span: span(0, 4, 5), Msg: "note"}})

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != SemaTypeMismatch || d.Severity != SevError {
		t.Errorf("unexpected diagnostic %v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "note" {
		t.Errorf("unexpected notes %v", d.Notes)
	}
}

func TestReportBuilderEmitsWithNotes(t *testing.T) {
	bag := NewBag(8)
	rep := &BagReporter{Bag: bag}
	ReportError(rep, SemaArityMismatch, span(0, 0, 1), "wrong arity").
		WithNote(span(0, 2, 3), "declared here").
		Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Errorf("expected 1 note, got %d", len(bag.Items()[0].Notes))
	}
}

func TestCodeIDs(t *testing.T) {
	cases := []struct {
		code Code
		id   string
	}{
		{LexUnknownChar, "lex-unknown-char"},
		{SynUnexpectedToken, "syn-unexpected-token"},
		{SemaRedeclaration, "sema-redeclaration"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.id {
			t.Errorf("%v.ID() = %q, want %q", tc.code, got, tc.id)
		}
	}
	if got := SemaTypeMismatch.String(); got != "HLK3004" {
		t.Errorf("String() = %q, want %q", got, "HLK3004")
	}
}
