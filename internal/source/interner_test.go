package source

import "testing"

func TestInternDedup(t *testing.T) {
	in := NewInterner()
	a := in.Intern("hello")
	b := in.Intern("hello")
	c := in.Intern("world")

	if a != b {
		t.Error("equal strings must intern to the same id")
	}
	if a == c {
		t.Error("different strings must get different ids")
	}
	if !a.IsValid() || a == NoStringID {
		t.Error("interned ids must be valid")
	}

	s, ok := in.Lookup(a)
	if !ok || s != "hello" {
		t.Errorf("Lookup = %q, %v", s, ok)
	}
	if in.MustLookup(c) != "world" {
		t.Error("unexpected MustLookup result")
	}
}

func TestInternBytes(t *testing.T) {
	in := NewInterner()
	a := in.InternBytes([]byte("abc"))
	b := in.Intern("abc")
	if a != b {
		t.Error("byte and string interning must agree")
	}
}

func TestLookupInvalid(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(NoStringID); ok {
		t.Error("the sentinel must not resolve")
	}
	if _, ok := in.Lookup(StringID(999)); ok {
		t.Error("unknown ids must not resolve")
	}
	if in.Has(NoStringID) {
		t.Error("Has must reject the sentinel")
	}
}

func TestSnapshot(t *testing.T) {
	in := NewInterner()
	in.Intern("a")
	in.Intern("b")
	snap := in.Snapshot()
	if len(snap) != in.Len() {
		t.Errorf("snapshot length %d, interner length %d", len(snap), in.Len())
	}
}
