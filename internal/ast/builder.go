package ast

import (
	"hulk/internal/source"
)

type Hints struct{ Files, Items, Exprs uint }

// Builder owns the arenas of a parse and the interner its nodes reference.
type Builder struct {
	Files   *Files
	Items   *Items
	Exprs   *Exprs
	Strings *source.Interner
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Exprs:   NewExprs(hints.Exprs),
		Strings: strings,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	b.Files.Get(file).Items = append(b.Files.Get(file).Items, item)
}

// Lookup resolves an interned string, returning "" for unknown IDs.
func (b *Builder) Lookup(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// Intern stores s in the builder's interner.
func (b *Builder) Intern(s string) source.StringID {
	return b.Strings.Intern(s)
}
