package sema

import (
	"hulk/internal/source"
	"hulk/internal/types"
)

// scope is one lexical binding frame. Frames form an immutable linked chain;
// bind returns a new head instead of mutating, so sibling branches of the
// AST never observe each other's names.
type scope struct {
	parent *scope
	name   source.StringID
	typ    types.TypeID
}

func (s *scope) bind(name source.StringID, t types.TypeID) *scope {
	return &scope{parent: s, name: name, typ: t}
}

func (s *scope) lookup(name source.StringID) (types.TypeID, bool) {
	for f := s; f != nil; f = f.parent {
		if f.name == name {
			return f.typ, true
		}
	}
	return types.NoTypeID, false
}
