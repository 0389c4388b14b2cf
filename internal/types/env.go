package types

import (
	"fmt"

	"fortio.org/safecast"

	"hulk/internal/ast"
)

// Builtins stores TypeIDs for the predeclared types.
type Builtins struct {
	Object  TypeID
	Number  TypeID
	Boolean TypeID
	String  TypeID
}

// Env is the nominal type environment: the predeclared types plus every
// declared type, addressed by stable TypeIDs.
type Env struct {
	types    []Type
	index    map[string]TypeID
	builtins Builtins
}

// NewEnv constructs an environment seeded with Object, Number, Boolean and
// String.
func NewEnv() *Env {
	e := &Env{
		types: make([]Type, 1, 16), // reserve 0 as invalid sentinel
		index: make(map[string]TypeID, 16),
	}
	// Object roots the user-type lattice only; the primitive leaves stand on
	// their own and do not conform to Object.
	e.builtins.Object = e.add(Type{Kind: KindObject, Name: "Object"})
	e.builtins.Number = e.add(Type{Kind: KindNumber, Name: "Number"})
	e.builtins.Boolean = e.add(Type{Kind: KindBoolean, Name: "Boolean"})
	e.builtins.String = e.add(Type{Kind: KindString, Name: "String"})
	return e
}

// Builtins returns TypeIDs for the predeclared types.
func (e *Env) Builtins() Builtins {
	return e.builtins
}

func (e *Env) add(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(e.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	e.types = append(e.types, t)
	e.index[t.Name] = id
	return id
}

// Declare registers a user type under name. Returns false when the name is
// already taken; the existing ID is returned in that case.
func (e *Env) Declare(name string, decl ast.ItemID) (TypeID, bool) {
	if id, ok := e.index[name]; ok {
		return id, false
	}
	return e.add(Type{Kind: KindUser, Name: name, Parent: e.builtins.Object, Decl: decl}), true
}

// LookupName resolves a type name.
func (e *Env) LookupName(name string) (TypeID, bool) {
	id, ok := e.index[name]
	return id, ok
}

// Get returns the type for id, or nil if id is out of range.
func (e *Env) Get(id TypeID) *Type {
	if id == NoTypeID || int(id) >= len(e.types) {
		return nil
	}
	return &e.types[id]
}

// Name returns the display name of a type, or "<invalid>" for unknown IDs.
func (e *Env) Name(id TypeID) string {
	if t := e.Get(id); t != nil {
		return t.Name
	}
	return "<invalid>"
}

// Len returns the number of types, the invalid sentinel included.
func (e *Env) Len() int {
	return len(e.types)
}

// UserTypes returns the IDs of all declared (non-builtin) types in declaration
// order.
func (e *Env) UserTypes() []TypeID {
	var out []TypeID
	for i := range e.types {
		if e.types[i].Kind == KindUser {
			out = append(out, TypeID(i)) // #nosec G115 -- bounded by Declare
		}
	}
	return out
}
