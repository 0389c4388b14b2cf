package ast

import (
	"hulk/internal/source"
)

type ItemKind uint8

const (
	// ItemFunction is a top-level function declaration.
	ItemFunction ItemKind = iota
	// ItemType is a type declaration.
	ItemType
	// ItemExprStmt is a top-level expression statement.
	ItemExprStmt
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// Param is one parameter of a function, method or type declaration. Type is
// NoStringID when no annotation was written.
type Param struct {
	Name     source.StringID
	NameSpan source.Span
	Type     source.StringID
	TypeSpan source.Span
}

// FuncDecl describes a function or method. ReturnType is NoStringID when no
// annotation was written. IsArrow distinguishes `=> expr` bodies from block
// bodies; both forms store the body expression in Body.
type FuncDecl struct {
	Name       source.StringID
	NameSpan   source.Span
	Params     []Param
	ReturnType source.StringID
	ReturnSpan source.Span
	Body       ExprID
	IsArrow    bool
}

// AttributeDef is one `name = init;` attribute of a type body.
type AttributeDef struct {
	Name     source.StringID
	NameSpan source.Span
	Init     ExprID
}

// TypeDecl describes a type declaration. Parent is NoStringID when the type
// does not name a parent (it then inherits Object). ParentArgs are the
// arguments passed to the parent constructor; empty with a named parent means
// the parent's parameters are forwarded implicitly.
type TypeDecl struct {
	Name       source.StringID
	NameSpan   source.Span
	Params     []Param
	Parent     source.StringID
	ParentSpan source.Span
	ParentArgs []ExprID
	Attributes []AttributeDef
	Methods    []FuncDecl
}

// ExprStmt wraps a top-level expression statement.
type ExprStmt struct {
	Expr ExprID
}

// Items manages allocation of top-level items.
type Items struct {
	Arena     *Arena[Item]
	Functions *Arena[FuncDecl]
	Types     *Arena[TypeDecl]
	ExprStmts *Arena[ExprStmt]
}

// NewItems creates an *Items with per-kind arenas initialized to capHint.
// If capHint is 0, a default initial capacity of 1<<7 is used.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:     NewArena[Item](capHint),
		Functions: NewArena[FuncDecl](capHint),
		Types:     NewArena[TypeDecl](capHint),
		ExprStmts: NewArena[ExprStmt](capHint),
	}
}

func (i *Items) new(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the item with the given ID.
func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

// NewFunction creates a new function item.
func (i *Items) NewFunction(span source.Span, decl FuncDecl) ItemID {
	payload := i.Functions.Allocate(decl)
	return i.new(ItemFunction, span, PayloadID(payload))
}

// Function returns the function declaration for the given item ID.
func (i *Items) Function(id ItemID) (*FuncDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFunction {
		return nil, false
	}
	return i.Functions.Get(uint32(item.Payload)), true
}

// NewType creates a new type item.
func (i *Items) NewType(span source.Span, decl TypeDecl) ItemID {
	payload := i.Types.Allocate(decl)
	return i.new(ItemType, span, PayloadID(payload))
}

// Type returns the type declaration for the given item ID.
func (i *Items) Type(id ItemID) (*TypeDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemType {
		return nil, false
	}
	return i.Types.Get(uint32(item.Payload)), true
}

// NewExprStmt creates a new top-level expression statement item.
func (i *Items) NewExprStmt(span source.Span, expr ExprID) ItemID {
	payload := i.ExprStmts.Allocate(ExprStmt{Expr: expr})
	return i.new(ItemExprStmt, span, PayloadID(payload))
}

// ExprStmt returns the expression statement for the given item ID.
func (i *Items) ExprStmt(id ItemID) (*ExprStmt, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemExprStmt {
		return nil, false
	}
	return i.ExprStmts.Get(uint32(item.Payload)), true
}
