package ast

import (
	"hulk/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena       *Arena[Expr]
	Idents      *Arena[ExprIdentData]
	Numbers     *Arena[ExprNumberData]
	Bools       *Arena[ExprBoolData]
	Strings     *Arena[ExprStringData]
	Unaries     *Arena[ExprUnaryData]
	Binaries    *Arena[ExprBinaryData]
	Calls       *Arena[ExprCallData]
	MethodCalls *Arena[ExprMethodCallData]
	Members     *Arena[ExprMemberData]
	News        *Arena[ExprNewData]
	Prints      *Arena[ExprPrintData]
	Blocks      *Arena[ExprBlockData]
	Ifs         *Arena[ExprIfData]
	Whiles      *Arena[ExprWhileData]
	Fors        *Arena[ExprForData]
	Lets        *Arena[ExprLetData]
	Assigns     *Arena[ExprAssignData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint
// as the initial capacity. If capHint is 0, a default capacity of 1<<8 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:       NewArena[Expr](capHint),
		Idents:      NewArena[ExprIdentData](capHint),
		Numbers:     NewArena[ExprNumberData](capHint),
		Bools:       NewArena[ExprBoolData](capHint),
		Strings:     NewArena[ExprStringData](capHint),
		Unaries:     NewArena[ExprUnaryData](capHint),
		Binaries:    NewArena[ExprBinaryData](capHint),
		Calls:       NewArena[ExprCallData](capHint),
		MethodCalls: NewArena[ExprMethodCallData](capHint),
		Members:     NewArena[ExprMemberData](capHint),
		News:        NewArena[ExprNewData](capHint),
		Prints:      NewArena[ExprPrintData](capHint),
		Blocks:      NewArena[ExprBlockData](capHint),
		Ifs:         NewArena[ExprIfData](capHint),
		Whiles:      NewArena[ExprWhileData](capHint),
		Fors:        NewArena[ExprForData](capHint),
		Lets:        NewArena[ExprLetData](capHint),
		Assigns:     NewArena[ExprAssignData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, PayloadID(payload))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

// NewNumber creates a new numeric literal expression.
func (e *Exprs) NewNumber(span source.Span, value float64, text source.StringID) ExprID {
	payload := e.Numbers.Allocate(ExprNumberData{Value: value, Text: text})
	return e.new(ExprNumberLit, span, PayloadID(payload))
}

// Number returns the numeric literal data for the given expression ID.
func (e *Exprs) Number(id ExprID) (*ExprNumberData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprNumberLit {
		return nil, false
	}
	return e.Numbers.Get(uint32(expr.Payload)), true
}

// NewBool creates a new boolean literal expression.
func (e *Exprs) NewBool(span source.Span, value bool) ExprID {
	payload := e.Bools.Allocate(ExprBoolData{Value: value})
	return e.new(ExprBoolLit, span, PayloadID(payload))
}

// Bool returns the boolean literal data for the given expression ID.
func (e *Exprs) Bool(id ExprID) (*ExprBoolData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBoolLit {
		return nil, false
	}
	return e.Bools.Get(uint32(expr.Payload)), true
}

// NewString creates a new string literal expression.
func (e *Exprs) NewString(span source.Span, value source.StringID) ExprID {
	payload := e.Strings.Allocate(ExprStringData{Value: value})
	return e.new(ExprStringLit, span, PayloadID(payload))
}

// String returns the string literal data for the given expression ID.
func (e *Exprs) String(id ExprID) (*ExprStringData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprStringLit {
		return nil, false
	}
	return e.Strings.Get(uint32(expr.Payload)), true
}

// NewUnary creates a new unary expression.
func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(payload))
}

// Unary returns the unary data for the given expression ID.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(payload))
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

// NewCall creates a new free function call expression.
func (e *Exprs) NewCall(span source.Span, callee source.StringID, calleeSpan source.Span, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, CalleeSpan: calleeSpan, Args: args})
	return e.new(ExprCall, span, PayloadID(payload))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewMethodCall creates a new method call expression.
func (e *Exprs) NewMethodCall(span source.Span, recv ExprID, name source.StringID, nameSpan source.Span, args []ExprID) ExprID {
	payload := e.MethodCalls.Allocate(ExprMethodCallData{Recv: recv, Name: name, NameSpan: nameSpan, Args: args})
	return e.new(ExprMethodCall, span, PayloadID(payload))
}

// MethodCall returns the method call data for the given expression ID.
func (e *Exprs) MethodCall(id ExprID) (*ExprMethodCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMethodCall {
		return nil, false
	}
	return e.MethodCalls.Get(uint32(expr.Payload)), true
}

// NewMember creates a new attribute access expression.
func (e *Exprs) NewMember(span source.Span, recv ExprID, name source.StringID, nameSpan source.Span) ExprID {
	payload := e.Members.Allocate(ExprMemberData{Recv: recv, Name: name, NameSpan: nameSpan})
	return e.new(ExprMember, span, PayloadID(payload))
}

// Member returns the member access data for the given expression ID.
func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMember {
		return nil, false
	}
	return e.Members.Get(uint32(expr.Payload)), true
}

// NewNew creates a new instantiation expression.
func (e *Exprs) NewNew(span source.Span, typeName source.StringID, typeSpan source.Span, args []ExprID) ExprID {
	payload := e.News.Allocate(ExprNewData{TypeName: typeName, TypeSpan: typeSpan, Args: args})
	return e.new(ExprNew, span, PayloadID(payload))
}

// New returns the instantiation data for the given expression ID.
func (e *Exprs) New(id ExprID) (*ExprNewData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprNew {
		return nil, false
	}
	return e.News.Get(uint32(expr.Payload)), true
}

// NewPrint creates a new print expression.
func (e *Exprs) NewPrint(span source.Span, arg ExprID) ExprID {
	payload := e.Prints.Allocate(ExprPrintData{Arg: arg})
	return e.new(ExprPrint, span, PayloadID(payload))
}

// Print returns the print data for the given expression ID.
func (e *Exprs) Print(id ExprID) (*ExprPrintData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprPrint {
		return nil, false
	}
	return e.Prints.Get(uint32(expr.Payload)), true
}

// NewBlock creates a new block expression.
func (e *Exprs) NewBlock(span source.Span, exprs []ExprID) ExprID {
	payload := e.Blocks.Allocate(ExprBlockData{Exprs: exprs})
	return e.new(ExprBlock, span, PayloadID(payload))
}

// Block returns the block data for the given expression ID.
func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBlock {
		return nil, false
	}
	return e.Blocks.Get(uint32(expr.Payload)), true
}

// NewIf creates a new conditional expression.
func (e *Exprs) NewIf(span source.Span, branches []IfBranch, elseBody ExprID) ExprID {
	payload := e.Ifs.Allocate(ExprIfData{Branches: branches, Else: elseBody})
	return e.new(ExprIf, span, PayloadID(payload))
}

// If returns the conditional data for the given expression ID.
func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIf {
		return nil, false
	}
	return e.Ifs.Get(uint32(expr.Payload)), true
}

// NewWhile creates a new while loop expression.
func (e *Exprs) NewWhile(span source.Span, cond, body ExprID) ExprID {
	payload := e.Whiles.Allocate(ExprWhileData{Cond: cond, Body: body})
	return e.new(ExprWhile, span, PayloadID(payload))
}

// While returns the while loop data for the given expression ID.
func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprWhile {
		return nil, false
	}
	return e.Whiles.Get(uint32(expr.Payload)), true
}

// NewFor creates a new for loop expression.
func (e *Exprs) NewFor(span source.Span, name source.StringID, nameSpan source.Span, start, end, body ExprID) ExprID {
	payload := e.Fors.Allocate(ExprForData{Var: name, VarSpan: nameSpan, Start: start, End: end, Body: body})
	return e.new(ExprFor, span, PayloadID(payload))
}

// For returns the for loop data for the given expression ID.
func (e *Exprs) For(id ExprID) (*ExprForData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprFor {
		return nil, false
	}
	return e.Fors.Get(uint32(expr.Payload)), true
}

// NewLet creates a new let-in expression.
func (e *Exprs) NewLet(span source.Span, bindings []LetBinding, body ExprID) ExprID {
	payload := e.Lets.Allocate(ExprLetData{Bindings: bindings, Body: body})
	return e.new(ExprLet, span, PayloadID(payload))
}

// Let returns the let-in data for the given expression ID.
func (e *Exprs) Let(id ExprID) (*ExprLetData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLet {
		return nil, false
	}
	return e.Lets.Get(uint32(expr.Payload)), true
}

// NewAssign creates a new destructive assignment expression.
func (e *Exprs) NewAssign(span source.Span, target, value ExprID) ExprID {
	payload := e.Assigns.Allocate(ExprAssignData{Target: target, Value: value})
	return e.new(ExprAssign, span, PayloadID(payload))
}

// Assign returns the assignment data for the given expression ID.
func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprAssign {
		return nil, false
	}
	return e.Assigns.Get(uint32(expr.Payload)), true
}
