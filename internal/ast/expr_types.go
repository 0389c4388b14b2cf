package ast

import (
	"hulk/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprIdent represents an identifier expression.
	ExprIdent ExprKind = iota
	// ExprNumberLit represents a numeric literal.
	ExprNumberLit
	// ExprBoolLit represents a boolean literal.
	ExprBoolLit
	// ExprStringLit represents a string literal.
	ExprStringLit
	// ExprUnary represents a unary expression.
	ExprUnary
	// ExprBinary represents a binary expression.
	ExprBinary
	// ExprCall represents a free function call.
	ExprCall
	// ExprMethodCall represents a method call on a receiver.
	ExprMethodCall
	// ExprMember represents attribute access on a receiver.
	ExprMember
	// ExprNew represents an instantiation expression.
	ExprNew
	// ExprPrint represents the builtin print expression.
	ExprPrint
	ExprBlock
	ExprIf
	ExprWhile
	ExprFor
	ExprLet
	ExprAssign
)

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	// ExprBinaryAdd represents the addition operator (+).
	ExprBinaryAdd ExprBinaryOp = iota
	// ExprBinarySub represents the subtraction operator (-).
	ExprBinarySub
	// ExprBinaryMul represents the multiplication operator (*).
	ExprBinaryMul
	// ExprBinaryDiv represents the division operator (/).
	ExprBinaryDiv
	// ExprBinaryMod represents the modulo operator (%).
	ExprBinaryMod
	// ExprBinaryPow represents the power operator (^), right associative.
	ExprBinaryPow
	// ExprBinaryConcat represents the string concatenation operator (@).
	ExprBinaryConcat

	// ExprBinaryAnd represents the logical AND operator (&).
	ExprBinaryAnd
	// ExprBinaryOr represents the logical OR operator (|).
	ExprBinaryOr

	// ExprBinaryEq represents the equality operator (==).
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
)

// String returns the symbol representation of a binary operator.
func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryAdd:
		return "+"
	case ExprBinarySub:
		return "-"
	case ExprBinaryMul:
		return "*"
	case ExprBinaryDiv:
		return "/"
	case ExprBinaryMod:
		return "%"
	case ExprBinaryPow:
		return "^"
	case ExprBinaryConcat:
		return "@"
	case ExprBinaryAnd:
		return "&"
	case ExprBinaryOr:
		return "|"
	case ExprBinaryEq:
		return "=="
	case ExprBinaryNotEq:
		return "!="
	case ExprBinaryLess:
		return "<"
	case ExprBinaryLessEq:
		return "<="
	case ExprBinaryGreater:
		return ">"
	case ExprBinaryGreaterEq:
		return ">="
	default:
		return "?"
	}
}

// ExprUnaryOp enumerates unary operator kinds.
type ExprUnaryOp uint8

const (
	// ExprUnaryNeg represents arithmetic negation (-).
	ExprUnaryNeg ExprUnaryOp = iota
	// ExprUnaryPos represents the no-op plus sign (+).
	ExprUnaryPos
	// ExprUnaryNot represents logical negation (!).
	ExprUnaryNot
)

// String returns the symbol representation of a unary operator.
func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNeg:
		return "-"
	case ExprUnaryPos:
		return "+"
	case ExprUnaryNot:
		return "!"
	default:
		return "?"
	}
}

// ExprIdentData is the payload for identifier expressions.
type ExprIdentData struct {
	Name source.StringID
}

// ExprNumberData is the payload for numeric literals. Value holds the decoded
// constant; Text the original spelling for diagnostics.
type ExprNumberData struct {
	Value float64
	Text  source.StringID
}

// ExprBoolData is the payload for boolean literals.
type ExprBoolData struct {
	Value bool
}

// ExprStringData is the payload for string literals. Value is the decoded
// string with escapes resolved.
type ExprStringData struct {
	Value source.StringID
}

// ExprUnaryData is the payload for unary expressions.
type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

// ExprBinaryData is the payload for binary expressions.
type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

// ExprCallData is the payload for free function calls.
type ExprCallData struct {
	Callee     source.StringID
	CalleeSpan source.Span
	Args       []ExprID
}

// ExprMethodCallData is the payload for method calls.
type ExprMethodCallData struct {
	Recv     ExprID
	Name     source.StringID
	NameSpan source.Span
	Args     []ExprID
}

// ExprMemberData is the payload for attribute access.
type ExprMemberData struct {
	Recv     ExprID
	Name     source.StringID
	NameSpan source.Span
}

// ExprNewData is the payload for instantiation expressions.
type ExprNewData struct {
	TypeName source.StringID
	TypeSpan source.Span
	Args     []ExprID
}

// ExprPrintData is the payload for print expressions.
type ExprPrintData struct {
	Arg ExprID
}

// ExprBlockData is the payload for block expressions. The block's value is the
// value of the last expression.
type ExprBlockData struct {
	Exprs []ExprID
}

// IfBranch is one cond/body pair of an if/elif chain.
type IfBranch struct {
	Cond ExprID
	Body ExprID
}

// ExprIfData is the payload for conditional expressions. Branches holds the if
// branch followed by any elif branches; Else is NoExprID when absent.
type ExprIfData struct {
	Branches []IfBranch
	Else     ExprID
}

// ExprWhileData is the payload for while loops.
type ExprWhileData struct {
	Cond ExprID
	Body ExprID
}

// ExprForData is the payload for for loops over range(start, end).
type ExprForData struct {
	Var     source.StringID
	VarSpan source.Span
	Start   ExprID
	End     ExprID
	Body    ExprID
}

// LetBinding is one name = init pair of a let expression. Type is NoStringID
// when no annotation was written.
type LetBinding struct {
	Name     source.StringID
	NameSpan source.Span
	Type     source.StringID
	TypeSpan source.Span
	Init     ExprID
}

// ExprLetData is the payload for let-in expressions. Bindings are introduced
// left to right, each visible to the initializers that follow it.
type ExprLetData struct {
	Bindings []LetBinding
	Body     ExprID
}

// ExprAssignData is the payload for destructive assignment (:=). Target is an
// identifier or member expression.
type ExprAssignData struct {
	Target ExprID
	Value  ExprID
}
