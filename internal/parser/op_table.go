package parser

import (
	"hulk/internal/ast"
	"hulk/internal/token"
)

// Binary operator precedence, higher binds tighter.
const (
	precAssign         = 1 // := (right associative)
	precLogicalOr      = 2 // |
	precLogicalAnd     = 3 // &
	precEquality       = 4 // == !=
	precComparison     = 5 // < <= > >=
	precAdditive       = 6 // + - @
	precMultiplicative = 7 // * / %
	precPower          = 8 // ^ (right associative)
)

// getBinaryOperatorPrec returns the precedence and right-associativity of the
// operator, or (-1, false) for non-operators.
func (p *Parser) getBinaryOperatorPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.ColonAssign:
		return precAssign, true

	case token.Pipe:
		return precLogicalOr, false
	case token.Amp:
		return precLogicalAnd, false

	case token.EqEq, token.BangEq:
		return precEquality, false

	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false

	case token.Plus, token.Minus, token.At:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false

	case token.Caret:
		return precPower, true

	default:
		return -1, false
	}
}

// tokenKindToBinaryOp maps an operator token to its AST operator.
func (p *Parser) tokenKindToBinaryOp(kind token.Kind) ast.ExprBinaryOp {
	switch kind {
	case token.Plus:
		return ast.ExprBinaryAdd
	case token.Minus:
		return ast.ExprBinarySub
	case token.Star:
		return ast.ExprBinaryMul
	case token.Slash:
		return ast.ExprBinaryDiv
	case token.Percent:
		return ast.ExprBinaryMod
	case token.Caret:
		return ast.ExprBinaryPow
	case token.At:
		return ast.ExprBinaryConcat

	case token.Amp:
		return ast.ExprBinaryAnd
	case token.Pipe:
		return ast.ExprBinaryOr

	case token.EqEq:
		return ast.ExprBinaryEq
	case token.BangEq:
		return ast.ExprBinaryNotEq
	case token.Lt:
		return ast.ExprBinaryLess
	case token.LtEq:
		return ast.ExprBinaryLessEq
	case token.Gt:
		return ast.ExprBinaryGreater
	case token.GtEq:
		return ast.ExprBinaryGreaterEq

	default:
		// Unreachable while the precedence table and this mapping agree.
		return ast.ExprBinaryAdd
	}
}

// getUnaryOperator returns the unary operator for a token, if any.
func (p *Parser) getUnaryOperator(kind token.Kind) (ast.ExprUnaryOp, bool) {
	switch kind {
	case token.Minus:
		return ast.ExprUnaryNeg, true
	case token.Plus:
		return ast.ExprUnaryPos, true
	case token.Bang:
		return ast.ExprUnaryNot, true
	default:
		return ast.ExprUnaryNeg, false
	}
}
