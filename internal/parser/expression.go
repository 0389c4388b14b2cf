package parser

import (
	"strconv"

	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/lexer"
	"hulk/internal/source"
	"hulk/internal/token"
)

// parseExpr parses a full expression, assignments included.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(precAssign)
}

// parseBinaryExpr is the precedence-climbing loop over the operator table.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		kind := p.lx.Peek().Kind
		prec, rightAssoc := p.getBinaryOperatorPrec(kind)
		if prec < minPrec {
			break
		}
		p.advance()

		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, ok := p.parseBinaryExpr(nextMin)
		if !ok {
			return ast.NoExprID, false
		}

		span := p.exprSpan(left).Cover(p.exprSpan(right))
		if kind == token.ColonAssign {
			left = p.arenas.Exprs.NewAssign(span, left, right)
		} else {
			left = p.arenas.Exprs.NewBinary(span, p.tokenKindToBinaryOp(kind), left, right)
		}
	}

	return left, true
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	if op, ok := p.getUnaryOperator(p.lx.Peek().Kind); ok {
		opTok := p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		span := opTok.Span.Cover(p.exprSpan(operand))
		return p.arenas.Exprs.NewUnary(span, op, operand), true
	}
	return p.parsePostfix()
}

// parsePostfix parses member access and method call chains.
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}

	for p.at(token.Dot) {
		p.advance()
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			return ast.NoExprID, false
		}
		span := p.exprSpan(expr).Cover(nameSpan)
		if p.at(token.LParen) {
			args, argsSpan, ok := p.parseArgList()
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewMethodCall(span.Cover(argsSpan), expr, name, nameSpan, args)
		} else {
			expr = p.arenas.Exprs.NewMember(span, expr, name, nameSpan)
		}
	}

	return expr, true
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	switch p.lx.Peek().Kind {
	case token.NumberLit:
		tok := p.advance()
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.report(diag.SynExpectExpression, diag.SevError, tok.Span, "malformed number literal \""+tok.Text+"\"")
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewNumber(tok.Span, value, p.arenas.Intern(tok.Text)), true

	case token.StringLit:
		tok := p.advance()
		return p.arenas.Exprs.NewString(tok.Span, p.arenas.Intern(lexer.Unquote(tok.Text))), true

	case token.KwTrue:
		tok := p.advance()
		return p.arenas.Exprs.NewBool(tok.Span, true), true

	case token.KwFalse:
		tok := p.advance()
		return p.arenas.Exprs.NewBool(tok.Span, false), true

	case token.Ident:
		tok := p.advance()
		name := p.arenas.Intern(tok.Text)
		if p.at(token.LParen) {
			args, argsSpan, ok := p.parseArgList()
			if !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewCall(tok.Span.Cover(argsSpan), name, tok.Span, args), true
		}
		return p.arenas.Exprs.NewIdent(tok.Span, name), true

	case token.KwNew:
		return p.parseNewExpr()

	case token.KwPrint:
		return p.parsePrintExpr()

	case token.KwLet:
		return p.parseLetExpr()

	case token.KwIf:
		return p.parseIfExpr()

	case token.KwWhile:
		return p.parseWhileExpr()

	case token.KwFor:
		return p.parseForExpr()

	case token.LParen:
		open := p.advance()
		expr, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		// Keep the inner node, widen its span to the parentheses.
		p.arenas.Exprs.Get(expr).Span = open.Span.Cover(p.lastSpan)
		return expr, true

	case token.LBrace:
		return p.parseBlockExpr()

	default:
		p.err(diag.SynExpectExpression, "expected expression, got \""+p.lx.Peek().Text+"\"")
		return ast.NoExprID, false
	}
}

// parseArgList parses `( expr, expr, ... )` and returns the arguments plus the
// covered span.
func (p *Parser) parseArgList() ([]ast.ExprID, source.Span, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	if !ok {
		return nil, open.Span, false
	}

	args := make([]ast.ExprID, 0, 4)
	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			p.report(diag.SynUnclosedParen, diag.SevError, open.Span, "unclosed argument list")
			return nil, open.Span, false
		}
		arg, ok := p.parseExpr()
		if !ok {
			return nil, open.Span, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments")
	if !ok {
		return nil, open.Span, false
	}
	return args, open.Span.Cover(closeTok.Span), true
}

func (p *Parser) parseNewExpr() (ast.ExprID, bool) {
	kw := p.advance() // new
	typeName, typeSpan, ok := p.parseTypeName()
	if !ok {
		return ast.NoExprID, false
	}
	args, argsSpan, ok := p.parseArgList()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewNew(kw.Span.Cover(argsSpan), typeName, typeSpan, args), true
}

func (p *Parser) parsePrintExpr() (ast.ExprID, bool) {
	kw := p.advance() // print
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'print'"); !ok {
		return ast.NoExprID, false
	}
	arg, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after print argument")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewPrint(kw.Span.Cover(closeTok.Span), arg), true
}

// parseBlockExpr parses `{ expr; expr; ... }`. The block's value is the last
// expression.
func (p *Parser) parseBlockExpr() (ast.ExprID, bool) {
	open := p.advance() // {

	exprs := make([]ast.ExprID, 0, 4)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.report(diag.SynUnclosedBrace, diag.SevError, open.Span, "unclosed block")
			return ast.NoExprID, false
		}
		expr, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		exprs = append(exprs, expr)
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		if !p.at(token.RBrace) {
			p.err(diag.SynExpectSemicolon, "expected ';' after expression in block")
			return ast.NoExprID, false
		}
	}

	closeTok := p.advance() // }
	return p.arenas.Exprs.NewBlock(open.Span.Cover(closeTok.Span), exprs), true
}

// parseLetExpr parses `let name[: Type] = init, ... in body`.
func (p *Parser) parseLetExpr() (ast.ExprID, bool) {
	kw := p.advance() // let

	var bindings []ast.LetBinding
	for {
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			return ast.NoExprID, false
		}
		binding := ast.LetBinding{Name: name, NameSpan: nameSpan}
		if p.at(token.Colon) {
			p.advance()
			typeName, typeSpan, ok := p.parseTypeName()
			if !ok {
				return ast.NoExprID, false
			}
			binding.Type = typeName
			binding.TypeSpan = typeSpan
		}
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in let binding"); !ok {
			return ast.NoExprID, false
		}
		init, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		binding.Init = init
		bindings = append(bindings, binding)

		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' after let bindings"); !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewLet(kw.Span.Cover(p.exprSpan(body)), bindings, body), true
}

// parseIfExpr parses `if (cond) expr [elif (cond) expr]* [else expr]`.
func (p *Parser) parseIfExpr() (ast.ExprID, bool) {
	kw := p.advance() // if

	var branches []ast.IfBranch
	cond, body, ok := p.parseCondBranch()
	if !ok {
		return ast.NoExprID, false
	}
	branches = append(branches, ast.IfBranch{Cond: cond, Body: body})

	for p.at(token.KwElif) {
		p.advance()
		cond, body, ok := p.parseCondBranch()
		if !ok {
			return ast.NoExprID, false
		}
		branches = append(branches, ast.IfBranch{Cond: cond, Body: body})
	}

	elseBody := ast.NoExprID
	end := p.exprSpan(branches[len(branches)-1].Body)
	if p.at(token.KwElse) {
		p.advance()
		body, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elseBody = body
		end = p.exprSpan(body)
	}

	return p.arenas.Exprs.NewIf(kw.Span.Cover(end), branches, elseBody), true
}

// parseCondBranch parses `( cond ) expr` shared by if/elif/while.
func (p *Parser) parseCondBranch() (cond, body ast.ExprID, ok bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' before condition"); !ok {
		return ast.NoExprID, ast.NoExprID, false
	}
	cond, okCond := p.parseExpr()
	if !okCond {
		return ast.NoExprID, ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after condition"); !ok {
		return ast.NoExprID, ast.NoExprID, false
	}
	body, okBody := p.parseExpr()
	if !okBody {
		return ast.NoExprID, ast.NoExprID, false
	}
	return cond, body, true
}

func (p *Parser) parseWhileExpr() (ast.ExprID, bool) {
	kw := p.advance() // while
	cond, body, ok := p.parseCondBranch()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewWhile(kw.Span.Cover(p.exprSpan(body)), cond, body), true
}

// parseForExpr parses `for (x in range(a, b)) body`. The iterable must be a
// call to range with exactly two arguments; anything else is rejected here.
func (p *Parser) parseForExpr() (ast.ExprID, bool) {
	kw := p.advance() // for
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return ast.NoExprID, false
	}
	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' in for header"); !ok {
		return ast.NoExprID, false
	}

	iterSpan := p.lx.Peek().Span
	iter, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	start, end, ok := p.splitRangeCall(iter, iterSpan)
	if !ok {
		return ast.NoExprID, false
	}

	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after for header"); !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewFor(kw.Span.Cover(p.exprSpan(body)), name, nameSpan, start, end, body), true
}

// splitRangeCall checks that the for iterable is range(a, b) and returns the
// two bounds.
func (p *Parser) splitRangeCall(iter ast.ExprID, iterSpan source.Span) (start, end ast.ExprID, ok bool) {
	call, isCall := p.arenas.Exprs.Call(iter)
	if !isCall || p.arenas.Lookup(call.Callee) != "range" || len(call.Args) != 2 {
		p.report(diag.SynForBadIterable, diag.SevError, p.exprSpanOr(iter, iterSpan),
			"for iterable must be range(start, end)")
		return ast.NoExprID, ast.NoExprID, false
	}
	return call.Args[0], call.Args[1], true
}

func (p *Parser) exprSpanOr(id ast.ExprID, fallback source.Span) source.Span {
	if id.IsValid() {
		return p.exprSpan(id)
	}
	return fallback
}
