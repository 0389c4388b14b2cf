package parser

import (
	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/token"
)

// parseFunctionItem parses a top-level function declaration:
//
//	function name(params) [: Type] => expr ;
//	function name(params) [: Type] { ... }
func (p *Parser) parseFunctionItem() (ast.ItemID, bool) {
	kw := p.advance() // function

	decl, ok := p.parseFuncDecl()
	if !ok {
		return ast.NoItemID, false
	}

	span := kw.Span.Cover(p.lastSpan)
	return p.arenas.Items.NewFunction(span, decl), true
}

// parseFuncDecl parses the shared function/method shape after the introducing
// keyword: name, parameter list, optional return annotation, arrow or block
// body. Arrow bodies require a trailing ';'.
func (p *Parser) parseFuncDecl() (ast.FuncDecl, bool) {
	var decl ast.FuncDecl

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return decl, false
	}
	decl.Name = name
	decl.NameSpan = nameSpan

	params, ok := p.parseParamList()
	if !ok {
		return decl, false
	}
	decl.Params = params

	if p.at(token.Colon) {
		p.advance()
		retType, retSpan, ok := p.parseTypeName()
		if !ok {
			return decl, false
		}
		decl.ReturnType = retType
		decl.ReturnSpan = retSpan
	}

	switch {
	case p.at(token.FatArrow):
		p.advance()
		body, ok := p.parseExpr()
		if !ok {
			return decl, false
		}
		decl.Body = body
		decl.IsArrow = true
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after arrow body"); !ok {
			return decl, false
		}
	case p.at(token.LBrace):
		body, ok := p.parseBlockExpr()
		if !ok {
			return decl, false
		}
		decl.Body = body
		if p.at(token.Semicolon) {
			p.advance()
		}
	default:
		p.err(diag.SynUnexpectedToken, "expected '=>' or '{' to begin function body")
		return decl, false
	}

	return decl, true
}

// parseParamList parses `( name[: Type], ... )`.
func (p *Parser) parseParamList() ([]ast.Param, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' to begin parameter list")
	if !ok {
		return nil, false
	}

	params := make([]ast.Param, 0, 4)
	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			p.report(diag.SynUnclosedParen, diag.SevError, open.Span, "unclosed parameter list")
			return nil, false
		}
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		param := ast.Param{Name: name, NameSpan: nameSpan}
		if p.at(token.Colon) {
			p.advance()
			typeName, typeSpan, ok := p.parseTypeName()
			if !ok {
				return nil, false
			}
			param.Type = typeName
			param.TypeSpan = typeSpan
		}
		params = append(params, param)

		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return nil, false
	}
	return params, true
}
