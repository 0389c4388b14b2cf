package parser

import (
	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/token"
)

// parseTypeItem parses a type declaration:
//
//	type Name[(params)] [inherits Parent[(args)]] { members }
//
// Members are attributes `name = expr;` and methods `name(params)[: T] body`.
func (p *Parser) parseTypeItem() (ast.ItemID, bool) {
	kw := p.advance() // type

	var decl ast.TypeDecl

	name, nameSpan, ok := p.parseTypeName()
	if !ok {
		return ast.NoItemID, false
	}
	decl.Name = name
	decl.NameSpan = nameSpan

	if p.at(token.LParen) {
		params, ok := p.parseParamList()
		if !ok {
			return ast.NoItemID, false
		}
		decl.Params = params
	}

	if p.at(token.KwInherits) {
		p.advance()
		parent, parentSpan, ok := p.parseTypeName()
		if !ok {
			return ast.NoItemID, false
		}
		decl.Parent = parent
		decl.ParentSpan = parentSpan
		if p.at(token.LParen) {
			args, _, ok := p.parseArgList()
			if !ok {
				return ast.NoItemID, false
			}
			decl.ParentArgs = args
		}
	}

	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to begin type body")
	if !ok {
		return ast.NoItemID, false
	}

	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.report(diag.SynUnclosedBrace, diag.SevError, open.Span, "unclosed type body")
			return ast.NoItemID, false
		}
		if !p.parseTypeMember(&decl) {
			p.resyncTypeBody()
		}
	}
	closeTok := p.advance() // }

	span := kw.Span.Cover(closeTok.Span)
	return p.arenas.Items.NewType(span, decl), true
}

// parseTypeMember parses one attribute or method and appends it to decl. The
// token after the member name decides: '=' starts an attribute initializer,
// '(' a method parameter list.
func (p *Parser) parseTypeMember(decl *ast.TypeDecl) bool {
	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return false
	}

	switch p.lx.Peek().Kind {
	case token.Assign:
		p.advance()
		init, ok := p.parseExpr()
		if !ok {
			return false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after attribute initializer"); !ok {
			return false
		}
		decl.Attributes = append(decl.Attributes, ast.AttributeDef{
			Name:     name,
			NameSpan: nameSpan,
			Init:     init,
		})
		return true

	case token.LParen:
		method := ast.FuncDecl{Name: name, NameSpan: nameSpan}
		params, ok := p.parseParamList()
		if !ok {
			return false
		}
		method.Params = params

		if p.at(token.Colon) {
			p.advance()
			retType, retSpan, ok := p.parseTypeName()
			if !ok {
				return false
			}
			method.ReturnType = retType
			method.ReturnSpan = retSpan
		}

		switch {
		case p.at(token.FatArrow):
			p.advance()
			body, ok := p.parseExpr()
			if !ok {
				return false
			}
			method.Body = body
			method.IsArrow = true
			if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after arrow body"); !ok {
				return false
			}
		case p.at(token.LBrace):
			body, ok := p.parseBlockExpr()
			if !ok {
				return false
			}
			method.Body = body
			if p.at(token.Semicolon) {
				p.advance()
			}
		default:
			p.err(diag.SynUnexpectedToken, "expected '=>' or '{' to begin method body")
			return false
		}

		decl.Methods = append(decl.Methods, method)
		return true

	default:
		p.err(diag.SynUnexpectedToken, "expected '=' or '(' after member name")
		return false
	}
}

// resyncTypeBody recovers inside a type body: skip to the next ';' or '}'.
func (p *Parser) resyncTypeBody() {
	for !p.at(token.EOF) && !p.atOr(token.Semicolon, token.RBrace) {
		p.advance()
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
}
