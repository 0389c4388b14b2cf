package parser

import (
	"slices"

	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/lexer"
	"hulk/internal/source"
	"hulk/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
}

// Parser is the per-file parsing state.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span // span of the last consumed token, for diagnostics
}

// ParseFile parses one file into arenas. It requires an already constructed
// lexer over the file.
func ParseFile(
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.Files.New(lx.EmptySpan()),
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	p.parseItems()
	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		File: p.file,
		Bag:  bag,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseItems is the top-level loop: parseItem until EOF.
func (p *Parser) parseItems() {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		itemID, ok := p.parseItem()
		if !ok {
			p.resyncTop()
		} else {
			p.arenas.PushItem(p.file, itemID)
		}
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lx.Peek().Span)
}

// parseItem dispatches on the first token of a top-level construct. Anything
// that is not a function or type declaration is an expression statement.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwFunction:
		return p.parseFunctionItem()
	case token.KwType:
		return p.parseTypeItem()
	case token.Semicolon:
		// Stray semicolon between statements.
		p.advance()
		return ast.NoItemID, false
	case token.RBrace, token.RParen:
		p.err(diag.SynUnexpectedTopLevel, "unexpected '"+p.lx.Peek().Text+"' at top level")
		p.advance()
		return ast.NoItemID, false
	default:
		return p.parseExprStmt()
	}
}

// parseExprStmt parses `expr ;` into an expression statement item.
func (p *Parser) parseExprStmt() (ast.ItemID, bool) {
	start := p.lx.Peek().Span
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoItemID, false
	}
	semi, _ := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression")
	span := start.Cover(p.exprSpan(expr)).Cover(semi.Span)
	return p.arenas.Items.NewExprStmt(span, expr), true
}

// resyncTop recovers after a top-level error: skip to ';', the start of the
// next item, or EOF.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		if p.atOr(token.Semicolon, token.KwFunction, token.KwType) {
			break
		}
		p.advance()
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
}

// parseIdent expects an Ident, interns it and returns the StringID.
func (p *Parser) parseIdent() (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.arenas.Intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.lx.Peek().Text+"\"")
	return source.NoStringID, p.getDiagnosticSpan(), false
}

// parseTypeName expects an Ident naming a type.
func (p *Parser) parseTypeName() (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.arenas.Intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectType, "expected type name, got \""+p.lx.Peek().Text+"\"")
	return source.NoStringID, p.getDiagnosticSpan(), false
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}
