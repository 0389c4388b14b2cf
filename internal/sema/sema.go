package sema

import (
	"fmt"

	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/source"
	"hulk/internal/types"
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

// Function is the resolved signature of a global function.
type Function struct {
	Name   string
	Params []types.Param
	Result types.TypeID
	Decl   *ast.FuncDecl
}

// Result is everything the later phases consume: the populated type
// environment, the global function table, and the resolved type of every
// checked expression.
type Result struct {
	Env       *types.Env
	Functions map[string]*Function
	FuncOrder []string
	ExprTypes map[ast.ExprID]types.TypeID
	Errors    uint
}

// Ok reports whether the analysis finished without errors.
func (r *Result) Ok() bool { return r.Errors == 0 }

// TypeOf returns the resolved type of an expression, Object when unknown.
func (r *Result) TypeOf(id ast.ExprID) types.TypeID {
	if t, ok := r.ExprTypes[id]; ok && t != types.NoTypeID {
		return t
	}
	return r.Env.Builtins().Object
}

// checker is the per-file analysis state. curType and curMethod describe the
// body being checked so that self and base resolve.
type checker struct {
	arenas    *ast.Builder
	file      *ast.File
	opts      Options
	env       *types.Env
	funcs     map[string]*Function
	funcOrder []string
	exprTypes map[ast.ExprID]types.TypeID

	selfID source.StringID

	curType   types.TypeID
	curMethod string
}

// Check runs declaration collection and body checking over one parsed file.
func Check(arenas *ast.Builder, fileID ast.FileID, opts Options) *Result {
	c := &checker{
		arenas:    arenas,
		file:      arenas.Files.Get(fileID),
		opts:      opts,
		env:       types.NewEnv(),
		funcs:     make(map[string]*Function),
		exprTypes: make(map[ast.ExprID]types.TypeID),
		selfID:    arenas.Intern("self"),
	}
	c.collect()
	c.checkBodies()
	return &Result{
		Env:       c.env,
		Functions: c.funcs,
		FuncOrder: c.funcOrder,
		ExprTypes: c.exprTypes,
		Errors:    c.opts.CurrentErrors,
	}
}

func (c *checker) name(id source.StringID) string {
	return c.arenas.Lookup(id)
}

func (c *checker) report(code diag.Code, sp source.Span, msg string) {
	if c.opts.Reporter == nil {
		return
	}
	if c.opts.Enough() {
		return
	}
	c.opts.CurrentErrors++
	c.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
}

func (c *checker) reportf(code diag.Code, sp source.Span, format string, args ...any) {
	c.report(code, sp, fmt.Sprintf(format, args...))
}

// resolveTypeName maps a written type annotation to a TypeID. NoStringID
// (no annotation) resolves to fallback without a diagnostic.
func (c *checker) resolveTypeName(name source.StringID, sp source.Span, fallback types.TypeID) types.TypeID {
	if name == source.NoStringID {
		return fallback
	}
	if id, ok := c.env.LookupName(c.name(name)); ok {
		return id
	}
	c.reportf(diag.SemaUnknownName, sp, "unknown type '%s'", c.name(name))
	return fallback
}
