// Package llvm lowers a checked program to textual LLVM IR.
//
// The module is assembled from two growing buffers, globals (type defs,
// vtables) and code (function bodies), plus a pool of string constants.
// LLVM accepts top-level entities in any order; at the end the runtime
// declarations, string constants, globals, runtime helper definitions and
// code are concatenated in that order.
package llvm

import (
	"fmt"
	"strings"

	"hulk/internal/ast"
	"hulk/internal/sema"
	"hulk/internal/types"
)

// Emitter holds the whole-module emission state.
type Emitter struct {
	arenas *ast.Builder
	file   *ast.File
	res    *sema.Result
	env    *types.Env

	globals strings.Builder
	code    strings.Builder

	strPool  map[string]string
	strOrder []string

	layouts map[types.TypeID]*typeLayout
}

// EmitModule lowers one checked file into a complete LLVM IR module.
func EmitModule(arenas *ast.Builder, fileID ast.FileID, res *sema.Result) (string, error) {
	e := &Emitter{
		arenas:  arenas,
		file:    arenas.Files.Get(fileID),
		res:     res,
		env:     res.Env,
		strPool: make(map[string]string),
		layouts: make(map[types.TypeID]*typeLayout),
	}
	if e.file == nil {
		return "", fmt.Errorf("llvm: no such file in arena")
	}

	e.prepareLayouts()
	e.emitTypeDefs()
	e.emitVtables()
	if err := e.emitConstructors(); err != nil {
		return "", err
	}
	if err := e.emitMethods(); err != nil {
		return "", err
	}
	if err := e.emitFunctions(); err != nil {
		return "", err
	}
	if err := e.emitMain(); err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString("target triple = \"x86_64-linux-gnu\"\n\n")
	out.WriteString(runtimeDecls)
	out.WriteString("\n")
	e.writeStringConsts(&out)
	out.WriteString(e.globals.String())
	out.WriteString(runtimeDefs)
	out.WriteString(e.code.String())
	return out.String(), nil
}

// llvmType maps a static type to its IR representation. User types and
// Object are pointers; Object erases to i8*.
func (e *Emitter) llvmType(t types.TypeID) string {
	b := e.env.Builtins()
	switch t {
	case b.Number:
		return "double"
	case b.Boolean:
		return "i1"
	case b.String:
		return "i8*"
	case b.Object, types.NoTypeID:
		return "i8*"
	}
	ty := e.env.Get(t)
	if ty != nil && ty.Kind == types.KindUser {
		return "%" + ty.Name + "*"
	}
	return "i8*"
}

func (e *Emitter) zeroValue(t types.TypeID) string {
	b := e.env.Builtins()
	switch t {
	case b.Number:
		return "0.0"
	case b.Boolean:
		return "false"
	}
	return "null"
}

// stringConst interns a literal and returns a getelementptr expression
// usable as an i8* operand anywhere.
func (e *Emitter) stringConst(s string) string {
	name, ok := e.strPool[s]
	if !ok {
		name = fmt.Sprintf("@.str.%d", len(e.strOrder))
		e.strPool[s] = name
		e.strOrder = append(e.strOrder, s)
	}
	n := len(s) + 1
	return fmt.Sprintf("getelementptr inbounds ([%d x i8], [%d x i8]* %s, i64 0, i64 0)", n, n, name)
}

func (e *Emitter) writeStringConsts(out *strings.Builder) {
	for _, s := range e.strOrder {
		name := e.strPool[s]
		fmt.Fprintf(out, "%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"\n", name, len(s)+1, escapeIRString(s))
	}
	if len(e.strOrder) > 0 {
		out.WriteString("\n")
	}
}

// escapeIRString renders bytes for a c"..." constant. Printable ASCII
// passes through except quote and backslash; everything else becomes \XX.
func escapeIRString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 0x20 && ch < 0x7f && ch != '"' && ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		fmt.Fprintf(&b, "\\%02X", ch)
	}
	return b.String()
}
