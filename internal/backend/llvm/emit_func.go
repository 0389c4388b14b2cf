package llvm

import (
	"fmt"

	"hulk/internal/ast"
	"hulk/internal/types"
)

// value is one computed IR operand together with its static type.
type value struct {
	reg string
	typ types.TypeID
}

// frame is one lexical binding in the emission scope chain. slot holds the
// register of the alloca backing the name.
type frame struct {
	parent *frame
	name   string
	slot   string
	typ    types.TypeID
}

func (f *frame) bind(name, slot string, t types.TypeID) *frame {
	return &frame{parent: f, name: name, slot: slot, typ: t}
}

func (f *frame) lookup(name string) (*frame, bool) {
	for s := f; s != nil; s = s.parent {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// funcEmitter lowers one function, method or constructor body. Temporaries
// and blocks are numbered per function.
type funcEmitter struct {
	e       *Emitter
	tmpID    int
	blockID  int
	curBlock string
	scope    *frame

	curType   types.TypeID
	curMethod string
	selfReg   string
}

func (e *Emitter) newFuncEmitter() *funcEmitter {
	return &funcEmitter{e: e}
}

func (f *funcEmitter) printf(format string, args ...any) {
	fmt.Fprintf(&f.e.code, format, args...)
}

func (f *funcEmitter) nextTemp() string {
	r := fmt.Sprintf("%%t%d", f.tmpID)
	f.tmpID++
	return r
}

func (f *funcEmitter) nextBlock() string {
	l := fmt.Sprintf("bb%d", f.blockID)
	f.blockID++
	return l
}

func (f *funcEmitter) startBlock(label string) {
	f.printf("%s:\n", label)
	f.curBlock = label
}

// bindParams allocates a stack slot per parameter and stores the incoming
// value, so parameters are assignable like any local.
func (f *funcEmitter) bindParams(params []types.Param) {
	for _, p := range params {
		slot := f.nextTemp()
		ty := f.e.llvmType(p.Type)
		f.printf("  %s = alloca %s\n", slot, ty)
		f.printf("  store %s %%%s, %s* %s\n", ty, p.Name, ty, slot)
		f.scope = f.scope.bind(p.Name, slot, p.Type)
	}
}

func (f *funcEmitter) paramList(params []types.Param) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += f.e.llvmType(p.Type) + " %" + p.Name
	}
	return s
}

// emitFunctions lowers every global function in declaration order.
func (e *Emitter) emitFunctions() error {
	for _, name := range e.res.FuncOrder {
		fn := e.res.Functions[name]
		if fn == nil {
			continue
		}
		f := e.newFuncEmitter()
		result := fn.Result
		if result == types.NoTypeID {
			result = e.env.Builtins().Object
		}
		ret := e.llvmType(result)
		f.printf("define %s @%s(%s) {\n", ret, name, f.paramList(fn.Params))
		f.startBlock(f.nextBlock())
		f.bindParams(fn.Params)
		body, err := f.emitExpr(fn.Decl.Body)
		if err != nil {
			return err
		}
		body = f.coerce(body, result)
		f.printf("  ret %s %s\n", ret, body.reg)
		f.printf("}\n\n")
	}
	return nil
}

// emitMethods lowers every method of every user type. The receiver arrives
// as %self; constructor parameters resolve through the receiver's fields.
func (e *Emitter) emitMethods() error {
	for _, id := range e.env.UserTypes() {
		ty := e.env.Get(id)
		for i := range ty.Methods {
			m := &ty.Methods[i]
			if err := e.emitMethod(id, ty, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Emitter) emitMethod(id types.TypeID, ty *types.Type, m *types.Method) error {
	f := e.newFuncEmitter()
	f.curType = id
	f.curMethod = m.Name
	f.selfReg = "%self"
	ret := e.methodResultType(m)
	f.printf("define %s %s(%%%s* %%self%s%s) {\n",
		ret, e.methodSymbol(id, m.Name), ty.Name,
		commaIf(len(m.Params) > 0), f.paramList(m.Params))
	f.startBlock(f.nextBlock())
	f.bindParams(m.Params)
	body, err := f.emitExpr(m.Decl.Body)
	if err != nil {
		return err
	}
	result := m.Result
	if result == types.NoTypeID {
		result = e.env.Builtins().Object
	}
	body = f.coerce(body, result)
	f.printf("  ret %s %s\n", ret, body.reg)
	f.printf("}\n\n")
	return nil
}

func commaIf(b bool) string {
	if b {
		return ", "
	}
	return ""
}

// emitMain lowers the top-level expression statements into @main.
func (e *Emitter) emitMain() error {
	f := e.newFuncEmitter()
	f.printf("define i32 @main() {\n")
	f.startBlock(f.nextBlock())
	for _, itemID := range e.file.Items {
		stmt, ok := e.arenas.Items.ExprStmt(itemID)
		if !ok {
			continue
		}
		if _, err := f.emitExpr(stmt.Expr); err != nil {
			return err
		}
	}
	f.printf("  ret i32 0\n")
	f.printf("}\n")
	return nil
}

// coerce adapts a value to the representation of want. Pointer kinds
// bitcast; primitives heading for Object are packed into a pointer-sized
// word.
func (f *funcEmitter) coerce(v value, want types.TypeID) value {
	env := f.e.env
	b := env.Builtins()
	if want == types.NoTypeID || v.typ == want {
		return v
	}
	from := f.e.llvmType(v.typ)
	to := f.e.llvmType(want)
	if from == to {
		return value{reg: v.reg, typ: want}
	}
	switch v.typ {
	case b.Number:
		bits := f.nextTemp()
		f.printf("  %s = bitcast double %s to i64\n", bits, v.reg)
		ptr := f.nextTemp()
		f.printf("  %s = inttoptr i64 %s to %s\n", ptr, bits, to)
		return value{reg: ptr, typ: want}
	case b.Boolean:
		wide := f.nextTemp()
		f.printf("  %s = zext i1 %s to i64\n", wide, v.reg)
		ptr := f.nextTemp()
		f.printf("  %s = inttoptr i64 %s to %s\n", ptr, wide, to)
		return value{reg: ptr, typ: want}
	}
	cast := f.nextTemp()
	f.printf("  %s = bitcast %s %s to %s\n", cast, from, v.reg, to)
	return value{reg: cast, typ: want}
}

func (f *funcEmitter) typeOf(id ast.ExprID) types.TypeID {
	return f.e.res.TypeOf(id)
}
