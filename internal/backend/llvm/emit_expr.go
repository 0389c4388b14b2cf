package llvm

import (
	"fmt"
	"math"
	"strings"

	"hulk/internal/ast"
	"hulk/internal/source"
	"hulk/internal/types"
)

// numConst renders a double as its exact bit pattern so the printed module
// round-trips without precision loss.
func numConst(v float64) string {
	return fmt.Sprintf("0x%016X", math.Float64bits(v))
}

func (f *funcEmitter) emitExpr(id ast.ExprID) (value, error) {
	e := f.e
	expr := e.arenas.Exprs.Get(id)
	if expr == nil {
		return value{}, fmt.Errorf("llvm: missing expression %d", id)
	}
	b := e.env.Builtins()

	switch expr.Kind {
	case ast.ExprNumberLit:
		d, _ := e.arenas.Exprs.Number(id)
		return value{reg: numConst(d.Value), typ: b.Number}, nil

	case ast.ExprBoolLit:
		d, _ := e.arenas.Exprs.Bool(id)
		if d.Value {
			return value{reg: "true", typ: b.Boolean}, nil
		}
		return value{reg: "false", typ: b.Boolean}, nil

	case ast.ExprStringLit:
		d, _ := e.arenas.Exprs.String(id)
		return value{reg: e.stringConst(e.arenas.Lookup(d.Value)), typ: b.String}, nil

	case ast.ExprIdent:
		d, _ := e.arenas.Exprs.Ident(id)
		return f.emitIdent(e.arenas.Lookup(d.Name))

	case ast.ExprUnary:
		return f.emitUnary(id)

	case ast.ExprBinary:
		return f.emitBinary(id)

	case ast.ExprCall:
		return f.emitCall(id)

	case ast.ExprMethodCall:
		return f.emitMethodCall(id)

	case ast.ExprMember:
		d, _ := e.arenas.Exprs.Member(id)
		recv, err := f.emitExpr(d.Recv)
		if err != nil {
			return value{}, err
		}
		return f.loadField(recv, e.arenas.Lookup(d.Name))

	case ast.ExprNew:
		return f.emitNew(id)

	case ast.ExprPrint:
		return f.emitPrint(id)

	case ast.ExprBlock:
		d, _ := e.arenas.Exprs.Block(id)
		last := value{reg: "null", typ: b.Object}
		for _, sub := range d.Exprs {
			v, err := f.emitExpr(sub)
			if err != nil {
				return value{}, err
			}
			last = v
		}
		return last, nil

	case ast.ExprIf:
		return f.emitIf(id)

	case ast.ExprWhile:
		return f.emitWhile(id)

	case ast.ExprFor:
		return f.emitFor(id)

	case ast.ExprLet:
		return f.emitLet(id)

	case ast.ExprAssign:
		return f.emitAssign(id)
	}
	return value{}, fmt.Errorf("llvm: unhandled expression kind %d", expr.Kind)
}

// emitIdent resolves a name against the local scope first, then against the
// receiver's fields when lowering a method or constructor body.
func (f *funcEmitter) emitIdent(name string) (value, error) {
	e := f.e
	if name == "self" && f.selfReg != "" {
		return value{reg: f.selfReg, typ: f.curType}, nil
	}
	if s, ok := f.scope.lookup(name); ok {
		ty := e.llvmType(s.typ)
		v := f.nextTemp()
		f.printf("  %s = load %s, %s* %s\n", v, ty, ty, s.slot)
		return value{reg: v, typ: s.typ}, nil
	}
	if f.curType != types.NoTypeID && f.selfReg != "" {
		return f.loadField(value{reg: f.selfReg, typ: f.curType}, name)
	}
	return value{}, fmt.Errorf("llvm: unresolved name '%s'", name)
}

// loadField reads one data field of a user object.
func (f *funcEmitter) loadField(recv value, name string) (value, error) {
	e := f.e
	l := e.layoutOf(recv.typ)
	idx, ok := l.structIndex(name)
	if !ok {
		return value{}, fmt.Errorf("llvm: type '%s' has no field '%s'", e.env.Name(recv.typ), name)
	}
	tn := e.env.Name(recv.typ)
	p := f.nextTemp()
	f.printf("  %s = getelementptr %%%s, %%%s* %s, i32 0, i32 %d\n", p, tn, tn, recv.reg, idx)
	ft := l.fields[idx-1].typ
	fty := e.llvmType(ft)
	v := f.nextTemp()
	f.printf("  %s = load %s, %s* %s\n", v, fty, fty, p)
	return value{reg: v, typ: ft}, nil
}

func (f *funcEmitter) emitUnary(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.Unary(id)
	v, err := f.emitExpr(d.Operand)
	if err != nil {
		return value{}, err
	}
	b := e.env.Builtins()
	switch d.Op {
	case ast.ExprUnaryNot:
		r := f.nextTemp()
		f.printf("  %s = xor i1 %s, true\n", r, v.reg)
		return value{reg: r, typ: b.Boolean}, nil
	case ast.ExprUnaryNeg:
		r := f.nextTemp()
		f.printf("  %s = fneg double %s\n", r, v.reg)
		return value{reg: r, typ: b.Number}, nil
	default: // unary plus
		return v, nil
	}
}

func (f *funcEmitter) emitBinary(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.Binary(id)
	b := e.env.Builtins()

	switch d.Op {
	case ast.ExprBinaryAnd, ast.ExprBinaryOr:
		return f.emitShortCircuit(d)
	case ast.ExprBinaryConcat:
		return f.emitConcat(d)
	}

	left, err := f.emitExpr(d.Left)
	if err != nil {
		return value{}, err
	}
	right, err := f.emitExpr(d.Right)
	if err != nil {
		return value{}, err
	}

	switch d.Op {
	case ast.ExprBinaryAdd, ast.ExprBinarySub, ast.ExprBinaryMul, ast.ExprBinaryDiv, ast.ExprBinaryMod:
		op := map[ast.ExprBinaryOp]string{
			ast.ExprBinaryAdd: "fadd",
			ast.ExprBinarySub: "fsub",
			ast.ExprBinaryMul: "fmul",
			ast.ExprBinaryDiv: "fdiv",
			ast.ExprBinaryMod: "frem",
		}[d.Op]
		r := f.nextTemp()
		f.printf("  %s = %s double %s, %s\n", r, op, left.reg, right.reg)
		return value{reg: r, typ: b.Number}, nil

	case ast.ExprBinaryPow:
		r := f.nextTemp()
		f.printf("  %s = call double @llvm.pow.f64(double %s, double %s)\n", r, left.reg, right.reg)
		return value{reg: r, typ: b.Number}, nil

	case ast.ExprBinaryLess, ast.ExprBinaryLessEq, ast.ExprBinaryGreater, ast.ExprBinaryGreaterEq:
		op := map[ast.ExprBinaryOp]string{
			ast.ExprBinaryLess:      "olt",
			ast.ExprBinaryLessEq:    "ole",
			ast.ExprBinaryGreater:   "ogt",
			ast.ExprBinaryGreaterEq: "oge",
		}[d.Op]
		r := f.nextTemp()
		f.printf("  %s = fcmp %s double %s, %s\n", r, op, left.reg, right.reg)
		return value{reg: r, typ: b.Boolean}, nil

	case ast.ExprBinaryEq, ast.ExprBinaryNotEq:
		return f.emitEquality(d.Op, left, right)
	}
	return value{}, fmt.Errorf("llvm: unhandled binary operator %v", d.Op)
}

func (f *funcEmitter) emitEquality(op ast.ExprBinaryOp, left, right value) (value, error) {
	e := f.e
	b := e.env.Builtins()
	r := f.nextTemp()
	switch left.typ {
	case b.Number:
		cmp := "oeq"
		if op == ast.ExprBinaryNotEq {
			cmp = "one"
		}
		f.printf("  %s = fcmp %s double %s, %s\n", r, cmp, left.reg, right.reg)
	case b.String:
		f.printf("  %s = call i1 @hulk_str_eq(i8* %s, i8* %s)\n", r, left.reg, right.reg)
		if op == ast.ExprBinaryNotEq {
			neg := f.nextTemp()
			f.printf("  %s = xor i1 %s, true\n", neg, r)
			r = neg
		}
	default:
		cmp := "eq"
		if op == ast.ExprBinaryNotEq {
			cmp = "ne"
		}
		f.printf("  %s = icmp %s %s %s, %s\n", r, cmp, e.llvmType(left.typ), left.reg, right.reg)
	}
	return value{reg: r, typ: b.Boolean}, nil
}

// emitShortCircuit lowers & and | without evaluating the right operand
// when the left already decides the result.
func (f *funcEmitter) emitShortCircuit(d *ast.ExprBinaryData) (value, error) {
	b := f.e.env.Builtins()
	left, err := f.emitExpr(d.Left)
	if err != nil {
		return value{}, err
	}
	entry := f.curBlock
	rhs := f.nextBlock()
	end := f.nextBlock()
	skip := "false"
	if d.Op == ast.ExprBinaryOr {
		skip = "true"
		f.printf("  br i1 %s, label %%%s, label %%%s\n", left.reg, end, rhs)
	} else {
		f.printf("  br i1 %s, label %%%s, label %%%s\n", left.reg, rhs, end)
	}
	f.startBlock(rhs)
	right, err := f.emitExpr(d.Right)
	if err != nil {
		return value{}, err
	}
	rhsEnd := f.curBlock
	f.printf("  br label %%%s\n", end)
	f.startBlock(end)
	r := f.nextTemp()
	f.printf("  %s = phi i1 [ %s, %%%s ], [ %s, %%%s ]\n", r, skip, entry, right.reg, rhsEnd)
	return value{reg: r, typ: b.Boolean}, nil
}

// stringify converts a concat operand into an i8* string.
func (f *funcEmitter) stringify(v value) value {
	e := f.e
	b := e.env.Builtins()
	switch v.typ {
	case b.String:
		return v
	case b.Number:
		r := f.nextTemp()
		f.printf("  %s = call i8* @hulk_num_to_str(double %s)\n", r, v.reg)
		return value{reg: r, typ: b.String}
	case b.Boolean:
		r := f.nextTemp()
		f.printf("  %s = call i8* @hulk_bool_to_str(i1 %s)\n", r, v.reg)
		return value{reg: r, typ: b.String}
	}
	return value{reg: e.stringConst(e.env.Name(v.typ)), typ: b.String}
}

func (f *funcEmitter) emitConcat(d *ast.ExprBinaryData) (value, error) {
	left, err := f.emitExpr(d.Left)
	if err != nil {
		return value{}, err
	}
	right, err := f.emitExpr(d.Right)
	if err != nil {
		return value{}, err
	}
	ls := f.stringify(left)
	rs := f.stringify(right)
	r := f.nextTemp()
	f.printf("  %s = call i8* @hulk_concat(i8* %s, i8* %s)\n", r, ls.reg, rs.reg)
	return value{reg: r, typ: f.e.env.Builtins().String}, nil
}

func (f *funcEmitter) emitCall(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.Call(id)
	name := e.arenas.Lookup(d.Callee)
	if name == "base" {
		return f.emitBase(d.Args)
	}
	fn := e.res.Functions[name]
	if fn == nil {
		return value{}, fmt.Errorf("llvm: unknown function '%s'", name)
	}
	args, err := f.emitArgs(d.Args, fn.Params)
	if err != nil {
		return value{}, err
	}
	result := fn.Result
	if result == types.NoTypeID {
		result = e.env.Builtins().Object
	}
	ret := e.llvmType(result)
	r := f.nextTemp()
	f.printf("  %s = call %s @%s(%s)\n", r, ret, name, args)
	return value{reg: r, typ: result}, nil
}

// emitBase statically calls the nearest ancestor implementation of the
// method currently being lowered.
func (f *funcEmitter) emitBase(argIDs []ast.ExprID) (value, error) {
	e := f.e
	ty := e.env.Get(f.curType)
	m, owner, ok := e.env.MethodOf(ty.Parent, f.curMethod)
	if !ok {
		return value{}, fmt.Errorf("llvm: no ancestor method for base in '%s.%s'", ty.Name, f.curMethod)
	}
	self := f.coerce(value{reg: f.selfReg, typ: f.curType}, owner)
	args, err := f.emitArgs(argIDs, m.Params)
	if err != nil {
		return value{}, err
	}
	result := m.Result
	if result == types.NoTypeID {
		result = e.env.Builtins().Object
	}
	ret := e.llvmType(result)
	r := f.nextTemp()
	f.printf("  %s = call %s %s(%%%s* %s%s%s)\n",
		r, ret, e.methodSymbol(owner, f.curMethod), e.env.Name(owner), self.reg,
		commaIf(args != ""), args)
	return value{reg: r, typ: result}, nil
}

// emitMethodCall dispatches through the receiver's vtable. The slot index
// is fixed by the static receiver type; the loaded function pointer is
// cast to a signature taking the static receiver, which the shared field
// prefix makes safe for any runtime subtype.
func (f *funcEmitter) emitMethodCall(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.MethodCall(id)
	recv, err := f.emitExpr(d.Recv)
	if err != nil {
		return value{}, err
	}
	name := e.arenas.Lookup(d.Name)
	m, _, ok := e.env.MethodOf(recv.typ, name)
	if !ok {
		return value{}, fmt.Errorf("llvm: type '%s' has no method '%s'", e.env.Name(recv.typ), name)
	}
	l := e.layoutOf(recv.typ)
	slot, ok := l.slotIdx[name]
	if !ok {
		return value{}, fmt.Errorf("llvm: no vtable slot for '%s.%s'", e.env.Name(recv.typ), name)
	}

	tn := e.env.Name(recv.typ)
	vtp := f.nextTemp()
	f.printf("  %s = getelementptr %%%s, %%%s* %s, i32 0, i32 0\n", vtp, tn, tn, recv.reg)
	vt := f.nextTemp()
	f.printf("  %s = load i8*, i8** %s\n", vt, vtp)
	arr := f.nextTemp()
	f.printf("  %s = bitcast i8* %s to i8**\n", arr, vt)
	slotp := f.nextTemp()
	f.printf("  %s = getelementptr i8*, i8** %s, i64 %d\n", slotp, arr, slot)
	raw := f.nextTemp()
	f.printf("  %s = load i8*, i8** %s\n", raw, slotp)

	fnty := e.methodFnType(recv.typ, m)
	fn := f.nextTemp()
	f.printf("  %s = bitcast i8* %s to %s*\n", fn, raw, fnty)

	args, err := f.emitArgs(d.Args, m.Params)
	if err != nil {
		return value{}, err
	}
	result := m.Result
	if result == types.NoTypeID {
		result = e.env.Builtins().Object
	}
	r := f.nextTemp()
	f.printf("  %s = call %s %s(%%%s* %s%s%s)\n",
		r, e.llvmType(result), fn, tn, recv.reg, commaIf(args != ""), args)
	return value{reg: r, typ: result}, nil
}

// emitArgs lowers call arguments coerced to the callee's parameter types
// and renders the operand list.
func (f *funcEmitter) emitArgs(ids []ast.ExprID, params []types.Param) (string, error) {
	var parts []string
	for i, argID := range ids {
		v, err := f.emitExpr(argID)
		if err != nil {
			return "", err
		}
		if i < len(params) {
			v = f.coerce(v, params[i].Type)
		}
		parts = append(parts, f.e.llvmType(v.typ)+" "+v.reg)
	}
	return strings.Join(parts, ", "), nil
}

func (f *funcEmitter) emitNew(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.New(id)
	name := e.arenas.Lookup(d.TypeName)
	tid, ok := e.env.LookupName(name)
	if !ok {
		return value{}, fmt.Errorf("llvm: unknown type '%s'", name)
	}
	args, err := f.emitArgs(d.Args, e.env.CtorOf(tid))
	if err != nil {
		return value{}, err
	}
	r := f.nextTemp()
	f.printf("  %s = call %%%s* @%s_new(%s)\n", r, name, name, args)
	return value{reg: r, typ: tid}, nil
}

// emitPrint writes the argument followed by a newline and yields the
// argument so print can sit inside a larger expression.
func (f *funcEmitter) emitPrint(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.Print(id)
	v, err := f.emitExpr(d.Arg)
	if err != nil {
		return value{}, err
	}
	b := e.env.Builtins()
	switch v.typ {
	case b.Number:
		f.printf("  call void @hulk_print_num(double %s)\n", v.reg)
	case b.Boolean:
		f.printf("  call void @hulk_print_bool(i1 %s)\n", v.reg)
	case b.String:
		f.printf("  call void @hulk_print_str(i8* %s)\n", v.reg)
	default:
		f.printf("  call void @hulk_print_str(i8* %s)\n", e.stringConst(e.env.Name(v.typ)))
	}
	return v, nil
}

func (f *funcEmitter) emitIf(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.If(id)
	rt := f.typeOf(id)
	end := f.nextBlock()
	var incomings []string

	for _, br := range d.Branches {
		cond, err := f.emitExpr(br.Cond)
		if err != nil {
			return value{}, err
		}
		then := f.nextBlock()
		next := f.nextBlock()
		f.printf("  br i1 %s, label %%%s, label %%%s\n", cond.reg, then, next)
		f.startBlock(then)
		v, err := f.emitExpr(br.Body)
		if err != nil {
			return value{}, err
		}
		v = f.coerce(v, rt)
		incomings = append(incomings, fmt.Sprintf("[ %s, %%%s ]", v.reg, f.curBlock))
		f.printf("  br label %%%s\n", end)
		f.startBlock(next)
	}

	if d.Else != ast.NoExprID {
		v, err := f.emitExpr(d.Else)
		if err != nil {
			return value{}, err
		}
		v = f.coerce(v, rt)
		incomings = append(incomings, fmt.Sprintf("[ %s, %%%s ]", v.reg, f.curBlock))
	} else {
		incomings = append(incomings, fmt.Sprintf("[ %s, %%%s ]", e.zeroValue(rt), f.curBlock))
	}
	f.printf("  br label %%%s\n", end)

	f.startBlock(end)
	r := f.nextTemp()
	f.printf("  %s = phi %s %s\n", r, e.llvmType(rt), strings.Join(incomings, ", "))
	return value{reg: r, typ: rt}, nil
}

func (f *funcEmitter) emitWhile(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.While(id)
	cond := f.nextBlock()
	body := f.nextBlock()
	end := f.nextBlock()

	f.printf("  br label %%%s\n", cond)
	f.startBlock(cond)
	c, err := f.emitExpr(d.Cond)
	if err != nil {
		return value{}, err
	}
	f.printf("  br i1 %s, label %%%s, label %%%s\n", c.reg, body, end)
	f.startBlock(body)
	if _, err := f.emitExpr(d.Body); err != nil {
		return value{}, err
	}
	f.printf("  br label %%%s\n", cond)
	f.startBlock(end)
	return value{reg: "null", typ: e.env.Builtins().Object}, nil
}

// emitFor lowers `for (x in range(a, b))` as a counting loop from a up to
// but not including b.
func (f *funcEmitter) emitFor(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.For(id)
	b := e.env.Builtins()

	start, err := f.emitExpr(d.Start)
	if err != nil {
		return value{}, err
	}
	endV, err := f.emitExpr(d.End)
	if err != nil {
		return value{}, err
	}

	slot := f.nextTemp()
	f.printf("  %s = alloca double\n", slot)
	f.printf("  store double %s, double* %s\n", start.reg, slot)

	cond := f.nextBlock()
	body := f.nextBlock()
	end := f.nextBlock()

	f.printf("  br label %%%s\n", cond)
	f.startBlock(cond)
	cur := f.nextTemp()
	f.printf("  %s = load double, double* %s\n", cur, slot)
	cmp := f.nextTemp()
	f.printf("  %s = fcmp olt double %s, %s\n", cmp, cur, endV.reg)
	f.printf("  br i1 %s, label %%%s, label %%%s\n", cmp, body, end)

	f.startBlock(body)
	saved := f.scope
	f.scope = f.scope.bind(e.arenas.Lookup(d.Var), slot, b.Number)
	if _, err := f.emitExpr(d.Body); err != nil {
		return value{}, err
	}
	f.scope = saved
	again := f.nextTemp()
	f.printf("  %s = load double, double* %s\n", again, slot)
	step := f.nextTemp()
	f.printf("  %s = fadd double %s, %s\n", step, again, numConst(1))
	f.printf("  store double %s, double* %s\n", step, slot)
	f.printf("  br label %%%s\n", cond)

	f.startBlock(end)
	return value{reg: "null", typ: b.Object}, nil
}

func (f *funcEmitter) emitLet(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.Let(id)
	saved := f.scope
	for _, binding := range d.Bindings {
		init, err := f.emitExpr(binding.Init)
		if err != nil {
			return value{}, err
		}
		declared := init.typ
		if binding.Type != source.NoStringID {
			if tid, ok := e.env.LookupName(e.arenas.Lookup(binding.Type)); ok {
				declared = tid
			}
		}
		init = f.coerce(init, declared)
		ty := e.llvmType(declared)
		slot := f.nextTemp()
		f.printf("  %s = alloca %s\n", slot, ty)
		f.printf("  store %s %s, %s* %s\n", ty, init.reg, ty, slot)
		f.scope = f.scope.bind(e.arenas.Lookup(binding.Name), slot, declared)
	}
	body, err := f.emitExpr(d.Body)
	if err != nil {
		return value{}, err
	}
	f.scope = saved
	return body, nil
}

// emitAssign stores into a local slot or an object field and yields the
// stored value.
func (f *funcEmitter) emitAssign(id ast.ExprID) (value, error) {
	e := f.e
	d, _ := e.arenas.Exprs.Assign(id)
	v, err := f.emitExpr(d.Value)
	if err != nil {
		return value{}, err
	}

	target := e.arenas.Exprs.Get(d.Target)
	switch target.Kind {
	case ast.ExprIdent:
		td, _ := e.arenas.Exprs.Ident(d.Target)
		name := e.arenas.Lookup(td.Name)
		if s, ok := f.scope.lookup(name); ok {
			v = f.coerce(v, s.typ)
			ty := e.llvmType(s.typ)
			f.printf("  store %s %s, %s* %s\n", ty, v.reg, ty, s.slot)
			return v, nil
		}
		if f.curType != types.NoTypeID && f.selfReg != "" {
			return f.storeField(value{reg: f.selfReg, typ: f.curType}, name, v)
		}
		return value{}, fmt.Errorf("llvm: unresolved assignment target '%s'", name)

	case ast.ExprMember:
		td, _ := e.arenas.Exprs.Member(d.Target)
		recv, err := f.emitExpr(td.Recv)
		if err != nil {
			return value{}, err
		}
		return f.storeField(recv, e.arenas.Lookup(td.Name), v)
	}
	return value{}, fmt.Errorf("llvm: invalid assignment target")
}

func (f *funcEmitter) storeField(recv value, name string, v value) (value, error) {
	e := f.e
	l := e.layoutOf(recv.typ)
	idx, ok := l.structIndex(name)
	if !ok {
		return value{}, fmt.Errorf("llvm: type '%s' has no field '%s'", e.env.Name(recv.typ), name)
	}
	ft := l.fields[idx-1].typ
	v = f.coerce(v, ft)
	tn := e.env.Name(recv.typ)
	p := f.nextTemp()
	f.printf("  %s = getelementptr %%%s, %%%s* %s, i32 0, i32 %d\n", p, tn, tn, recv.reg, idx)
	fty := e.llvmType(ft)
	f.printf("  store %s %s, %s* %s\n", fty, v.reg, fty, p)
	return v, nil
}
