package llvm

import (
	"hulk/internal/types"
)

// emitConstructors lowers one @T_new per user type. The constructor
// allocates the object, installs the vtable, runs the parent constructor,
// copies the parent's fields into the shared prefix, then evaluates the
// attribute initializers with the constructor parameters in scope.
func (e *Emitter) emitConstructors() error {
	for _, id := range e.env.UserTypes() {
		if err := e.emitConstructor(id); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitConstructor(id types.TypeID) error {
	ty := e.env.Get(id)
	l := e.layouts[id]
	f := e.newFuncEmitter()
	f.curType = id

	f.printf("define %%%s* @%s_new(%s) {\n", ty.Name, ty.Name, f.paramList(ty.Ctor))
	f.startBlock(f.nextBlock())
	f.bindParams(ty.Ctor)

	// sizeof via a null pointer gep
	szp := f.nextTemp()
	f.printf("  %s = getelementptr %%%s, %%%s* null, i64 1\n", szp, ty.Name, ty.Name)
	sz := f.nextTemp()
	f.printf("  %s = ptrtoint %%%s* %s to i64\n", sz, ty.Name, szp)
	raw := f.nextTemp()
	f.printf("  %s = call i8* @malloc(i64 %s)\n", raw, sz)
	self := f.nextTemp()
	f.printf("  %s = bitcast i8* %s to %%%s*\n", self, raw, ty.Name)
	f.selfReg = self

	vtSlots := len(l.slots)
	if vtSlots == 0 {
		vtSlots = 1
	}
	vtp := f.nextTemp()
	f.printf("  %s = getelementptr %%%s, %%%s* %s, i32 0, i32 0\n", vtp, ty.Name, ty.Name, self)
	f.printf("  store i8* bitcast ([%d x i8*]* @%s_vtable to i8*), i8** %s\n", vtSlots, ty.Name, vtp)

	if pt := e.env.Get(ty.Parent); pt != nil && pt.Kind == types.KindUser {
		if err := f.emitParentInit(ty, pt); err != nil {
			return err
		}
	}

	// Parameters that back fields are stored first so a same-named
	// attribute initializer below overwrites them.
	for _, p := range ty.Ctor {
		idx, ok := l.structIndex(p.Name)
		if !ok {
			continue
		}
		slot, _ := f.scope.lookup(p.Name)
		pty := e.llvmType(p.Type)
		v := f.nextTemp()
		f.printf("  %s = load %s, %s* %s\n", v, pty, pty, slot.slot)
		fp := f.nextTemp()
		f.printf("  %s = getelementptr %%%s, %%%s* %s, i32 0, i32 %d\n", fp, ty.Name, ty.Name, self, idx)
		fieldTy := e.llvmType(l.fields[idx-1].typ)
		stored := f.coerce(value{reg: v, typ: p.Type}, l.fields[idx-1].typ)
		f.printf("  store %s %s, %s* %s\n", fieldTy, stored.reg, fieldTy, fp)
	}

	for _, attr := range ty.Attributes {
		init, err := f.emitExpr(attr.Init)
		if err != nil {
			return err
		}
		init = f.coerce(init, attr.Type)
		idx, _ := l.structIndex(attr.Name)
		fp := f.nextTemp()
		f.printf("  %s = getelementptr %%%s, %%%s* %s, i32 0, i32 %d\n", fp, ty.Name, ty.Name, self, idx)
		aty := e.llvmType(attr.Type)
		f.printf("  store %s %s, %s* %s\n", aty, init.reg, aty, fp)
	}

	f.printf("  ret %%%s* %s\n", ty.Name, self)
	f.printf("}\n\n")
	return nil
}

// emitParentInit builds the parent object and copies its data fields into
// the child's matching prefix slots. Explicit parent arguments are
// evaluated with the constructor parameters in scope; a type without its
// own parameters forwards them unchanged.
func (f *funcEmitter) emitParentInit(ty *types.Type, pt *types.Type) error {
	e := f.e
	var args []value
	if len(ty.ParentArgs) > 0 {
		for i, argID := range ty.ParentArgs {
			v, err := f.emitExpr(argID)
			if err != nil {
				return err
			}
			args = append(args, f.coerce(v, pt.Ctor[i].Type))
		}
	} else {
		for _, p := range pt.Ctor {
			slot, _ := f.scope.lookup(p.Name)
			pty := e.llvmType(slot.typ)
			v := f.nextTemp()
			f.printf("  %s = load %s, %s* %s\n", v, pty, pty, slot.slot)
			args = append(args, f.coerce(value{reg: v, typ: slot.typ}, p.Type))
		}
	}

	parent := f.nextTemp()
	f.printf("  %s = call %%%s* @%s_new(", parent, pt.Name, pt.Name)
	for i, a := range args {
		if i > 0 {
			f.printf(", ")
		}
		f.printf("%s %s", e.llvmType(a.typ), a.reg)
	}
	f.printf(")\n")

	pl := e.layoutOf(ty.Parent)
	for i, field := range pl.fields {
		fty := e.llvmType(field.typ)
		src := f.nextTemp()
		f.printf("  %s = getelementptr %%%s, %%%s* %s, i32 0, i32 %d\n", src, pt.Name, pt.Name, parent, i+1)
		v := f.nextTemp()
		f.printf("  %s = load %s, %s* %s\n", v, fty, fty, src)
		dst := f.nextTemp()
		f.printf("  %s = getelementptr %%%s, %%%s* %s, i32 0, i32 %d\n", dst, ty.Name, ty.Name, f.selfReg, i+1)
		f.printf("  store %s %s, %s* %s\n", fty, v, fty, dst)
	}
	return nil
}
