package llvm

import (
	"fmt"

	"hulk/internal/types"
)

// emitTypeDefs writes one named struct per user type. Field zero is the
// vtable pointer; data fields follow in layout order.
func (e *Emitter) emitTypeDefs() {
	for _, id := range e.env.UserTypes() {
		ty := e.env.Get(id)
		l := e.layouts[id]
		fmt.Fprintf(&e.globals, "%%%s = type { i8*", ty.Name)
		for _, f := range l.fields {
			fmt.Fprintf(&e.globals, ", %s", e.llvmType(f.typ))
		}
		e.globals.WriteString(" }\n")
	}
	if len(e.env.UserTypes()) > 0 {
		e.globals.WriteString("\n")
	}
}

// methodFnType returns the IR function type of a method as declared on
// owner: result first, then the receiver pointer and the parameters.
func (e *Emitter) methodFnType(owner types.TypeID, m *types.Method) string {
	s := e.methodResultType(m) + " (%" + e.env.Name(owner) + "*"
	for _, p := range m.Params {
		s += ", " + e.llvmType(p.Type)
	}
	return s + ")"
}

func (e *Emitter) methodResultType(m *types.Method) string {
	if m.Result != types.NoTypeID {
		return e.llvmType(m.Result)
	}
	return "i8*"
}

func (e *Emitter) methodSymbol(owner types.TypeID, name string) string {
	return "@" + e.env.Name(owner) + "_" + name
}

// emitVtables writes one global slot array per user type. A child copies
// the parent's slots and overwrites the ones it overrides, so a slot index
// is stable along the whole inheritance chain.
func (e *Emitter) emitVtables() {
	for _, id := range e.env.UserTypes() {
		ty := e.env.Get(id)
		l := e.layouts[id]
		if len(l.slots) == 0 {
			fmt.Fprintf(&e.globals, "@%s_vtable = global [1 x i8*] [i8* null]\n", ty.Name)
			continue
		}
		fmt.Fprintf(&e.globals, "@%s_vtable = global [%d x i8*] [", ty.Name, len(l.slots))
		for i, slot := range l.slots {
			if i > 0 {
				e.globals.WriteString(", ")
			}
			m, _ := e.env.OwnMethod(slot.owner, slot.name)
			fmt.Fprintf(&e.globals, "i8* bitcast (%s* %s to i8*)",
				e.methodFnType(slot.owner, m), e.methodSymbol(slot.owner, slot.name))
		}
		e.globals.WriteString("]\n")
	}
	if len(e.env.UserTypes()) > 0 {
		e.globals.WriteString("\n")
	}
}
