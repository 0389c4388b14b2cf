package sema

import (
	"slices"

	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/source"
	"hulk/internal/types"
)

// collect is Pass A: every type header and global function signature enters
// the environment before any body is looked at, so bodies may reference
// declarations in any order.
func (c *checker) collect() {
	c.declareItems()
	c.resolveHeaders()
	c.detectCycles()
	c.inheritCtors()
	c.checkHierarchy()
}

// declareItems registers type and function names. Signatures are resolved in
// resolveHeaders once every name is known.
func (c *checker) declareItems() {
	for _, itemID := range c.file.Items {
		item := c.arenas.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemType:
			decl, _ := c.arenas.Items.Type(itemID)
			name := c.name(decl.Name)
			if _, ok := c.env.Declare(name, itemID); !ok {
				c.reportf(diag.SemaRedeclaration, decl.NameSpan, "type '%s' is already defined", name)
			}
		case ast.ItemFunction:
			decl, _ := c.arenas.Items.Function(itemID)
			name := c.name(decl.Name)
			if _, ok := c.funcs[name]; ok {
				c.reportf(diag.SemaRedeclaration, decl.NameSpan, "function '%s' is already defined", name)
				continue
			}
			c.funcs[name] = &Function{Name: name, Decl: decl}
			c.funcOrder = append(c.funcOrder, name)
		case ast.ItemExprStmt:
			// handled in pass B
		}
	}
}

// resolveHeaders fills in parents, constructor parameters and member
// signatures for every declared type, and parameter/return types for every
// global function.
func (c *checker) resolveHeaders() {
	for _, itemID := range c.file.Items {
		item := c.arenas.Items.Get(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemType:
			decl, _ := c.arenas.Items.Type(itemID)
			id, _ := c.env.LookupName(c.name(decl.Name))
			ty := c.env.Get(id)
			if ty == nil || ty.Decl != itemID {
				continue // duplicate declaration, only the first is resolved
			}
			c.resolveTypeHeader(id, decl)
		case ast.ItemFunction:
			decl, _ := c.arenas.Items.Function(itemID)
			f := c.funcs[c.name(decl.Name)]
			if f == nil || f.Decl != decl {
				continue
			}
			f.Params = c.resolveParams(decl.Params)
			if decl.ReturnType != source.NoStringID {
				f.Result = c.resolveTypeName(decl.ReturnType, decl.ReturnSpan, c.env.Builtins().Object)
			}
		}
	}
}

func (c *checker) resolveTypeHeader(id types.TypeID, decl *ast.TypeDecl) {
	ty := c.env.Get(id)

	if decl.Parent != source.NoStringID {
		parentName := c.name(decl.Parent)
		pid, ok := c.env.LookupName(parentName)
		switch {
		case !ok:
			c.reportf(diag.SemaUnknownName, decl.ParentSpan, "unknown type '%s'", parentName)
		case pid == id:
			c.reportf(diag.SemaInheritanceCycle, decl.ParentSpan, "type '%s' inherits itself", parentName)
		default:
			pt := c.env.Get(pid)
			if pt.Kind == types.KindUser || pt.Kind == types.KindObject {
				ty.Parent = pid
			} else {
				c.reportf(diag.SemaTypeMismatch, decl.ParentSpan, "cannot inherit from builtin type '%s'", parentName)
			}
		}
	}

	ty.Ctor = c.resolveParams(decl.Params)
	ty.ParentArgs = decl.ParentArgs

	for _, attr := range decl.Attributes {
		name := c.name(attr.Name)
		dup := slices.ContainsFunc(ty.Attributes, func(a types.Attribute) bool {
			return a.Name == name
		})
		if dup {
			c.reportf(diag.SemaRedeclaration, attr.NameSpan, "attribute '%s' is already defined", name)
			continue
		}
		ty.Attributes = append(ty.Attributes, types.Attribute{Name: name, Init: attr.Init})
	}

	for i := range decl.Methods {
		m := &decl.Methods[i]
		name := c.name(m.Name)
		if _, ok := c.env.OwnMethod(id, name); ok {
			c.reportf(diag.SemaRedeclaration, m.NameSpan, "method '%s' is already defined", name)
			continue
		}
		method := types.Method{
			Name:   name,
			Params: c.resolveParams(m.Params),
			Owner:  id,
			Decl:   m,
		}
		if m.ReturnType != source.NoStringID {
			method.Result = c.resolveTypeName(m.ReturnType, m.ReturnSpan, c.env.Builtins().Object)
		}
		ty.Methods = append(ty.Methods, method)
	}
}

// resolveParams maps declared parameters to resolved ones. A missing
// annotation resolves to Object; duplicate names are reported and kept so
// positions stay aligned with call sites.
func (c *checker) resolveParams(params []ast.Param) []types.Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]types.Param, 0, len(params))
	for i, p := range params {
		name := c.name(p.Name)
		for j := 0; j < i; j++ {
			if out[j].Name == name {
				c.reportf(diag.SemaRedeclaration, p.NameSpan, "duplicate parameter '%s'", name)
				break
			}
		}
		out = append(out, types.Param{
			Name: name,
			Type: c.resolveTypeName(p.Type, p.TypeSpan, c.env.Builtins().Object),
		})
	}
	return out
}

// detectCycles walks every parent chain once. A chain that closes on itself
// is reported and broken by re-rooting the offending type at Object, so the
// rest of the analysis sees a forest.
func (c *checker) detectCycles() {
	const (
		white = iota
		gray
		black
	)
	state := make([]uint8, c.env.Len())
	for _, id := range c.env.UserTypes() {
		if state[id] != white {
			continue
		}
		var path []types.TypeID
		cur := id
		for cur != types.NoTypeID && state[cur] == white {
			ty := c.env.Get(cur)
			if ty.Kind != types.KindUser {
				break
			}
			state[cur] = gray
			path = append(path, cur)
			cur = ty.Parent
		}
		if cur != types.NoTypeID && state[cur] == gray {
			ty := c.env.Get(cur)
			sp := c.arenas.Items.Get(ty.Decl).Span
			if decl, ok := c.arenas.Items.Type(ty.Decl); ok {
				sp = decl.ParentSpan
			}
			c.reportf(diag.SemaInheritanceCycle, sp, "inheritance cycle through type '%s'", ty.Name)
			ty.Parent = c.env.Builtins().Object
		}
		for _, p := range path {
			state[p] = black
		}
	}
}

// inheritCtors gives every parameterless type with a user parent the parent's
// constructor parameters, which are then forwarded implicitly. Runs after
// cycle breaking, so the recursion terminates.
func (c *checker) inheritCtors() {
	done := make(map[types.TypeID]bool)
	var fill func(id types.TypeID)
	fill = func(id types.TypeID) {
		if done[id] {
			return
		}
		done[id] = true
		ty := c.env.Get(id)
		if ty == nil || ty.Kind != types.KindUser {
			return
		}
		pt := c.env.Get(ty.Parent)
		if pt == nil || pt.Kind != types.KindUser {
			return
		}
		fill(ty.Parent)
		if len(ty.Ctor) == 0 && len(ty.ParentArgs) == 0 {
			ty.Ctor = slices.Clone(pt.Ctor)
		}
	}
	for _, id := range c.env.UserTypes() {
		fill(id)
	}
}

// checkHierarchy validates everything that needs completed parent chains:
// parent constructor arity, attribute conflicts with ancestors, and method
// override shapes.
func (c *checker) checkHierarchy() {
	for _, id := range c.env.UserTypes() {
		ty := c.env.Get(id)
		decl, ok := c.arenas.Items.Type(ty.Decl)
		if !ok {
			continue
		}

		pt := c.env.Get(ty.Parent)
		switch {
		case pt != nil && pt.Kind == types.KindUser:
			// A type with its own parameters must spell out the parent
			// arguments; only a parameterless type forwards implicitly.
			if len(decl.Params) > 0 && len(ty.ParentArgs) != len(pt.Ctor) {
				c.reportf(diag.SemaArityMismatch, decl.ParentSpan,
					"type '%s' expects %d constructor arguments, %d were provided",
					pt.Name, len(pt.Ctor), len(ty.ParentArgs))
			}
		case pt != nil && pt.Kind == types.KindObject:
			if len(ty.ParentArgs) > 0 {
				c.reportf(diag.SemaArityMismatch, decl.ParentSpan,
					"'Object' takes no constructor arguments, %d were provided", len(ty.ParentArgs))
			}
		}

		for _, attr := range ty.Attributes {
			if _, owner, ok := c.env.AttributeOf(ty.Parent, attr.Name); ok {
				c.reportf(diag.SemaAttributeConflict, c.attributeSpan(decl, attr.Name),
					"attribute '%s' is already declared by ancestor '%s'", attr.Name, c.env.Name(owner))
			}
		}

		for i := range ty.Methods {
			c.checkOverride(ty, &ty.Methods[i])
		}
	}
}

func (c *checker) attributeSpan(decl *ast.TypeDecl, name string) source.Span {
	for _, a := range decl.Attributes {
		if c.name(a.Name) == name {
			return a.NameSpan
		}
	}
	return decl.NameSpan
}

// checkOverride compares a method against an ancestor method of the same
// name: identical arity, identical parameter types, and a return type that
// conforms to the ancestor's.
func (c *checker) checkOverride(ty *types.Type, m *types.Method) {
	parent, owner, ok := c.env.MethodOf(ty.Parent, m.Name)
	if !ok {
		return
	}
	sp := m.Decl.NameSpan
	if len(m.Params) != len(parent.Params) {
		c.reportf(diag.SemaInvalidOverride, sp,
			"method '%s' overrides '%s.%s' with %d parameters instead of %d",
			m.Name, c.env.Name(owner), m.Name, len(m.Params), len(parent.Params))
		return
	}
	for i := range m.Params {
		if m.Params[i].Type != parent.Params[i].Type {
			c.reportf(diag.SemaInvalidOverride, m.Decl.Params[i].NameSpan,
				"parameter '%s' of '%s' must have type '%s' to match '%s.%s'",
				m.Params[i].Name, m.Name, c.env.Name(parent.Params[i].Type), c.env.Name(owner), m.Name)
		}
	}
	if m.Result != types.NoTypeID && parent.Result != types.NoTypeID &&
		!c.env.IsSubtype(m.Result, parent.Result) {
		c.reportf(diag.SemaInvalidOverride, sp,
			"return type '%s' of '%s' does not conform to '%s' declared by '%s'",
			c.env.Name(m.Result), m.Name, c.env.Name(parent.Result), c.env.Name(owner))
	}
}
