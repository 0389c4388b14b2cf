package sema

import (
	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/source"
	"hulk/internal/types"
)

// checkBodies is Pass B. Attribute initializers run first so that member
// accesses in later bodies see inferred attribute types, then method bodies,
// global function bodies and finally the top-level expression sequence.
func (c *checker) checkBodies() {
	c.checkTypes()
	c.checkFunctions()
	c.checkTopLevel()
}

// checkTypes analyzes parent constructor arguments and attribute initializers
// of every type, then every method body. The whole type body shares one base
// scope holding the constructor parameters and self.
func (c *checker) checkTypes() {
	userTypes := c.env.UserTypes()

	for _, id := range userTypes {
		c.curType, c.curMethod = id, ""
		sc := c.ctorScope(id)
		c.checkParentArgs(id, sc)
		ty := c.env.Get(id)
		for i := range ty.Attributes {
			ty.Attributes[i].Type = c.checkExpr(ty.Attributes[i].Init, sc)
		}
	}

	for _, id := range userTypes {
		ty := c.env.Get(id)
		for i := range ty.Methods {
			c.checkMethod(id, &ty.Methods[i])
		}
	}

	c.curType, c.curMethod = types.NoTypeID, ""
}

// ctorScope binds the constructor parameters and self for a type body.
func (c *checker) ctorScope(id types.TypeID) *scope {
	var sc *scope
	for _, p := range c.env.CtorOf(id) {
		sc = sc.bind(c.arenas.Intern(p.Name), p.Type)
	}
	return sc.bind(c.selfID, id)
}

func (c *checker) checkParentArgs(id types.TypeID, sc *scope) {
	ty := c.env.Get(id)
	pt := c.env.Get(ty.Parent)
	if pt == nil || pt.Kind != types.KindUser || len(ty.ParentArgs) == 0 {
		return
	}
	for i, arg := range ty.ParentArgs {
		got := c.checkExpr(arg, sc)
		if i < len(pt.Ctor) {
			c.requireAssignable(got, pt.Ctor[i].Type, c.spanOf(arg))
		}
	}
}

func (c *checker) checkMethod(id types.TypeID, m *types.Method) {
	c.curType, c.curMethod = id, m.Name
	sc := c.ctorScope(id)
	for _, p := range m.Params {
		sc = sc.bind(c.arenas.Intern(p.Name), p.Type)
	}
	body := c.checkExpr(m.Decl.Body, sc)
	if m.Result == types.NoTypeID {
		m.Result = body
	} else {
		c.requireAssignable(body, m.Result, c.spanOf(m.Decl.Body))
	}
}

func (c *checker) checkFunctions() {
	for _, name := range c.funcOrder {
		f := c.funcs[name]
		var sc *scope
		for _, p := range f.Params {
			sc = sc.bind(c.arenas.Intern(p.Name), p.Type)
		}
		body := c.checkExpr(f.Decl.Body, sc)
		if f.Result == types.NoTypeID {
			f.Result = body
		} else {
			c.requireAssignable(body, f.Result, c.spanOf(f.Decl.Body))
		}
	}
}

func (c *checker) checkTopLevel() {
	for _, itemID := range c.file.Items {
		if stmt, ok := c.arenas.Items.ExprStmt(itemID); ok {
			c.checkExpr(stmt.Expr, nil)
		}
	}
}

func (c *checker) spanOf(id ast.ExprID) source.Span {
	if e := c.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

// requireAssignable reports a type mismatch unless got conforms to want.
// Invalid operands are skipped, their cause was already reported.
func (c *checker) requireAssignable(got, want types.TypeID, sp source.Span) {
	if got == types.NoTypeID || want == types.NoTypeID {
		return
	}
	if !c.env.IsSubtype(got, want) {
		c.reportf(diag.SemaTypeMismatch, sp, "expected '%s', got '%s'", c.env.Name(want), c.env.Name(got))
	}
}

func (c *checker) requireBoolean(got types.TypeID, sp source.Span, what string) {
	if got != types.NoTypeID && got != c.env.Builtins().Boolean {
		c.reportf(diag.SemaTypeMismatch, sp, "%s must be 'Boolean', got '%s'", what, c.env.Name(got))
	}
}

func (c *checker) requireNumber(got types.TypeID, sp source.Span, what string) {
	if got != types.NoTypeID && got != c.env.Builtins().Number {
		c.reportf(diag.SemaTypeMismatch, sp, "%s must be 'Number', got '%s'", what, c.env.Name(got))
	}
}

// checkExpr resolves the type of an expression in the given scope and records
// it for the backend.
func (c *checker) checkExpr(id ast.ExprID, sc *scope) types.TypeID {
	t := c.exprType(id, sc)
	c.exprTypes[id] = t
	return t
}

func (c *checker) exprType(id ast.ExprID, sc *scope) types.TypeID {
	expr := c.arenas.Exprs.Get(id)
	if expr == nil {
		return c.env.Builtins().Object
	}
	b := c.env.Builtins()

	switch expr.Kind {
	case ast.ExprNumberLit:
		return b.Number
	case ast.ExprBoolLit:
		return b.Boolean
	case ast.ExprStringLit:
		return b.String

	case ast.ExprIdent:
		data, _ := c.arenas.Exprs.Ident(id)
		if t, ok := sc.lookup(data.Name); ok {
			return t
		}
		c.reportf(diag.SemaUnknownName, expr.Span, "undefined identifier '%s'", c.name(data.Name))
		return b.Object

	case ast.ExprUnary:
		return c.checkUnary(id, expr, sc)
	case ast.ExprBinary:
		return c.checkBinary(id, expr, sc)

	case ast.ExprCall:
		return c.checkCall(id, expr, sc)
	case ast.ExprMethodCall:
		return c.checkMethodCall(id, expr, sc)
	case ast.ExprMember:
		return c.checkMember(id, sc)
	case ast.ExprNew:
		return c.checkNew(id, expr, sc)

	case ast.ExprPrint:
		data, _ := c.arenas.Exprs.Print(id)
		return c.checkExpr(data.Arg, sc)

	case ast.ExprBlock:
		data, _ := c.arenas.Exprs.Block(id)
		result := b.Object
		for _, sub := range data.Exprs {
			result = c.checkExpr(sub, sc)
		}
		return result

	case ast.ExprIf:
		return c.checkIf(id, sc)

	case ast.ExprWhile:
		data, _ := c.arenas.Exprs.While(id)
		c.requireBoolean(c.checkExpr(data.Cond, sc), c.spanOf(data.Cond), "while condition")
		c.checkExpr(data.Body, sc)
		return b.Object

	case ast.ExprFor:
		data, _ := c.arenas.Exprs.For(id)
		c.requireNumber(c.checkExpr(data.Start, sc), c.spanOf(data.Start), "range bound")
		c.requireNumber(c.checkExpr(data.End, sc), c.spanOf(data.End), "range bound")
		c.checkExpr(data.Body, sc.bind(data.Var, b.Number))
		return b.Object

	case ast.ExprLet:
		return c.checkLet(id, sc)

	case ast.ExprAssign:
		return c.checkAssign(id, sc)

	default:
		return b.Object
	}
}

func (c *checker) checkUnary(id ast.ExprID, expr *ast.Expr, sc *scope) types.TypeID {
	data, _ := c.arenas.Exprs.Unary(id)
	operand := c.checkExpr(data.Operand, sc)
	b := c.env.Builtins()
	switch data.Op {
	case ast.ExprUnaryNot:
		if operand != b.Boolean {
			c.reportf(diag.SemaTypeMismatch, expr.Span, "operator '!' requires 'Boolean', got '%s'", c.env.Name(operand))
		}
		return b.Boolean
	default: // ExprUnaryNeg, ExprUnaryPos
		if operand != b.Number {
			c.reportf(diag.SemaTypeMismatch, expr.Span, "operator '%s' requires 'Number', got '%s'", data.Op, c.env.Name(operand))
		}
		return b.Number
	}
}

// stringable reports whether a type participates in '@' concatenation.
func (c *checker) stringable(t types.TypeID) bool {
	ty := c.env.Get(t)
	if ty == nil {
		return false
	}
	switch ty.Kind {
	case types.KindNumber, types.KindBoolean, types.KindString:
		return true
	default:
		return false
	}
}

func (c *checker) checkBinary(id ast.ExprID, expr *ast.Expr, sc *scope) types.TypeID {
	data, _ := c.arenas.Exprs.Binary(id)
	left := c.checkExpr(data.Left, sc)
	right := c.checkExpr(data.Right, sc)
	b := c.env.Builtins()

	switch data.Op {
	case ast.ExprBinaryAdd, ast.ExprBinarySub, ast.ExprBinaryMul, ast.ExprBinaryDiv, ast.ExprBinaryMod, ast.ExprBinaryPow:
		if left != b.Number || right != b.Number {
			c.reportf(diag.SemaTypeMismatch, expr.Span,
				"operator '%s' requires 'Number' operands, got '%s' and '%s'",
				data.Op, c.env.Name(left), c.env.Name(right))
		}
		return b.Number

	case ast.ExprBinaryLess, ast.ExprBinaryLessEq, ast.ExprBinaryGreater, ast.ExprBinaryGreaterEq:
		if left != b.Number || right != b.Number {
			c.reportf(diag.SemaTypeMismatch, expr.Span,
				"operator '%s' requires 'Number' operands, got '%s' and '%s'",
				data.Op, c.env.Name(left), c.env.Name(right))
		}
		return b.Boolean

	case ast.ExprBinaryEq, ast.ExprBinaryNotEq:
		if left != right {
			c.reportf(diag.SemaTypeMismatch, expr.Span,
				"operator '%s' requires operands of the same type, got '%s' and '%s'",
				data.Op, c.env.Name(left), c.env.Name(right))
		}
		return b.Boolean

	case ast.ExprBinaryAnd, ast.ExprBinaryOr:
		if left != b.Boolean || right != b.Boolean {
			c.reportf(diag.SemaTypeMismatch, expr.Span,
				"operator '%s' requires 'Boolean' operands, got '%s' and '%s'",
				data.Op, c.env.Name(left), c.env.Name(right))
		}
		return b.Boolean

	case ast.ExprBinaryConcat:
		if !c.stringable(left) {
			c.reportf(diag.SemaTypeMismatch, c.spanOf(data.Left), "operator '@' cannot stringify '%s'", c.env.Name(left))
		}
		if !c.stringable(right) {
			c.reportf(diag.SemaTypeMismatch, c.spanOf(data.Right), "operator '@' cannot stringify '%s'", c.env.Name(right))
		}
		return b.String

	default:
		return b.Object
	}
}

func (c *checker) checkIf(id ast.ExprID, sc *scope) types.TypeID {
	data, _ := c.arenas.Exprs.If(id)
	result := types.NoTypeID
	for _, br := range data.Branches {
		c.requireBoolean(c.checkExpr(br.Cond, sc), c.spanOf(br.Cond), "if condition")
		t := c.checkExpr(br.Body, sc)
		if result == types.NoTypeID {
			result = t
		} else {
			result = c.env.LCA(result, t)
		}
	}
	if data.Else == ast.NoExprID {
		return c.env.Builtins().Object
	}
	elseT := c.checkExpr(data.Else, sc)
	if result == types.NoTypeID {
		return elseT
	}
	return c.env.LCA(result, elseT)
}

func (c *checker) checkLet(id ast.ExprID, sc *scope) types.TypeID {
	data, _ := c.arenas.Exprs.Let(id)
	for _, binding := range data.Bindings {
		init := c.checkExpr(binding.Init, sc)
		bound := init
		if binding.Type != source.NoStringID {
			declared := c.resolveTypeName(binding.Type, binding.TypeSpan, types.NoTypeID)
			if declared != types.NoTypeID {
				c.requireAssignable(init, declared, c.spanOf(binding.Init))
				bound = declared
			}
		}
		sc = sc.bind(binding.Name, bound)
	}
	return c.checkExpr(data.Body, sc)
}

func (c *checker) checkAssign(id ast.ExprID, sc *scope) types.TypeID {
	data, _ := c.arenas.Exprs.Assign(id)
	target := c.arenas.Exprs.Get(data.Target)
	if target == nil || (target.Kind != ast.ExprIdent && target.Kind != ast.ExprMember) {
		sp := c.spanOf(data.Target)
		c.report(diag.SemaInvalidLValue, sp, "destructive assignment target must be a variable or an attribute")
		c.checkExpr(data.Value, sc)
		return c.env.Builtins().Object
	}
	targetT := c.checkExpr(data.Target, sc)
	valueT := c.checkExpr(data.Value, sc)
	c.requireAssignable(valueT, targetT, c.spanOf(data.Value))
	return targetT
}

func (c *checker) checkArgs(args []ast.ExprID, params []types.Param, sc *scope) {
	for i, arg := range args {
		got := c.checkExpr(arg, sc)
		if i < len(params) {
			c.requireAssignable(got, params[i].Type, c.spanOf(arg))
		}
	}
}

func (c *checker) checkCall(id ast.ExprID, expr *ast.Expr, sc *scope) types.TypeID {
	data, _ := c.arenas.Exprs.Call(id)
	name := c.name(data.Callee)

	if name == "base" {
		return c.checkBase(data, sc)
	}

	f, ok := c.funcs[name]
	if !ok {
		c.reportf(diag.SemaUnknownName, data.CalleeSpan, "undefined function '%s'", name)
		for _, arg := range data.Args {
			c.checkExpr(arg, sc)
		}
		return c.env.Builtins().Object
	}
	if len(data.Args) != len(f.Params) {
		c.reportf(diag.SemaArityMismatch, expr.Span,
			"'%s' expects %d arguments, %d were provided", name, len(f.Params), len(data.Args))
	}
	c.checkArgs(data.Args, f.Params, sc)
	if f.Result == types.NoTypeID {
		return c.env.Builtins().Object
	}
	return f.Result
}

// checkBase resolves base(...) inside a method body: the nearest ancestor
// method with the same name as the enclosing one.
func (c *checker) checkBase(data *ast.ExprCallData, sc *scope) types.TypeID {
	for _, arg := range data.Args {
		c.checkExpr(arg, sc)
	}
	if c.curType == types.NoTypeID || c.curMethod == "" {
		c.report(diag.SemaUnknownName, data.CalleeSpan, "'base' is only available inside a method body")
		return c.env.Builtins().Object
	}
	parent := c.env.Get(c.curType).Parent
	m, _, ok := c.env.MethodOf(parent, c.curMethod)
	if !ok {
		c.reportf(diag.SemaUnknownName, data.CalleeSpan,
			"no ancestor of '%s' declares a method '%s'", c.env.Name(c.curType), c.curMethod)
		return c.env.Builtins().Object
	}
	if len(data.Args) != len(m.Params) {
		c.reportf(diag.SemaArityMismatch, data.CalleeSpan,
			"'%s' expects %d arguments, %d were provided", c.curMethod, len(m.Params), len(data.Args))
	}
	for i, arg := range data.Args {
		if i < len(m.Params) {
			c.requireAssignable(c.exprTypes[arg], m.Params[i].Type, c.spanOf(arg))
		}
	}
	if m.Result == types.NoTypeID {
		return c.env.Builtins().Object
	}
	return m.Result
}

func (c *checker) checkMethodCall(id ast.ExprID, expr *ast.Expr, sc *scope) types.TypeID {
	data, _ := c.arenas.Exprs.MethodCall(id)
	recv := c.checkExpr(data.Recv, sc)
	name := c.name(data.Name)

	ty := c.env.Get(recv)
	if ty == nil || (ty.Kind != types.KindUser && ty.Kind != types.KindObject) {
		c.reportf(diag.SemaTypeMismatch, c.spanOf(data.Recv), "type '%s' has no methods", c.env.Name(recv))
		for _, arg := range data.Args {
			c.checkExpr(arg, sc)
		}
		return c.env.Builtins().Object
	}

	m, _, ok := c.env.MethodOf(recv, name)
	if !ok {
		c.reportf(diag.SemaUnknownName, data.NameSpan, "'%s' has no method '%s'", c.env.Name(recv), name)
		for _, arg := range data.Args {
			c.checkExpr(arg, sc)
		}
		return c.env.Builtins().Object
	}
	if len(data.Args) != len(m.Params) {
		c.reportf(diag.SemaArityMismatch, expr.Span,
			"'%s' expects %d arguments, %d were provided", name, len(m.Params), len(data.Args))
	}
	c.checkArgs(data.Args, m.Params, sc)
	if m.Result == types.NoTypeID {
		return c.env.Builtins().Object
	}
	return m.Result
}

func (c *checker) checkMember(id ast.ExprID, sc *scope) types.TypeID {
	data, _ := c.arenas.Exprs.Member(id)
	recv := c.checkExpr(data.Recv, sc)
	name := c.name(data.Name)

	ty := c.env.Get(recv)
	if ty == nil || ty.Kind != types.KindUser {
		c.reportf(diag.SemaTypeMismatch, c.spanOf(data.Recv), "type '%s' has no attributes", c.env.Name(recv))
		return c.env.Builtins().Object
	}

	attr, _, ok := c.env.AttributeOf(recv, name)
	if !ok {
		c.reportf(diag.SemaUnknownName, data.NameSpan, "'%s' has no attribute '%s'", c.env.Name(recv), name)
		return c.env.Builtins().Object
	}
	if attr.Type == types.NoTypeID {
		return c.env.Builtins().Object
	}
	return attr.Type
}

func (c *checker) checkNew(id ast.ExprID, expr *ast.Expr, sc *scope) types.TypeID {
	data, _ := c.arenas.Exprs.New(id)
	name := c.name(data.TypeName)

	tid, ok := c.env.LookupName(name)
	if !ok {
		c.reportf(diag.SemaUnknownName, data.TypeSpan, "unknown type '%s'", name)
		for _, arg := range data.Args {
			c.checkExpr(arg, sc)
		}
		return c.env.Builtins().Object
	}
	if c.env.Get(tid).Kind != types.KindUser {
		c.reportf(diag.SemaTypeMismatch, data.TypeSpan, "cannot instantiate builtin type '%s'", name)
		for _, arg := range data.Args {
			c.checkExpr(arg, sc)
		}
		return c.env.Builtins().Object
	}

	ctor := c.env.CtorOf(tid)
	if len(data.Args) != len(ctor) {
		c.reportf(diag.SemaArityMismatch, expr.Span,
			"'%s' expects %d constructor arguments, %d were provided", name, len(ctor), len(data.Args))
	}
	c.checkArgs(data.Args, ctor, sc)
	return tid
}
