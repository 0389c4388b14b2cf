package parser

import (
	"testing"

	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/lexer"
	"hulk/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Builder, *ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hulk", []byte(src))
	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}

	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	res := ParseFile(fs, lx, builder, Options{Reporter: rep})
	return builder, builder.Files.Get(res.File), bag
}

func parseOK(t *testing.T, src string) (*ast.Builder, *ast.File) {
	t.Helper()
	builder, file, bag := parseSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors in %q: %v", src, bag.Items())
	}
	return builder, file
}

// firstExpr returns the expression of the first top-level statement.
func firstExpr(t *testing.T, builder *ast.Builder, file *ast.File) ast.ExprID {
	t.Helper()
	if len(file.Items) == 0 {
		t.Fatal("expected at least one item")
	}
	stmt, ok := builder.Items.ExprStmt(file.Items[0])
	if !ok {
		t.Fatalf("expected expression statement, got kind %v", builder.Items.Get(file.Items[0]).Kind)
	}
	return stmt.Expr
}

func firstCode(bag *diag.Bag) diag.Code {
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			return d.Code
		}
	}
	return diag.UnknownCode
}

func TestLiterals(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind ast.ExprKind
	}{
		{"number", "42;", ast.ExprNumberLit},
		{"float", "3.14;", ast.ExprNumberLit},
		{"string", `"hello";`, ast.ExprStringLit},
		{"true", "true;", ast.ExprBoolLit},
		{"false", "false;", ast.ExprBoolLit},
		{"ident", "foo;", ast.ExprIdent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			builder, file := parseOK(t, tc.src)
			expr := builder.Exprs.Get(firstExpr(t, builder, file))
			if expr.Kind != tc.kind {
				t.Errorf("expected %v, got %v", tc.kind, expr.Kind)
			}
		})
	}
}

func TestNumberValueAndText(t *testing.T) {
	builder, file := parseOK(t, "2.5;")
	num, ok := builder.Exprs.Number(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected number literal")
	}
	if num.Value != 2.5 {
		t.Errorf("expected value 2.5, got %v", num.Value)
	}
	if builder.Lookup(num.Text) != "2.5" {
		t.Errorf("expected text %q, got %q", "2.5", builder.Lookup(num.Text))
	}
}

func TestStringEscapesDecoded(t *testing.T) {
	builder, file := parseOK(t, `"a\"b\n";`)
	str, ok := builder.Exprs.String(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected string literal")
	}
	if got := builder.Lookup(str.Value); got != "a\"b\n" {
		t.Errorf("expected decoded value %q, got %q", "a\"b\n", got)
	}
}

func TestBinaryOperators(t *testing.T) {
	cases := []struct {
		src string
		op  ast.ExprBinaryOp
	}{
		{"a + b;", ast.ExprBinaryAdd},
		{"a - b;", ast.ExprBinarySub},
		{"a * b;", ast.ExprBinaryMul},
		{"a / b;", ast.ExprBinaryDiv},
		{"a % b;", ast.ExprBinaryMod},
		{"a ^ b;", ast.ExprBinaryPow},
		{"a @ b;", ast.ExprBinaryConcat},
		{"a & b;", ast.ExprBinaryAnd},
		{"a | b;", ast.ExprBinaryOr},
		{"a == b;", ast.ExprBinaryEq},
		{"a != b;", ast.ExprBinaryNotEq},
		{"a < b;", ast.ExprBinaryLess},
		{"a <= b;", ast.ExprBinaryLessEq},
		{"a > b;", ast.ExprBinaryGreater},
		{"a >= b;", ast.ExprBinaryGreaterEq},
	}
	for _, tc := range cases {
		t.Run(tc.op.String(), func(t *testing.T) {
			builder, file := parseOK(t, tc.src)
			bin, ok := builder.Exprs.Binary(firstExpr(t, builder, file))
			if !ok {
				t.Fatal("expected binary expression")
			}
			if bin.Op != tc.op {
				t.Errorf("expected op %v, got %v", tc.op, bin.Op)
			}
		})
	}
}

func TestPrecedenceMulBindsTighter(t *testing.T) {
	builder, file := parseOK(t, "1 + 2 * 3;")
	top, ok := builder.Exprs.Binary(firstExpr(t, builder, file))
	if !ok || top.Op != ast.ExprBinaryAdd {
		t.Fatalf("expected + at the top, got %v", top)
	}
	right, ok := builder.Exprs.Binary(top.Right)
	if !ok || right.Op != ast.ExprBinaryMul {
		t.Fatalf("expected * on the right, got %v", right)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	builder, file := parseOK(t, "2 ^ 3 ^ 4;")
	top, ok := builder.Exprs.Binary(firstExpr(t, builder, file))
	if !ok || top.Op != ast.ExprBinaryPow {
		t.Fatal("expected ^ at the top")
	}
	if _, ok := builder.Exprs.Number(top.Left); !ok {
		t.Error("expected number on the left")
	}
	right, ok := builder.Exprs.Binary(top.Right)
	if !ok || right.Op != ast.ExprBinaryPow {
		t.Error("expected nested ^ on the right")
	}
}

func TestAdditionIsLeftAssociative(t *testing.T) {
	builder, file := parseOK(t, "1 - 2 - 3;")
	top, ok := builder.Exprs.Binary(firstExpr(t, builder, file))
	if !ok || top.Op != ast.ExprBinarySub {
		t.Fatal("expected - at the top")
	}
	left, ok := builder.Exprs.Binary(top.Left)
	if !ok || left.Op != ast.ExprBinarySub {
		t.Error("expected nested - on the left")
	}
}

func TestComparisonBindsLooserThanArithmetic(t *testing.T) {
	builder, file := parseOK(t, "1 + 2 < 3 * 4;")
	top, ok := builder.Exprs.Binary(firstExpr(t, builder, file))
	if !ok || top.Op != ast.ExprBinaryLess {
		t.Fatal("expected < at the top")
	}
}

func TestLogicalBindsLoosest(t *testing.T) {
	builder, file := parseOK(t, "a < b & c > d | e;")
	top, ok := builder.Exprs.Binary(firstExpr(t, builder, file))
	if !ok || top.Op != ast.ExprBinaryOr {
		t.Fatal("expected | at the top")
	}
	left, ok := builder.Exprs.Binary(top.Left)
	if !ok || left.Op != ast.ExprBinaryAnd {
		t.Fatal("expected & below |")
	}
}

func TestUnaryOperators(t *testing.T) {
	cases := []struct {
		src string
		op  ast.ExprUnaryOp
	}{
		{"-a;", ast.ExprUnaryNeg},
		{"+a;", ast.ExprUnaryPos},
		{"!a;", ast.ExprUnaryNot},
	}
	for _, tc := range cases {
		builder, file := parseOK(t, tc.src)
		un, ok := builder.Exprs.Unary(firstExpr(t, builder, file))
		if !ok {
			t.Fatalf("%q: expected unary expression", tc.src)
		}
		if un.Op != tc.op {
			t.Errorf("%q: expected op %v, got %v", tc.src, tc.op, un.Op)
		}
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	builder, file := parseOK(t, "(1 + 2) * 3;")
	top, ok := builder.Exprs.Binary(firstExpr(t, builder, file))
	if !ok || top.Op != ast.ExprBinaryMul {
		t.Fatal("expected * at the top")
	}
	left, ok := builder.Exprs.Binary(top.Left)
	if !ok || left.Op != ast.ExprBinaryAdd {
		t.Error("expected + inside the parentheses")
	}
}

func TestCallExpression(t *testing.T) {
	builder, file := parseOK(t, "f(1, x, g());")
	call, ok := builder.Exprs.Call(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected call expression")
	}
	if builder.Lookup(call.Callee) != "f" {
		t.Errorf("expected callee f, got %q", builder.Lookup(call.Callee))
	}
	if len(call.Args) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(call.Args))
	}
	if _, ok := builder.Exprs.Call(call.Args[2]); !ok {
		t.Error("expected nested call as third argument")
	}
}

func TestMemberAndMethodCall(t *testing.T) {
	builder, file := parseOK(t, "p.x.dist(1);")
	mc, ok := builder.Exprs.MethodCall(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected method call")
	}
	if builder.Lookup(mc.Name) != "dist" || len(mc.Args) != 1 {
		t.Errorf("unexpected method call: %q with %d args", builder.Lookup(mc.Name), len(mc.Args))
	}
	member, ok := builder.Exprs.Member(mc.Recv)
	if !ok {
		t.Fatal("expected member receiver")
	}
	if builder.Lookup(member.Name) != "x" {
		t.Errorf("expected member x, got %q", builder.Lookup(member.Name))
	}
}

func TestNewExpression(t *testing.T) {
	builder, file := parseOK(t, "new Point(1, 2);")
	n, ok := builder.Exprs.New(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected new expression")
	}
	if builder.Lookup(n.TypeName) != "Point" || len(n.Args) != 2 {
		t.Errorf("unexpected new: %q with %d args", builder.Lookup(n.TypeName), len(n.Args))
	}
}

func TestPrintExpression(t *testing.T) {
	builder, file := parseOK(t, `print("hi");`)
	p, ok := builder.Exprs.Print(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected print expression")
	}
	if _, ok := builder.Exprs.String(p.Arg); !ok {
		t.Error("expected string argument")
	}
}

func TestLetBindings(t *testing.T) {
	builder, file := parseOK(t, "let x = 1, y: Number = x + 1 in y;")
	let, ok := builder.Exprs.Let(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected let expression")
	}
	if len(let.Bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(let.Bindings))
	}
	if builder.Lookup(let.Bindings[0].Name) != "x" {
		t.Errorf("expected first binding x, got %q", builder.Lookup(let.Bindings[0].Name))
	}
	if let.Bindings[0].Type != source.NoStringID {
		t.Error("expected no annotation on x")
	}
	if builder.Lookup(let.Bindings[1].Type) != "Number" {
		t.Errorf("expected Number annotation on y, got %q", builder.Lookup(let.Bindings[1].Type))
	}
	if _, ok := builder.Exprs.Ident(let.Body); !ok {
		t.Error("expected identifier body")
	}
}

func TestAssignExpression(t *testing.T) {
	builder, file := parseOK(t, "x := 5;")
	as, ok := builder.Exprs.Assign(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected assignment")
	}
	if _, ok := builder.Exprs.Ident(as.Target); !ok {
		t.Error("expected identifier target")
	}

	builder, file = parseOK(t, "self.v := self.v + 1;")
	as, ok = builder.Exprs.Assign(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected assignment")
	}
	if _, ok := builder.Exprs.Member(as.Target); !ok {
		t.Error("expected member target")
	}
}

func TestIfElifElse(t *testing.T) {
	builder, file := parseOK(t, "if (a) 1 elif (b) 2 elif (c) 3 else 4;")
	ifd, ok := builder.Exprs.If(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected if expression")
	}
	if len(ifd.Branches) != 3 {
		t.Errorf("expected 3 branches, got %d", len(ifd.Branches))
	}
	if ifd.Else == ast.NoExprID {
		t.Error("expected else body")
	}
}

func TestIfWithoutElse(t *testing.T) {
	builder, file := parseOK(t, "if (a) 1;")
	ifd, ok := builder.Exprs.If(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected if expression")
	}
	if len(ifd.Branches) != 1 {
		t.Errorf("expected 1 branch, got %d", len(ifd.Branches))
	}
	if ifd.Else != ast.NoExprID {
		t.Error("expected no else body")
	}
}

func TestWhileLoop(t *testing.T) {
	builder, file := parseOK(t, "while (x < 10) x := x + 1;")
	wd, ok := builder.Exprs.While(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected while expression")
	}
	if _, ok := builder.Exprs.Binary(wd.Cond); !ok {
		t.Error("expected binary condition")
	}
	if _, ok := builder.Exprs.Assign(wd.Body); !ok {
		t.Error("expected assignment body")
	}
}

func TestForOverRange(t *testing.T) {
	builder, file := parseOK(t, "for (i in range(0, 10)) print(i);")
	fd, ok := builder.Exprs.For(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected for expression")
	}
	if builder.Lookup(fd.Var) != "i" {
		t.Errorf("expected loop variable i, got %q", builder.Lookup(fd.Var))
	}
	if fd.Start == ast.NoExprID || fd.End == ast.NoExprID {
		t.Error("expected range bounds")
	}
}

func TestForRejectsNonRangeIterable(t *testing.T) {
	_, _, bag := parseSource(t, "for (i in items) print(i);")
	if firstCode(bag) != diag.SynForBadIterable {
		t.Errorf("expected SynForBadIterable, got %v (%v)", firstCode(bag), bag.Items())
	}
}

func TestBlockExpression(t *testing.T) {
	builder, file := parseOK(t, "{ print(1); print(2); };")
	blk, ok := builder.Exprs.Block(firstExpr(t, builder, file))
	if !ok {
		t.Fatal("expected block expression")
	}
	if len(blk.Exprs) != 2 {
		t.Errorf("expected 2 expressions, got %d", len(blk.Exprs))
	}
}

func TestFunctionArrowBody(t *testing.T) {
	builder, file := parseOK(t, "function double(x: Number): Number => x * 2;")
	fn, ok := builder.Items.Function(file.Items[0])
	if !ok {
		t.Fatal("expected function item")
	}
	if builder.Lookup(fn.Name) != "double" {
		t.Errorf("expected name double, got %q", builder.Lookup(fn.Name))
	}
	if !fn.IsArrow {
		t.Error("expected arrow body")
	}
	if len(fn.Params) != 1 || builder.Lookup(fn.Params[0].Type) != "Number" {
		t.Errorf("unexpected params: %v", fn.Params)
	}
	if builder.Lookup(fn.ReturnType) != "Number" {
		t.Errorf("expected Number return, got %q", builder.Lookup(fn.ReturnType))
	}
}

func TestFunctionBlockBody(t *testing.T) {
	builder, file := parseOK(t, "function f(a, b) { a + b; }")
	fn, ok := builder.Items.Function(file.Items[0])
	if !ok {
		t.Fatal("expected function item")
	}
	if fn.IsArrow {
		t.Error("expected block body")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Type != source.NoStringID {
		t.Error("expected no annotation on a")
	}
	if _, ok := builder.Exprs.Block(fn.Body); !ok {
		t.Error("expected block body expression")
	}
}

func TestTypeDeclaration(t *testing.T) {
	builder, file := parseOK(t, `
type Point(x: Number, y: Number) inherits Shape(x) {
    cx = x;
    cy = y;
    dist(): Number => self.cx;
    move(dx: Number) { self.cx := self.cx + dx; }
}`)
	ty, ok := builder.Items.Type(file.Items[0])
	if !ok {
		t.Fatal("expected type item")
	}
	if builder.Lookup(ty.Name) != "Point" {
		t.Errorf("expected name Point, got %q", builder.Lookup(ty.Name))
	}
	if len(ty.Params) != 2 {
		t.Errorf("expected 2 constructor params, got %d", len(ty.Params))
	}
	if builder.Lookup(ty.Parent) != "Shape" {
		t.Errorf("expected parent Shape, got %q", builder.Lookup(ty.Parent))
	}
	if len(ty.ParentArgs) != 1 {
		t.Errorf("expected 1 parent argument, got %d", len(ty.ParentArgs))
	}
	if len(ty.Attributes) != 2 {
		t.Errorf("expected 2 attributes, got %d", len(ty.Attributes))
	}
	if len(ty.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(ty.Methods))
	}
	if builder.Lookup(ty.Methods[0].Name) != "dist" || !ty.Methods[0].IsArrow {
		t.Error("unexpected first method")
	}
	if builder.Lookup(ty.Methods[1].Name) != "move" || ty.Methods[1].IsArrow {
		t.Error("unexpected second method")
	}
}

func TestTypeWithoutParent(t *testing.T) {
	builder, file := parseOK(t, "type Empty {}")
	ty, ok := builder.Items.Type(file.Items[0])
	if !ok {
		t.Fatal("expected type item")
	}
	if ty.Parent != source.NoStringID {
		t.Error("expected no parent")
	}
	if len(ty.Params) != 0 {
		t.Error("expected no constructor params")
	}
}

func TestImplicitParentForwarding(t *testing.T) {
	builder, file := parseOK(t, "type B inherits A {}")
	ty, ok := builder.Items.Type(file.Items[0])
	if !ok {
		t.Fatal("expected type item")
	}
	if builder.Lookup(ty.Parent) != "A" {
		t.Errorf("expected parent A, got %q", builder.Lookup(ty.Parent))
	}
	if len(ty.ParentArgs) != 0 {
		t.Error("expected no explicit parent arguments")
	}
}

func TestMultipleTopLevelItems(t *testing.T) {
	builder, file := parseOK(t, `
function f() => 1;
type A {}
print(f());`)
	if len(file.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(file.Items))
	}
	kinds := []ast.ItemKind{ast.ItemFunction, ast.ItemType, ast.ItemExprStmt}
	for i, k := range kinds {
		if builder.Items.Get(file.Items[i]).Kind != k {
			t.Errorf("item %d: expected %v, got %v", i, k, builder.Items.Get(file.Items[i]).Kind)
		}
	}
}

func TestMissingSemicolon(t *testing.T) {
	_, _, bag := parseSource(t, "print(1)")
	if firstCode(bag) != diag.SynExpectSemicolon {
		t.Errorf("expected SynExpectSemicolon, got %v (%v)", firstCode(bag), bag.Items())
	}
}

func TestMissingExpression(t *testing.T) {
	_, _, bag := parseSource(t, "let x = in x;")
	if !bag.HasErrors() {
		t.Fatal("expected errors")
	}
}

func TestUnclosedParen(t *testing.T) {
	_, _, bag := parseSource(t, "(1 + 2;")
	if firstCode(bag) != diag.SynUnclosedParen {
		t.Errorf("expected SynUnclosedParen, got %v (%v)", firstCode(bag), bag.Items())
	}
}

func TestUnexpectedTopLevel(t *testing.T) {
	_, _, bag := parseSource(t, "} print(1);")
	if firstCode(bag) != diag.SynUnexpectedTopLevel {
		t.Errorf("expected SynUnexpectedTopLevel, got %v (%v)", firstCode(bag), bag.Items())
	}
}

func TestRecoveryContinuesAfterError(t *testing.T) {
	builder, file, bag := parseSource(t, "let = 1 in x; print(2);")
	if !bag.HasErrors() {
		t.Fatal("expected errors")
	}
	// The parser should still produce the trailing statement.
	var prints int
	for _, item := range file.Items {
		if stmt, ok := builder.Items.ExprStmt(item); ok {
			if _, ok := builder.Exprs.Print(stmt.Expr); ok {
				prints++
			}
		}
	}
	if prints == 0 {
		t.Error("expected recovery to reach the print statement")
	}
}

func TestErrorLimitStopsReporting(t *testing.T) {
	// Each ')' is one top-level error; the ';' after it ends recovery, so
	// without a limit this source yields four parser errors.
	src := ") ; ) ; ) ; ) ;"
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hulk", []byte(src))
	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	ParseFile(fs, lx, ast.NewBuilder(ast.Hints{}, nil), Options{Reporter: rep, MaxErrors: 2})
	if !bag.HasErrors() {
		t.Fatal("expected errors")
	}
	if got := len(bag.Items()); got != 2 {
		t.Errorf("expected reporting to stop after 2 errors, got %d: %v", got, bag.Items())
	}
}
