package sema

import (
	"testing"

	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/lexer"
	"hulk/internal/parser"
	"hulk/internal/source"
	"hulk/internal/types"
)

func analyze(t *testing.T, src string) (*Result, *ast.Builder, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hulk", []byte(src))
	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}

	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	parsed := parser.ParseFile(fs, lx, builder, parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors in %q: %v", src, bag.Items())
	}

	res := Check(builder, parsed.File, Options{Reporter: rep})
	return res, builder, bag
}

func firstCode(bag *diag.Bag) diag.Code {
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			return d.Code
		}
	}
	return 0
}

func TestCheckAcceptsValidPrograms(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"arithmetic", `print(1 + 2 * 3 ^ 2);`},
		{"concat stringifies", `print("n = " @ 42 @ " b = " @ true);`},
		{"let with annotation", `let x: Number = 5 in print(x);`},
		{"let shadowing", `let x = 1 in let x = "s" in print(x);`},
		{"if without else is object", `let o: Object = if (true) new A() in o; type A {}`},
		{"while body", `while (1 < 2) print(1);`},
		{"for binds number", `for (i in range(0, 10)) print(i + 1);`},
		{"function inferred return", `function double(x: Number) => x * 2; print(double(4));`},
		{"ctor params in attributes", `type Point(x: Number, y: Number) { cx = x; cy = y; }`},
		{"ctor params in methods", `type Point(x: Number) { move(dx: Number): Number => x + dx; }`},
		{"self in method", `type Box(v: Number) { v = v; get(): Number => self.v; }`},
		{"paramless child inherits ctor", `
			type A(x: Number) { v = x; }
			type B inherits A {}
			let b = new B(3) in print(b.v);`},
		{"parent args", `
			type A(x: Number) { v = x; }
			type B(y: Number) inherits A(y + 1) {}
			print(new B(1).v);`},
		{"base dispatch", `
			type A { f(): Number => 1; }
			type B inherits A { f(): Number => base() + 1; }
			print(new B().f());`},
		{"lca of siblings", `
			type A {}
			type B inherits A {}
			type C inherits A {}
			let x: A = if (true) new B() else new C() in x;`},
		{"subtype assignment", `
			type A {}
			type B inherits A {}
			let a: A = new B() in a := new A();`},
		{"member assignment", `
			type Counter(n: Number) { n = n; bump(): Number => self.n := self.n + 1; }
			print(new Counter(0).bump());`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, _, bag := analyze(t, tc.src)
			if bag.HasErrors() {
				t.Fatalf("unexpected errors: %v", bag.Items())
			}
			if !res.Ok() {
				t.Fatalf("expected Ok result")
			}
		})
	}
}

func TestCheckReportsSemanticErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"undefined identifier", `print(x);`, diag.SemaUnknownName},
		{"undefined function", `print(f(1));`, diag.SemaUnknownName},
		{"unknown type in new", `print(new Ghost());`, diag.SemaUnknownName},
		{"unknown parent", `type A inherits Ghost {}`, diag.SemaUnknownName},
		{"unknown annotation", `let x: Ghost = 1 in x;`, diag.SemaUnknownName},
		{"unknown attribute", `type A {} print(new A().v);`, diag.SemaUnknownName},
		{"unknown method", `type A {} print(new A().f());`, diag.SemaUnknownName},

		{"arith on string", `print("a" + 1);`, diag.SemaTypeMismatch},
		{"logic on number", `print(1 & true);`, diag.SemaTypeMismatch},
		{"compare strings", `print("a" < "b");`, diag.SemaTypeMismatch},
		{"equality across types", `print(1 == "1");`, diag.SemaTypeMismatch},
		{"not on number", `print(!1);`, diag.SemaTypeMismatch},
		{"neg on bool", `print(-true);`, diag.SemaTypeMismatch},
		{"concat user type", `type A {} print("x" @ new A());`, diag.SemaTypeMismatch},
		{"if condition", `if (1) 2 else 3;`, diag.SemaTypeMismatch},
		{"while condition", `while (1) 2;`, diag.SemaTypeMismatch},
		{"range bound", `for (i in range(true, 2)) i;`, diag.SemaTypeMismatch},
		{"annotation mismatch", `let x: Number = "s" in x;`, diag.SemaTypeMismatch},
		{"if without else is object", `let x: Number = if (true) 1 in x;`, diag.SemaTypeMismatch},
		{"inherit builtin", `type A inherits Number {}`, diag.SemaTypeMismatch},
		{"member on number", `print((1).v);`, diag.SemaTypeMismatch},
		{"method on string", `print("s".f());`, diag.SemaTypeMismatch},
		{"new builtin", `print(new Number());`, diag.SemaTypeMismatch},
		{"return annotation", `function f(): Number => "s"; f();`, diag.SemaTypeMismatch},
		{"argument type", `function f(x: Number) => x; f("s");`, diag.SemaTypeMismatch},
		{"assign supertype", `
			type A {}
			type B inherits A {}
			let b = new B() in b := new A();`, diag.SemaTypeMismatch},

		{"duplicate type", `type A {} type A {}`, diag.SemaRedeclaration},
		{"duplicate builtin name", `type Number {}`, diag.SemaRedeclaration},
		{"duplicate function", `function f() => 1; function f() => 2;`, diag.SemaRedeclaration},
		{"duplicate attribute", `type A { v = 1; v = 2; }`, diag.SemaRedeclaration},
		{"duplicate method", `type A { f() => 1; f() => 2; }`, diag.SemaRedeclaration},
		{"duplicate parameter", `function f(x: Number, x: Number) => x; f(1, 2);`, diag.SemaRedeclaration},

		{"call arity", `function f(x: Number) => x; f(1, 2);`, diag.SemaArityMismatch},
		{"ctor arity", `type A(x: Number) {} new A();`, diag.SemaArityMismatch},
		{"method arity", `type A { f(x: Number) => x; } new A().f();`, diag.SemaArityMismatch},
		{"parent args arity", `
			type A(x: Number) {}
			type B(y: Number) inherits A(y, y) {}`, diag.SemaArityMismatch},

		{"cycle", `type A inherits B {} type B inherits A {}`, diag.SemaInheritanceCycle},
		{"self cycle", `type A inherits A {}`, diag.SemaInheritanceCycle},

		{"attribute conflict", `
			type A { v = 1; }
			type B inherits A { v = 2; }`, diag.SemaAttributeConflict},

		{"override arity", `
			type A { f(x: Number) => x; }
			type B inherits A { f() => 1; }`, diag.SemaInvalidOverride},
		{"override param type", `
			type A { f(x: Number) => x; }
			type B inherits A { f(x: String) => 1; }`, diag.SemaInvalidOverride},
		{"override return", `
			type A { f(): Number => 1; }
			type B inherits A { f(): String => "s"; }`, diag.SemaInvalidOverride},

		{"assign to literal", `5 := 1;`, diag.SemaInvalidLValue},
		{"assign to call", `function f() => 1; f() := 2;`, diag.SemaInvalidLValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, _, bag := analyze(t, tc.src)
			if res.Ok() {
				t.Fatalf("expected errors, got none")
			}
			if got := firstCode(bag); got != tc.code {
				t.Fatalf("expected %v, got %v (all: %v)", tc.code, got, bag.Items())
			}
		})
	}
}

func TestFunctionReturnInference(t *testing.T) {
	res, _, bag := analyze(t, `function id(s: String) => s; id("x");`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	f := res.Functions["id"]
	if f == nil {
		t.Fatalf("function not collected")
	}
	if f.Result != res.Env.Builtins().String {
		t.Fatalf("expected String result, got %s", res.Env.Name(f.Result))
	}
}

func TestAttributeTypeInference(t *testing.T) {
	res, _, bag := analyze(t, `type Point(x: Number) { cx = x; tag = "p"; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	id, ok := res.Env.LookupName("Point")
	if !ok {
		t.Fatalf("Point not declared")
	}
	attrs := res.Env.Get(id).Attributes
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Type != res.Env.Builtins().Number {
		t.Fatalf("cx: expected Number, got %s", res.Env.Name(attrs[0].Type))
	}
	if attrs[1].Type != res.Env.Builtins().String {
		t.Fatalf("tag: expected String, got %s", res.Env.Name(attrs[1].Type))
	}
}

func TestInheritedCtorParams(t *testing.T) {
	res, _, bag := analyze(t, `
		type A(x: Number, y: String) {}
		type B inherits A {}
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	id, _ := res.Env.LookupName("B")
	ctor := res.Env.CtorOf(id)
	if len(ctor) != 2 {
		t.Fatalf("expected inherited ctor params, got %d", len(ctor))
	}
	if ctor[0].Name != "x" || ctor[0].Type != res.Env.Builtins().Number {
		t.Fatalf("unexpected first param %+v", ctor[0])
	}
}

func TestEveryExpressionGetsType(t *testing.T) {
	res, builder, bag := analyze(t, `
		type A(n: Number) { n = n; get(): Number => self.n; }
		function twice(x: Number): Number => x * 2;
		let a = new A(21) in print(twice(a.get()));
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	for i := uint32(1); i <= builder.Exprs.Arena.Len(); i++ {
		id := ast.ExprID(i)
		if t2, ok := res.ExprTypes[id]; !ok || t2 == types.NoTypeID {
			t.Fatalf("expression %d has no resolved type", i)
		}
	}
}

func TestMultipleErrorsAccumulate(t *testing.T) {
	_, _, bag := analyze(t, `print(x); print(y); print(1 + "s");`)
	errs := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			errs++
		}
	}
	if errs < 3 {
		t.Fatalf("expected at least 3 errors, got %d: %v", errs, bag.Items())
	}
}
