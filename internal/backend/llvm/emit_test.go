package llvm

import (
	"strings"
	"testing"

	"hulk/internal/ast"
	"hulk/internal/diag"
	"hulk/internal/lexer"
	"hulk/internal/parser"
	"hulk/internal/sema"
	"hulk/internal/source"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hulk", []byte(src))
	bag := diag.NewBag(64)
	rep := &diag.BagReporter{Bag: bag}

	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	parsed := parser.ParseFile(fs, lx, builder, parser.Options{Reporter: rep})
	res := sema.Check(builder, parsed.File, sema.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors in %q: %v", src, bag.Items())
	}
	ir, err := EmitModule(builder, parsed.File, res)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	return ir
}

func wantAll(t *testing.T, ir string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if !strings.Contains(ir, s) {
			t.Fatalf("missing %q in module:\n%s", s, ir)
		}
	}
}

func TestEmitModulePreamble(t *testing.T) {
	ir := emit(t, `print(1);`)
	wantAll(t, ir,
		`target triple = "x86_64-linux-gnu"`,
		"declare i32 @printf(i8*, ...)",
		"declare i8* @malloc(i64)",
		"define i32 @main() {",
		"ret i32 0",
	)
}

func TestEmitPrintByType(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"number", `print(42);`, "call void @hulk_print_num(double"},
		{"boolean", `print(true);`, "call void @hulk_print_bool(i1 true)"},
		{"string", `print("hi");`, "call void @hulk_print_str(i8*"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wantAll(t, emit(t, tc.src), tc.want)
		})
	}
}

func TestEmitNumberLiteralsAreExact(t *testing.T) {
	ir := emit(t, `print(0.5);`)
	wantAll(t, ir, "0x3FE0000000000000")
}

func TestEmitArithmetic(t *testing.T) {
	ir := emit(t, `print(1 + 2 * 3 - 4 / 5 % 6 ^ 2);`)
	wantAll(t, ir, "fadd double", "fmul double", "fsub double", "fdiv double",
		"frem double", "call double @llvm.pow.f64(double")
}

func TestEmitStringConstant(t *testing.T) {
	ir := emit(t, `print("hello");`)
	wantAll(t, ir,
		`c"hello\00"`,
		"private unnamed_addr constant [6 x i8]",
	)
}

func TestEmitStringEscapes(t *testing.T) {
	ir := emit(t, `print("a\"b\n");`)
	wantAll(t, ir, `c"a\22b\0A\00"`)
}

func TestEmitConcatStringifies(t *testing.T) {
	ir := emit(t, `print("n = " @ 42 @ " ok " @ true);`)
	wantAll(t, ir,
		"call i8* @hulk_num_to_str(double",
		"call i8* @hulk_bool_to_str(i1",
		"call i8* @hulk_concat(i8*",
	)
}

func TestEmitShortCircuit(t *testing.T) {
	ir := emit(t, `print(true & false | true);`)
	wantAll(t, ir, "phi i1")
	if !strings.Contains(ir, "br i1") {
		t.Fatalf("expected conditional branches for logic operators")
	}
}

func TestEmitIfProducesPhi(t *testing.T) {
	ir := emit(t, `print(if (1 < 2) 10 else 20);`)
	wantAll(t, ir, "fcmp olt double", "phi double")
}

func TestEmitIfWithoutElseYieldsNull(t *testing.T) {
	ir := emit(t, `if (true) 1;`)
	wantAll(t, ir, "phi i8*", "null")
}

func TestEmitWhileLoop(t *testing.T) {
	ir := emit(t, `let x = 0 in while (x < 10) x := x + 1;`)
	wantAll(t, ir, "br label", "br i1", "fcmp olt double", "store double")
}

func TestEmitForLoop(t *testing.T) {
	ir := emit(t, `for (i in range(0, 5)) print(i);`)
	wantAll(t, ir,
		"alloca double",
		"fcmp olt double",
		"fadd double",
		"call void @hulk_print_num(double",
	)
}

func TestEmitLetAllocasAndAssign(t *testing.T) {
	ir := emit(t, `let x: Number = 1 in x := x + 1;`)
	wantAll(t, ir, "alloca double", "store double")
}

func TestEmitFunctionDefinition(t *testing.T) {
	ir := emit(t, `function double(x: Number): Number => x * 2; print(double(4));`)
	wantAll(t, ir,
		"define double @double(double %x) {",
		"call double @double(double",
		"ret double",
	)
}

func TestEmitTypeLayoutAndVtable(t *testing.T) {
	ir := emit(t, `
		type Point(x: Number, y: Number) {
			cx = x;
			cy = y;
			norm(): Number => self.cx * self.cx + self.cy * self.cy;
		}
		print(new Point(3, 4).norm());
	`)
	// cx and cy come first, then the captured constructor parameters.
	wantAll(t, ir,
		"%Point = type { i8*, double, double, double, double }",
		"@Point_vtable = global [1 x i8*] [i8* bitcast (double (%Point*)* @Point_norm to i8*)]",
		"define %Point* @Point_new(double %x, double %y) {",
		"define double @Point_norm(%Point* %self) {",
		"call i8* @malloc(i64",
	)
}

func TestEmitCapturedCtorParamsBecomeFields(t *testing.T) {
	ir := emit(t, `
		type Box(v: Number) {
			double(): Number => v * 2;
		}
		print(new Box(21).double());
	`)
	// v has no attribute, so the constructor stores it as a trailing field
	// and the method body reads it back through self.
	wantAll(t, ir,
		"%Box = type { i8*, double }",
		"getelementptr %Box, %Box* %self, i32 0, i32 1",
	)
}

func TestEmitInheritanceSharesPrefix(t *testing.T) {
	ir := emit(t, `
		type A(x: Number) { v = x; }
		type B(y: Number) inherits A(y + 1) { w = y; }
		print(new B(1).v);
	`)
	wantAll(t, ir,
		"%A = type { i8*, double, double }",
		"%B = type { i8*, double, double, double",
		"call %A* @A_new(double",
	)
}

func TestEmitOverrideReplacesSlot(t *testing.T) {
	ir := emit(t, `
		type A { f(): Number => 1; g(): Number => 2; }
		type B inherits A { f(): Number => 10; }
		print(new B().f());
	`)
	wantAll(t, ir,
		"@A_vtable = global [2 x i8*] [i8* bitcast (double (%A*)* @A_f to i8*), i8* bitcast (double (%A*)* @A_g to i8*)]",
		"@B_vtable = global [2 x i8*] [i8* bitcast (double (%B*)* @B_f to i8*), i8* bitcast (double (%A*)* @A_g to i8*)]",
	)
}

func TestEmitDynamicDispatch(t *testing.T) {
	ir := emit(t, `
		type A { f(): Number => 1; }
		type B inherits A { f(): Number => 2; }
		let a: A = new B() in print(a.f());
	`)
	wantAll(t, ir,
		"load i8*, i8**",
		"bitcast i8*",
		"getelementptr i8*, i8**",
	)
}

func TestEmitBaseCallIsStatic(t *testing.T) {
	ir := emit(t, `
		type A { f(): Number => 1; }
		type B inherits A { f(): Number => base() + 1; }
		print(new B().f());
	`)
	wantAll(t, ir, "call double @A_f(%A*")
}

func TestEmitStringEquality(t *testing.T) {
	ir := emit(t, `print("a" == "b");`)
	wantAll(t, ir, "call i1 @hulk_str_eq(i8*")
}

func TestEmitMixedBranchesErase(t *testing.T) {
	ir := emit(t, `let o: Object = if (true) 1 else "s" in o;`)
	wantAll(t, ir, "bitcast double", "inttoptr i64", "phi i8*")
}

func TestEmitEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			"fibonacci",
			`function fib(n: Number): Number =>
				if (n < 2) n else fib(n - 1) + fib(n - 2);
			print(fib(10));`,
			[]string{"define double @fib(double %n)", "call double @fib(double"},
		},
		{
			"counter object",
			`type Counter(start: Number) {
				n = start;
				bump(): Number => self.n := self.n + 1;
			}
			let c = new Counter(0) in {
				c.bump();
				print(c.bump());
			};`,
			[]string{"define %Counter* @Counter_new(double %start)", "store double"},
		},
		{
			"polymorphic shapes",
			`type Shape { area(): Number => 0; }
			type Square(s: Number) inherits Shape { side = s; area(): Number => self.side * self.side; }
			let sh: Shape = new Square(3) in print(sh.area());`,
			[]string{"@Square_vtable", "@Shape_vtable"},
		},
		{
			"string building",
			`function greet(name: String): String => "Hello, " @ name @ "!";
			print(greet("world"));`,
			[]string{"call i8* @hulk_concat(i8*", `c"Hello, \00"`},
		},
		{
			"loops and accumulation",
			`let sum = 0 in {
				for (i in range(1, 11)) sum := sum + i;
				print(sum);
			};`,
			[]string{"fadd double", "fcmp olt double"},
		},
		{
			"deep hierarchy",
			`type A { who(): String => "A"; }
			type B inherits A { who(): String => base() @ "B"; }
			type C inherits B { who(): String => base() @ "C"; }
			print(new C().who());`,
			[]string{"call i8* @B_who(%B*", "call i8* @A_who(%A*"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wantAll(t, emit(t, tc.src), tc.want...)
		})
	}
}
