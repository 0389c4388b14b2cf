package lexer_test

import (
	"testing"

	"hulk/internal/diag"
	"hulk/internal/lexer"
	"hulk/internal/source"
	"hulk/internal/token"
)

func makeLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.hulk", []byte(input))
	bag := diag.NewBag(32)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return lx, bag
}

func collect(lx *lexer.Lexer) []token.Token {
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func expectKinds(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, bag := makeLexer(input)
	toks := collect(lx)
	toks = toks[:len(toks)-1] // drop EOF

	if len(toks) != len(expected) {
		t.Fatalf("input %q: expected %d tokens, got %d\ntokens: %v\ndiags: %v",
			input, len(expected), len(toks), toks, bag.Items())
	}
	for i, tok := range toks {
		if tok.Kind != expected[i] {
			t.Errorf("input %q token %d: expected %v, got %v (text %q)",
				input, i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func expectSingle(t *testing.T, input string, kind token.Kind, text string) {
	t.Helper()
	lx, _ := makeLexer(input)
	tok := lx.Next()
	if tok.Kind != kind {
		t.Errorf("input %q: expected kind %v, got %v", input, kind, tok.Kind)
	}
	if tok.Text != text {
		t.Errorf("input %q: expected text %q, got %q", input, text, tok.Text)
	}
}

func TestKeywords(t *testing.T) {
	cases := []struct {
		input string
		kind  token.Kind
	}{
		{"function", token.KwFunction},
		{"type", token.KwType},
		{"inherits", token.KwInherits},
		{"new", token.KwNew},
		{"let", token.KwLet},
		{"in", token.KwIn},
		{"if", token.KwIf},
		{"elif", token.KwElif},
		{"else", token.KwElse},
		{"while", token.KwWhile},
		{"for", token.KwFor},
		{"print", token.KwPrint},
		{"true", token.KwTrue},
		{"false", token.KwFalse},
	}
	for _, tc := range cases {
		expectSingle(t, tc.input, tc.kind, tc.input)
	}
}

func TestIdentifiers(t *testing.T) {
	expectSingle(t, "foo", token.Ident, "foo")
	expectSingle(t, "self", token.Ident, "self")
	expectSingle(t, "base", token.Ident, "base")
	expectSingle(t, "tmp_1", token.Ident, "tmp_1")
	expectSingle(t, "Functions", token.Ident, "Functions")
}

func TestOperators(t *testing.T) {
	cases := []struct {
		input string
		kind  token.Kind
	}{
		{"+", token.Plus},
		{"-", token.Minus},
		{"*", token.Star},
		{"/", token.Slash},
		{"%", token.Percent},
		{"^", token.Caret},
		{"@", token.At},
		{"=", token.Assign},
		{":=", token.ColonAssign},
		{"==", token.EqEq},
		{"!=", token.BangEq},
		{"!", token.Bang},
		{"<", token.Lt},
		{"<=", token.LtEq},
		{">", token.Gt},
		{">=", token.GtEq},
		{"&", token.Amp},
		{"|", token.Pipe},
		{":", token.Colon},
		{";", token.Semicolon},
		{",", token.Comma},
		{".", token.Dot},
		{"=>", token.FatArrow},
		{"(", token.LParen},
		{")", token.RParen},
		{"{", token.LBrace},
		{"}", token.RBrace},
	}
	for _, tc := range cases {
		expectSingle(t, tc.input, tc.kind, tc.input)
	}
}

func TestCompoundOperatorsSplit(t *testing.T) {
	expectKinds(t, "= =", []token.Kind{token.Assign, token.Assign})
	expectKinds(t, "==", []token.Kind{token.EqEq})
	expectKinds(t, ": =", []token.Kind{token.Colon, token.Assign})
	expectKinds(t, "x:=1", []token.Kind{token.Ident, token.ColonAssign, token.NumberLit})
	expectKinds(t, "=>=", []token.Kind{token.FatArrow, token.Assign})
	expectKinds(t, "<= >= != ==", []token.Kind{token.LtEq, token.GtEq, token.BangEq, token.EqEq})
}

func TestNumbers(t *testing.T) {
	expectSingle(t, "0", token.NumberLit, "0")
	expectSingle(t, "42", token.NumberLit, "42")
	expectSingle(t, "3.14", token.NumberLit, "3.14")
	expectSingle(t, "0.5", token.NumberLit, "0.5")

	// A trailing dot is member access, not part of the number.
	expectKinds(t, "1.foo", []token.Kind{token.NumberLit, token.Dot, token.Ident})
}

func TestMalformedNumber(t *testing.T) {
	lx, bag := makeLexer("1foo")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("expected invalid token, got %v", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Error("expected a diagnostic for malformed number")
	}
	if bag.Items()[0].Code != diag.LexBadNumber {
		t.Errorf("expected LexBadNumber, got %v", bag.Items()[0].Code)
	}
}

func TestStrings(t *testing.T) {
	expectSingle(t, `"hello"`, token.StringLit, `"hello"`)
	expectSingle(t, `""`, token.StringLit, `""`)
	expectSingle(t, `"a\"b"`, token.StringLit, `"a\"b"`)
	expectSingle(t, `"line\n"`, token.StringLit, `"line\n"`)
}

func TestUnquote(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
	}
	for _, tc := range cases {
		if got := lexer.Unquote(tc.raw); got != tc.want {
			t.Errorf("Unquote(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	lx, bag := makeLexer(`"no closing quote`)
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("expected invalid token, got %v", tok.Kind)
	}
	if bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Errorf("expected LexUnterminatedString, got %v", bag.Items()[0].Code)
	}
}

func TestBadEscape(t *testing.T) {
	lx, bag := makeLexer(`"bad \q escape"`)
	tok := lx.Next()
	if tok.Kind != token.StringLit {
		t.Errorf("expected string literal despite bad escape, got %v", tok.Kind)
	}
	if bag.Items()[0].Code != diag.LexBadEscape {
		t.Errorf("expected LexBadEscape, got %v", bag.Items()[0].Code)
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, bag := makeLexer("$")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("expected invalid token, got %v", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Error("expected a diagnostic for unknown character")
	}
}

func TestLineCommentsAreTrivia(t *testing.T) {
	expectKinds(t, "1 // comment\n2", []token.Kind{token.NumberLit, token.NumberLit})
}

func TestBlockCommentsAreTrivia(t *testing.T) {
	expectKinds(t, "1 /* inner\nlines */ 2", []token.Kind{token.NumberLit, token.NumberLit})
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, bag := makeLexer("1 /* never closed")
	collect(lx)
	if len(bag.Items()) == 0 || bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected LexUnterminatedBlockComment, got %v", bag.Items())
	}
}

func TestLeadingTriviaAttached(t *testing.T) {
	lx, _ := makeLexer("// doc\nfoo")
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected identifier, got %v", tok.Kind)
	}
	var sawComment bool
	for _, tr := range tok.Leading {
		if tr.Kind == token.TriviaLineComment {
			sawComment = true
			if tr.Text != "// doc" {
				t.Errorf("expected comment text %q, got %q", "// doc", tr.Text)
			}
		}
	}
	if !sawComment {
		t.Error("expected line comment in leading trivia")
	}
}

func TestDrainEndsWithEOF(t *testing.T) {
	lx, _ := makeLexer("let x = 1;")
	toks := lx.Drain()
	if len(toks) == 0 {
		t.Fatal("expected tokens")
	}
	if toks[len(toks)-1].Kind != token.EOF {
		t.Errorf("expected trailing EOF, got %v", toks[len(toks)-1].Kind)
	}
	kinds := []token.Kind{token.KwLet, token.Ident, token.Assign, token.NumberLit, token.Semicolon, token.EOF}
	if len(toks) != len(kinds) {
		t.Fatalf("expected %d tokens, got %d", len(kinds), len(toks))
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %v, got %v", i, k, toks[i].Kind)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeLexer("a b")
	first := lx.Peek()
	if first.Kind != token.Ident || first.Text != "a" {
		t.Fatalf("unexpected peek: %v %q", first.Kind, first.Text)
	}
	next := lx.Next()
	if next.Text != "a" {
		t.Errorf("peek consumed the token: got %q", next.Text)
	}
	if lx.Next().Text != "b" {
		t.Error("lost the second token")
	}
}

func TestRealisticProgram(t *testing.T) {
	src := `type Point(x: Number, y: Number) {
    cx = x;
    dist(): Number => self.cx ^ 2;
}
print(new Point(1, 2).dist());`
	lx, bag := makeLexer(src)
	toks := collect(lx)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatal("expected EOF last")
	}
	for _, tok := range toks {
		if tok.Kind == token.Invalid {
			t.Errorf("unexpected invalid token %q", tok.Text)
		}
	}
}
