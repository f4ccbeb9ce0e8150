package lexer

import (
	"testing"

	"ember/internal/value"
	"ember/internal/vmctx"
)

func newTestLexer(t *testing.T, src string) (*Lexer, *vmctx.Context) {
	t.Helper()
	ctx := vmctx.NewContext()
	ctx.BootstrapClasses()
	return New(ctx, ctx.StringClass, "test.ember", []byte(src)), ctx
}

func kinds(t *testing.T, lx *Lexer, n int) []Kind {
	t.Helper()
	out := make([]Kind, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, lx.Advance().Kind)
	}
	return out
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	lx, _ := newTestLexer(t, "var fun notakeyword this")
	got := kinds(t, lx, 4)
	want := []Kind{Var, Fun, Identifier, This}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d kind = %v, want %v", i, got[i], k)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	lx, _ := newTestLexer(t, "3 3.14 3e-2 0xFF")
	for _, want := range []float64{3, 3.14, 0.03, 255} {
		tok := lx.Advance()
		if tok.Kind != Number {
			t.Fatalf("expected Number, got %v", tok.Kind)
		}
		if tok.Value.Num != want {
			t.Fatalf("value = %v, want %v", tok.Value.Num, want)
		}
	}
}

func TestOperators(t *testing.T) {
	lx, _ := newTestLexer(t, "== != <= >= && || .. << >>")
	got := kinds(t, lx, 9)
	want := []Kind{Equal, NotEqual, LessEqual, GreaterEqual, AndAnd, OrOr, DotDot, Shl, Shr}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d = %v, want %v", i, got[i], k)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	lx, _ := newTestLexer(t, `"a\nb\tcA\x42"`)
	tok := lx.Advance()
	if tok.Kind != String {
		t.Fatalf("kind = %v, want String", tok.Kind)
	}
	s := tok.Value.Obj.(*value.String)
	if s.String() != "a\nb\tcAB" {
		t.Fatalf("decoded = %q, want %q", s.String(), "a\nb\tcAB")
	}
}

// TestInterpolationReentrancy is spec §8 testable property 8: `"a${b}c${d}e"`
// yields Interpolation("a"), Id(b), Interpolation("c"), Id(d), String("e").
func TestInterpolationReentrancy(t *testing.T) {
	lx, _ := newTestLexer(t, `"a${b}c${d}e"`)

	tok := lx.Advance()
	if tok.Kind != Interpolation || tok.Value.Obj.(*value.String).String() != "a" {
		t.Fatalf("token 1 = %+v, want Interpolation(a)", tok)
	}
	tok = lx.Advance()
	if tok.Kind != Identifier || tok.Text != "b" {
		t.Fatalf("token 2 = %+v, want Identifier(b)", tok)
	}
	tok = lx.Advance()
	if tok.Kind != Interpolation || tok.Value.Obj.(*value.String).String() != "c" {
		t.Fatalf("token 3 = %+v, want Interpolation(c)", tok)
	}
	tok = lx.Advance()
	if tok.Kind != Identifier || tok.Text != "d" {
		t.Fatalf("token 4 = %+v, want Identifier(d)", tok)
	}
	tok = lx.Advance()
	if tok.Kind != String || tok.Value.Obj.(*value.String).String() != "e" {
		t.Fatalf("token 5 = %+v, want String(e)", tok)
	}
	if lx.Advance().Kind != EOF {
		t.Fatalf("expected EOF after the closing quote")
	}
}

// TestNestedInterpolationBraceBalance ensures a '{' inside an interpolated expression
// (e.g. a map literal) doesn't prematurely close the interpolation.
func TestNestedInterpolationBraceBalance(t *testing.T) {
	lx, _ := newTestLexer(t, `"x=${ {1:2}[1] }y"`)
	var gotKinds []Kind
	for {
		tok := lx.Advance()
		gotKinds = append(gotKinds, tok.Kind)
		if tok.Kind == EOF {
			break
		}
	}
	// Interpolation("x="), {, Number, :, Number, }, [, Number, ], String("y"), EOF
	want := []Kind{Interpolation, LBrace, Number, Colon, Number, RBrace, LBracket, Number, RBracket, String, EOF}
	if len(gotKinds) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(gotKinds), gotKinds, len(want), want)
	}
	for i := range want {
		if gotKinds[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (full: %v)", i, gotKinds[i], want[i], gotKinds)
		}
	}
}

func TestLineTracking(t *testing.T) {
	lx, _ := newTestLexer(t, "var x\nvar y\n\nvar z")
	lx.Advance() // var (line 1)
	tokX := lx.Advance()
	if tokX.LineNo != 1 {
		t.Fatalf("x line = %d, want 1", tokX.LineNo)
	}
	lx.Advance() // var (line 2)
	tokY := lx.Advance()
	if tokY.LineNo != 2 {
		t.Fatalf("y line = %d, want 2", tokY.LineNo)
	}
	lx.Advance() // var (line 4)
	tokZ := lx.Advance()
	if tokZ.LineNo != 4 {
		t.Fatalf("z line = %d, want 4", tokZ.LineNo)
	}
}

func TestUnterminatedStringPanics(t *testing.T) {
	lx, _ := newTestLexer(t, `"abc`)
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic for an unterminated string")
		}
	}()
	lx.Advance()
}
