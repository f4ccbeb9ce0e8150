package module

import (
	"strings"
	"testing"

	"ember/internal/value"
	"ember/internal/vmctx"
)

func newTestModule(t *testing.T, name string) (*vmctx.Context, *value.Module) {
	t.Helper()
	ctx := vmctx.NewContext()
	ctx.BootstrapClasses()
	nameVal := value.NewString(ctx, ctx.StringClass, []byte(name))
	mod := value.NewModule(ctx, ctx.ModuleClass, nameVal)
	return ctx, mod
}

func TestCompileSucceeds(t *testing.T) {
	ctx, mod := newTestModule(t, "main")
	fn, err := Compile(ctx, mod, "main.ember", []byte("var x = 1 + 2;"))
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if fn == nil {
		t.Fatal("Compile returned nil function on success")
	}
}

func TestCompileReportsUndeclaredModuleVar(t *testing.T) {
	ctx, mod := newTestModule(t, "main")
	_, err := Compile(ctx, mod, "main.ember", []byte("fun use(){ return never_defined; }"))
	if err == nil {
		t.Fatal("expected an undeclared-module-variable error")
	}
	if !strings.Contains(err.Error(), "never_defined") {
		t.Fatalf("error %q does not mention the undeclared variable", err.Error())
	}
}

func TestCompileRecoversParseError(t *testing.T) {
	ctx, mod := newTestModule(t, "main")
	_, err := Compile(ctx, mod, "main.ember", []byte("var = ;"))
	if err == nil {
		t.Fatal("expected a parse error for malformed source")
	}
}

func TestCompileAggregatesMultipleUndeclaredVars(t *testing.T) {
	ctx, mod := newTestModule(t, "main")
	_, err := Compile(ctx, mod, "main.ember", []byte(
		"fun a(){ return one_missing; } fun b(){ return two_missing; }",
	))
	if err == nil {
		t.Fatal("expected an undeclared-module-variable error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "one_missing") || !strings.Contains(msg, "two_missing") {
		t.Fatalf("error %q should mention both undeclared variables", msg)
	}
}
