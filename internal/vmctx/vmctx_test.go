package vmctx

import (
	"strings"
	"testing"

	"ember/internal/value"
)

func TestBootstrapClassesWiring(t *testing.T) {
	ctx := NewContext()
	if ctx.ClassClass != nil {
		t.Fatalf("classes should be nil before BootstrapClasses")
	}
	ctx.BootstrapClasses()

	if ctx.ClassClass.Header().Class != ctx.ClassClass {
		t.Fatalf("ClassClass should be its own metaclass")
	}
	for _, c := range []*value.Class{
		ctx.ObjectClass, ctx.StringClass, ctx.ListClass, ctx.MapClass,
		ctx.RangeClass, ctx.ModuleClass, ctx.FnClass, ctx.ClosureClass, ctx.ThreadClass,
	} {
		if c.Header().Class != ctx.ClassClass {
			t.Fatalf("built-in class %v should be metaclassed by ClassClass", c.Name)
		}
		if c.Name == nil {
			t.Fatalf("built-in class should have a backfilled name")
		}
	}
	if ctx.ObjectClass.Super != nil {
		t.Fatalf("ObjectClass should have no superclass")
	}
	if ctx.StringClass.Super != ctx.ObjectClass {
		t.Fatalf("StringClass should inherit from ObjectClass")
	}
	if ctx.StringClass.Name.String() != "String" {
		t.Fatalf("StringClass.Name = %q, want String", ctx.StringClass.Name.String())
	}

	// Idempotent.
	prev := ctx.ClassClass
	ctx.BootstrapClasses()
	if ctx.ClassClass != prev {
		t.Fatalf("second BootstrapClasses call should be a no-op")
	}
}

func TestAllocationAccounting(t *testing.T) {
	ctx := NewContext()
	ctx.BootstrapClasses()

	s := value.NewString(ctx, ctx.StringClass, []byte("hello"))
	if s.Header().Next == nil {
		t.Fatalf("allocated object should link into the all-objects list")
	}
	if ctx.AllObjects() != s.Header() {
		t.Fatalf("most recent allocation should be at the head of the all-objects list")
	}
	stats := ctx.Stats()
	if !strings.Contains(stats, "objects") {
		t.Fatalf("Stats() = %q, want a human-readable object count", stats)
	}
}

func TestParserStack(t *testing.T) {
	ctx := NewContext()
	if ctx.CurParser() != nil {
		t.Fatalf("no parser should be active initially")
	}
	ctx.PushParser("outer")
	ctx.PushParser("inner")
	if ctx.CurParser() != "inner" {
		t.Fatalf("CurParser() = %v, want inner", ctx.CurParser())
	}
	ctx.PopParser()
	if ctx.CurParser() != "outer" {
		t.Fatalf("CurParser() = %v, want outer", ctx.CurParser())
	}
	ctx.PopParser()
	if ctx.CurParser() != nil {
		t.Fatalf("CurParser() should be nil once the stack empties")
	}
}

func TestNewInstanceClassDefaultsSuperToObject(t *testing.T) {
	ctx := NewContext()
	ctx.BootstrapClasses()
	name := value.NewString(ctx, ctx.StringClass, []byte("Point"))
	cls := ctx.NewInstanceClass(name, nil, 2)
	if cls.Super != ctx.ObjectClass {
		t.Fatalf("class with nil super should default to ObjectClass")
	}
	if cls.FieldNum != 2 {
		t.Fatalf("FieldNum = %d, want 2", cls.FieldNum)
	}
}
