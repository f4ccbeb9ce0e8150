package bytecode

import "testing"

func TestCallOpArity(t *testing.T) {
	for n := 0; n <= MaxCallArgNum; n++ {
		op := CallOp(n)
		if got := CallArgNum(op); got != n {
			t.Fatalf("CallArgNum(CallOp(%d)) = %d", n, got)
		}
		if !IsCall(op) {
			t.Fatalf("IsCall(CallOp(%d)) = false", n)
		}
	}
}

func TestSuperOpArity(t *testing.T) {
	for n := 0; n <= MaxCallArgNum; n++ {
		op := SuperOp(n)
		if got := SuperArgNum(op); got != n {
			t.Fatalf("SuperArgNum(SuperOp(%d)) = %d", n, got)
		}
	}
}

func TestCallArgNumRejectsNonCallOpcodes(t *testing.T) {
	if CallArgNum(LoadConstant) != -1 {
		t.Fatalf("LoadConstant should not report a call arity")
	}
	if SuperArgNum(Return) != -1 {
		t.Fatalf("Return should not report a super arity")
	}
}

func TestCallStackEffect(t *testing.T) {
	// CALL2: pops receiver + 2 args, pushes 1 result -> net -2.
	if eff := StackEffect(CallOp(2)); eff != -2 {
		t.Fatalf("StackEffect(CALL2) = %d, want -2", eff)
	}
	if eff := StackEffect(CallOp(0)); eff != 0 {
		t.Fatalf("StackEffect(CALL0) = %d, want 0", eff)
	}
}

func TestUint16RoundTrip(t *testing.T) {
	code := make([]byte, 4)
	b := PutUint16(0xBEEF)
	code[0], code[1] = b[0], b[1]
	if got := Uint16At(code, 0); got != 0xBEEF {
		t.Fatalf("Uint16At = %#x, want 0xBEEF", got)
	}
	if code[0] != 0xBE {
		t.Fatalf("high byte should be at the lower address, got %#x", code[0])
	}

	PatchUint16At(code, 2, 0x1234)
	if got := Uint16At(code, 2); got != 0x1234 {
		t.Fatalf("patched Uint16At = %#x, want 0x1234", got)
	}
}

func TestWriterPatchJump(t *testing.T) {
	w := NewWriter()
	w.WriteOp(JumpIfFalse, 1)
	at := w.ReserveUint16(1)
	w.WriteOp(PushTrue, 2)
	w.WriteOp(Return, 2)
	w.PatchJump(at)

	disp := Uint16At(w.Code, at)
	wantDisp := len(w.Code) - (at + 2)
	if int(disp) != wantDisp {
		t.Fatalf("patched displacement = %d, want %d", disp, wantDisp)
	}
	if len(w.Line) != len(w.Code) {
		t.Fatalf("line table length %d should track code length %d", len(w.Line), len(w.Code))
	}
}

func TestWriterBackwardDisplacement(t *testing.T) {
	w := NewWriter()
	loopStart := w.Pos()
	w.WriteOp(PushTrue, 1)
	w.WriteOp(PushFalse, 1)
	w.WriteOp(Loop, 2)
	disp := w.BackwardDisplacement(loopStart)
	if disp == 0 {
		t.Fatalf("backward displacement should be nonzero once code has been emitted")
	}
}
