// Package compiler implements the Pratt-style single-pass compiler (spec
// §4.4): CompileUnit scope management, closure/upvalue resolution, method
// signature encoding, and bytecode emission directly against
// internal/bytecode — no intervening AST (spec §1 non-goal: "a typed IR").
package compiler

import (
	"ember/internal/bytecode"
	"ember/internal/value"
	"ember/internal/vmctx"
)

// Capacity limits carried over from the original's compiler.h macros
// (spec §4.4.1/§4.4.5).
const (
	MaxLocalVarNum = 128
	MaxUpvalueNum  = 128
	MaxIDLen       = 128
	MaxFieldNum    = 128
	MaxArgNum      = bytecode.MaxCallArgNum
)

// LocalVar is one slot in a CompileUnit's local-variable array.
type LocalVar struct {
	Name       string
	ScopeDepth int
	IsUpvalue  bool
}

// UpvalueDesc is one entry in a CompileUnit's upvalue array (spec §4.4.2).
type UpvalueDesc struct {
	IsEnclosingLocal bool
	Index            int
}

// LoopRecord tracks one active loop for break/continue patching (spec
// §4.4.6).
type LoopRecord struct {
	CondStartIP int
	ScopeDepth  int
	ExitJumps   []int // operand offsets of JUMP_IF_FALSE/JUMP instructions to patch to the post-loop address
	Enclosing   *LoopRecord
}

// CompileUnit is the per-function compilation context (spec §4.4.1).
type CompileUnit struct {
	Ctx    *vmctx.Context
	Fn     *value.Function
	Writer *bytecode.Writer

	Locals   [MaxLocalVarNum]LocalVar
	LocalNum int

	Upvalues   [MaxUpvalueNum]UpvalueDesc
	UpvalueNum int

	// ScopeDepth: -1 = module scope, 0 = function body, 1+ = nested block.
	ScopeDepth int

	StackSlotNum        int // running operand-stack depth estimate
	MaxStackSlotUsedNum int

	Enclosing *CompileUnit
	ClassBK   *ClassBookKeep
	Loop      *LoopRecord
	IsMethod  bool

	// SuperclassConstIdx is the constant-table slot reserved to hold the
	// resolved superclass at class-binding time (spec §4.4.3's SUPERn
	// second operand), lazily reserved the first time `super` is used in
	// this method. -1 until reserved.
	SuperclassConstIdx int
}

// NewCompileUnit allocates a CompileUnit for a new Function owned by module,
// nested under enclosing (nil at module scope).
func NewCompileUnit(ctx *vmctx.Context, module *value.Module, enclosing *CompileUnit, isMethod bool) *CompileUnit {
	cu := &CompileUnit{
		Ctx:                ctx,
		Fn:                 value.NewFunction(ctx, ctx.FnClass, module),
		Writer:             bytecode.NewWriter(),
		Enclosing:          enclosing,
		IsMethod:           isMethod,
		SuperclassConstIdx: -1,
	}
	if enclosing == nil {
		cu.ScopeDepth = -1
	} else {
		cu.ScopeDepth = 0
	}
	// Slot 0 convention (spec §4.4.1): reserved in every function, bound to
	// `this` in a method, anonymous otherwise. Always scopeDepth -1 so it's
	// never shadowed or popped by ordinary scope exit. Only a method's slot
	// 0 is actually named "this" — an anonymous (unmatchable) name in a
	// plain function keeps resolveLocal("this") from stopping prematurely
	// at the wrong nesting level on its way to an enclosing method's real
	// receiver.
	slot0Name := ""
	if isMethod {
		slot0Name = "this"
	}
	cu.Locals[0] = LocalVar{Name: slot0Name, ScopeDepth: -1}
	cu.LocalNum = 1
	cu.StackSlotNum = 1
	cu.MaxStackSlotUsedNum = 1
	return cu
}

// emit appends op (with line) and keeps StackSlotNum/MaxStackSlotUsedNum
// sound per its static stack effect (spec §4.4.3, testable property 5).
func (cu *CompileUnit) emit(op bytecode.OpCode, line int) {
	cu.Writer.WriteOp(op, line)
	cu.adjustStack(bytecode.StackEffect(op))
}

func (cu *CompileUnit) adjustStack(delta int) {
	cu.StackSlotNum += delta
	if cu.StackSlotNum > cu.MaxStackSlotUsedNum {
		cu.MaxStackSlotUsedNum = cu.StackSlotNum
	}
	if cu.StackSlotNum < 0 {
		// Unreachable if every emit call site's stack-effect bookkeeping is
		// correct; a negative depth means the compiler itself has a bug.
		panic("compiler: operand stack underflow during emission")
	}
}

// reserveSuperclassSlot lazily appends a Null placeholder constant to hold
// the resolved superclass, filled in by the interpreter at class-binding
// time (spec §4.4.3).
func (cu *CompileUnit) reserveSuperclassSlot() int {
	if cu.SuperclassConstIdx != -1 {
		return cu.SuperclassConstIdx
	}
	idx := len(cu.Fn.Constants)
	cu.Fn.Constants = append(cu.Fn.Constants, value.Null())
	cu.SuperclassConstIdx = idx
	return idx
}

func (cu *CompileUnit) emitByte(b byte, line int) {
	cu.Writer.WriteByte(b, line)
}

func (cu *CompileUnit) emitUint16(v uint16, line int) {
	cu.Writer.WriteUint16(v, line)
}

func (cu *CompileUnit) emitConstant(v value.Value, line int) {
	idx := len(cu.Fn.Constants)
	cu.Fn.Constants = append(cu.Fn.Constants, v)
	cu.emit(bytecode.LoadConstant, line)
	cu.emitUint16(uint16(idx), line)
}

// emitCall emits a CALLn (or, when super is true, SUPERn) dispatch for a
// method with the given signature and argNum, interning the signature in
// the VM's global method-name table (spec §4.2/§4.4.3).
func (cu *CompileUnit) emitCall(signature string, argNum int, super bool, superclassConstIdx int, line int) {
	symbolID := cu.Ctx.AllMethodNames.Ensure(signature)
	if super {
		cu.emit(bytecode.SuperOp(argNum), line)
		cu.emitUint16(uint16(symbolID), line)
		cu.emitUint16(uint16(superclassConstIdx), line)
		return
	}
	cu.emit(bytecode.CallOp(argNum), line)
	cu.emitUint16(uint16(symbolID), line)
}

// finalize emits the trailing END and freezes this CompileUnit's Function
// fields, common to both End and EndMethod.
func (cu *CompileUnit) finalize(line int) *value.Function {
	cu.emit(bytecode.End, line)
	cu.Fn.InstrStream = cu.Writer.Code
	cu.Fn.UpvalueNum = cu.UpvalueNum
	cu.Fn.MaxStackSlotUsedNum = cu.MaxStackSlotUsedNum
	if cu.Fn.Debug != nil {
		cu.Fn.Debug.LineNo = cu.Writer.Line
	}
	return cu.Fn
}

// End finalizes the CompileUnit into its Function: emits the trailing END,
// and — if there's an enclosing unit — adds the finished Function to the
// enclosing unit's constant table and emits CREATE_CLOSURE followed by one
// (isEnclosingLocal, index) pair per upvalue descriptor (spec §4.4.7).
func (cu *CompileUnit) End(line int) *value.Function {
	fn := cu.finalize(line)
	if cu.Enclosing != nil {
		cu.emitClosureInto(cu.Enclosing, line)
	}
	return fn
}

// EndMethod finalizes a class method's CompileUnit without emitting its
// CREATE_CLOSURE yet: class bodies buffer every method's finished Function
// and defer the CREATE_CLOSURE+attach emission until after CREATE_CLASS has
// run, since the field count CREATE_CLASS carries is only known once every
// method body has been compiled (spec §4.4.6 "Field count is fixed at
// class creation time"; see classdecl.go).
func (cu *CompileUnit) EndMethod(line int) *value.Function {
	return cu.finalize(line)
}

// emitClosureInto emits CREATE_CLOSURE(idx) followed by cu's upvalue
// descriptor pairs into target's instruction stream, adding cu.Fn to
// target's constant table.
func (cu *CompileUnit) emitClosureInto(target *CompileUnit, line int) {
	idx := len(target.Fn.Constants)
	target.Fn.Constants = append(target.Fn.Constants, value.Obj(cu.Fn))
	target.emit(bytecode.CreateClosure, line)
	target.emitUint16(uint16(idx), line)
	for i := 0; i < cu.UpvalueNum; i++ {
		d := cu.Upvalues[i]
		b := byte(0)
		if d.IsEnclosingLocal {
			b = 1
		}
		target.emitByte(b, line)
		target.emitByte(byte(d.Index), line)
	}
}
