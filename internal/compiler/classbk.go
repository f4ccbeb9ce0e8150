package compiler

import "ember/internal/symtab"

// ClassBookKeep is the transient record tracking a class body's field
// table, in-static flag, and the method lists being assembled while its
// body compiles (spec §4.4.6, GLOSSARY "Class bookkeeping").
type ClassBookKeep struct {
	Name     string
	Fields   *symtab.SymbolTable // "_x" field names, including inherited, in declaration order
	InStatic bool

	// Methods compiled so far, attached to the class after CREATE_CLASS has
	// run (see classdecl.go — field count must be known before CREATE_CLASS
	// emits, so method bytecode is assembled first and attached after).
	InstanceMethods []compiledMethod
	StaticMethods   []compiledMethod

	// CurrentMethodBaseName is the unqualified name of the method currently
	// being compiled, consulted by a bare `super(args)` call (as opposed to
	// `super.other(args)`) to dispatch to the same-named superclass method.
	CurrentMethodBaseName string
}

type compiledMethod struct {
	Signature string
	Unit      *CompileUnit // finished (EndMethod'd) CompileUnit, its CREATE_CLOSURE not yet emitted
}

// newClassBookKeep seeds the field table with inheritedFieldNum placeholder
// slots so a subclass's own "_x" fields get indices starting after its
// superclass's. The superclass's actual field names aren't known at compile
// time in general (its declaration may be an arbitrary expression); only the
// count carries over, tracked by the parser for classes declared earlier in
// the same module (see classdecl.go).
func newClassBookKeep(name string, inheritedFieldNum int) *ClassBookKeep {
	fields := symtab.New()
	for i := 0; i < inheritedFieldNum; i++ {
		fields.Add("<inherited>")
	}
	return &ClassBookKeep{Name: name, Fields: fields}
}
