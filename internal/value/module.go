package value

import "ember/internal/symtab"

// Module holds a name (nullable for the root/core module) plus two parallel
// insertion-ordered sequences of module-variable names and values.
//
// A module variable is *declared* (forward-referenced before its definition
// is seen) by inserting its source line number as a Number value at an
// index, and *defined* by overwriting that slot with the real value — "is it
// still a forward declaration" is exactly "does the slot currently hold a
// Number" (spec §3/§4.3, testable property #3). §9's design note suggests an
// explicit ForwardDeclared/Defined sum type instead; that version is not
// used here because testable property #3 pins down the Number-in-slot
// behavior as the literal contract this core must satisfy.
type Module struct {
	ObjectHeader
	Name      *String
	VarNames  *symtab.SymbolTable
	VarValues *symtab.Buffer[Value]
}

func (m *Module) Header() *ObjectHeader { return &m.ObjectHeader }

// NewModule allocates a module. name may be nil for the root/core module.
func NewModule(a Allocator, class *Class, name *String) *Module {
	m := &Module{
		Name:      name,
		VarNames:  symtab.New(),
		VarValues: symtab.NewBuffer[Value](),
	}
	a.InitHeader(&m.ObjectHeader, ObjModule, class, 0)
	return m
}

// IsForwardDeclared reports whether the variable at i is still a forward
// declaration (its slot holds a Number, the source line of the first
// reference) rather than a defined value.
func (m *Module) IsForwardDeclared(i int) bool {
	return m.VarValues.Get(i).IsNumber()
}
