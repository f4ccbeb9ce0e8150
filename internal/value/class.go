package value

// MethodKind tags a dense method-table slot.
type MethodKind uint8

const (
	// MethodNone marks an unbound slot — not the same as a method that
	// exists but returns undefined; MT_NONE in the original.
	MethodNone MethodKind = iota
	// MethodPrimitive is a natively-implemented method; the core only
	// reserves the slot shape, the binding is the external interpreter's
	// "core module bootstrapping" concern (§1 out of scope).
	MethodPrimitive
	// MethodScript is a method compiled from source, backed by a closure.
	MethodScript
)

// Method is one dense method-table entry, indexed by a globally interned
// method-signature symbol id.
type Method struct {
	Kind      MethodKind
	Closure   *Closure // valid when Kind == MethodScript
	Primitive any      // opaque native handle; filled in externally
}

// Class is a single-inheritance class: a name, an optional superclass, the
// total field count (including inherited fields), and a dense method table
// indexed by method-signature symbol id — O(1) dispatch, and what makes
// `super` resolution a constant-table lookup (spec §9).
type Class struct {
	ObjectHeader
	Name     *String
	Super    *Class // nil for a root class
	FieldNum int
	Methods  []Method
}

func (c *Class) Header() *ObjectHeader { return &c.ObjectHeader }

// NewClass allocates a class. metaclass is the class's own class (nullable
// during the two-step built-in bootstrap, §12).
func NewClass(a Allocator, metaclass *Class, name *String, super *Class, fieldNum int) *Class {
	c := &Class{Name: name, Super: super, FieldNum: fieldNum}
	a.InitHeader(&c.ObjectHeader, ObjClass, metaclass, 0)
	return c
}

// BindMethod installs m at symbolID, growing the dense table as needed.
func (c *Class) BindMethod(symbolID int, m Method) {
	for len(c.Methods) <= symbolID {
		c.Methods = append(c.Methods, Method{Kind: MethodNone})
	}
	c.Methods[symbolID] = m
}

// MethodAt returns the method bound at symbolID, or a MethodNone slot if
// symbolID is out of range or unbound.
func (c *Class) MethodAt(symbolID int) Method {
	if symbolID < 0 || symbolID >= len(c.Methods) {
		return Method{Kind: MethodNone}
	}
	return c.Methods[symbolID]
}

// Instance is an object of some Class, with one field slot per
// Class.FieldNum, initialized to Null.
type Instance struct {
	ObjectHeader
	Class  *Class
	Fields []Value
}

func (i *Instance) Header() *ObjectHeader { return &i.ObjectHeader }

// NewInstance allocates an instance of class with every field set to Null.
func NewInstance(a Allocator, class *Class) *Instance {
	inst := &Instance{Class: class, Fields: make([]Value, class.FieldNum)}
	for i := range inst.Fields {
		inst.Fields[i] = Null()
	}
	a.InitHeader(&inst.ObjectHeader, ObjInstance, class, 0)
	return inst
}
