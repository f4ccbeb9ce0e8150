package vmctx

import "ember/internal/value"

// BootstrapClasses performs bootstrap step two (§12): allocates the Class
// object for every built-in kind. ClassClass is its own metaclass (the root
// of the "every class is itself an instance of some class" chain has to
// close somewhere); every other built-in class's header.Class points at
// ClassClass.
//
// Class names are backfilled in a second pass, once StringClass exists to
// allocate them against — a class's own Name field can't be built before its
// own class is there to own the String.
//
// Idempotent: calling it twice is a no-op.
func (c *Context) BootstrapClasses() {
	if c.ClassClass != nil {
		return
	}

	c.ClassClass = &value.Class{}
	c.InitHeader(c.ClassClass.Header(), value.ObjClass, nil, 0)
	c.ClassClass.Header().Class = c.ClassClass

	c.ObjectClass = c.newBuiltinClass(nil, nil, 0)
	c.StringClass = c.newBuiltinClass(nil, c.ObjectClass, 0)
	c.ListClass = c.newBuiltinClass(nil, c.ObjectClass, 0)
	c.MapClass = c.newBuiltinClass(nil, c.ObjectClass, 0)
	c.RangeClass = c.newBuiltinClass(nil, c.ObjectClass, 0)
	c.ModuleClass = c.newBuiltinClass(nil, c.ObjectClass, 0)
	c.FnClass = c.newBuiltinClass(nil, c.ObjectClass, 0)
	c.ClosureClass = c.newBuiltinClass(nil, c.ObjectClass, 0)
	c.ThreadClass = c.newBuiltinClass(nil, c.ObjectClass, 0)

	c.ClassClass.Name = c.internName("Class")
	c.ObjectClass.Name = c.internName("Object")
	c.StringClass.Name = c.internName("String")
	c.ListClass.Name = c.internName("List")
	c.MapClass.Name = c.internName("Map")
	c.RangeClass.Name = c.internName("Range")
	c.ModuleClass.Name = c.internName("Module")
	c.FnClass.Name = c.internName("Fn")
	c.ClosureClass.Name = c.internName("Closure")
	c.ThreadClass.Name = c.internName("Thread")
}

func (c *Context) newBuiltinClass(name *value.String, super *value.Class, fieldNum int) *value.Class {
	return value.NewClass(c, c.ClassClass, name, super, fieldNum)
}

func (c *Context) internName(s string) *value.String {
	return value.NewString(c, c.StringClass, []byte(s))
}

// NewInstanceClass allocates a user-defined class with superclass super
// (ObjectClass if nil) and the given inherited+own field count, as the
// CREATE_CLASS opcode does at runtime (spec §4.4.3/§4.4.6). Exposed here
// because every Class, built-in or user-defined, is metaclassed by
// ClassClass.
func (c *Context) NewInstanceClass(name *value.String, super *value.Class, fieldNum int) *value.Class {
	if super == nil {
		super = c.ObjectClass
	}
	return value.NewClass(c, c.ClassClass, name, super, fieldNum)
}
