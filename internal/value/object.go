package value

// ObjectKind tags an object's kind, mirroring the original ObjType enum
// (object_header.h) one-for-one.
type ObjectKind uint8

const (
	ObjClass ObjectKind = iota
	ObjList
	ObjMap
	ObjModule
	ObjRange
	ObjString
	ObjUpvalue
	ObjFunction
	ObjClosure
	ObjInstance
	ObjThread
)

// ObjectHeader is the common prefix every heap object embeds: a kind tag, a
// GC-reachability mark bit, a back-pointer to the object's class (nullable
// only during the two-step built-in class bootstrap, §12), and the intrusive
// link used by the VM's all-objects list.
//
// Sweeping that list belongs to the external garbage collector (§1); this
// core only ever prepends to it on allocation.
type ObjectHeader struct {
	Kind   ObjectKind
	Marked bool
	Class  *Class
	Next   *ObjectHeader
}

// Object is implemented by every heap object kind. Comparing two Objects with
// == compares identity, which is exactly the object-identity leg of Value's
// equality law (§3) since every object kind is represented as a pointer.
type Object interface {
	Header() *ObjectHeader
}

// Allocator is the seam between the object model and the VM context that
// owns allocation bookkeeping (§2's "VM context" component). Object
// constructors in this package take an Allocator instead of reaching for a
// package-level global, so the object model never hard-depends on vmctx
// (which in turn depends on this package for the Class type).
//
// InitHeader mirrors the original initObjHeader(vm, objHeader, objType,
// class): it tags the header, links it into the all-objects list, and
// updates allocation accounting by byteSize. Passing the header's own
// address here (rather than a pointer to the caller's local pointer
// variable) is exactly the fix for the newObjString bug flagged in §9/§12 —
// there is no separate "pointer to the object" value in Go to accidentally
// take the address of.
type Allocator interface {
	InitHeader(h *ObjectHeader, kind ObjectKind, class *Class, byteSize int)
}
