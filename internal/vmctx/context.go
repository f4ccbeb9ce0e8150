// Package vmctx implements the VM context (spec §2): the process-wide home
// for the built-in class registry, the root of the all-objects list,
// allocation accounting, the global method-signature symbol table, and the
// stack of currently active parsers/compile units.
//
// Context implements value.Allocator directly so every object constructor in
// internal/value takes a *Context as its allocator argument.
package vmctx

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"ember/internal/symtab"
	"ember/internal/value"
)

// Context is the VM-wide state the compiler and lexer allocate against.
type Context struct {
	allObjects     *value.ObjectHeader
	allocatedBytes uint64
	objectCount    int

	// AllMethodNames interns every method signature string seen anywhere in
	// the VM (spec §4.2) so call sites carry a 16-bit index rather than a
	// string.
	AllMethodNames *symtab.SymbolTable

	// Built-in classes, populated by BootstrapClasses. Nil between
	// NewContext and BootstrapClasses — the "two-step class bootstrap"
	// window spec §3's invariants explicitly carve out.
	ClassClass   *value.Class
	ObjectClass  *value.Class
	StringClass  *value.Class
	ListClass    *value.Class
	MapClass     *value.Class
	RangeClass   *value.Class
	ModuleClass  *value.Class
	FnClass      *value.Class
	ClosureClass *value.Class
	ThreadClass  *value.Class

	parserStack []any
}

// NewContext allocates a VM context with no built-in classes yet (bootstrap
// step one, §12). Call BootstrapClasses before compiling anything.
func NewContext() *Context {
	return &Context{AllMethodNames: symtab.New()}
}

// InitHeader implements value.Allocator: tag the header, prepend it to the
// all-objects list, and update byte/object accounting.
func (c *Context) InitHeader(h *value.ObjectHeader, kind value.ObjectKind, class *value.Class, byteSize int) {
	h.Kind = kind
	h.Class = class
	h.Next = c.allObjects
	c.allObjects = h
	c.allocatedBytes += uint64(byteSize)
	c.objectCount++
}

// AllObjects returns the head of the intrusive all-objects list, for an
// external garbage collector to walk and sweep.
func (c *Context) AllObjects() *value.ObjectHeader { return c.allObjects }

// Stats renders a human-readable allocation summary, the way an operator
// reading compiler diagnostics expects ("4.2 kB across 37 objects") rather
// than a raw byte count.
func (c *Context) Stats() string {
	return fmt.Sprintf("%s across %d objects", humanize.Bytes(c.allocatedBytes), c.objectCount)
}

// PushParser makes p the active parser, chaining it above whatever parser
// was previously active — the mechanism `import` uses to drive nested
// compilation (spec §4.5, §5). p is untyped here (internal/compiler's
// *compiler.Parser) to avoid an import cycle between vmctx and compiler.
func (c *Context) PushParser(p any) {
	c.parserStack = append(c.parserStack, p)
}

// PopParser removes the active parser, returning control to its caller (if
// any).
func (c *Context) PopParser() {
	if len(c.parserStack) == 0 {
		return
	}
	c.parserStack = c.parserStack[:len(c.parserStack)-1]
}

// CurParser returns the currently active parser, or nil if none is active.
func (c *Context) CurParser() any {
	if len(c.parserStack) == 0 {
		return nil
	}
	return c.parserStack[len(c.parserStack)-1]
}
