// Package symtab holds the growable typed sequences and the insertion-ordered
// symbol table the rest of the compiler core is built on.
package symtab

// Buffer is a growable typed sequence, generic stand-in for the teacher's
// per-type DECLARE_BUFFER_TYPE/DEFINE_BUFFER_METHOD macro pairs
// (ByteBuffer, IntBuffer, ValueBuffer, StringBuffer in the original C source).
// Go generics make one implementation do the job of all four.
type Buffer[T any] struct {
	data []T
}

// NewBuffer returns an empty buffer.
func NewBuffer[T any]() *Buffer[T] {
	return &Buffer[T]{}
}

// Add appends v and returns its index.
func (b *Buffer[T]) Add(v T) int {
	b.data = append(b.data, v)
	return len(b.data) - 1
}

// Len returns the number of elements currently stored.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// Get returns the element at i.
func (b *Buffer[T]) Get(i int) T {
	return b.data[i]
}

// Set overwrites the element at i.
func (b *Buffer[T]) Set(i int, v T) {
	b.data[i] = v
}

// Slice exposes the backing slice read-only-by-convention; callers must not
// retain it across further Add calls (it may be reallocated).
func (b *Buffer[T]) Slice() []T {
	return b.data
}

// Truncate drops every element from i onward.
func (b *Buffer[T]) Truncate(i int) {
	b.data = b.data[:i]
}
