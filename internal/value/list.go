package value

// Capacity growth/shrink constants, carried over from the original's
// class.h (CAPACITY_GROW_FACTOR, MIN_CAPACITY) — they govern every growable
// object in the runtime, not just lists, but List is the one spec §3 calls
// out by name ("grows by factor 4, shrinks when capacity/4 > count").
const (
	growFactor  = 4
	minCapacity = 64
)

// List is a value sequence backed by a manually managed capacity (rather
// than Go's append, whose growth factor is unspecified) so the grow/shrink
// law in spec §3 holds exactly.
type List struct {
	ObjectHeader
	elements []Value
	count    int
}

func (l *List) Header() *ObjectHeader { return &l.ObjectHeader }

// NewList allocates an empty list.
func NewList(a Allocator, class *Class) *List {
	l := &List{}
	a.InitHeader(&l.ObjectHeader, ObjList, class, 0)
	return l
}

func (l *List) Count() int { return l.count }
func (l *List) Cap() int   { return len(l.elements) }

func (l *List) Get(i int) Value { return l.elements[i] }
func (l *List) Set(i int, v Value) { l.elements[i] = v }

func (l *List) growTo(need int) {
	if need <= len(l.elements) {
		return
	}
	newCap := minCapacity
	if len(l.elements) > 0 {
		newCap = len(l.elements) * growFactor
	}
	for newCap < need {
		newCap *= growFactor
	}
	grown := make([]Value, newCap)
	copy(grown, l.elements[:l.count])
	l.elements = grown
}

func (l *List) maybeShrink() {
	if len(l.elements) > minCapacity && l.count > 0 && len(l.elements)/growFactor > l.count {
		newCap := len(l.elements) / growFactor
		if newCap < minCapacity {
			newCap = minCapacity
		}
		shrunk := make([]Value, newCap)
		copy(shrunk, l.elements[:l.count])
		l.elements = shrunk
	}
}

// Append adds v to the end of the list.
func (l *List) Append(v Value) {
	l.growTo(l.count + 1)
	l.elements[l.count] = v
	l.count++
}

// InsertAt inserts v at index, shifting later elements up by one.
func (l *List) InsertAt(index int, v Value) {
	l.growTo(l.count + 1)
	copy(l.elements[index+1:l.count+1], l.elements[index:l.count])
	l.elements[index] = v
	l.count++
}

// RemoveAt removes and returns the element at index, shifting later elements
// down by one, then shrinking the backing array if it has become mostly
// empty.
func (l *List) RemoveAt(index int) Value {
	v := l.elements[index]
	copy(l.elements[index:l.count-1], l.elements[index+1:l.count])
	l.count--
	l.elements[l.count] = Null()
	l.maybeShrink()
	return v
}
