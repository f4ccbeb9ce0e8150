package value

import "testing"

// fakeAllocator is a minimal Allocator for package-local tests that don't
// need a real vmctx.Context.
type fakeAllocator struct {
	bytes int
	head  *ObjectHeader
}

func (a *fakeAllocator) InitHeader(h *ObjectHeader, kind ObjectKind, class *Class, byteSize int) {
	h.Kind = kind
	h.Class = class
	h.Next = a.head
	a.head = h
	a.bytes += byteSize
}

func TestHashStability(t *testing.T) {
	h1 := HashBytes([]byte("hello"))
	h2 := HashBytes([]byte("hello"))
	if h1 != h2 {
		t.Fatalf("hash not stable: %d != %d", h1, h2)
	}
	if HashBytes(nil) != fnvOffsetBasis {
		t.Fatalf("empty string hash should equal the offset basis")
	}
}

func TestStringEquality(t *testing.T) {
	a := &fakeAllocator{}
	s1 := NewString(a, nil, []byte("abc"))
	s2 := NewString(a, nil, []byte("abc"))
	s3 := NewString(a, nil, []byte("abd"))
	if !Equal(Obj(s1), Obj(s2)) {
		t.Fatalf("equal-content strings should compare equal")
	}
	if Equal(Obj(s1), Obj(s3)) {
		t.Fatalf("different-content strings should not compare equal")
	}
	if s1.Header() == s2.Header() {
		t.Fatalf("distinct allocations should not share identity")
	}
}

func TestRangeEquality(t *testing.T) {
	a := &fakeAllocator{}
	r1 := NewRange(a, nil, 1, 5)
	r2 := NewRange(a, nil, 1, 5)
	r3 := NewRange(a, nil, 5, 1)
	if !Equal(Obj(r1), Obj(r2)) {
		t.Fatalf("ranges with equal endpoints should compare equal")
	}
	if Equal(Obj(r1), Obj(r3)) {
		t.Fatalf("ranges with different direction should not compare equal")
	}
}

func TestNumberAndSingletonEquality(t *testing.T) {
	if !Equal(Num(3), Num(3)) {
		t.Fatalf("equal numbers should compare equal")
	}
	if Equal(Num(3), Num(4)) {
		t.Fatalf("different numbers should not compare equal")
	}
	if !Equal(Null(), Null()) || !Equal(True(), True()) || !Equal(False(), False()) {
		t.Fatalf("matching singleton variants should compare equal")
	}
	if Equal(Null(), Undefined()) || Equal(True(), False()) || Equal(Num(0), False()) {
		t.Fatalf("mismatched variants should never compare equal")
	}
}

func TestObjectIdentityAcrossKinds(t *testing.T) {
	a := &fakeAllocator{}
	l := NewList(a, nil)
	m := NewMap(a, nil)
	if Equal(Obj(l), Obj(m)) {
		t.Fatalf("objects of different kinds should never compare equal")
	}
}

func TestListGrowAndShrink(t *testing.T) {
	a := &fakeAllocator{}
	l := NewList(a, nil)
	for i := 0; i < 300; i++ {
		l.Append(Num(float64(i)))
	}
	if l.Count() != 300 {
		t.Fatalf("count = %d, want 300", l.Count())
	}
	if l.Cap() < 300 {
		t.Fatalf("capacity %d should cover 300 elements", l.Cap())
	}
	for i := 0; i < 300; i++ {
		if l.Get(i).Num != float64(i) {
			t.Fatalf("element %d = %v, want %d", i, l.Get(i), i)
		}
	}

	// Removing almost everything should eventually shrink the backing
	// array, per spec §3's "shrinks when capacity/4 > count".
	capBefore := l.Cap()
	for l.Count() > 1 {
		l.RemoveAt(l.Count() - 1)
	}
	if l.Cap() >= capBefore {
		t.Fatalf("capacity %d did not shrink from %d after removals", l.Cap(), capBefore)
	}
	if l.Cap() < minCapacity {
		t.Fatalf("capacity %d should never shrink below minCapacity", l.Cap())
	}
}

func TestListInsertAt(t *testing.T) {
	a := &fakeAllocator{}
	l := NewList(a, nil)
	l.Append(Num(1))
	l.Append(Num(2))
	l.Append(Num(3))
	l.InsertAt(1, Num(99))
	want := []float64{1, 99, 2, 3}
	for i, w := range want {
		if l.Get(i).Num != w {
			t.Fatalf("element %d = %v, want %v", i, l.Get(i), w)
		}
	}
}

func TestMapSetGetDelete(t *testing.T) {
	a := &fakeAllocator{}
	m := NewMap(a, nil)
	k1 := Obj(NewString(a, nil, []byte("one")))
	k2 := Obj(NewString(a, nil, []byte("two")))

	m.Set(k1, Num(1))
	m.Set(k2, Num(2))
	if v, ok := m.Get(k1); !ok || v.Num != 1 {
		t.Fatalf("get(one) = %v, %v", v, ok)
	}
	if v, ok := m.Get(k2); !ok || v.Num != 2 {
		t.Fatalf("get(two) = %v, %v", v, ok)
	}

	// Overwrite.
	m.Set(k1, Num(11))
	if v, _ := m.Get(k1); v.Num != 11 {
		t.Fatalf("overwritten get(one) = %v, want 11", v)
	}
	if m.Count() != 2 {
		t.Fatalf("count = %d, want 2", m.Count())
	}

	if v, ok := m.Delete(k2); !ok || v.Num != 2 {
		t.Fatalf("delete(two) = %v, %v", v, ok)
	}
	if _, ok := m.Get(k2); ok {
		t.Fatalf("deleted key should no longer be found")
	}
	if m.Count() != 1 {
		t.Fatalf("count after delete = %d, want 1", m.Count())
	}
}

func TestMapLoadFactorGrowth(t *testing.T) {
	a := &fakeAllocator{}
	m := NewMap(a, nil)
	for i := 0; i < 1000; i++ {
		m.Set(Num(float64(i)), Num(float64(i*2)))
	}
	if m.Count() != 1000 {
		t.Fatalf("count = %d, want 1000", m.Count())
	}
	for i := 0; i < 1000; i++ {
		v, ok := m.Get(Num(float64(i)))
		if !ok || v.Num != float64(i*2) {
			t.Fatalf("get(%d) = %v, %v", i, v, ok)
		}
	}
}

func TestUpvalueOpenClose(t *testing.T) {
	a := &fakeAllocator{}
	th := NewThread(a, nil)
	th.Stack = []Value{Num(1), Num(2), Num(3)}
	u := NewUpvalue(a, nil, th, 1)
	if u.Get().Num != 2 {
		t.Fatalf("open upvalue should read live stack slot, got %v", u.Get())
	}
	th.Stack[1] = Num(42)
	if u.Get().Num != 42 {
		t.Fatalf("open upvalue should track mutations, got %v", u.Get())
	}
	u.Close()
	th.Stack[1] = Num(0)
	if u.Get().Num != 42 {
		t.Fatalf("closed upvalue should retain the value at close time, got %v", u.Get())
	}
}

func TestThreadOpenUpvalueOrdering(t *testing.T) {
	a := &fakeAllocator{}
	th := NewThread(a, nil)
	th.Stack = make([]Value, 10)
	u0 := NewUpvalue(a, nil, th, 0)
	u3 := NewUpvalue(a, nil, th, 3)
	u5 := NewUpvalue(a, nil, th, 5)
	th.PushOpenUpvalue(u3)
	th.PushOpenUpvalue(u5)
	th.PushOpenUpvalue(u0)

	slots := []int{}
	for u := th.OpenUpvalues; u != nil; u = u.Next {
		slots = append(slots, u.Slot)
	}
	want := []int{5, 3, 0}
	if len(slots) != len(want) {
		t.Fatalf("slots = %v, want %v", slots, want)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slots = %v, want %v", slots, want)
		}
	}

	th.CloseUpvaluesFrom(3)
	if th.OpenUpvalues == nil || th.OpenUpvalues.Slot != 0 {
		t.Fatalf("only slot 0 should remain open")
	}
	if !u3.Closed || !u5.Closed {
		t.Fatalf("upvalues at/above the watermark should be closed")
	}
	if u0.Closed {
		t.Fatalf("upvalue below the watermark should remain open")
	}
}

func TestModuleForwardDeclaration(t *testing.T) {
	a := &fakeAllocator{}
	mod := NewModule(a, nil, nil)
	i := mod.VarNames.Add("x")
	mod.VarValues.Add(Num(7)) // forward-declared at line 7

	if !mod.IsForwardDeclared(i) {
		t.Fatalf("slot holding a Number should read as forward-declared")
	}
	mod.VarValues.Set(i, True())
	if mod.IsForwardDeclared(i) {
		t.Fatalf("slot holding a defined value should not read as forward-declared")
	}
}
