package value

// mapLoadPercent is the load-factor ceiling from the original's
// obj_map.h (MAP_LOAD_PERCENT 0.8).
const mapLoadPercent = 0.8

// entry is a single open-addressed slot. An entry with used == false is
// empty; one that also has tomb == true marks a tombstone left behind by a
// deletion (so probing past it keeps finding live entries further down the
// chain).
type entry struct {
	key   Value
	value Value
	used  bool
	tomb  bool
}

// Map is an open-addressed hash map of (Value, Value) entries.
type Map struct {
	ObjectHeader
	entries []entry
	count   int // live entries, excludes tombstones
}

func (m *Map) Header() *ObjectHeader { return &m.ObjectHeader }

// NewMap allocates an empty map.
func NewMap(a Allocator, class *Class) *Map {
	m := &Map{}
	a.InitHeader(&m.ObjectHeader, ObjMap, class, 0)
	return m
}

func (m *Map) Count() int { return m.count }

func hashValue(v Value) uint32 {
	switch v.Kind {
	case KindUndefined:
		return 0
	case KindNull:
		return 1
	case KindTrue:
		return 2
	case KindFalse:
		return 3
	case KindNumber:
		bits := float64Bits(v.Num)
		return uint32(bits>>32) ^ uint32(bits)
	case KindObject:
		if v.Obj == nil {
			return 4
		}
		switch h := v.Obj.Header(); h.Kind {
		case ObjString:
			return v.Obj.(*String).Hash
		case ObjRange:
			r := v.Obj.(*Range)
			return uint32(r.From)*2166136261 ^ uint32(r.To)
		default:
			// Identity hash for everything else: stable for the object's
			// lifetime, which is all a hash map needs.
			return identityHash(v.Obj)
		}
	default:
		return 0
	}
}

func (m *Map) findSlot(key Value) int {
	if len(m.entries) == 0 {
		return -1
	}
	mask := uint32(len(m.entries) - 1)
	idx := hashValue(key) & mask
	firstTomb := -1
	for i := uint32(0); i < uint32(len(m.entries)); i++ {
		slot := int((idx + i) & mask)
		e := &m.entries[slot]
		if !e.used {
			if e.tomb {
				if firstTomb == -1 {
					firstTomb = slot
				}
				continue
			}
			if firstTomb != -1 {
				return firstTomb
			}
			return slot
		}
		if Equal(e.key, key) {
			return slot
		}
	}
	if firstTomb != -1 {
		return firstTomb
	}
	return -1
}

func (m *Map) grow(newCap int) {
	old := m.entries
	m.entries = make([]entry, newCap)
	m.count = 0
	for _, e := range old {
		if e.used {
			m.Set(e.key, e.value)
		}
	}
}

// Set inserts or overwrites key's value.
func (m *Map) Set(key, v Value) {
	if len(m.entries) == 0 || float64(m.count+1) > float64(len(m.entries))*mapLoadPercent {
		newCap := minCapacity
		if len(m.entries) > 0 {
			newCap = len(m.entries) * growFactor
		}
		m.grow(newCap)
	}
	slot := m.findSlot(key)
	e := &m.entries[slot]
	wasNew := !e.used
	e.key = key
	e.value = v
	e.used = true
	e.tomb = false
	if wasNew {
		m.count++
	}
}

// Get looks up key, returning (value, true) if present.
func (m *Map) Get(key Value) (Value, bool) {
	slot := m.findSlot(key)
	if slot == -1 || !m.entries[slot].used {
		return Value{}, false
	}
	return m.entries[slot].value, true
}

// Delete removes key if present, returning (its old value, true).
func (m *Map) Delete(key Value) (Value, bool) {
	slot := m.findSlot(key)
	if slot == -1 || !m.entries[slot].used {
		return Value{}, false
	}
	v := m.entries[slot].value
	m.entries[slot] = entry{tomb: true}
	m.count--
	return v, true
}

// Clear empties the map without shrinking its backing array.
func (m *Map) Clear() {
	for i := range m.entries {
		m.entries[i] = entry{}
	}
	m.count = 0
}

// Keys returns the live keys in storage order (unspecified but stable until
// the next Set/Delete triggers a rehash).
func (m *Map) Keys() []Value {
	keys := make([]Value, 0, m.count)
	for _, e := range m.entries {
		if e.used {
			keys = append(keys, e.key)
		}
	}
	return keys
}
