package value

// fnvOffsetBasis and fnvPrime are the FNV-1a constants spec §3 pins down
// exactly, matching object/obj_string.c's hashString.
const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// HashBytes computes the FNV-1a hash of b (spec §8 testable property 1).
func HashBytes(b []byte) uint32 {
	h := fnvOffsetBasis
	for _, c := range b {
		h ^= uint32(c)
		h *= fnvPrime
	}
	return h
}

// String is an immutable byte sequence with a cached hash. The empty string
// is representable (newObjString in the original explicitly supports
// length == 0).
type String struct {
	ObjectHeader
	Bytes []byte
	Hash  uint32
}

func (s *String) Header() *ObjectHeader { return &s.ObjectHeader }

// NewString allocates a String holding a copy of bytes.
func NewString(a Allocator, class *Class, bytes []byte) *String {
	s := &String{Bytes: append([]byte(nil), bytes...)}
	s.Hash = HashBytes(s.Bytes)
	a.InitHeader(&s.ObjectHeader, ObjString, class, len(bytes)+1)
	return s
}

func (s *String) String() string { return string(s.Bytes) }
