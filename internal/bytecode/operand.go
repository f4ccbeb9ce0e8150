package bytecode

// PutUint16 encodes v as two big-endian bytes (high byte first), matching
// spec §4.4.3's operand encoding rule.
func PutUint16(v uint16) [2]byte {
	return [2]byte{byte(v >> 8), byte(v)}
}

// Uint16At reads the big-endian two-byte operand starting at code[at].
func Uint16At(code []byte, at int) uint16 {
	return uint16(code[at])<<8 | uint16(code[at+1])
}

// PatchUint16At overwrites the big-endian two-byte operand at code[at] with
// v, used to back-patch forward jump displacements once the jump target is
// known.
func PatchUint16At(code []byte, at int, v uint16) {
	b := PutUint16(v)
	code[at] = b[0]
	code[at+1] = b[1]
}
