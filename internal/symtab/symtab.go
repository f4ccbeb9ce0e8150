package symtab

// SymbolTable is an insertion-ordered set of strings. It backs both a
// module's variable-name table and the VM-wide allMethodNames table used to
// intern method signatures (§4.2).
type SymbolTable struct {
	names []string
	index map[string]int
}

// New returns an empty symbol table.
func New() *SymbolTable {
	return &SymbolTable{index: make(map[string]int)}
}

// IndexOf returns the index of name, or -1 if it has never been added.
func (t *SymbolTable) IndexOf(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Add appends name unconditionally (no duplicate check) and returns its
// index. Callers that need de-duplication use Ensure instead.
func (t *SymbolTable) Add(name string) int {
	i := len(t.names)
	t.names = append(t.names, name)
	t.index[name] = i
	return i
}

// Ensure adds name if absent and returns its index either way.
func (t *SymbolTable) Ensure(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return t.Add(name)
}

// Name returns the string stored at i.
func (t *SymbolTable) Name(i int) string {
	return t.names[i]
}

// Len returns the number of interned names.
func (t *SymbolTable) Len() int {
	return len(t.names)
}

// Names exposes the insertion-ordered slice read-only-by-convention.
func (t *SymbolTable) Names() []string {
	return t.names
}
