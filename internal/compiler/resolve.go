package compiler

import "ember/internal/emberr"

// addLocal appends a new local to cu, returning its index. Caller has
// already checked for same-scope redeclaration.
func (cu *CompileUnit) addLocal(name string) int {
	if cu.LocalNum >= MaxLocalVarNum {
		panic(emberr.New(emberr.SemanticError, "too many local variables in one function", "", 0, 0))
	}
	cu.Locals[cu.LocalNum] = LocalVar{Name: name, ScopeDepth: cu.ScopeDepth}
	cu.LocalNum++
	return cu.LocalNum - 1
}

// declareLocal declares name at the current scope depth, erroring on
// same-depth redeclaration (spec §4.4.1, testable property 6).
func (cu *CompileUnit) declareLocal(name string) int {
	for i := cu.LocalNum - 1; i >= 0; i-- {
		l := &cu.Locals[i]
		if l.ScopeDepth != -1 && l.ScopeDepth < cu.ScopeDepth {
			break
		}
		if l.Name == name {
			panic(emberr.New(emberr.SemanticError, "variable \""+name+"\" redefined in this scope", "", 0, 0))
		}
	}
	return cu.addLocal(name)
}

// resolveLocal walks cu's locals from the innermost (highest index) to
// outermost (index 0), the direction spec §9 flags the original's
// findLocal as getting backwards ("findLocal... increments its index
// instead of decrementing... the intended semantics is what this spec
// mandates").
func (cu *CompileUnit) resolveLocal(name string) int {
	for i := cu.LocalNum - 1; i >= 0; i-- {
		if cu.Locals[i].Name == name {
			return i
		}
	}
	return -1
}

// addUpvalue records an upvalue descriptor, deduplicating by
// (isEnclosingLocal, index) (spec §4.4.2, testable property 4).
func (cu *CompileUnit) addUpvalue(isEnclosingLocal bool, index int) int {
	for i := 0; i < cu.UpvalueNum; i++ {
		u := cu.Upvalues[i]
		if u.IsEnclosingLocal == isEnclosingLocal && u.Index == index {
			return i
		}
	}
	if cu.UpvalueNum >= MaxUpvalueNum {
		panic(emberr.New(emberr.SemanticError, "too many captured variables in one function", "", 0, 0))
	}
	cu.Upvalues[cu.UpvalueNum] = UpvalueDesc{IsEnclosingLocal: isEnclosingLocal, Index: index}
	cu.UpvalueNum++
	return cu.UpvalueNum - 1
}

// resolveUpvalue recurses into cu's enclosing unit to resolve name as an
// upvalue (spec §4.4.2). Returns -1 if name cannot be found as a local or
// upvalue anywhere up the chain (the caller falls back to module scope).
//
// A method boundary blocks capture of a local from outside the method's
// enclosing class body entirely: once recursion reaches a method's
// CompileUnit, it may not resolve anything from its enclosing scope as an
// upvalue.
func (cu *CompileUnit) resolveUpvalue(name string) int {
	if cu.Enclosing == nil {
		return -1
	}
	// cu itself is a method body trying to reach past its own scope. This
	// check is on cu (the unit whose local lookup just failed), not
	// cu.Enclosing — a plain closure nested inside a method is free to
	// capture the method's own locals; only the method body itself may not
	// reach further out.
	if cu.IsMethod {
		return -1
	}

	if li := cu.Enclosing.resolveLocal(name); li != -1 {
		cu.Enclosing.Locals[li].IsUpvalue = true
		return cu.addUpvalue(true, li)
	}
	if ui := cu.Enclosing.resolveUpvalue(name); ui != -1 {
		return cu.addUpvalue(false, ui)
	}
	return -1
}
