package compiler

import "ember/internal/value"

// defineModuleVar implements spec §4.3's algorithm. Placed in
// internal/compiler (rather than internal/module) because the original C
// places it in compiler.c alongside the rest of compile-error reporting —
// only the compiler has an active parser to blame a redefinition error on.
func defineModuleVar(module *value.Module, name string, v value.Value) int {
	idx := module.VarNames.IndexOf(name)
	if idx == -1 {
		idx = module.VarNames.Add(name)
		module.VarValues.Add(v)
		return idx
	}
	if module.IsForwardDeclared(idx) {
		module.VarValues.Set(idx, v)
		return idx
	}
	return -1
}

// declareModuleVarForwardRef records a forward reference to name, used when
// an identifier resolves to no known local/upvalue/module variable: a new
// module slot is created holding line (as a Number) as a placeholder, to be
// overwritten once the real `var`/`fun`/`class` declaration runs (spec
// §4.3, §4.5 step 6, testable property 6's scenario).
func declareModuleVarForwardRef(module *value.Module, name string, line int) int {
	idx := module.VarNames.IndexOf(name)
	if idx != -1 {
		return idx
	}
	idx = module.VarNames.Add(name)
	module.VarValues.Add(value.Num(float64(line)))
	return idx
}
