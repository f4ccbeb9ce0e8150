// Package module implements the module loader (spec §4.5): driving one
// compileModule pass over a module's source text, and a registry
// deduplicating concurrent loads of the same named module by an embedding
// host (spec §5, §11).
package module

import (
	"fmt"
	"strings"

	"ember/internal/compiler"
	"ember/internal/emberr"
	"ember/internal/value"
	"ember/internal/vmctx"
)

// Compile drives one module's compilation end to end (spec §4.5): create a
// parser chained onto the VM's active parser stack, compile every top-level
// statement, end the unit, then check for any module variable left as a
// forward-declared placeholder (a Number slot instead of a real value) —
// an undeclared module variable, reported as a single aggregated semantic
// error listing every offending name and its first-reference line.
//
// Recovers a *emberr.CompileError panicked anywhere in the lexer/compiler
// (spec §7's "abort the current compilation unit... back to compileModule")
// and returns it as an ordinary error instead.
func Compile(ctx *vmctx.Context, mod *value.Module, file string, source []byte) (fn *value.Function, err error) {
	p := compiler.New(ctx, mod, file, source)
	defer p.Close()

	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*emberr.CompileError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	fn = p.Compile()

	if undeclared := findUndeclaredVars(mod); len(undeclared) > 0 {
		return nil, undeclaredVarsError(file, undeclared)
	}
	return fn, nil
}

type undeclaredVar struct {
	name string
	line int
}

// findUndeclaredVars walks every module variable slot: one still holding a
// Number is a forward reference whose `var`/`fun`/`class` declaration never
// arrived (spec §4.5 step 6, §4.3's Number-in-slot contract).
func findUndeclaredVars(mod *value.Module) []undeclaredVar {
	var out []undeclaredVar
	for i := 0; i < mod.VarNames.Len(); i++ {
		if mod.IsForwardDeclared(i) {
			out = append(out, undeclaredVar{
				name: mod.VarNames.Name(i),
				line: int(mod.VarValues.Get(i).Num),
			})
		}
	}
	return out
}

func undeclaredVarsError(file string, vars []undeclaredVar) *emberr.CompileError {
	var sb strings.Builder
	sb.WriteString("undeclared module variable(s):")
	for _, v := range vars {
		fmt.Fprintf(&sb, " %s (line %d)", v.name, v.line)
	}
	return emberr.New(emberr.SemanticError, sb.String(), file, vars[0].line, 0)
}
