package compiler

import (
	"ember/internal/bytecode"
	"ember/internal/lexer"
	"ember/internal/value"
)

func (cu *CompileUnit) beginScope() { cu.ScopeDepth++ }

// endScope pops every local declared in the scope just closed, innermost
// first: CLOSE_UPVALUE for a captured local (so its value migrates to the
// heap-owned Upvalue before its stack slot disappears), plain POP otherwise
// (spec §4.4.6 "Scope exit").
func (cu *CompileUnit) endScope(line int) {
	cu.ScopeDepth--
	for cu.LocalNum > 0 && cu.Locals[cu.LocalNum-1].ScopeDepth > cu.ScopeDepth {
		if cu.Locals[cu.LocalNum-1].IsUpvalue {
			cu.emit(bytecode.CloseUpvalue, line)
		} else {
			cu.emit(bytecode.Pop, line)
		}
		cu.LocalNum--
	}
}

// emitLoopScopeCleanup emits (but does not structurally pop at compile
// time) the CLOSE_UPVALUE/POP cleanup for every local above targetDepth, for
// a break/continue jumping out of one or more nested blocks. The running
// stack-depth counter is rewound afterward: this is a control-flow edge the
// linear emission stream carries as dead-at-runtime-except-when-taken code,
// the same reasoning as the ternary/if-else branch split (see parseTernary).
func (p *Parser) emitLoopScopeCleanup(targetDepth int, line int) {
	saved := p.cu.StackSlotNum
	for i := p.cu.LocalNum - 1; i >= 0 && p.cu.Locals[i].ScopeDepth > targetDepth; i-- {
		if p.cu.Locals[i].IsUpvalue {
			p.cu.emit(bytecode.CloseUpvalue, line)
		} else {
			p.cu.emit(bytecode.Pop, line)
		}
	}
	p.cu.StackSlotNum = saved
}

// controlFlowBody compiles the body of an `if`/`while`/`for` clause. A bare
// declaration (`var`/`fun`/`class`) directly as a non-block body is
// rejected rather than silently scoped: the declared name would otherwise
// be unreachable outside the clause anyway, and for `if (c) var x = 1;`
// with no `{}` there is no scope boundary at all to pop it at when the
// branch is skipped. Wrap the declaration in `{ }` to scope it explicitly
// (the clox declaration-vs-statement split).
func (p *Parser) controlFlowBody() {
	if p.check(lexer.Var) || p.check(lexer.Fun) || p.check(lexer.Class) {
		p.errorAtCurrent("variable/function/class declaration not allowed directly as the body of 'if', 'while', or 'for'; wrap it in '{ }'")
	}
	p.statement()
}

// statement compiles one statement (spec §4.4.6 / §6).
func (p *Parser) statement() {
	switch {
	case p.match(lexer.Var):
		p.varDeclaration()
	case p.match(lexer.Fun):
		p.funDeclaration()
	case p.match(lexer.Class):
		p.classDeclaration()
	case p.match(lexer.If):
		p.ifStatement()
	case p.match(lexer.While):
		p.whileStatement()
	case p.match(lexer.For):
		p.forStatement()
	case p.match(lexer.Break):
		p.breakStatement()
	case p.match(lexer.Continue):
		p.continueStatement()
	case p.match(lexer.Return):
		p.returnStatement()
	case p.match(lexer.Import):
		p.importStatement()
	case p.match(lexer.LBrace):
		p.cu.beginScope()
		p.block()
		p.cu.endScope(p.prev.LineNo)
	default:
		p.expressionStatement()
	}
}

// block compiles statements up to (and consuming) the closing '}'. The
// opening '{' has already been consumed by the caller.
func (p *Parser) block() {
	for !p.check(lexer.RBrace) && !p.check(lexer.EOF) {
		p.statement()
	}
	p.consume(lexer.RBrace, "expected '}' after block")
}

func (p *Parser) expressionStatement() {
	p.expression(bpNone)
	p.cu.emit(bytecode.Pop, p.prev.LineNo)
	p.consume(lexer.Semicolon, "expected ';' after expression")
}

// declareVariable declares name at the CompileUnit's current scope: a
// module variable if ScopeDepth == -1, an ordinary local otherwise (spec
// §4.4.1 "Declaration"). At module scope nothing is declared here: the
// caller's emitDefine registers the module variable once the initializer has
// been compiled.
func (p *Parser) declareVariable(name string) {
	if p.cu.ScopeDepth == -1 {
		return // module variables are resolved by name at store time
	}
	p.cu.declareLocal(name)
}

// emitDefine finalizes a declaration once its initializer has been
// compiled. A module variable doesn't live on the operand stack, so its
// value must be copied out via STORE_MODULE_VAR and the now-unneeded stack
// slot popped. A local needs nothing further: the initializer's pushed
// value already sits at exactly the stack position declareLocal reserved
// for it — that's what "local variable" means in a stack-slot model.
func (p *Parser) emitDefine(name string, line int) {
	if p.cu.ScopeDepth != -1 {
		return
	}
	idx := defineModuleVar(p.Module, name, value.Null())
	if idx == -1 {
		p.semanticError("module variable \"" + name + "\" redefined")
	}
	p.cu.emit(bytecode.StoreModuleVar, line)
	p.cu.emitUint16(uint16(idx), line)
	p.cu.emit(bytecode.Pop, line)
}

// varDeclaration compiles `var name = expr;` or `var name;` (spec §4.4.6).
// The keyword has already been consumed by the caller.
func (p *Parser) varDeclaration() {
	name := p.consume(lexer.Identifier, "expected variable name").Text
	line := p.prev.LineNo
	p.declareVariable(name)
	if p.match(lexer.Assign) {
		p.expression(bpNone)
	} else {
		p.cu.emit(bytecode.PushNull, line)
	}
	p.consume(lexer.Semicolon, "expected ';' after variable declaration")
	p.emitDefine(name, line)
}

// funDeclaration compiles `fun name(params) { body }` as a module/local
// variable bound to a closure (spec §4.4.6: "desugars to a var holding a
// closure, but compiled directly").
func (p *Parser) funDeclaration() {
	name := p.consume(lexer.Identifier, "expected function name").Text
	line := p.prev.LineNo
	p.declareVariable(name)
	p.compileFunctionBody(false, name)
	p.emitDefine(name, line)
}

// compileParamsAndBody compiles `(params) { body }` against the currently
// active (freshly created) CompileUnit, including the implicit return:
// Null in a plain function, `this` in a constructor (spec §4.4.6
// "Returns"). Caller creates the CompileUnit and finalizes it afterward
// (End for a plain closure, EndMethod for a class method — see
// classdecl.go).
func (p *Parser) compileParamsAndBody() {
	p.consume(lexer.LParen, "expected '(' after name")
	argNum := 0
	if !p.check(lexer.RParen) {
		for {
			if argNum >= MaxArgNum {
				p.semanticError("too many parameters")
			}
			pname := p.consume(lexer.Identifier, "expected parameter name").Text
			p.cu.declareLocal(pname)
			argNum++
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RParen, "expected ')' after parameters")
	p.cu.Fn.ArgNum = argNum

	p.consume(lexer.LBrace, "expected '{' before body")
	p.block()

	line := p.prev.LineNo
	if p.cu.IsMethod && p.cu.ClassBK != nil && p.cu.ClassBK.CurrentMethodBaseName == "new" {
		p.loadThis(line)
	} else {
		p.cu.emit(bytecode.PushNull, line)
	}
	p.cu.emit(bytecode.Return, line)
}

// compileFunctionBody compiles `(params) { body }` into a new CompileUnit
// nested under the currently active one, leaving the resulting closure
// pushed on the enclosing unit's stack (via CompileUnit.End's
// CREATE_CLOSURE emission).
func (p *Parser) compileFunctionBody(isMethod bool, name string) {
	enclosing := p.cu
	cu := NewCompileUnit(p.Ctx, p.Module, enclosing, isMethod)
	cu.Fn.Debug = &value.FnDebug{Name: name}
	cu.ClassBK = enclosing.ClassBK
	p.cu = cu

	p.compileParamsAndBody()

	p.cu.End(p.prev.LineNo)
	p.cu = enclosing
}

func (p *Parser) ifStatement() {
	line := p.prev.LineNo
	p.consume(lexer.LParen, "expected '(' after 'if'")
	p.expression(bpNone)
	p.consume(lexer.RParen, "expected ')' after condition")

	p.cu.emit(bytecode.JumpIfFalse, line)
	thenJump := p.cu.Writer.ReserveUint16(line)
	baseline := p.cu.StackSlotNum
	p.controlFlowBody()

	if p.match(lexer.Else) {
		p.cu.emit(bytecode.Jump, line)
		elseJump := p.cu.Writer.ReserveUint16(line)
		p.cu.Writer.PatchJump(thenJump)
		p.cu.StackSlotNum = baseline
		p.controlFlowBody()
		p.cu.Writer.PatchJump(elseJump)
		return
	}
	p.cu.Writer.PatchJump(thenJump)
}

func (p *Parser) whileStatement() {
	line := p.prev.LineNo
	loop := &LoopRecord{CondStartIP: p.cu.Writer.Pos(), ScopeDepth: p.cu.ScopeDepth, Enclosing: p.cu.Loop}
	p.cu.Loop = loop

	p.consume(lexer.LParen, "expected '(' after 'while'")
	p.expression(bpNone)
	p.consume(lexer.RParen, "expected ')' after condition")

	p.cu.emit(bytecode.JumpIfFalse, line)
	exitJump := p.cu.Writer.ReserveUint16(line)
	loop.ExitJumps = append(loop.ExitJumps, exitJump)

	p.controlFlowBody()

	p.cu.emit(bytecode.Loop, line)
	p.cu.emitUint16(p.cu.Writer.BackwardDisplacement(loop.CondStartIP), line)

	for _, j := range loop.ExitJumps {
		p.cu.Writer.PatchJump(j)
	}
	p.cu.Loop = loop.Enclosing
}

// forStatement compiles a C-style three-clause for loop: `for (init; cond;
// post) body`. The spec's surface grammar names this construct "for var in
// range-or-iterable", but the lexer's fixed keyword table (spec §4.1) has
// no `in` keyword to drive a for-in desugaring — the three-clause form is
// adopted instead (see DESIGN.md open-question decision) and iterating a
// Range or list is expressed as `for (var i = r.from(); i <= r.to(); i = i+1)`
// using ordinary method calls, consistent with "operators are methods".
func (p *Parser) forStatement() {
	line := p.prev.LineNo
	p.cu.beginScope()
	p.consume(lexer.LParen, "expected '(' after 'for'")

	switch {
	case p.match(lexer.Semicolon):
	case p.check(lexer.Var):
		p.advance()
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loop := &LoopRecord{ScopeDepth: p.cu.ScopeDepth, Enclosing: p.cu.Loop}
	loop.CondStartIP = p.cu.Writer.Pos()
	p.cu.Loop = loop

	hasCond := !p.check(lexer.Semicolon)
	if hasCond {
		p.expression(bpNone)
	}
	p.consume(lexer.Semicolon, "expected ';' after loop condition")
	if hasCond {
		p.cu.emit(bytecode.JumpIfFalse, line)
		loop.ExitJumps = append(loop.ExitJumps, p.cu.Writer.ReserveUint16(line))
	}

	if !p.check(lexer.RParen) {
		p.cu.emit(bytecode.Jump, line)
		bodyJump := p.cu.Writer.ReserveUint16(line)
		incrementStart := p.cu.Writer.Pos()

		p.expression(bpNone)
		p.cu.emit(bytecode.Pop, p.prev.LineNo)

		p.cu.emit(bytecode.Loop, line)
		p.cu.emitUint16(p.cu.Writer.BackwardDisplacement(loop.CondStartIP), line)
		loop.CondStartIP = incrementStart
		p.cu.Writer.PatchJump(bodyJump)
	}
	p.consume(lexer.RParen, "expected ')' after for clauses")

	p.controlFlowBody()
	p.cu.emit(bytecode.Loop, line)
	p.cu.emitUint16(p.cu.Writer.BackwardDisplacement(loop.CondStartIP), line)

	for _, j := range loop.ExitJumps {
		p.cu.Writer.PatchJump(j)
	}
	p.cu.Loop = loop.Enclosing
	p.cu.endScope(line)
}

func (p *Parser) breakStatement() {
	line := p.prev.LineNo
	if p.cu.Loop == nil {
		p.semanticError("'break' outside a loop")
		p.consume(lexer.Semicolon, "expected ';' after 'break'")
		return
	}
	p.emitLoopScopeCleanup(p.cu.Loop.ScopeDepth, line)
	p.cu.emit(bytecode.Jump, line)
	p.cu.Loop.ExitJumps = append(p.cu.Loop.ExitJumps, p.cu.Writer.ReserveUint16(line))
	p.consume(lexer.Semicolon, "expected ';' after 'break'")
}

func (p *Parser) continueStatement() {
	line := p.prev.LineNo
	if p.cu.Loop == nil {
		p.semanticError("'continue' outside a loop")
		p.consume(lexer.Semicolon, "expected ';' after 'continue'")
		return
	}
	p.emitLoopScopeCleanup(p.cu.Loop.ScopeDepth, line)
	p.cu.emit(bytecode.Loop, line)
	p.cu.emitUint16(p.cu.Writer.BackwardDisplacement(p.cu.Loop.CondStartIP), line)
	p.consume(lexer.Semicolon, "expected ';' after 'continue'")
}

// returnStatement implicitly returns `this` when used bare inside a
// constructor, Null otherwise (spec §4.4.6); `return expr;` returns the
// expression's value unconditionally.
func (p *Parser) returnStatement() {
	line := p.prev.LineNo
	if p.cu.Enclosing == nil {
		p.semanticError("'return' outside a function")
	}
	if p.match(lexer.Semicolon) {
		if p.cu.IsMethod && p.cu.ClassBK != nil && p.cu.ClassBK.CurrentMethodBaseName == "new" {
			p.loadThis(line)
		} else {
			p.cu.emit(bytecode.PushNull, line)
		}
		p.cu.emit(bytecode.Return, line)
		return
	}
	p.expression(bpNone)
	p.consume(lexer.Semicolon, "expected ';' after return value")
	p.cu.emit(bytecode.Return, line)
}

// importStatement loads a named module, triggering (in the interpreter,
// external to this core) a nested compileModule chained through
// Ctx.PushParser/PopParser if the module hasn't been compiled yet (spec §5).
// The compiler's own responsibility is limited to recording the reference;
// resolution happens at link/run time. The module name string is the
// receiver of a zero-argument `import()` dispatch (`name.import()`), not an
// argument to some other receiver, so this is a CALL0.
func (p *Parser) importStatement() {
	line := p.prev.LineNo
	nameTok := p.consume(lexer.String, "expected module name string after 'import'")
	p.cu.emitConstant(nameTok.Value, line)
	p.cu.emitCall(BuildSignature(SignMethod, "import", 0), 0, false, 0, line)
	p.cu.emit(bytecode.Pop, line)
	p.consume(lexer.Semicolon, "expected ';' after import")
}
