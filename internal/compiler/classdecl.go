package compiler

import (
	"ember/internal/bytecode"
	"ember/internal/lexer"
	"ember/internal/value"
)

// classFieldCountOf reports how many fields a class declared earlier in
// this module's compilation ended up with (looked up by class name), so a
// subclass declared later in the same module inherits the right starting
// field index (see newClassBookKeep). Classes from another module or a
// foreign/native superclass are treated as contributing zero inherited
// fields — a simplification noted in DESIGN.md.
func (p *Parser) classFieldCountOf(name string) int {
	if p.classFieldCounts == nil {
		return 0
	}
	return p.classFieldCounts[name]
}

func (p *Parser) recordClassFieldCount(name string, n int) {
	if p.classFieldCounts == nil {
		p.classFieldCounts = make(map[string]int)
	}
	p.classFieldCounts[name] = n
}

// classDeclaration compiles `class Name [is Super] { members }` (spec
// §4.4.6). Field count must be fixed before CREATE_CLASS emits, but fields
// are only discovered while compiling method bodies (`_x` references) — so
// every member's Function is fully compiled and buffered first (EndMethod,
// not End: no CREATE_CLOSURE yet), then CREATE_CLASS emits with the final
// field count, and only then is each buffered method's CREATE_CLOSURE
// emitted followed by INSTANCE_METHOD/STATIC_METHOD, one at a time so the
// class stays directly underneath the single closure each attach opcode
// expects (spec §4.4.3).
func (p *Parser) classDeclaration() {
	line := p.prev.LineNo
	name := p.consume(lexer.Identifier, "expected class name").Text

	superName := "Object"
	if p.match(lexer.Is) {
		tok := p.consume(lexer.Identifier, "expected superclass name after 'is'")
		superName = tok.Text
		p.loadVariable(superName, tok.LineNo)
	} else {
		p.loadVariable("Object", line)
	}

	nameStr := value.NewString(p.Ctx, p.Ctx.StringClass, []byte(name))
	p.cu.emitConstant(value.Obj(nameStr), line)

	// Class declarations bind a variable the same way `fun`/`var` do, and
	// may be referenced (e.g. by a later class's `is` clause, or the class's
	// own static methods) once CREATE_CLASS has run.
	p.declareVariable(name)

	inherited := p.classFieldCountOf(superName)
	bk := newClassBookKeep(name, inherited)
	enclosing := p.cu
	savedBK := enclosing.ClassBK
	enclosing.ClassBK = bk

	p.consume(lexer.LBrace, "expected '{' after class header")
	for !p.check(lexer.RBrace) && !p.check(lexer.EOF) {
		p.classMember(enclosing, bk)
	}
	p.consume(lexer.RBrace, "expected '}' after class body")

	enclosing.ClassBK = savedBK

	if bk.Fields.Len() > MaxFieldNum {
		p.semanticError("too many fields in one class")
	}
	p.recordClassFieldCount(name, bk.Fields.Len())

	p.cu.emit(bytecode.CreateClass, line)
	p.cu.emitByte(byte(bk.Fields.Len()), line)

	for _, m := range bk.InstanceMethods {
		m.Unit.emitClosureInto(p.cu, line)
		p.cu.emit(bytecode.InstanceMethod, line)
		p.cu.emitUint16(uint16(p.Ctx.AllMethodNames.Ensure(m.Signature)), line)
	}
	for _, m := range bk.StaticMethods {
		m.Unit.emitClosureInto(p.cu, line)
		p.cu.emit(bytecode.StaticMethod, line)
		p.cu.emitUint16(uint16(p.Ctx.AllMethodNames.Ensure(m.Signature)), line)
	}

	p.emitDefine(name, line)
}

// classMember compiles one class-body member: a regular method, a getter,
// a setter, a subscript getter/setter, or an operator method, each
// optionally `static`, buffering its compiled Function into bk's method
// lists rather than emitting it immediately (see classDeclaration).
func (p *Parser) classMember(enclosing *CompileUnit, bk *ClassBookKeep) {
	isStatic := p.match(lexer.Static)

	if p.check(lexer.LBracket) {
		p.advance()
		p.compileSubscriptMethod(enclosing, bk, isStatic)
		return
	}
	if isOperatorToken(p.cur.Kind) {
		p.compileOperatorMethod(enclosing, bk, isStatic)
		return
	}

	nameTok := p.consume(lexer.Identifier, "expected method, getter, or setter name")
	name := nameTok.Text

	if p.check(lexer.Assign) {
		p.advance()
		p.compileSetterMethod(enclosing, bk, isStatic, name)
		return
	}
	if p.check(lexer.LParen) {
		p.compileOrdinaryMethod(enclosing, bk, isStatic, name)
		return
	}
	p.compileGetterMethod(enclosing, bk, isStatic, name)
}

// isOperatorToken reports whether k can introduce an operator-method
// declaration such as `+(other) { ... }` (spec §4.4.4 "operators are
// methods" — a class may define its own).
func isOperatorToken(k lexer.Kind) bool {
	switch k {
	case lexer.Plus, lexer.Minus, lexer.Star, lexer.Slash, lexer.Percent,
		lexer.Equal, lexer.NotEqual, lexer.Less, lexer.Greater,
		lexer.LessEqual, lexer.GreaterEqual,
		lexer.Amp, lexer.Pipe, lexer.Caret, lexer.Shl, lexer.Shr,
		lexer.DotDot, lexer.Bang:
		return true
	}
	return false
}

func attachMethod(bk *ClassBookKeep, isStatic bool, m compiledMethod) {
	if isStatic {
		bk.StaticMethods = append(bk.StaticMethods, m)
	} else {
		bk.InstanceMethods = append(bk.InstanceMethods, m)
	}
}

// newMethodUnit creates a method body's CompileUnit, inheriting bk so
// `_x` field references and bare `super(...)` resolve against this class.
func (p *Parser) newMethodUnit(enclosing *CompileUnit, bk *ClassBookKeep, debugName string) *CompileUnit {
	cu := NewCompileUnit(p.Ctx, p.Module, enclosing, true)
	cu.Fn.Debug = &value.FnDebug{Name: debugName}
	cu.ClassBK = bk
	return cu
}

// compileGetterMethod compiles `name { body }`: no parameter list.
func (p *Parser) compileGetterMethod(enclosing *CompileUnit, bk *ClassBookKeep, isStatic bool, name string) {
	bk.CurrentMethodBaseName = name
	cu := p.newMethodUnit(enclosing, bk, name)
	p.cu = cu

	p.consume(lexer.LBrace, "expected '{' before getter body")
	p.block()
	line := p.prev.LineNo
	p.cu.emit(bytecode.PushNull, line)
	p.cu.emit(bytecode.Return, line)
	cu.EndMethod(line)
	p.cu = enclosing

	attachMethod(bk, isStatic, compiledMethod{Signature: BuildSignature(SignGetter, name, 0), Unit: cu})
}

// compileSetterMethod compiles `name=(param) { body }`.
func (p *Parser) compileSetterMethod(enclosing *CompileUnit, bk *ClassBookKeep, isStatic bool, name string) {
	bk.CurrentMethodBaseName = name
	cu := p.newMethodUnit(enclosing, bk, name+"=")
	p.cu = cu

	p.compileParamsAndBody()
	cu.EndMethod(p.prev.LineNo)
	p.cu = enclosing

	attachMethod(bk, isStatic, compiledMethod{Signature: BuildSignature(SignSetter, name, 1), Unit: cu})
}

// compileOrdinaryMethod compiles `name(params) { body }`, including the
// constructor (`new(params) { body }`): compileParamsAndBody already
// returns `this` implicitly for a method named "new".
func (p *Parser) compileOrdinaryMethod(enclosing *CompileUnit, bk *ClassBookKeep, isStatic bool, name string) {
	bk.CurrentMethodBaseName = name
	cu := p.newMethodUnit(enclosing, bk, name)
	p.cu = cu

	p.compileParamsAndBody()
	argNum := cu.Fn.ArgNum
	cu.EndMethod(p.prev.LineNo)
	p.cu = enclosing

	attachMethod(bk, isStatic, compiledMethod{Signature: BuildSignature(SignMethod, name, argNum), Unit: cu})
}

// compileOperatorMethod compiles `+(other) { body }` (binary) or
// `!() { body }` (unary): the operator token itself stands in for the
// method's base name, same as the synthesized call site in parseBinary
// /parseUnary.
func (p *Parser) compileOperatorMethod(enclosing *CompileUnit, bk *ClassBookKeep, isStatic bool) {
	opTok := p.cur
	p.advance()
	name := opTok.Text

	bk.CurrentMethodBaseName = name
	cu := p.newMethodUnit(enclosing, bk, name)
	p.cu = cu

	p.compileParamsAndBody()
	argNum := cu.Fn.ArgNum
	cu.EndMethod(p.prev.LineNo)
	p.cu = enclosing

	attachMethod(bk, isStatic, compiledMethod{Signature: BuildSignature(SignMethod, name, argNum), Unit: cu})
}

// compileSubscriptMethod compiles `[params] { body }` (getter) or
// `[params]=(value) { body }` (setter). The '[' has already been consumed
// by classMember.
func (p *Parser) compileSubscriptMethod(enclosing *CompileUnit, bk *ClassBookKeep, isStatic bool) {
	bk.CurrentMethodBaseName = ""
	cu := p.newMethodUnit(enclosing, bk, "[]")
	p.cu = cu

	argNum := 0
	if !p.check(lexer.RBracket) {
		for {
			if argNum >= MaxArgNum {
				p.semanticError("too many subscript parameters")
			}
			pname := p.consume(lexer.Identifier, "expected parameter name").Text
			cu.declareLocal(pname)
			argNum++
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RBracket, "expected ']' after subscript parameters")

	isSetter := false
	if p.match(lexer.Assign) {
		isSetter = true
		p.consume(lexer.LParen, "expected '(' after '=' in subscript setter")
		vname := p.consume(lexer.Identifier, "expected value parameter name").Text
		cu.declareLocal(vname)
		argNum++
		p.consume(lexer.RParen, "expected ')' after subscript setter value parameter")
	}
	cu.Fn.ArgNum = argNum

	p.consume(lexer.LBrace, "expected '{' before subscript body")
	p.block()
	line := p.prev.LineNo
	p.cu.emit(bytecode.PushNull, line)
	p.cu.emit(bytecode.Return, line)
	cu.EndMethod(line)
	p.cu = enclosing

	var sig string
	if isSetter {
		sig = BuildSignature(SignSubscriptSetter, "", argNum)
	} else {
		sig = BuildSignature(SignSubscriptGetter, "", argNum)
	}
	attachMethod(bk, isStatic, compiledMethod{Signature: sig, Unit: cu})
}
