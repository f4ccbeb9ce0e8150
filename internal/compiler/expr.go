package compiler

import (
	"ember/internal/bytecode"
	"ember/internal/lexer"

	"github.com/google/uuid"
)

// loadVariable resolves name through local -> upvalue -> module scope (spec
// §4.4.1's resolution order) and emits the matching LOAD opcode. An
// unresolved name becomes a module-scope forward reference (spec §4.5 step
// 6, testable scenario 6): this is also how an identifier used before its
// `var`/`fun`/`class` declaration gets a placeholder slot.
func (p *Parser) loadVariable(name string, line int) {
	if idx := p.cu.resolveLocal(name); idx != -1 {
		p.cu.emit(bytecode.LoadLocalVar, line)
		p.cu.emitByte(byte(idx), line)
		return
	}
	if idx := p.cu.resolveUpvalue(name); idx != -1 {
		p.cu.emit(bytecode.LoadUpvalue, line)
		p.cu.emitByte(byte(idx), line)
		return
	}
	idx := declareModuleVarForwardRef(p.Module, name, line)
	p.cu.emit(bytecode.LoadModuleVar, line)
	p.cu.emitUint16(uint16(idx), line)
}

func (p *Parser) storeVariable(name string, line int) {
	if idx := p.cu.resolveLocal(name); idx != -1 {
		p.cu.emit(bytecode.StoreLocalVar, line)
		p.cu.emitByte(byte(idx), line)
		return
	}
	if idx := p.cu.resolveUpvalue(name); idx != -1 {
		p.cu.emit(bytecode.StoreUpvalue, line)
		p.cu.emitByte(byte(idx), line)
		return
	}
	idx := declareModuleVarForwardRef(p.Module, name, line)
	p.cu.emit(bytecode.StoreModuleVar, line)
	p.cu.emitUint16(uint16(idx), line)
}

// loadThis resolves the implicit receiver through local -> upvalue, the
// same chain as any other name, except slot 0 is only ever named "this" in
// a method's own CompileUnit (see unit.go), so a direct local hit always
// means "this is that method" and uses the dedicated zero-operand LOAD_THIS
// rather than LOAD_LOCAL_VAR 0.
func (p *Parser) loadThis(line int) {
	if idx := p.cu.resolveLocal("this"); idx != -1 {
		p.cu.emit(bytecode.LoadThis, line)
		return
	}
	if idx := p.cu.resolveUpvalue("this"); idx != -1 {
		p.cu.emit(bytecode.LoadUpvalue, line)
		p.cu.emitByte(byte(idx), line)
		return
	}
	p.semanticError("'this' outside a method")
}

// finishArgList compiles a comma-separated argument list up to and
// including close, returning the argument count (spec §4.4.5's MAX_ARG_NUM
// cap).
func (p *Parser) finishArgList(close lexer.Kind) int {
	argNum := 0
	if !p.check(close) {
		for {
			if argNum >= MaxArgNum {
				p.semanticError("too many arguments")
			}
			p.expression(bpAssign)
			argNum++
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(close, "expected closing delimiter after argument list")
	return argNum
}

func parseNumber(p *Parser, canAssign bool) {
	p.cu.emitConstant(p.prev.Value, p.prev.LineNo)
}

func parseString(p *Parser, canAssign bool) {
	p.cu.emitConstant(p.prev.Value, p.prev.LineNo)
}

// parseInterpolation compiles "a${b}c${d}e" (spec §8 testable property 8 /
// scenario 5): the lexer has already produced Interpolation("a") as the
// current (now previous) token; this repeatedly compiles the embedded
// expression, concatenates it with the running string via the `+` method,
// then consumes and concatenates the next Interpolation/String fragment,
// stopping once a String (non-Interpolation) fragment closes the literal.
func parseInterpolation(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	p.cu.emitConstant(p.prev.Value, line)
	for {
		p.expression(bpNone)
		p.cu.emitCall(operatorSignature("+", 1), 1, false, 0, line)

		if p.cur.Kind != lexer.Interpolation && p.cur.Kind != lexer.String {
			p.errorAtCurrent("expected continuation of string interpolation")
		}
		final := p.cur.Kind == lexer.String
		fragLine, fragVal := p.cur.LineNo, p.cur.Value
		p.advance()
		p.cu.emitConstant(fragVal, fragLine)
		p.cu.emitCall(operatorSignature("+", 1), 1, false, 0, fragLine)
		if final {
			return
		}
	}
}

func parseTrue(p *Parser, canAssign bool)  { p.cu.emit(bytecode.PushTrue, p.prev.LineNo) }
func parseFalse(p *Parser, canAssign bool) { p.cu.emit(bytecode.PushFalse, p.prev.LineNo) }
func parseNull(p *Parser, canAssign bool)  { p.cu.emit(bytecode.PushNull, p.prev.LineNo) }

func parseThis(p *Parser, canAssign bool) { p.loadThis(p.prev.LineNo) }

// parseSuper compiles `super.name(args)`, `super.name` and bare
// `super(args)` (chaining to the superclass method of the same name as the
// one currently being compiled), emitting a SUPERn dispatch against the
// enclosing method's reserved superclass constant slot (spec §4.4.3).
func parseSuper(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	if !p.cu.IsMethod {
		p.semanticError("'super' outside a method")
		return
	}
	superclassIdx := p.cu.reserveSuperclassSlot()
	p.cu.emit(bytecode.LoadThis, line)

	if p.match(lexer.Dot) {
		name := p.consume(lexer.Identifier, "expected method name after 'super.'").Text
		if p.match(lexer.LParen) {
			argNum := p.finishArgList(lexer.RParen)
			p.cu.emitCall(BuildSignature(SignMethod, name, argNum), argNum, true, superclassIdx, line)
			return
		}
		p.cu.emitCall(BuildSignature(SignGetter, name, 0), 0, true, superclassIdx, line)
		return
	}

	p.consume(lexer.LParen, "expected '(' or '.' after 'super'")
	argNum := p.finishArgList(lexer.RParen)
	name := ""
	if p.cu.ClassBK != nil {
		name = p.cu.ClassBK.CurrentMethodBaseName
	}
	p.cu.emitCall(BuildSignature(SignMethod, name, argNum), argNum, true, superclassIdx, line)
}

func parseIdentifier(p *Parser, canAssign bool) {
	name := p.prev.Text
	line := p.prev.LineNo
	if len(name) > 1 && name[0] == '_' && p.cu.ClassBK != nil {
		fieldReference(p, name, canAssign, line)
		return
	}
	if canAssign && p.check(lexer.Assign) {
		p.advance()
		p.expression(bpAssign)
		p.storeVariable(name, line)
		return
	}
	p.loadVariable(name, line)
}

// fieldReference compiles a `_x`-prefixed identifier as a direct field
// access on the implicit receiver (spec §4.4.6's field syntax), resolving
// its slot in the enclosing class's field table (assigning one on first
// sight) rather than going through the local/upvalue/module chain.
func fieldReference(p *Parser, name string, canAssign bool, line int) {
	idx := p.cu.ClassBK.Fields.Ensure(name)
	if idx >= MaxFieldNum {
		p.semanticError("too many fields in one class")
	}
	if canAssign && p.match(lexer.Assign) {
		p.expression(bpAssign)
		p.cu.emit(bytecode.StoreFieldThis, line)
		p.cu.emitByte(byte(idx), line)
		return
	}
	p.cu.emit(bytecode.LoadFieldThis, line)
	p.cu.emitByte(byte(idx), line)
}

func parseGrouping(p *Parser, canAssign bool) {
	p.expression(bpNone)
	p.consume(lexer.RParen, "expected ')' after expression")
}

func parseListLiteral(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	p.cu.emit(bytecode.CreateList, line)
	if !p.check(lexer.RBracket) {
		for {
			if p.check(lexer.RBracket) {
				break
			}
			p.expression(bpAssign)
			p.cu.emit(bytecode.AppendElement, line)
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RBracket, "expected ']' after list literal")
}

func parseMapLiteral(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	p.cu.emit(bytecode.CreateMap, line)
	if !p.check(lexer.RBrace) {
		for {
			if p.check(lexer.RBrace) {
				break
			}
			p.expression(bpAssign)
			p.consume(lexer.Colon, "expected ':' after map key")
			p.expression(bpAssign)
			p.cu.emit(bytecode.MapInsert, line)
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RBrace, "expected '}' after map literal")
}

// parseFunLiteral compiles an anonymous `fun (params) { body }` expression
// (spec §12, grounded in original_source's `Fn.new { |params| body }`
// primitive): identical machinery to a named function declaration, minus
// the binding to a module/local variable — the closure is left on the
// stack as the expression's value. Its debug name is synthesized
// (`fn@xxxxxxxx`) since it has no source identifier to report in a
// disassembly or stack trace.
func parseFunLiteral(p *Parser, canAssign bool) {
	p.compileFunctionBody(false, "fn@"+uuid.New().String()[:8])
}

func parseUnary(p *Parser, canAssign bool) {
	op := p.prev
	p.expression(bpUnary)
	p.cu.emitCall(operatorSignature(op.Text, 0), 0, false, 0, op.LineNo)
}

// parseBinary handles every left-associative binary operator dispatched as
// a method call (spec §4.4.4 "operators are methods"): arithmetic,
// equality, `is`, comparison, bitwise, shift, and range. Parsing the right
// operand at the operator's own lbp keeps it left-associative (an operator
// of equal precedence immediately to the right is left for the enclosing
// expression() loop, not consumed here).
func parseBinary(p *Parser, canAssign bool) {
	op := p.prev
	rule := ruleFor(op.Kind)
	p.expression(rule.lbp)
	p.cu.emitCall(operatorSignature(op.Text, 1), 1, false, 0, op.LineNo)
}

func parseLogicalAnd(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	p.cu.emit(bytecode.And, line)
	jumpAt := p.cu.Writer.ReserveUint16(line)
	p.expression(bpAnd)
	p.cu.Writer.PatchJump(jumpAt)
}

func parseLogicalOr(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	p.cu.emit(bytecode.Or, line)
	jumpAt := p.cu.Writer.ReserveUint16(line)
	p.expression(bpOr)
	p.cu.Writer.PatchJump(jumpAt)
}

// parseTernary compiles `cond ? then : else`. The two branches are mutually
// exclusive at runtime but both get emitted one after another; the stack
// depth counter is explicitly rewound between them so ongoing compilation
// after the ternary sees one consistent depth rather than the sum of both
// branches (testable property 5 concerns the emitted opcodes' static
// effects, not a union of exclusive control-flow paths).
func parseTernary(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	p.cu.emit(bytecode.JumpIfFalse, line)
	thenJump := p.cu.Writer.ReserveUint16(line)

	baseline := p.cu.StackSlotNum
	p.expression(bpNone)
	postThen := p.cu.StackSlotNum

	p.consume(lexer.Colon, "expected ':' in conditional expression")
	p.cu.emit(bytecode.Jump, line)
	elseJump := p.cu.Writer.ReserveUint16(line)

	p.cu.Writer.PatchJump(thenJump)
	p.cu.StackSlotNum = baseline
	p.expression(bpConditional)
	p.cu.Writer.PatchJump(elseJump)
	p.cu.StackSlotNum = postThen
}

func parseCall(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	argNum := p.finishArgList(lexer.RParen)
	p.cu.emitCall(BuildSignature(SignMethod, "call", argNum), argNum, false, 0, line)
}

func parseSubscript(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	argNum := p.finishArgList(lexer.RBracket)
	if canAssign && p.match(lexer.Assign) {
		p.expression(bpAssign)
		p.cu.emitCall(BuildSignature(SignSubscriptSetter, "", argNum+1), argNum+1, false, 0, line)
		return
	}
	p.cu.emitCall(BuildSignature(SignSubscriptGetter, "", argNum), argNum, false, 0, line)
}

func parseProperty(p *Parser, canAssign bool) {
	line := p.prev.LineNo
	name := p.consume(lexer.Identifier, "expected property or method name after '.'").Text

	if p.match(lexer.LParen) {
		argNum := p.finishArgList(lexer.RParen)
		p.cu.emitCall(BuildSignature(SignMethod, name, argNum), argNum, false, 0, line)
		return
	}
	if canAssign && p.match(lexer.Assign) {
		p.expression(bpAssign)
		p.cu.emitCall(BuildSignature(SignSetter, name, 0), 1, false, 0, line)
		return
	}
	p.cu.emitCall(BuildSignature(SignGetter, name, 0), 0, false, 0, line)
}

// parseAssign only ever fires for a left-hand side that didn't already
// consume its own trailing '=' (identifiers, properties, and subscripts all
// do) — i.e. an invalid assignment target such as a call result or a
// parenthesized expression (spec §7).
func parseAssign(p *Parser, canAssign bool) {
	p.semanticError("invalid assignment target")
}
