package compiler

import (
	"ember/internal/emberr"
	"ember/internal/lexer"
	"ember/internal/value"
	"ember/internal/vmctx"
)

// Parser drives one compilation: a lexer over one module's source text, the
// chain of CompileUnits being built, and enough context to report a
// first-error-wins compile diagnostic (spec §7).
//
// A Parser is pushed onto vmctx.Context's parser stack for its lifetime so
// nested compilation (triggered by `import`) can find the currently active
// parser (spec §4.5 step 1, §5).
type Parser struct {
	Ctx    *vmctx.Context
	Module *value.Module
	File   string

	lx   *lexer.Lexer
	cur  lexer.Token
	prev lexer.Token

	cu *CompileUnit

	// classFieldCounts records each class declared so far in this module's
	// field count, keyed by name, so a later `is Super` clause referencing
	// one inherits the right starting field index (see classdecl.go).
	classFieldCounts map[string]int
}

// New creates a parser over source, chained to the VM's currently active
// parser (if any) via Ctx.PushParser — supporting `import`-driven recursive
// compilation (spec §4.5 step 1).
func New(ctx *vmctx.Context, module *value.Module, file string, source []byte) *Parser {
	p := &Parser{Ctx: ctx, Module: module, File: file}
	p.lx = lexer.New(ctx, ctx.StringClass, file, source)
	ctx.PushParser(p)
	return p
}

// Close pops this parser off the VM's parser stack once compilation (or a
// nested import triggered from within it) has finished.
func (p *Parser) Close() { p.Ctx.PopParser() }

func (p *Parser) advance() {
	p.prev = p.cur
	p.cur = p.lx.Advance()
}

func (p *Parser) check(k lexer.Kind) bool { return p.cur.Kind == k }

func (p *Parser) match(k lexer.Kind) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(k lexer.Kind, msg string) lexer.Token {
	if !p.check(k) {
		p.errorAtCurrent(msg)
	}
	p.advance()
	return p.prev
}

func (p *Parser) stackFrames() []emberr.Frame {
	var frames []emberr.Frame
	for cu := p.cu; cu != nil; cu = cu.Enclosing {
		name := "<anonymous>"
		if cu.Fn.Debug != nil && cu.Fn.Debug.Name != "" {
			name = cu.Fn.Debug.Name
		} else if cu.Enclosing == nil {
			name = "<module>"
		}
		frames = append(frames, emberr.Frame{Function: name, File: p.File})
	}
	return frames
}

func (p *Parser) errorAt(line int, kind emberr.Kind, msg string) {
	panic(emberr.New(kind, msg, p.File, line, 0).WithStack(p.stackFrames()))
}

func (p *Parser) errorAtCurrent(msg string) {
	p.errorAt(p.cur.LineNo, emberr.ParseError, msg)
}

func (p *Parser) errorAtPrev(msg string) {
	p.errorAt(p.prev.LineNo, emberr.ParseError, msg)
}

func (p *Parser) semanticError(msg string) {
	p.errorAt(p.prev.LineNo, emberr.SemanticError, msg)
}

// Compile drives the top-level module compile (spec §4.5 steps 2-5): a
// module-scope CompileUnit with no enclosing unit, primed by one Advance
// call, compiling top-level statements until EOF.
func (p *Parser) Compile() *value.Function {
	p.cu = NewCompileUnit(p.Ctx, p.Module, nil, false)
	p.advance() // prime the lexer
	for !p.check(lexer.EOF) {
		p.statement()
	}
	return p.cu.End(p.prev.LineNo)
}
