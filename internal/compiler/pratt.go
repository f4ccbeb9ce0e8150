package compiler

import "ember/internal/lexer"

// Binding powers, ascending per spec §4.4.4: assign, condition(?:), logical
// -or, logical-and, equality, is, compare, bit-or, bit-and, bit-shift,
// range, term(+,-), factor(*,/,%), unary, call(., (, [). bit-xor has no
// named tier in the spec's list; it sits between bit-or and bit-and as is
// conventional.
const (
	bpNone = iota * 10
	bpAssign
	bpConditional
	bpOr
	bpAnd
	bpEquality
	bpIs
	bpCompare
	bpBitOr
	bpBitXor
	bpBitAnd
	bpShift
	bpRange
	bpTerm
	bpFactor
	bpUnary
	bpCall
)

// prefixFn parses a token in nud position (it begins an expression).
// infixFn parses a token in led position (it extends an already-parsed left
// expression already sitting on the operand stack).
type prefixFn func(p *Parser, canAssign bool)
type infixFn func(p *Parser, canAssign bool)

type grammarRule struct {
	lbp    int
	prefix prefixFn
	infix  infixFn
}

var rules map[lexer.Kind]grammarRule

func init() {
	rules = map[lexer.Kind]grammarRule{
		lexer.Number:        {prefix: parseNumber},
		lexer.String:        {prefix: parseString},
		lexer.Interpolation: {prefix: parseInterpolation},
		lexer.True:          {prefix: parseTrue},
		lexer.False:         {prefix: parseFalse},
		lexer.Null:          {prefix: parseNull},
		lexer.This:          {prefix: parseThis},
		lexer.Super:         {prefix: parseSuper},
		lexer.Identifier:    {prefix: parseIdentifier},
		lexer.LParen:        {prefix: parseGrouping, lbp: bpCall, infix: parseCall},
		lexer.LBracket:      {prefix: parseListLiteral, lbp: bpCall, infix: parseSubscript},
		lexer.LBrace:        {prefix: parseMapLiteral},
		lexer.Fun:           {prefix: parseFunLiteral},

		lexer.Minus: {prefix: parseUnary, lbp: bpTerm, infix: parseBinary},
		lexer.Bang:  {prefix: parseUnary},
		lexer.Amp:   {lbp: bpBitAnd, infix: parseBinary},
		lexer.Pipe:  {lbp: bpBitOr, infix: parseBinary},
		lexer.Caret: {lbp: bpBitXor, infix: parseBinary},
		lexer.Shl:   {lbp: bpShift, infix: parseBinary},
		lexer.Shr:   {lbp: bpShift, infix: parseBinary},

		lexer.Plus:         {lbp: bpTerm, infix: parseBinary},
		lexer.Star:         {lbp: bpFactor, infix: parseBinary},
		lexer.Slash:        {lbp: bpFactor, infix: parseBinary},
		lexer.Percent:      {lbp: bpFactor, infix: parseBinary},
		lexer.DotDot:       {lbp: bpRange, infix: parseBinary},
		lexer.Equal:        {lbp: bpEquality, infix: parseBinary},
		lexer.NotEqual:     {lbp: bpEquality, infix: parseBinary},
		lexer.Is:           {lbp: bpIs, infix: parseBinary},
		lexer.Less:         {lbp: bpCompare, infix: parseBinary},
		lexer.Greater:      {lbp: bpCompare, infix: parseBinary},
		lexer.LessEqual:    {lbp: bpCompare, infix: parseBinary},
		lexer.GreaterEqual: {lbp: bpCompare, infix: parseBinary},
		lexer.AndAnd:       {lbp: bpAnd, infix: parseLogicalAnd},
		lexer.OrOr:         {lbp: bpOr, infix: parseLogicalOr},
		lexer.Question:     {lbp: bpConditional, infix: parseTernary},
		lexer.Assign:       {lbp: bpAssign, infix: parseAssign},
		lexer.Dot:          {lbp: bpCall, infix: parseProperty},
	}
}

func ruleFor(k lexer.Kind) grammarRule { return rules[k] }

// expression implements the Pratt driver (spec §4.4.4): read the current
// token's prefix handler, then while the next token's lbp exceeds rbp,
// consume it and dispatch its infix handler.
func (p *Parser) expression(rbp int) {
	tok := p.cur
	rule := ruleFor(tok.Kind)
	if rule.prefix == nil {
		p.errorAtCurrent("expected expression")
	}
	p.advance()
	canAssign := rbp < bpAssign
	rule.prefix(p, canAssign)

	for ruleFor(p.cur.Kind).lbp > rbp {
		infixRule := ruleFor(p.cur.Kind)
		p.advance()
		infixRule.infix(p, canAssign)
	}
}
