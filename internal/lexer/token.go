// Package lexer converts source text into a stream of tokens (spec §4.1): a
// streaming peek()/advance() API rather than the teacher's upfront
// scan-everything-to-a-slice Scanner, since the compiler drives lexing
// incrementally and interpolation re-entrancy requires resuming mid-string.
package lexer

import "ember/internal/value"

// Kind tags a token's lexical category.
type Kind int

const (
	EOF Kind = iota
	Identifier
	Number
	String        // a complete string literal, no interpolation remains
	Interpolation // a string fragment immediately followed by ${

	// Keywords.
	Var
	Fun
	If
	Else
	True
	False
	While
	For
	Break
	Continue
	Return
	Null
	Class
	This
	Static
	Is
	Super
	Import

	// Operators and punctuation.
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	Equal
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	AndAnd
	OrOr
	Bang
	Amp
	Pipe
	Caret
	Shl
	Shr
	DotDot
	Comma
	Dot
	Semicolon
	Colon
	Question
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
)

var keywords = map[string]Kind{
	"var":      Var,
	"fun":      Fun,
	"if":       If,
	"else":     Else,
	"true":     True,
	"false":    False,
	"while":    While,
	"for":      For,
	"break":    Break,
	"continue": Continue,
	"return":   Return,
	"null":     Null,
	"class":    Class,
	"this":     This,
	"static":   Static,
	"is":       Is,
	"super":    Super,
	"import":   Import,
}

// Token is {kind, start, length, lineNo, value} per spec §4.1. Value is set
// only for Number and String/Interpolation kinds, already parsed into a
// value.Value.
type Token struct {
	Kind   Kind
	Start  int
	Length int
	LineNo int
	Value  value.Value
	Text   string // source[Start:Start+Length]; for String/Interpolation, the decoded fragment text
}
