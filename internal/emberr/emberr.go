// Package emberr implements this repository's compile-time error type
// (spec §7), adapted from the teacher's internal/errors.SentraError: a
// `Kind`-tagged error carrying a source location, an optional call stack
// (the chain of enclosing CompileUnits at the point of failure), and the
// offending source line for a caret-style diagnostic.
package emberr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind tags what category of error occurred (spec §7).
type Kind string

const (
	LexError      Kind = "LexError"
	ParseError    Kind = "ParseError"
	SemanticError Kind = "SemanticError"
	MemoryError   Kind = "MemoryError"
)

// Location pinpoints a byte offset's human-readable position.
type Location struct {
	File   string
	Line   int
	Column int
}

// Frame is one entry in the enclosing-CompileUnit chain active when an error
// was raised — not a runtime call stack (that belongs to the interpreter),
// but the compiler's own nesting (module -> outer fun -> inner fun -> ...).
type Frame struct {
	Function string
	File     string
	Line     int
}

// CompileError is this repository's single error type for everything
// reported by the lexer and compiler.
type CompileError struct {
	Kind     Kind
	Message  string
	Location Location
	Stack    []Frame
	Source   string // the offending source line, for a caret diagnostic

	// cause is set via Wrap for errors with an underlying OS or
	// nested-compile failure (e.g. a failed `import`'s file read, or the
	// nested module's own CompileError).
	cause error
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", e.Kind, e.Message)
	if e.Location.File != "" {
		fmt.Fprintf(&sb, "  at %s:%d:%d\n", e.Location.File, e.Location.Line, e.Location.Column)
		if e.Source != "" {
			fmt.Fprintf(&sb, "\n  %d | %s\n", e.Location.Line, e.Source)
			pad := len(fmt.Sprintf("%d | ", e.Location.Line))
			if e.Location.Column > 0 {
				pad += e.Location.Column - 1
			}
			fmt.Fprintf(&sb, "  %s^\n", strings.Repeat(" ", pad))
		}
	}
	for _, f := range e.Stack {
		if f.Function != "" {
			fmt.Fprintf(&sb, "  in %s (%s:%d)\n", f.Function, f.File, f.Line)
		} else {
			fmt.Fprintf(&sb, "  in %s:%d\n", f.File, f.Line)
		}
	}
	if e.cause != nil {
		fmt.Fprintf(&sb, "caused by: %s\n", e.cause)
	}
	return sb.String()
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *CompileError) Unwrap() error { return e.cause }

// New creates a CompileError with no cause yet.
func New(kind Kind, message, file string, line, column int) *CompileError {
	return &CompileError{
		Kind:    kind,
		Message: message,
		Location: Location{
			File:   file,
			Line:   line,
			Column: column,
		},
	}
}

// WithSource attaches the offending source line for a caret diagnostic.
func (e *CompileError) WithSource(line string) *CompileError {
	e.Source = line
	return e
}

// WithStack attaches the enclosing-CompileUnit chain active at the error
// site.
func (e *CompileError) WithStack(frames []Frame) *CompileError {
	e.Stack = frames
	return e
}

// Wrap attaches cause as the error's underlying reason, using pkg/errors so
// Cause(e) recovers the original failure through any number of nested
// imports (spec §4.5's import-driven recursive compilation, §7 semantic
// errors include "undeclared module variable" surfaced from a nested
// compile).
func (e *CompileError) Wrap(cause error, context string) *CompileError {
	if cause != nil {
		e.cause = errors.Wrap(cause, context)
	}
	return e
}

// Cause recovers the deepest underlying error in a CompileError chain, or
// err itself if it carries no cause.
func Cause(err error) error {
	for {
		err = errors.Cause(err)
		ce, ok := err.(*CompileError)
		if !ok || ce.cause == nil {
			return err
		}
		err = ce.cause
	}
}
