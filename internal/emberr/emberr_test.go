package emberr

import (
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(LexError, "unterminated string", "main.ember", 4, 9).WithSource(`var s = "abc`)
	msg := e.Error()
	if !strings.Contains(msg, "LexError: unterminated string") {
		t.Fatalf("message missing kind/text: %q", msg)
	}
	if !strings.Contains(msg, "main.ember:4:9") {
		t.Fatalf("message missing location: %q", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Fatalf("message missing caret: %q", msg)
	}
}

func TestWrapAndCause(t *testing.T) {
	underlying := fmt.Errorf("open geometry.ember: no such file")
	e := New(SemanticError, "could not import module", "main.ember", 1, 1).
		Wrap(underlying, "loading import \"geometry\"")

	if Cause(e) == nil || !strings.Contains(Cause(e).Error(), "no such file") {
		t.Fatalf("Cause should recover the underlying error, got %v", Cause(e))
	}
	if !strings.Contains(e.Error(), "caused by") {
		t.Fatalf("formatted error should mention the cause: %q", e.Error())
	}
}

func TestStackFrames(t *testing.T) {
	e := New(ParseError, "unexpected token", "main.ember", 10, 1).WithStack([]Frame{
		{Function: "g", File: "main.ember", Line: 9},
		{Function: "", File: "main.ember", Line: 3},
	})
	msg := e.Error()
	if !strings.Contains(msg, "in g (main.ember:9)") {
		t.Fatalf("missing named frame: %q", msg)
	}
	if !strings.Contains(msg, "in main.ember:3") {
		t.Fatalf("missing anonymous frame: %q", msg)
	}
}
