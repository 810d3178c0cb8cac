package errors

import (
	"strings"
	"testing"

	"github.com/go-ecma3/ecma3/internal/token"
)

func TestFormatIncludesCaretAtColumn(t *testing.T) {
	e := Syntax(token.Position{Line: 1, Column: 5}, "unexpected token", "var = 1;", "test.js")
	out := e.Format(false)
	if !strings.Contains(out, "SyntaxError") {
		t.Errorf("expected SyntaxError in output, got %q", out)
	}
	if !strings.Contains(out, "var = 1;") {
		t.Errorf("expected source line in output, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected caret in output, got %q", out)
	}
}

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		GenericError:   "Error",
		EvalError:      "EvalError",
		RangeError:     "RangeError",
		ReferenceError: "ReferenceError",
		SyntaxError:    "SyntaxError",
		TypeErrorKind:  "TypeError",
		URIError:       "URIError",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestFormatErrorsMultiple(t *testing.T) {
	errs := []*EngineError{
		Syntax(token.Position{Line: 1, Column: 1}, "first", "", ""),
		New(TypeErrorKind, token.Position{Line: 2, Column: 1}, "second", "", ""),
	}
	out := FormatErrors(errs, false)
	if !strings.Contains(out, "2 error(s)") {
		t.Errorf("expected error count header, got %q", out)
	}
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("expected both messages present, got %q", out)
	}
}
