package ecma3

import (
	"fmt"
	"strings"

	"github.com/go-ecma3/ecma3/internal/bytecode"
	engerr "github.com/go-ecma3/ecma3/internal/errors"
	"github.com/go-ecma3/ecma3/internal/object"
)

// ErrorDetail is one compile-time diagnostic, stripped of source/Kind
// detail a caller who just wants line/message pairs doesn't need.
type ErrorDetail struct {
	Line    int
	Column  int
	Message string
}

// CompileError reports that Parse/Compile/Eval failed before the program
// ever ran. Stage names which phase caught it ("parsing" is currently the
// only one this engine's pipeline can fail at; an uncaught exception at
// run time is reported by Run/Eval as a *ScriptError instead).
type CompileError struct {
	Stage  string
	Errors []ErrorDetail
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s failed", e.Stage)
	}
	msgs := make([]string, len(e.Errors))
	for i, d := range e.Errors {
		msgs[i] = fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Stage, strings.Join(msgs, "; "))
}

func newCompileError(stage, _ string, errs []*engerr.EngineError) *CompileError {
	details := make([]ErrorDetail, len(errs))
	for i, e := range errs {
		details[i] = ErrorDetail{Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Message}
	}
	return &CompileError{Stage: stage, Errors: details}
}

// ScriptError reports an uncaught script-level exception (a thrown Error
// object, or any other thrown value) that escaped Run/Eval. Name and
// Message are populated on a best-effort basis from the thrown value's
// own "name"/"message" properties when it is Error-shaped; a thrown
// primitive (`throw 42`) leaves them empty and Value holds its string
// form instead.
type ScriptError struct {
	Name    string
	Message string
	Value   string
}

func (e *ScriptError) Error() string {
	if e.Name != "" {
		if e.Message != "" {
			return e.Name + ": " + e.Message
		}
		return e.Name
	}
	return "uncaught exception: " + e.Value
}

func newScriptError(thrown *bytecode.ThrownError) *ScriptError {
	se := &ScriptError{}
	if s, err := thrown.Value.ToString(); err == nil {
		se.Value = s.Value()
	}
	if thrown.Value.IsObject() {
		if obj, ok := thrown.Value.Object().(*object.Object); ok {
			if v, err := obj.GetString("name"); err == nil && v.IsString() {
				se.Name = v.StringVal().Value()
			}
			if v, err := obj.GetString("message"); err == nil && v.IsString() {
				se.Message = v.StringVal().Value()
			}
		}
	}
	return se
}
