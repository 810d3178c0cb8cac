// Package errors provides error formatting utilities for the ECMAScript
// engine. It formats runtime and compile-time errors with source context,
// line/column information, and visual indicators (carets) pointing to the
// error location, and carries the native-error Kind so a host can
// distinguish a SyntaxError from a TypeError without string-matching the
// message.
package errors

import (
	"fmt"
	"strings"

	"github.com/go-ecma3/ecma3/internal/token"
)

// Kind names one of the seven native error constructors of ed.3 §15.11:
// Error is the base kind, used for errors this engine does not further
// classify.
type Kind int

const (
	GenericError Kind = iota
	EvalError
	RangeError
	ReferenceError
	SyntaxError
	TypeErrorKind
	URIError
)

func (k Kind) String() string {
	switch k {
	case EvalError:
		return "EvalError"
	case RangeError:
		return "RangeError"
	case ReferenceError:
		return "ReferenceError"
	case SyntaxError:
		return "SyntaxError"
	case TypeErrorKind:
		return "TypeError"
	case URIError:
		return "URIError"
	default:
		return "Error"
	}
}

// EngineError represents a single compile-time or runtime error with
// position and source context, classified by Kind.
type EngineError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// New creates an EngineError of the given kind.
func New(kind Kind, pos token.Position, message, source, file string) *EngineError {
	return &EngineError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

// Syntax is a convenience constructor for the parser's single most common
// error kind.
func Syntax(pos token.Position, message, source, file string) *EngineError {
	return New(SyntaxError, pos, message, source, file)
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return e.Format(false)
}

// Format formats the error message with source context. If color is
// true, ANSI color codes are used for terminal output.
func (e *EngineError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s: %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if sourceLine := e.getSourceLine(e.Pos.Line); sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *EngineError) getSourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors formats multiple errors, one after another.
func FormatErrors(errs []*EngineError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s):\n\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(errs))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
