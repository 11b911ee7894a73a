// Package errors renders jil diagnostics with source position, a source
// line and caret, grounded on the teacher's internal/errors formatting.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jil-lang/jil/internal/lexer"
)

// Sentinel kinds for the taxonomy of spec.md §7. Callers use errors.Is
// against these to branch on error *kind* rather than message text.
var (
	ErrParse                = errors.New("parse error")
	ErrUnboundName          = errors.New("unbound name")
	ErrUndeclaredAssignment = errors.New("undeclared assignment")
	ErrTypeCast             = errors.New("type cast failure")
	ErrNotImplemented       = errors.New("not implemented")
	ErrJITBuildFailure      = errors.New("jit build failure")
	ErrJITValue             = errors.New("jit value error")
	ErrEmptyBlock           = errors.New("empty block")
)

// CompilerError is a single diagnostic carrying a source position and the
// sentinel Kind it wraps, so it satisfies both fmt.Stringer/error and
// errors.Is/errors.Unwrap.
type CompilerError struct {
	Kind    error
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New creates a CompilerError of the given kind.
func New(kind error, pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Message: message, Source: source, File: file, Pos: pos}
}

func (e *CompilerError) Error() string { return e.Format(false) }

func (e *CompilerError) Unwrap() error { return e.Kind }

// Format renders the error with a file/position header, the offending
// source line and a caret, matching the teacher's CompilerError.Format.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
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

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// RuntimeError is a diagnostic raised by the interpreter or JIT engine
// after parsing, still carrying the AST position that triggered it but with
// no source text attached (interpretation does not retain the full file).
type RuntimeError struct {
	Kind    error
	Message string
	Pos     lexer.Position
}

// Newf creates a RuntimeError of the given kind with a formatted message.
func Newf(kind error, pos lexer.Position, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

func (e *RuntimeError) Unwrap() error { return e.Kind }
