// errors.go — error kinds, runtime error signaling, caret snippets.
//
// Two error families leave this package:
//
//   - *ParseError — produced by the parser (the lexer never fails hard;
//     bad input surfaces as INVALID tokens the parser then rejects).
//     Incomplete marks a failure at end of input, which lets a REPL ask
//     for another line instead of reporting an error.
//   - *Error — a runtime failure with a Kind from the fixed taxonomy
//     below and a source position.
//
// Inside the interpreter runtime failures travel as a panic carrying an
// rtErr value; the public Eval entry points recover it and hand back an
// *Error. Propagation is fail-fast: nothing between the failure point
// and the Eval boundary catches it.
//
// WrapErrorWithName renders either family as a Python-style snippet with
// one line of context above and below and a caret under the offending
// column.
package zpy

import (
	"fmt"
	"strings"
)

// ErrKind classifies runtime errors.
type ErrKind int

const (
	ErrUndefinedVariable ErrKind = iota
	ErrType
	ErrDivisionByZero
	ErrIndexOutOfBounds
	ErrKeyNotFound
	ErrUnsupportedOperation
	ErrOutOfMemory
	ErrBuiltin
)

func (k ErrKind) String() string {
	switch k {
	case ErrUndefinedVariable:
		return "UndefinedVariable"
	case ErrType:
		return "TypeError"
	case ErrDivisionByZero:
		return "DivisionByZero"
	case ErrIndexOutOfBounds:
		return "IndexOutOfBounds"
	case ErrKeyNotFound:
		return "KeyNotFound"
	case ErrUnsupportedOperation:
		return "UnsupportedOperation"
	case ErrOutOfMemory:
		return "OutOfMemory"
	case ErrBuiltin:
		return "BuiltinError"
	}
	return "RuntimeError"
}

// Error is a runtime failure. Line is 1-based, Col 0-based.
type Error struct {
	Kind ErrKind
	Msg  string
	Line int
	Col  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("RUNTIME ERROR (%s) at %d:%d: %s", e.Kind, e.Line, e.Col+1, e.Msg)
}

// ParseError is a syntax failure. The parser resynchronizes after each
// one, so a single parse can report several.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool // failed at end of input (unfinished block etc.)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err is a ParseError caused by premature
// end of input. REPLs use it to keep reading continuation lines.
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Incomplete
}

// ----- internal runtime signaling -----

// rtErr is the panic payload used for runtime failures inside the
// evaluator. Only Eval boundaries recover it.
type rtErr struct {
	kind ErrKind
	msg  string
	line int
	col  int
}

func fail(kind ErrKind, msg string) {
	panic(rtErr{kind: kind, msg: msg})
}

func failAt(kind ErrKind, msg string, pos Pos) {
	panic(rtErr{kind: kind, msg: msg, line: pos.Line, col: pos.Col})
}

// ----- caret snippets -----

// WrapErrorWithName returns an error whose message is a caret-annotated
// snippet of src. ParseError and *Error are recognized; anything else is
// returned unchanged.
func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *ParseError:
		return fmt.Errorf("%s", prettySnippet(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *Error:
		header := fmt.Sprintf("RUNTIME ERROR (%s)", e.Kind)
		return fmt.Errorf("%s", prettySnippet(src, header, srcName, e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// prettySnippet builds the two-context-line snippet with a caret under
// the 1-based column. Coordinates are clamped to the source bounds.
func prettySnippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
