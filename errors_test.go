package zpy

import (
	"errors"
	"strings"
	"testing"
)

func Test_Errors_KindNames(t *testing.T) {
	cases := map[ErrKind]string{
		ErrUndefinedVariable:    "UndefinedVariable",
		ErrType:                 "TypeError",
		ErrDivisionByZero:       "DivisionByZero",
		ErrIndexOutOfBounds:     "IndexOutOfBounds",
		ErrKeyNotFound:          "KeyNotFound",
		ErrUnsupportedOperation: "UnsupportedOperation",
		ErrOutOfMemory:          "OutOfMemory",
		ErrBuiltin:              "BuiltinError",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}

func Test_Errors_SnippetHasCaret(t *testing.T) {
	src := "a = 1\nb = zz\nc = 3\n"
	_, err := NewInterpreter().EvalSource(src)
	if err == nil {
		t.Fatal("want runtime error")
	}
	wrapped := WrapErrorWithName(err, "test.zpy", src)
	out := wrapped.Error()
	if !strings.Contains(out, "test.zpy") {
		t.Fatalf("missing source name:\n%s", out)
	}
	if !strings.Contains(out, "b = zz") || !strings.Contains(out, "^") {
		t.Fatalf("missing snippet or caret:\n%s", out)
	}
	if !strings.Contains(out, "a = 1") || !strings.Contains(out, "c = 3") {
		t.Fatalf("missing context lines:\n%s", out)
	}
}

func Test_Errors_WrapPassesThroughForeignErrors(t *testing.T) {
	plain := errors.New("boring")
	if WrapErrorWithName(plain, "x", "") != plain {
		t.Fatal("unknown error types should pass through")
	}
}

func Test_Errors_IsIncompleteOnlyForParseErrors(t *testing.T) {
	if IsIncomplete(errors.New("nope")) {
		t.Fatal("plain errors are never incomplete")
	}
	if IsIncomplete(&ParseError{Msg: "x"}) {
		t.Fatal("Incomplete flag should be required")
	}
	if !IsIncomplete(&ParseError{Msg: "x", Incomplete: true}) {
		t.Fatal("flagged parse errors should report incomplete")
	}
}
