// lexer_test.go
package zpy

import (
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	return NewLexer(src).Scan()
}

func kindsWithoutEOF(tokens []Token) []TokenKind {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Kind == EOF {
		end--
	}
	out := make([]TokenKind, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Kind)
	}
	return out
}

func wantKinds(t *testing.T, src string, want []TokenKind) []Token {
	t.Helper()
	got := toks(t, src)
	gotKinds := kindsWithoutEOF(got)
	if !reflect.DeepEqual(gotKinds, want) {
		t.Fatalf("\nsource:\n%s\nwant kinds:\n%v\ngot kinds:\n%v\n", src, want, gotKinds)
	}
	return got
}

func Test_Lexer_Assignment(t *testing.T) {
	wantKinds(t, "x = 5 + 3\n", []TokenKind{
		ID, ASSIGN, INT, PLUS, INT, NEWLINE,
	})
}

func Test_Lexer_Keywords(t *testing.T) {
	wantKinds(t, "if elif else while for in def return break continue pass del and or not true false none\n",
		[]TokenKind{
			IF, ELIF, ELSE, WHILE, FOR, IN, DEF, RETURN, BREAK, CONTINUE,
			PASS, DEL, AND, OR, NOT, TRUE, FALSE, NONE, NEWLINE,
		})
}

func Test_Lexer_TwoCharOperators(t *testing.T) {
	wantKinds(t, "a == b != c <= d >= e += 1 -= 2 *= 3 /= 4 %= 5\n", []TokenKind{
		ID, EQ, ID, NEQ, ID, LE, ID, GE, ID,
		PLUSEQ, INT, MINUSEQ, INT, STAREQ, INT, SLASHEQ, INT, PCTEQ, INT,
		NEWLINE,
	})
}

func Test_Lexer_NoDoubleStarLexeme(t *testing.T) {
	wantKinds(t, "a ** b\n", []TokenKind{ID, STAR, STAR, ID, NEWLINE})
}

func Test_Lexer_IndentDedent(t *testing.T) {
	src := "if x:\n    y = 1\nz = 2\n"
	wantKinds(t, src, []TokenKind{
		IF, ID, COLON, NEWLINE,
		INDENT, ID, ASSIGN, INT, NEWLINE,
		DEDENT, ID, ASSIGN, INT, NEWLINE,
	})
}

func Test_Lexer_DoubleDedentOnOneLine(t *testing.T) {
	src := "if a:\n    if b:\n        x = 1\ny = 2\n"
	wantKinds(t, src, []TokenKind{
		IF, ID, COLON, NEWLINE,
		INDENT, IF, ID, COLON, NEWLINE,
		INDENT, ID, ASSIGN, INT, NEWLINE,
		DEDENT, DEDENT, ID, ASSIGN, INT, NEWLINE,
	})
}

func Test_Lexer_DedentsDrainAtEOF(t *testing.T) {
	src := "if a:\n    if b:\n        x = 1\n"
	tokens := toks(t, src)
	n := len(tokens)
	if n < 3 || tokens[n-1].Kind != EOF ||
		tokens[n-2].Kind != DEDENT || tokens[n-3].Kind != DEDENT {
		t.Fatalf("want ... DEDENT DEDENT EOF, got tail %v", kindsWithoutEOF(tokens))
	}
}

func Test_Lexer_BlankLinesDoNotTouchIndentStack(t *testing.T) {
	src := "if x:\n    a = 1\n\n    # comment\n    b = 2\n"
	wantKinds(t, src, []TokenKind{
		IF, ID, COLON, NEWLINE,
		INDENT, ID, ASSIGN, INT, NEWLINE,
		NEWLINE,
		NEWLINE,
		ID, ASSIGN, INT, NEWLINE,
		DEDENT,
	})
}

func Test_Lexer_TabCountsAsFourSpaces(t *testing.T) {
	src := "if x:\n\ty = 1\nz = 2\n"
	wantKinds(t, src, []TokenKind{
		IF, ID, COLON, NEWLINE,
		INDENT, ID, ASSIGN, INT, NEWLINE,
		DEDENT, ID, ASSIGN, INT, NEWLINE,
	})
}

func Test_Lexer_Numbers(t *testing.T) {
	got := wantKinds(t, "42 3.14 5.\n", []TokenKind{INT, FLOAT, INT, DOT, NEWLINE})
	if got[0].Lexeme != "42" || got[1].Lexeme != "3.14" || got[2].Lexeme != "5" {
		t.Fatalf("bad lexemes: %q %q %q", got[0].Lexeme, got[1].Lexeme, got[2].Lexeme)
	}
}

func Test_Lexer_StringLexemeIsRaw(t *testing.T) {
	got := wantKinds(t, `s = "a\n'b'"`+"\n", []TokenKind{ID, ASSIGN, STRING, NEWLINE})
	if got[2].Lexeme != `"a\n'b'"` {
		t.Fatalf("want raw lexeme with quotes, got %q", got[2].Lexeme)
	}
}

func Test_Lexer_SingleQuotedString(t *testing.T) {
	got := wantKinds(t, "'hi'\n", []TokenKind{STRING, NEWLINE})
	if got[0].Lexeme != "'hi'" {
		t.Fatalf("got %q", got[0].Lexeme)
	}
}

func Test_Lexer_UnterminatedStringIsInvalid(t *testing.T) {
	wantKinds(t, "\"oops\n", []TokenKind{INVALID, NEWLINE})
}

func Test_Lexer_CommentsSkipped(t *testing.T) {
	wantKinds(t, "x = 1  # trailing comment\n", []TokenKind{ID, ASSIGN, INT, NEWLINE})
}

func Test_Lexer_Positions(t *testing.T) {
	tokens := toks(t, "x = 1\ny = 2\n")
	if tokens[0].Line != 1 || tokens[0].Col != 0 {
		t.Fatalf("first token at %d:%d", tokens[0].Line, tokens[0].Col)
	}
	// tokens: x = 1 NEWLINE y ...
	y := tokens[4]
	if y.Lexeme != "y" || y.Line != 2 || y.Col != 0 {
		t.Fatalf("want y at 2:0, got %q at %d:%d", y.Lexeme, y.Line, y.Col)
	}
}

func Test_Lexer_Semicolons(t *testing.T) {
	wantKinds(t, "a = 1; b = 2\n", []TokenKind{
		ID, ASSIGN, INT, SEMI, ID, ASSIGN, INT, NEWLINE,
	})
}

func Test_Lexer_BangAloneIsInvalid(t *testing.T) {
	wantKinds(t, "!x\n", []TokenKind{INVALID, ID, NEWLINE})
}
