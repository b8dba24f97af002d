// lexer.go — tokenizer for zpy with Python-style significant indentation.
//
// The scanner walks the source byte by byte and produces one token per
// NextToken call. Indentation is tracked with a stack (initially [0]):
// at the start of each logical line the indentation width is measured
// (space = 1, tab = 4); a wider line pushes the stack and emits INDENT,
// a narrower line pops every deeper entry and queues one DEDENT per pop.
// Queued dedents are drained one per call, never batched. Blank and
// comment-only lines are skipped for indentation purposes but still
// yield their NEWLINE. At end of input the stack is drained as trailing
// DEDENTs before EOF.
//
// Lexemes are raw source slices. String lexemes keep their quotes and
// escape backslashes untouched; escape decoding happens in the parser.
// The scanner never fails hard: anything it cannot recognize becomes a
// single INVALID token and scanning continues.
package zpy

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	// Special
	EOF TokenKind = iota
	INVALID
	NEWLINE
	INDENT
	DEDENT

	// Literals & identifiers
	ID
	INT
	FLOAT
	STRING

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COLON    // ":"
	COMMA    // ","
	DOT      // "."
	SEMI     // ";"

	// Operators
	PLUS    // "+"
	MINUS   // "-"
	STAR    // "*"
	SLASH   // "/"
	PERCENT // "%"
	ASSIGN  // "="
	EQ      // "=="
	NEQ     // "!="
	LT      // "<"
	GT      // ">"
	LE      // "<="
	GE      // ">="
	PLUSEQ  // "+="
	MINUSEQ // "-="
	STAREQ  // "*="
	SLASHEQ // "/="
	PCTEQ   // "%="

	// Keywords
	AND
	OR
	NOT
	IF
	ELIF
	ELSE
	WHILE
	FOR
	IN
	DEF
	RETURN
	BREAK
	CONTINUE
	PASS
	DEL
	TRUE
	FALSE
	NONE
)

// Token is a lexical token. Lexeme is the raw source slice the token was
// scanned from (strings keep quotes and backslashes). Line is 1-based,
// Col is 0-based.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Col    int
}

var keywords = map[string]TokenKind{
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"def":      DEF,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"pass":     PASS,
	"del":      DEL,
	"true":     TRUE,
	"false":    FALSE,
	"none":     NONE,
}

// Lexer scans a zpy source string into tokens.
type Lexer struct {
	src  string
	cur  int
	line int // 1-based
	col  int // 0-based column within line

	indents     []int // indentation stack, always starts [0]
	pendDedents int   // dedents queued for emission, one per NextToken
	atLineStart bool
}

// NewLexer creates a lexer over the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:         src,
		line:        1,
		indents:     []int{0},
		atLineStart: true,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func (l *Lexer) makeToken(kind TokenKind, start, line, col int) Token {
	return Token{Kind: kind, Lexeme: l.src[start:l.cur], Line: line, Col: col}
}

// measureIndent consumes leading spaces/tabs and returns the indentation
// width (space = 1, tab = 4). Carriage returns are skipped silently.
func (l *Lexer) measureIndent() int {
	width := 0
	for {
		b, ok := l.peek()
		if !ok {
			break
		}
		switch b {
		case ' ':
			width++
		case '\t':
			width += 4
		case '\r':
			// width unchanged
		default:
			return width
		}
		l.advance()
	}
	return width
}

// lineIsBlank reports whether the rest of the current line holds only a
// comment or nothing at all. The cursor is not moved.
func (l *Lexer) lineIsBlank() bool {
	b, ok := l.peek()
	if !ok {
		return true
	}
	return b == '\n' || b == '#'
}

// handleLineStart updates the indentation stack for a fresh logical line.
// Returns an INDENT token when the stack grew; dedents are queued in
// pendDedents and emitted by NextToken one at a time.
func (l *Lexer) handleLineStart() (Token, bool) {
	line, col := l.line, l.col
	width := l.measureIndent()
	l.atLineStart = false

	// Blank and comment-only lines never touch the stack.
	if l.lineIsBlank() {
		return Token{}, false
	}

	top := l.indents[len(l.indents)-1]
	if width > top {
		l.indents = append(l.indents, width)
		return Token{Kind: INDENT, Line: line, Col: col}, true
	}
	for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
		l.indents = l.indents[:len(l.indents)-1]
		l.pendDedents++
	}
	return Token{}, false
}

// skipComment consumes a '#' comment up to (not including) the newline.
func (l *Lexer) skipComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// scanString consumes a quoted string, leaving the cursor past the
// closing quote. The raw lexeme (quotes and backslashes included) is the
// token text. An unterminated string produces an INVALID token.
func (l *Lexer) scanString(quote byte, start, line, col int) Token {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return l.makeToken(INVALID, start, line, col)
		}
		if b == '\\' {
			l.advance()
			l.advance() // escaped char, whatever it is
			continue
		}
		l.advance()
		if b == quote {
			return l.makeToken(STRING, start, line, col)
		}
	}
}

// scanNumber consumes a digit run, extending to a float only when a dot
// is directly followed by another digit ("5." stays an INT plus a DOT).
func (l *Lexer) scanNumber(start, line, col int) Token {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // consume '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
			return l.makeToken(FLOAT, start, line, col)
		}
	}
	return l.makeToken(INT, start, line, col)
}

// twoChar tries a two-character operator; fallback is the given
// single-character kind.
func (l *Lexer) twoChar(next byte, twoKind, oneKind TokenKind, start, line, col int) Token {
	if b, ok := l.peek(); ok && b == next {
		l.advance()
		return l.makeToken(twoKind, start, line, col)
	}
	return l.makeToken(oneKind, start, line, col)
}

// NextToken produces the next token. Queued dedents come out first, one
// per call; at end of input the indentation stack is drained before EOF.
func (l *Lexer) NextToken() Token {
	if l.pendDedents > 0 {
		l.pendDedents--
		return Token{Kind: DEDENT, Line: l.line, Col: l.col}
	}

	for {
		if l.atLineStart && !l.isAtEnd() {
			if tok, ok := l.handleLineStart(); ok {
				return tok
			}
			if l.pendDedents > 0 {
				l.pendDedents--
				return Token{Kind: DEDENT, Line: l.line, Col: l.col}
			}
		}

		if l.isAtEnd() {
			if len(l.indents) > 1 {
				l.indents = l.indents[:len(l.indents)-1]
				return Token{Kind: DEDENT, Line: l.line, Col: l.col}
			}
			return Token{Kind: EOF, Line: l.line, Col: l.col}
		}

		start, line, col := l.cur, l.line, l.col
		ch, _ := l.advance()

		switch ch {
		case ' ', '\t', '\r':
			continue
		case '\n':
			l.atLineStart = true
			return Token{Kind: NEWLINE, Lexeme: "\n", Line: line, Col: col}
		case '#':
			l.skipComment()
			continue
		case '(':
			return l.makeToken(LPAREN, start, line, col)
		case ')':
			return l.makeToken(RPAREN, start, line, col)
		case '[':
			return l.makeToken(LBRACKET, start, line, col)
		case ']':
			return l.makeToken(RBRACKET, start, line, col)
		case '{':
			return l.makeToken(LBRACE, start, line, col)
		case '}':
			return l.makeToken(RBRACE, start, line, col)
		case ':':
			return l.makeToken(COLON, start, line, col)
		case ',':
			return l.makeToken(COMMA, start, line, col)
		case '.':
			return l.makeToken(DOT, start, line, col)
		case ';':
			return l.makeToken(SEMI, start, line, col)
		case '+':
			return l.twoChar('=', PLUSEQ, PLUS, start, line, col)
		case '-':
			return l.twoChar('=', MINUSEQ, MINUS, start, line, col)
		case '*':
			// There is no "**" lexeme; two stars come out as two
			// separate STAR tokens.
			return l.twoChar('=', STAREQ, STAR, start, line, col)
		case '/':
			return l.twoChar('=', SLASHEQ, SLASH, start, line, col)
		case '%':
			return l.twoChar('=', PCTEQ, PERCENT, start, line, col)
		case '=':
			return l.twoChar('=', EQ, ASSIGN, start, line, col)
		case '!':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.makeToken(NEQ, start, line, col)
			}
			return l.makeToken(INVALID, start, line, col)
		case '<':
			return l.twoChar('=', LE, LT, start, line, col)
		case '>':
			return l.twoChar('=', GE, GT, start, line, col)
		case '"', '\'':
			return l.scanString(ch, start, line, col)
		}

		if isDigit(ch) {
			return l.scanNumber(start, line, col)
		}

		if isAlpha(ch) {
			for {
				b, ok := l.peek()
				if !ok || !isAlphaNum(b) {
					break
				}
				l.advance()
			}
			lex := l.src[start:l.cur]
			if kw, ok := keywords[lex]; ok {
				return Token{Kind: kw, Lexeme: lex, Line: line, Col: col}
			}
			return Token{Kind: ID, Lexeme: lex, Line: line, Col: col}
		}

		return l.makeToken(INVALID, start, line, col)
	}
}

// Scan tokenizes the entire source, EOF token included.
func (l *Lexer) Scan() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens
		}
	}
}
