// parser.go — recursive-descent parser for zpy.
//
// The parser consumes the token slice produced by the lexer and builds
// the ordered list of top-level statements. Expressions use precedence
// climbing, low to high:
//
//	or → and → prefix not → comparison (== != < > <= >= and the
//	in / not in membership forms) → + - → * / % → unary - →
//	postfix ([...] indexing, (...) call on a bare identifier,
//	.name(...) method call) → primary
//
// All binary tiers are strictly left-associative; chained comparisons
// build left-leaning trees with no special chaining semantics.
//
// Statements are keyword-dispatched. A bare expression statement is
// re-examined after parsing: followed by '=' and the expression is an
// identifier or index expression, it becomes an assignment; followed by
// an augmented operator and the expression is an identifier, it becomes
// an augmented assignment; otherwise it stays an expression statement.
// `del` demands a target that parsed as an index expression.
//
// A block is either a single inline statement after the ':' or an
// INDENT-delimited statement sequence closed by DEDENT.
//
// Error recovery: a statement parse failure is recorded, tokens are
// discarded up to the next NEWLINE/';' or a block-starting keyword
// (if/while/for), and parsing resumes. Later valid statements still
// parse. String escape decoding happens here, in primary-expression
// handling, not in the lexer.
package zpy

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser walks a token slice. Parse failures are raised internally as
// *ParseError panics and recovered per statement.
type Parser struct {
	toks []Token
	pos  int
	errs []*ParseError
}

// NewParser creates a parser over tokens (EOF-terminated, as produced
// by Lexer.Scan).
func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// ParseSource lexes and parses src. The returned Program holds every
// statement that parsed; the error slice holds every syntax failure
// encountered (empty on clean input).
func ParseSource(src string) (*Program, []*ParseError) {
	toks := NewLexer(src).Scan()
	return NewParser(toks).Parse()
}

// Parse consumes the whole token slice.
func (p *Parser) Parse() (*Program, []*ParseError) {
	prog := &Program{}
	for {
		p.skipSeparators()
		if p.check(DEDENT) {
			// Residue of an earlier indentation error; at top level a
			// dedent carries no structure, and synchronize leaves it in
			// place for block loops, so discard it here to keep making
			// progress.
			p.advance()
			continue
		}
		if p.cur().Kind == EOF {
			break
		}
		if stmt := p.parseStatementRecover(); stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
	}
	return prog, p.errs
}

// ----- token helpers -----

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekKind() TokenKind {
	if p.pos+1 >= len(p.toks) {
		return EOF
	}
	return p.toks[p.pos+1].Kind
}

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) check(kind TokenKind) bool { return p.cur().Kind == kind }

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind, msg string) Token {
	if p.check(kind) {
		return p.advance()
	}
	p.fail(msg)
	return Token{}
}

// fail raises a *ParseError at the current token. A failure at EOF is
// marked Incomplete so REPLs can keep reading.
func (p *Parser) fail(msg string) {
	t := p.cur()
	panic(&ParseError{
		Line:       t.Line,
		Col:        t.Col,
		Msg:        msg,
		Incomplete: t.Kind == EOF,
	})
}

func (p *Parser) skipSeparators() {
	for p.check(NEWLINE) || p.check(SEMI) {
		p.advance()
	}
}

func tokenPos(t Token) Pos { return Pos{Line: t.Line, Col: t.Col} }

// ----- statement level -----

// parseStatementRecover runs one statement parse, converting a failure
// into a recorded error plus resynchronization.
func (p *Parser) parseStatementRecover() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			p.errs = append(p.errs, pe)
			p.synchronize()
			stmt = nil
		}
	}()
	return p.parseStatement()
}

// synchronize discards tokens up to (and including) the next NEWLINE or
// ';', or stops just before a block-starting keyword, DEDENT or EOF.
func (p *Parser) synchronize() {
	for {
		switch p.cur().Kind {
		case EOF, DEDENT:
			return
		case NEWLINE, SEMI:
			p.advance()
			return
		case IF, WHILE, FOR:
			return
		default:
			p.advance()
		}
	}
}

func (p *Parser) parseStatement() Stmt {
	t := p.cur()
	switch t.Kind {
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case FOR:
		return p.parseFor()
	case DEF:
		return p.parseDef()
	case RETURN:
		p.advance()
		var val Expr
		if !p.atStatementEnd() {
			val = p.parseExpression()
		}
		p.endStatement()
		return &ReturnStmt{Pos: tokenPos(t), Value: val}
	case BREAK:
		p.advance()
		p.endStatement()
		return &BreakStmt{Pos: tokenPos(t)}
	case CONTINUE:
		p.advance()
		p.endStatement()
		return &ContinueStmt{Pos: tokenPos(t)}
	case PASS:
		p.advance()
		p.endStatement()
		return &PassStmt{Pos: tokenPos(t)}
	case DEL:
		p.advance()
		target := p.parseExpression()
		idx, ok := target.(*IndexExpr)
		if !ok {
			p.fail("del target must be an index expression")
		}
		p.endStatement()
		return &DelStmt{Pos: tokenPos(t), Object: idx.Object, Index: idx.Index}
	case INDENT:
		p.fail("unexpected indent")
	case INVALID:
		p.fail(fmt.Sprintf("unexpected character %q", t.Lexeme))
	}

	// Bare expression; re-examine for assignment forms.
	expr := p.parseExpression()
	switch {
	case p.check(ASSIGN):
		p.advance()
		val := p.parseExpression()
		p.endStatement()
		switch lhs := expr.(type) {
		case *Ident:
			return &AssignStmt{Pos: tokenPos(t), Name: lhs.Name, Value: val}
		case *IndexExpr:
			return &IndexAssignStmt{Pos: tokenPos(t), Object: lhs.Object, Index: lhs.Index, Value: val}
		default:
			p.fail("invalid assignment target")
		}
	case isAugAssign(p.cur().Kind):
		opTok := p.advance()
		val := p.parseExpression()
		p.endStatement()
		lhs, ok := expr.(*Ident)
		if !ok {
			p.fail("augmented assignment target must be a name")
		}
		return &AugAssignStmt{Pos: tokenPos(t), Name: lhs.Name, Op: augOp(opTok.Kind), Value: val}
	}
	p.endStatement()
	return &ExprStmt{Pos: tokenPos(t), Expr: expr}
}

func isAugAssign(k TokenKind) bool {
	switch k {
	case PLUSEQ, MINUSEQ, STAREQ, SLASHEQ, PCTEQ:
		return true
	}
	return false
}

func augOp(k TokenKind) string {
	switch k {
	case PLUSEQ:
		return "+"
	case MINUSEQ:
		return "-"
	case STAREQ:
		return "*"
	case SLASHEQ:
		return "/"
	default:
		return "%"
	}
}

func (p *Parser) atStatementEnd() bool {
	switch p.cur().Kind {
	case NEWLINE, SEMI, EOF, DEDENT:
		return true
	}
	return false
}

// endStatement consumes a statement terminator. DEDENT and EOF are left
// for the enclosing block to see.
func (p *Parser) endStatement() {
	switch p.cur().Kind {
	case NEWLINE, SEMI:
		p.advance()
	case EOF, DEDENT:
		// block/program boundary closes the statement
	default:
		p.fail(fmt.Sprintf("unexpected token %q after statement", p.cur().Lexeme))
	}
}

// ----- compound statements -----

func (p *Parser) parseIf() Stmt {
	t := p.advance() // IF
	cond := p.parseExpression()
	then := p.parseBlock()
	stmt := &IfStmt{Pos: tokenPos(t), Cond: cond, Then: then}
	for p.check(ELIF) {
		p.advance()
		c := p.parseExpression()
		b := p.parseBlock()
		stmt.Elifs = append(stmt.Elifs, ElifBranch{Cond: c, Body: b})
	}
	if p.match(ELSE) {
		stmt.Else = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseWhile() Stmt {
	t := p.advance()
	cond := p.parseExpression()
	body := p.parseBlock()
	return &WhileStmt{Pos: tokenPos(t), Cond: cond, Body: body}
}

func (p *Parser) parseFor() Stmt {
	t := p.advance()
	name := p.expect(ID, "expected loop variable name after 'for'")
	p.expect(IN, "expected 'in' in for statement")
	iter := p.parseExpression()
	body := p.parseBlock()
	return &ForStmt{Pos: tokenPos(t), Var: name.Lexeme, Iterable: iter, Body: body}
}

func (p *Parser) parseDef() Stmt {
	t := p.advance()
	name := p.expect(ID, "expected function name after 'def'")
	p.expect(LPAREN, "expected '(' after function name")
	var params []string
	if !p.check(RPAREN) {
		for {
			pn := p.expect(ID, "expected parameter name")
			params = append(params, pn.Lexeme)
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.expect(RPAREN, "expected ')' after parameters")
	body := p.parseBlock()
	return &FuncDefStmt{Pos: tokenPos(t), Name: name.Lexeme, Params: params, Body: body}
}

// parseBlock parses ':' followed by either one inline statement or an
// INDENT-delimited sequence terminated by DEDENT (which is consumed).
func (p *Parser) parseBlock() *BlockStmt {
	colon := p.expect(COLON, "expected ':'")
	blk := &BlockStmt{Pos: tokenPos(colon)}

	if !p.check(NEWLINE) {
		// Inline form: a single statement on the same line.
		blk.Stmts = append(blk.Stmts, p.parseStatement())
		return blk
	}
	p.advance() // NEWLINE
	p.skipSeparators()
	if p.cur().Kind == EOF {
		p.fail("expected an indented block")
	}
	p.expect(INDENT, "expected an indented block")
	for {
		p.skipSeparators()
		switch p.cur().Kind {
		case DEDENT:
			p.advance()
			return blk
		case EOF:
			p.fail("unexpected end of input inside block")
		}
		if stmt := p.parseStatementRecover(); stmt != nil {
			blk.Stmts = append(blk.Stmts, stmt)
		}
	}
}

// ----- expression level -----

func (p *Parser) parseExpression() Expr { return p.parseOr() }

func (p *Parser) parseOr() Expr {
	left := p.parseAnd()
	for p.check(OR) {
		t := p.advance()
		right := p.parseAnd()
		left = &BinaryExpr{Pos: tokenPos(t), Op: "or", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() Expr {
	left := p.parseNot()
	for p.check(AND) {
		t := p.advance()
		right := p.parseNot()
		left = &BinaryExpr{Pos: tokenPos(t), Op: "and", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseNot() Expr {
	if p.check(NOT) {
		t := p.advance()
		return &UnaryExpr{Pos: tokenPos(t), Op: "not", Operand: p.parseNot()}
	}
	return p.parseComparison()
}

func comparisonOp(k TokenKind) (string, bool) {
	switch k {
	case EQ:
		return "==", true
	case NEQ:
		return "!=", true
	case LT:
		return "<", true
	case GT:
		return ">", true
	case LE:
		return "<=", true
	case GE:
		return ">=", true
	}
	return "", false
}

// parseComparison also hosts the membership forms, which sit at the same
// precedence tier as the comparison operators.
func (p *Parser) parseComparison() Expr {
	left := p.parseAdditive()
	for {
		if op, ok := comparisonOp(p.cur().Kind); ok {
			t := p.advance()
			right := p.parseAdditive()
			left = &BinaryExpr{Pos: tokenPos(t), Op: op, Left: left, Right: right}
			continue
		}
		if p.check(IN) {
			t := p.advance()
			right := p.parseAdditive()
			left = &MembershipExpr{Pos: tokenPos(t), Value: left, Collection: right}
			continue
		}
		if p.check(NOT) && p.peekKind() == IN {
			t := p.advance()
			p.advance() // IN
			right := p.parseAdditive()
			left = &MembershipExpr{Pos: tokenPos(t), Value: left, Collection: right, Negated: true}
			continue
		}
		return left
	}
}

func (p *Parser) parseAdditive() Expr {
	left := p.parseMultiplicative()
	for p.check(PLUS) || p.check(MINUS) {
		t := p.advance()
		op := "+"
		if t.Kind == MINUS {
			op = "-"
		}
		right := p.parseMultiplicative()
		left = &BinaryExpr{Pos: tokenPos(t), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() Expr {
	left := p.parseUnary()
	for p.check(STAR) || p.check(SLASH) || p.check(PERCENT) {
		t := p.advance()
		var op string
		switch t.Kind {
		case STAR:
			op = "*"
		case SLASH:
			op = "/"
		default:
			op = "%"
		}
		right := p.parseUnary()
		left = &BinaryExpr{Pos: tokenPos(t), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() Expr {
	if p.check(MINUS) {
		t := p.advance()
		return &UnaryExpr{Pos: tokenPos(t), Op: "-", Operand: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case LBRACKET:
			t := p.advance()
			idx := p.parseExpression()
			p.expect(RBRACKET, "expected ']' after index")
			expr = &IndexExpr{Pos: tokenPos(t), Object: expr, Index: idx}
		case LPAREN:
			ident, ok := expr.(*Ident)
			if !ok {
				p.fail("only named functions can be called")
			}
			t := p.advance()
			args := p.parseArgs()
			expr = &CallExpr{Pos: tokenPos(t), Name: ident.Name, Args: args}
		case DOT:
			t := p.advance()
			name := p.expect(ID, "expected method name after '.'")
			p.expect(LPAREN, "expected '(' after method name")
			args := p.parseArgs()
			expr = &MethodCallExpr{Pos: tokenPos(t), Object: expr, Method: name.Lexeme, Args: args}
		default:
			return expr
		}
	}
}

// parseArgs reads a comma-separated argument list; the '(' is already
// consumed.
func (p *Parser) parseArgs() []Expr {
	var args []Expr
	if p.match(RPAREN) {
		return args
	}
	for {
		args = append(args, p.parseExpression())
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(RPAREN, "expected ')' after arguments")
	return args
}

func (p *Parser) parsePrimary() Expr {
	t := p.cur()
	switch t.Kind {
	case INT:
		p.advance()
		n, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			p.fail("integer literal out of range")
		}
		return &IntLit{Pos: tokenPos(t), Value: n}
	case FLOAT:
		p.advance()
		f, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			p.fail("invalid float literal")
		}
		return &FloatLit{Pos: tokenPos(t), Value: f}
	case STRING:
		p.advance()
		return &StringLit{Pos: tokenPos(t), Value: decodeString(t.Lexeme)}
	case TRUE:
		p.advance()
		return &BoolLit{Pos: tokenPos(t), Value: true}
	case FALSE:
		p.advance()
		return &BoolLit{Pos: tokenPos(t), Value: false}
	case NONE:
		p.advance()
		return &NoneLit{Pos: tokenPos(t)}
	case ID:
		p.advance()
		return &Ident{Pos: tokenPos(t), Name: t.Lexeme}
	case LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(RPAREN, "expected ')'")
		return expr
	case LBRACKET:
		p.advance()
		lst := &ListLit{Pos: tokenPos(t)}
		if p.match(RBRACKET) {
			return lst
		}
		for {
			lst.Elems = append(lst.Elems, p.parseExpression())
			if !p.match(COMMA) {
				break
			}
			if p.check(RBRACKET) {
				break // trailing comma
			}
		}
		p.expect(RBRACKET, "expected ']' after list elements")
		return lst
	case LBRACE:
		p.advance()
		d := &DictLit{Pos: tokenPos(t)}
		if p.match(RBRACE) {
			return d
		}
		for {
			key := p.parseExpression()
			p.expect(COLON, "expected ':' after dict key")
			val := p.parseExpression()
			d.Keys = append(d.Keys, key)
			d.Values = append(d.Values, val)
			if !p.match(COMMA) {
				break
			}
			if p.check(RBRACE) {
				break // trailing comma
			}
		}
		p.expect(RBRACE, "expected '}' after dict entries")
		return d
	}
	p.fail(fmt.Sprintf("expected expression, found %q", t.Lexeme))
	return nil
}

// decodeString strips the quotes from a raw string lexeme and processes
// escapes: \n \t \r \\ \" \' \0 map to their characters; an unknown
// escape passes the following character through literally.
func decodeString(lexeme string) string {
	if len(lexeme) < 2 {
		return ""
	}
	body := lexeme[1 : len(lexeme)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '0':
			b.WriteByte(0)
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
