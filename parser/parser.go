// Recursive descent parser with precedence climbing for expressions.
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// A recursive descent parser is a top-down parser: it starts from the
// topmost grammar rule (a program) and works its way down into nested
// sub-expressions before reaching the leaves of the syntax tree (the
// terminal tokens). The parser consumes a pre-tokenized slice with a
// single cursor; per §4.1 it never rewinds more than one token.
package parser

import (
	"fmt"

	"tinybasic/ast"
	"tinybasic/token"
)

type precedenceEntry struct {
	level int
	text  string
}

// binaryPrecedence is the 6-level precedence table from §4.1, lowest to
// highest: OR, AND, equality/relational, term, factor, power.
var binaryPrecedence = map[token.Kind]precedenceEntry{
	token.OR:      {1, "OR"},
	token.AND:     {2, "AND"},
	token.EQ:      {3, "=="},
	token.NEQ:     {3, "!="},
	token.LT:      {3, "<"},
	token.LTE:     {3, "<="},
	token.GT:      {3, ">"},
	token.GTE:     {3, ">="},
	token.PLUS:    {4, "+"},
	token.MINUS:   {4, "-"},
	token.STAR:    {5, "*"},
	token.SLASH:   {5, "/"},
	token.PERCENT: {5, "%"},
	token.CARET:   {6, "^"},
}

var builtinNames = map[token.Kind]string{
	token.LEN:   "len",
	token.VAL:   "val",
	token.ISNAN: "isnan",
}

// Parser consumes a token slice produced by the lexer and builds an AST.
// NOTE: the parser's position always names the token that has not yet been
// consumed (mirrors the teacher's one-token-lookahead convention).
type Parser struct {
	tokens   []token.Token
	position int
}

// Make constructs a Parser over the given token slice.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, position: 0}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.isFinished() && p.peek().Kind == kind
}

func (p *Parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(kind token.Kind, context string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	found := p.peek()
	return token.Token{}, CreateSyntaxError(found.Line,
		fmt.Sprintf("Expected %s but found %s %q (%s)", kind, found.Kind, found.Text, context))
}

func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) atLineEnd() bool {
	return p.check(token.NEWLINE) || p.isFinished()
}

// ParseProgram is the parser's entry point. It consumes the entire token
// stream and returns a Program node, or the first parse fault encountered
// (§4.1: "The parser does not attempt recovery").
func (p *Parser) ParseProgram() (ast.Program, error) {
	line := p.peek().Line
	stmts, err := p.stmtsUntil()
	if err != nil {
		return ast.Program{}, err
	}
	return ast.Program{Stmts: stmts, Line: line}, nil
}

// stmtsUntil parses statements until one of the given terminator kinds is
// the current token, or the stream is exhausted. Blank lines between
// statements are skipped; a NEWLINE terminates the statement that precedes
// it (§4.1).
func (p *Parser) stmtsUntil(terminators ...token.Kind) ([]ast.Stmt, error) {
	stmts := []ast.Stmt{}
	for {
		p.skipNewlines()
		if p.isFinished() || p.atAny(terminators) {
			return stmts, nil
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) atAny(kinds []token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

// statement dispatches off the leading token, per the table in §4.1. Any
// other leading token is a parse fault.
func (p *Parser) statement() (ast.Stmt, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.PRINT:
		p.advance()
		return p.printStatement(tok.Line)
	case token.LET:
		p.advance()
		return p.letStatement(tok.Line)
	case token.IF:
		p.advance()
		return p.ifStatement(tok.Line)
	case token.WHILE:
		p.advance()
		return p.whileStatement(tok.Line)
	case token.REPEAT:
		p.advance()
		return p.repeatStatement(tok.Line)
	case token.FOR:
		p.advance()
		return p.forStatement(tok.Line)
	case token.INPUT:
		p.advance()
		return p.inputStatement(tok.Line)
	case token.CONTINUE:
		p.advance()
		return ast.Continue{Line: tok.Line}, nil
	case token.EXIT:
		p.advance()
		return ast.Exit{Line: tok.Line}, nil
	default:
		return nil, CreateSyntaxError(tok.Line, fmt.Sprintf("Expected statement but found %s %q", tok.Kind, tok.Text))
	}
}

// printStatement: PRINT [ expr (',' expr)* ]
func (p *Parser) printStatement(line int) (ast.Stmt, error) {
	exprs := []ast.Expr{}
	if p.atLineEnd() {
		return ast.Print{Exprs: exprs, Line: line}, nil
	}
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	exprs = append(exprs, first)
	for p.match(token.COMMA) {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return ast.Print{Exprs: exprs, Line: line}, nil
}

// letStatement: LET id = expr | LET id '[' expr ']' = expr
func (p *Parser) letStatement(line int) (ast.Stmt, error) {
	nameTok, err := p.consume(token.IDENT, "variable name")
	if err != nil {
		return nil, err
	}

	if p.match(token.LBRACKET) {
		index, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RBRACKET, "array index"); err != nil {
			return nil, err
		}
		if _, err := p.consume(token.ASSIGN, "array assignment"); err != nil {
			return nil, err
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return ast.AssignIndex{Name: nameTok.Text, Index: index, Value: value, Line: line}, nil
	}

	if _, err := p.consume(token.ASSIGN, "assignment"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return ast.Let{Name: nameTok.Text, Expr: value, Line: line}, nil
}

// ifStatement: IF expr THEN NL? stmt* (ELSE NL? stmt*)? END IF
func (p *Parser) ifStatement(line int) (ast.Stmt, error) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.THEN, "if statement"); err != nil {
		return nil, err
	}

	thenStmts, err := p.stmtsUntil(token.ELSE, token.END)
	if err != nil {
		return nil, err
	}

	var elseStmts []ast.Stmt
	if p.match(token.ELSE) {
		elseStmts, err = p.stmtsUntil(token.END)
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.END, "if statement"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.IF, "end if"); err != nil {
		return nil, err
	}
	return ast.If{Cond: cond, Then: thenStmts, Else: elseStmts, Line: line}, nil
}

// whileStatement: WHILE expr NL? stmt* WEND
func (p *Parser) whileStatement(line int) (ast.Stmt, error) {
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.stmtsUntil(token.WEND)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.WEND, "while statement"); err != nil {
		return nil, err
	}
	return ast.While{Cond: cond, Body: body, Line: line}, nil
}

// repeatStatement: REPEAT NL? stmt* UNTIL expr
func (p *Parser) repeatStatement(line int) (ast.Stmt, error) {
	body, err := p.stmtsUntil(token.UNTIL)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.UNTIL, "repeat statement"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	return ast.Repeat{Body: body, Cond: cond, Line: line}, nil
}

// forStatement: FOR id = expr TO expr (STEP expr)? NL? stmt* NEXT id?
func (p *Parser) forStatement(line int) (ast.Stmt, error) {
	nameTok, err := p.consume(token.IDENT, "loop variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.ASSIGN, "for statement"); err != nil {
		return nil, err
	}
	from, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.TO, "for statement"); err != nil {
		return nil, err
	}
	to, err := p.expression()
	if err != nil {
		return nil, err
	}

	var step ast.Expr
	if p.match(token.STEP) {
		step, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.stmtsUntil(token.NEXT)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.NEXT, "for statement"); err != nil {
		return nil, err
	}
	// NEXT id? — the trailing loop-variable name is optional and, when
	// present, is not re-validated against the opening FOR's variable.
	if p.check(token.IDENT) {
		p.advance()
	}

	return ast.For{Var: nameTok.Text, From: from, To: to, Step: step, Body: body, Line: line}, nil
}

// inputStatement: INPUT id (',' id)*
func (p *Parser) inputStatement(line int) (ast.Stmt, error) {
	first, err := p.consume(token.IDENT, "input variable")
	if err != nil {
		return nil, err
	}
	names := []string{first.Text}
	for p.match(token.COMMA) {
		tok, err := p.consume(token.IDENT, "input variable")
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Text)
	}
	return ast.Input{Names: names, Line: line}, nil
}

// expression is the entry point for precedence climbing, starting at the
// lowest precedence level (OR).
func (p *Parser) expression() (ast.Expr, error) {
	return p.parseBinary(1)
}

// parseBinary implements precedence climbing: all binary operators are
// left-associative, achieved by parsing the right-hand operand at
// `precedence + 1` (§4.1).
func (p *Parser) parseBinary(minPrecedence int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		entry, ok := binaryPrecedence[p.peek().Kind]
		if !ok || entry.level < minPrecedence {
			return left, nil
		}
		opLine := p.peek().Line
		p.advance()
		right, err := p.parseBinary(entry.level + 1)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: entry.text, Left: left, Right: right, Line: opLine}
	}
}

// parseUnary handles unary '-' and NOT, which bind tighter than any binary
// operator and are right-recursive so that `-(-x)` is legal (§4.1).
func (p *Parser) parseUnary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.MINUS:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: "-", Operand: operand, Line: tok.Line}, nil
	case token.NOT:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: "NOT", Operand: operand, Line: tok.Line}, nil
	default:
		return p.primary()
	}
}

// primary parses the leaves of the expression grammar: parenthesized
// sub-expressions, literals, variable references (plain or indexed),
// builtin calls, custom calls, and ARRAY(size) (§4.1).
func (p *Parser) primary() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		return ast.Number{Text: tok.Text, Line: tok.Line}, nil

	case token.STRING:
		p.advance()
		return ast.String{Text: tok.Text, Line: tok.Line}, nil

	case token.LPAREN:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "grouped expression"); err != nil {
			return nil, err
		}
		return inner, nil

	case token.LEN, token.VAL, token.ISNAN:
		p.advance()
		args, err := p.callArgs()
		if err != nil {
			return nil, err
		}
		return ast.FuncCall{Name: builtinNames[tok.Kind], Args: args, Line: tok.Line}, nil

	case token.ARRAY:
		p.advance()
		if _, err := p.consume(token.LPAREN, "array size"); err != nil {
			return nil, err
		}
		size, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "array size"); err != nil {
			return nil, err
		}
		return ast.NewArray{Size: size, Line: tok.Line}, nil

	case token.IDENT:
		p.advance()
		if p.match(token.LBRACKET) {
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRACKET, "array index"); err != nil {
				return nil, err
			}
			return ast.Index{Target: ast.Var{Name: tok.Text, Line: tok.Line}, Index: index, Line: tok.Line}, nil
		}
		if p.check(token.LPAREN) {
			args, err := p.callArgs()
			if err != nil {
				return nil, err
			}
			return ast.CustomCall{Name: tok.Text, Args: args, Line: tok.Line}, nil
		}
		return ast.Var{Name: tok.Text, Line: tok.Line}, nil
	}

	return nil, CreateSyntaxError(tok.Line, fmt.Sprintf("Expected expression but found %s %q", tok.Kind, tok.Text))
}

// callArgs parses a parenthesized, comma-separated argument list.
func (p *Parser) callArgs() ([]ast.Expr, error) {
	if _, err := p.consume(token.LPAREN, "call arguments"); err != nil {
		return nil, err
	}
	args := []ast.Expr{}
	if !p.check(token.RPAREN) {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.match(token.COMMA) {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	if _, err := p.consume(token.RPAREN, "call arguments"); err != nil {
		return nil, err
	}
	return args, nil
}
