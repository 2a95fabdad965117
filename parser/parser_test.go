package parser

import (
	"testing"

	"tinybasic/ast"
	"tinybasic/lexer"
)

func parseSource(t *testing.T, src string) ast.Program {
	t.Helper()
	lex := lexer.New(src)
	toks, err := lex.Scan()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	prog, err := Make(toks).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestExpressionPrecedence(t *testing.T) {
	prog := parseSource(t, "LET X = 2 + 3 * 4\n")
	let := prog.Stmts[0].(ast.Let)
	bin, ok := let.Expr.(ast.Binary)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %#v", let.Expr)
	}
	right, ok := bin.Right.(ast.Binary)
	if !ok || right.Op != "*" {
		t.Fatalf("expected right operand to be '*', got %#v", bin.Right)
	}
}

func TestUnaryIsRightRecursive(t *testing.T) {
	prog := parseSource(t, "LET X = - - 5\n")
	let := prog.Stmts[0].(ast.Let)
	outer, ok := let.Expr.(ast.Unary)
	if !ok || outer.Op != "-" {
		t.Fatalf("expected outer unary '-', got %#v", let.Expr)
	}
	inner, ok := outer.Operand.(ast.Unary)
	if !ok || inner.Op != "-" {
		t.Fatalf("expected inner unary '-', got %#v", outer.Operand)
	}
}

func TestBinaryOperatorsAreLeftAssociative(t *testing.T) {
	prog := parseSource(t, "LET X = 1 - 2 - 3\n")
	let := prog.Stmts[0].(ast.Let)
	top, ok := let.Expr.(ast.Binary)
	if !ok || top.Op != "-" {
		t.Fatalf("expected top-level '-', got %#v", let.Expr)
	}
	left, ok := top.Left.(ast.Binary)
	if !ok || left.Op != "-" {
		t.Fatalf("expected left-associative nesting on the left, got %#v", top.Left)
	}
	if _, ok := top.Right.(ast.Number); !ok {
		t.Fatalf("expected right operand to be the terminal literal, got %#v", top.Right)
	}
}

func TestIfThenElse(t *testing.T) {
	prog := parseSource(t, "IF X > 3 THEN\nPRINT \"big\"\nELSE\nPRINT \"small\"\nEND IF\n")
	ifStmt := prog.Stmts[0].(ast.If)
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Fatalf("expected one statement per branch, got then=%d else=%d", len(ifStmt.Then), len(ifStmt.Else))
	}
}

func TestWhileLoop(t *testing.T) {
	prog := parseSource(t, "LET I = 0\nWHILE I < 3\nPRINT I\nLET I = I + 1\nWEND\n")
	while := prog.Stmts[1].(ast.While)
	if len(while.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(while.Body))
	}
}

func TestForLoopWithStep(t *testing.T) {
	prog := parseSource(t, "FOR I = 1 TO 10 STEP 2\nPRINT I\nNEXT I\n")
	forStmt := prog.Stmts[0].(ast.For)
	if forStmt.Step == nil {
		t.Fatalf("expected a STEP expression")
	}
}

func TestArrayIndexAssignment(t *testing.T) {
	prog := parseSource(t, "LET A = ARRAY(3)\nLET A[0] = 10\n")
	if _, ok := prog.Stmts[0].(ast.Let).Expr.(ast.NewArray); !ok {
		t.Fatalf("expected NewArray expression")
	}
	assign := prog.Stmts[1].(ast.AssignIndex)
	if assign.Name != "a" {
		t.Fatalf("expected lowercase identifier 'a', got %q", assign.Name)
	}
}

func TestPrintWithNoArguments(t *testing.T) {
	prog := parseSource(t, "PRINT\n")
	p := prog.Stmts[0].(ast.Print)
	if len(p.Exprs) != 0 {
		t.Fatalf("expected zero expressions, got %d", len(p.Exprs))
	}
}

func TestPrintWithMultipleArguments(t *testing.T) {
	prog := parseSource(t, "PRINT 1, 2, 3\n")
	p := prog.Stmts[0].(ast.Print)
	if len(p.Exprs) != 3 {
		t.Fatalf("expected 3 expressions, got %d", len(p.Exprs))
	}
}

func TestUnexpectedTokenIsAParseFault(t *testing.T) {
	lex := lexer.New("LET X = )\n")
	toks, err := lex.Scan()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	_, err = Make(toks).ParseProgram()
	if err == nil {
		t.Fatal("expected a syntax fault")
	}
	if _, ok := err.(SyntaxError); !ok {
		t.Fatalf("error type = %T, want SyntaxError", err)
	}
}

func TestBuiltinCallAndRepeatUntil(t *testing.T) {
	prog := parseSource(t, "REPEAT\nPRINT LEN(\"x\")\nLET Z = 1\nUNTIL Z\n")
	repeat := prog.Stmts[0].(ast.Repeat)
	if len(repeat.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(repeat.Body))
	}
	printStmt := repeat.Body[0].(ast.Print)
	call := printStmt.Exprs[0].(ast.FuncCall)
	if call.Name != "len" {
		t.Fatalf("expected builtin 'len', got %q", call.Name)
	}
}
