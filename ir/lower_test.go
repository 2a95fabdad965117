package ir

import (
	"testing"

	"tinybasic/lexer"
	"tinybasic/parser"
)

func lowerSource(t *testing.T, src string) []Node {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.Make(toks).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Lower(prog)
}

func TestLowerPrintKeepsOnlyFirstExpression(t *testing.T) {
	nodes := lowerSource(t, "PRINT 1, 2, 3\n")
	p, ok := nodes[0].(Print)
	if !ok {
		t.Fatalf("expected Print, got %#v", nodes[0])
	}
	c, ok := p.Expr.(Const)
	if !ok || c.Value != int64(1) {
		t.Fatalf("expected first expr to survive as Const(1), got %#v", p.Expr)
	}
}

func TestLowerPrintWithNoArguments(t *testing.T) {
	nodes := lowerSource(t, "PRINT\n")
	p := nodes[0].(Print)
	c := p.Expr.(Const)
	if c.Type != "STRING" || c.Value != "" {
		t.Fatalf("expected empty string constant, got %#v", c)
	}
}

func TestLowerContinueAndExitBecomeGoto(t *testing.T) {
	nodes := lowerSource(t, "WHILE 1\nCONTINUE\nEXIT\nWEND\n")
	while := nodes[0].(While)
	if g, ok := while.Body[0].(Goto); !ok || g.Label != ContinueLabel {
		t.Fatalf("expected Goto(%q), got %#v", ContinueLabel, while.Body[0])
	}
	if g, ok := while.Body[1].(Goto); !ok || g.Label != BreakLabel {
		t.Fatalf("expected Goto(%q), got %#v", BreakLabel, while.Body[1])
	}
}

func TestLowerBuiltinCallBecomesCall(t *testing.T) {
	nodes := lowerSource(t, "LET X = LEN(\"hi\")\n")
	let := nodes[0].(Let)
	call, ok := let.Expr.(Call)
	if !ok || call.Name != "len" {
		t.Fatalf("expected Call(len), got %#v", let.Expr)
	}
}

func TestLowerAssignIndexBecomesStoreIndex(t *testing.T) {
	nodes := lowerSource(t, "LET A = ARRAY(3)\nLET A[0] = 9\n")
	store := nodes[1].(StoreIndex)
	if store.Target != "a" {
		t.Fatalf("expected target 'a', got %q", store.Target)
	}
}

func TestLowerForDefaultsStepToNil(t *testing.T) {
	nodes := lowerSource(t, "FOR I = 1 TO 3\nPRINT I\nNEXT I\n")
	f := nodes[0].(For)
	if f.Step != nil {
		t.Fatalf("expected nil Step when source omits STEP, got %#v", f.Step)
	}
}

func TestLowerFloatLiteral(t *testing.T) {
	nodes := lowerSource(t, "LET X = 3.5\n")
	let := nodes[0].(Let)
	c := let.Expr.(Const)
	if c.Type != "FLOAT" || c.Value != 3.5 {
		t.Fatalf("expected FLOAT 3.5, got %#v", c)
	}
}
