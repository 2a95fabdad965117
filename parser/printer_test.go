package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"tinybasic/ast"
)

func TestPrintASTJSONProducesParsableJSON(t *testing.T) {
	prog := ast.Program{
		Stmts: []ast.Stmt{
			ast.Let{Name: "x", Expr: ast.Number{Text: "5"}},
		},
	}
	out, err := PrintASTJSON(prog)
	if err != nil {
		t.Fatalf("PrintASTJSON() error: %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Errorf("expected valid JSON, got %s", out)
	}
	if !strings.Contains(out, `"Let"`) {
		t.Errorf("expected JSON to mention the Let node, got %s", out)
	}
}
