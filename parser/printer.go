package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"tinybasic/ast"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// astPrinter implements the ast.StmtVisitor/ast.ExprVisitor interfaces and
// builds a JSON-friendly representation of the AST using maps and slices.
// Each Visit method returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (p astPrinter) VisitProgram(prog ast.Program) any {
	stmts := make([]any, 0, len(prog.Stmts))
	for _, s := range prog.Stmts {
		stmts = append(stmts, s.Accept(p))
	}
	return map[string]any{"type": "Program", "statements": stmts}
}

func (p astPrinter) VisitPrint(stmt ast.Print) any {
	exprs := make([]any, 0, len(stmt.Exprs))
	for _, e := range stmt.Exprs {
		exprs = append(exprs, e.Accept(p))
	}
	return map[string]any{"type": "Print", "exprs": exprs}
}

func (p astPrinter) VisitLet(stmt ast.Let) any {
	return map[string]any{"type": "Let", "name": stmt.Name, "expr": stmt.Expr.Accept(p)}
}

func (p astPrinter) VisitAssignIndex(stmt ast.AssignIndex) any {
	return map[string]any{
		"type":  "AssignIndex",
		"name":  stmt.Name,
		"index": stmt.Index.Accept(p),
		"value": stmt.Value.Accept(p),
	}
}

func (p astPrinter) VisitIf(stmt ast.If) any {
	return map[string]any{
		"type": "If", "cond": stmt.Cond.Accept(p),
		"then": stmtsToAny(stmt.Then, p), "else": stmtsToAny(stmt.Else, p),
	}
}

func (p astPrinter) VisitWhile(stmt ast.While) any {
	return map[string]any{"type": "While", "cond": stmt.Cond.Accept(p), "body": stmtsToAny(stmt.Body, p)}
}

func (p astPrinter) VisitRepeat(stmt ast.Repeat) any {
	return map[string]any{"type": "Repeat", "body": stmtsToAny(stmt.Body, p), "cond": stmt.Cond.Accept(p)}
}

func (p astPrinter) VisitFor(stmt ast.For) any {
	out := map[string]any{
		"type": "For", "var": stmt.Var,
		"from": stmt.From.Accept(p), "to": stmt.To.Accept(p),
		"body": stmtsToAny(stmt.Body, p),
	}
	if stmt.Step != nil {
		out["step"] = stmt.Step.Accept(p)
	}
	return out
}

func (p astPrinter) VisitInput(stmt ast.Input) any {
	return map[string]any{"type": "Input", "names": stmt.Names}
}

func (p astPrinter) VisitContinue(ast.Continue) any { return map[string]any{"type": "Continue"} }
func (p astPrinter) VisitExit(ast.Exit) any          { return map[string]any{"type": "Exit"} }

func (p astPrinter) VisitNumber(n ast.Number) any { return map[string]any{"type": "Number", "text": n.Text} }
func (p astPrinter) VisitString(s ast.String) any { return map[string]any{"type": "String", "text": s.Text} }
func (p astPrinter) VisitVar(v ast.Var) any       { return map[string]any{"type": "Var", "name": v.Name} }

func (p astPrinter) VisitBinary(b ast.Binary) any {
	return map[string]any{"type": "Binary", "op": b.Op, "left": b.Left.Accept(p), "right": b.Right.Accept(p)}
}

func (p astPrinter) VisitUnary(u ast.Unary) any {
	return map[string]any{"type": "Unary", "op": u.Op, "operand": u.Operand.Accept(p)}
}

func (p astPrinter) VisitFuncCall(f ast.FuncCall) any {
	return map[string]any{"type": "FuncCall", "name": f.Name, "args": exprsToAny(f.Args, p)}
}

func (p astPrinter) VisitCustomCall(c ast.CustomCall) any {
	return map[string]any{"type": "CustomCall", "name": c.Name, "args": exprsToAny(c.Args, p)}
}

func (p astPrinter) VisitIndex(i ast.Index) any {
	return map[string]any{"type": "Index", "target": i.Target.Accept(p), "index": i.Index.Accept(p)}
}

func (p astPrinter) VisitNewArray(n ast.NewArray) any {
	return map[string]any{"type": "NewArray", "size": n.Size.Accept(p)}
}

func stmtsToAny(stmts []ast.Stmt, p astPrinter) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s.Accept(p))
	}
	return out
}

func exprsToAny(exprs []ast.Expr, p astPrinter) []any {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, e.Accept(p))
	}
	return out
}

// PrintASTJSON converts a Program into a prettified JSON string and echoes
// it to stdout, matching the teacher's REPL convenience of showing the
// tree it just parsed.
func PrintASTJSON(program ast.Program) (string, error) {
	printer := astPrinter{}
	out := program.Accept(printer)
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(bytes)
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + jsonStr)
	fmt.Println(colorYellow + "-----" + colorReset)
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON for program to path.
func WriteASTJSONToFile(program ast.Program, path string) error {
	s, err := PrintASTJSON(program)
	if err != nil {
		return err
	}
	fDescriptor, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer fDescriptor.Close()

	if _, err := fDescriptor.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}

// Print is a convenience wrapper matching the teacher's Parser.Print method.
func (p *Parser) Print(program ast.Program) {
	if _, err := PrintASTJSON(program); err != nil {
		fmt.Println("error producing AST JSON:", err)
	}
}
