package ir

import (
	"strconv"
	"strings"

	"tinybasic/ast"
)

// lowerer implements ast.ExprVisitor and ast.StmtVisitor, translating each
// node into its ir.Node form. It carries no state beyond the visitor
// methods; Lower constructs one per call.
type lowerer struct{}

// Lower walks prog in source order and returns the flat top-level IR node
// list the compiler consumes. Control constructs keep nested body slices;
// only the top level is flat.
func Lower(prog ast.Program) []Node {
	var l lowerer
	out := make([]Node, 0, len(prog.Stmts))
	for _, s := range prog.Stmts {
		out = append(out, s.Accept(l).(Node))
	}
	return out
}

func lowerStmts(stmts []ast.Stmt) []Node {
	var l lowerer
	out := make([]Node, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s.Accept(l).(Node))
	}
	return out
}

func lowerExpr(e ast.Expr) Node {
	var l lowerer
	return e.Accept(l).(Node)
}

// Statements.

func (l lowerer) VisitProgram(p ast.Program) any {
	return nil // Program never appears nested; Lower handles the top level directly.
}

func (l lowerer) VisitPrint(s ast.Print) any {
	// Only the first expression survives lowering. A bare PRINT with no
	// arguments lowers to printing an empty string.
	if len(s.Exprs) == 0 {
		return Print{Expr: Const{Value: "", Type: "STRING"}}
	}
	return Print{Expr: lowerExpr(s.Exprs[0])}
}

func (l lowerer) VisitLet(s ast.Let) any {
	return Let{Name: s.Name, Expr: lowerExpr(s.Expr)}
}

func (l lowerer) VisitAssignIndex(s ast.AssignIndex) any {
	return StoreIndex{Target: s.Name, Index: lowerExpr(s.Index), Value: lowerExpr(s.Value)}
}

func (l lowerer) VisitIf(s ast.If) any {
	var elseNodes []Node
	if len(s.Else) > 0 {
		elseNodes = lowerStmts(s.Else)
	}
	return If{Cond: lowerExpr(s.Cond), Then: lowerStmts(s.Then), Else: elseNodes}
}

func (l lowerer) VisitWhile(s ast.While) any {
	return While{Cond: lowerExpr(s.Cond), Body: lowerStmts(s.Body)}
}

func (l lowerer) VisitRepeat(s ast.Repeat) any {
	return Repeat{Body: lowerStmts(s.Body), Cond: lowerExpr(s.Cond)}
}

func (l lowerer) VisitFor(s ast.For) any {
	f := For{Var: s.Var, From: lowerExpr(s.From), To: lowerExpr(s.To), Body: lowerStmts(s.Body)}
	if s.Step != nil {
		f.Step = lowerExpr(s.Step)
	}
	return f
}

func (l lowerer) VisitInput(s ast.Input) any {
	return Input{Names: s.Names}
}

func (l lowerer) VisitContinue(ast.Continue) any {
	return Goto{Label: ContinueLabel}
}

func (l lowerer) VisitExit(ast.Exit) any {
	return Goto{Label: BreakLabel}
}

// Expressions.

func (l lowerer) VisitNumber(n ast.Number) any {
	if strings.ContainsAny(n.Text, ".eE") && !looksLikeHexOrOctal(n.Text) {
		f, err := strconv.ParseFloat(n.Text, 64)
		if err == nil {
			return Const{Value: f, Type: "FLOAT"}
		}
	}
	i, err := strconv.ParseInt(n.Text, 10, 64)
	if err != nil {
		// Falls back to float parsing for integer text ParseInt rejects, such
		// as a literal too large for int64.
		f, ferr := strconv.ParseFloat(n.Text, 64)
		if ferr == nil {
			return Const{Value: f, Type: "FLOAT"}
		}
		return Const{Value: int64(0), Type: "INT"}
	}
	return Const{Value: i, Type: "INT"}
}

func looksLikeHexOrOctal(text string) bool {
	return strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
}

func (l lowerer) VisitString(s ast.String) any {
	return Const{Value: s.Text, Type: "STRING"}
}

func (l lowerer) VisitVar(v ast.Var) any {
	return Var{Name: v.Name}
}

func (l lowerer) VisitBinary(b ast.Binary) any {
	return Binary{Op: b.Op, Left: lowerExpr(b.Left), Right: lowerExpr(b.Right)}
}

func (l lowerer) VisitUnary(u ast.Unary) any {
	return Unary{Op: u.Op, Operand: lowerExpr(u.Operand)}
}

func (l lowerer) VisitFuncCall(f ast.FuncCall) any {
	return Call{Name: f.Name, Args: lowerExprs(f.Args)}
}

func (l lowerer) VisitCustomCall(c ast.CustomCall) any {
	return Call{Name: c.Name, Args: lowerExprs(c.Args)}
}

func (l lowerer) VisitIndex(i ast.Index) any {
	return Index{Target: lowerExpr(i.Target), Index: lowerExpr(i.Index)}
}

func (l lowerer) VisitNewArray(n ast.NewArray) any {
	return NewArray{Size: lowerExpr(n.Size), ElementType: "any"}
}

func lowerExprs(exprs []ast.Expr) []Node {
	out := make([]Node, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, lowerExpr(e))
	}
	return out
}
