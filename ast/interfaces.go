// interfaces.go contains the visitor interfaces that any code traversing
// expression and statement AST nodes must implement (the lowerer, the JSON
// printer), and the base interfaces every statement/expression node
// implements to dispatch into a visitor.
package ast

// ExprVisitor is the interface for operating on all Expression AST nodes.
type ExprVisitor interface {
	VisitNumber(Number) any
	VisitString(String) any
	VisitVar(Var) any
	VisitBinary(Binary) any
	VisitUnary(Unary) any
	VisitFuncCall(FuncCall) any
	VisitCustomCall(CustomCall) any
	VisitIndex(Index) any
	VisitNewArray(NewArray) any
}

// StmtVisitor is the interface for operating on all Statement AST nodes.
type StmtVisitor interface {
	VisitProgram(Program) any
	VisitPrint(Print) any
	VisitLet(Let) any
	VisitAssignIndex(AssignIndex) any
	VisitIf(If) any
	VisitWhile(While) any
	VisitRepeat(Repeat) any
	VisitFor(For) any
	VisitInput(Input) any
	VisitContinue(Continue) any
	VisitExit(Exit) any
}

// Stmt is the base interface every statement node implements.
type Stmt interface {
	Accept(v StmtVisitor) any
	SourceLine() int
}

// Expr is the base interface every expression node implements.
type Expr interface {
	Accept(v ExprVisitor) any
	SourceLine() int
}
