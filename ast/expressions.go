// expressions.go contains all the expression AST nodes. An expression node
// always evaluates to a single runtime value. Every node carries the source
// line it came from (§3: "Every AST node carries the source line it came
// from").
package ast

// Number is a numeric literal, stored as its original source text so the
// lowerer decides INT vs FLOAT the same way the tokenizer decided NUMBER.
type Number struct {
	Text string
	Line int
}

func (n Number) Accept(v ExprVisitor) any { return v.VisitNumber(n) }
func (n Number) SourceLine() int          { return n.Line }

// String is a string literal.
type String struct {
	Text string
	Line int
}

func (s String) Accept(v ExprVisitor) any { return v.VisitString(s) }
func (s String) SourceLine() int          { return s.Line }

// Var is a variable reference.
type Var struct {
	Name string
	Line int
}

func (vr Var) Accept(v ExprVisitor) any { return v.VisitVar(vr) }
func (vr Var) SourceLine() int          { return vr.Line }

// Binary is a binary operator expression. Op is carried as the token's
// textual spelling ("+", "<", "AND", ...) to decouple the AST from the
// lexer's token kind enum, matching how IR carries operators (§4.2).
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Line  int
}

func (b Binary) Accept(v ExprVisitor) any { return v.VisitBinary(b) }
func (b Binary) SourceLine() int          { return b.Line }

// Unary is a unary operator expression ("-x", "NOT x").
type Unary struct {
	Op      string
	Operand Expr
	Line    int
}

func (u Unary) Accept(v ExprVisitor) any { return v.VisitUnary(u) }
func (u Unary) SourceLine() int          { return u.Line }

// FuncCall is a call to one of the built-in functions (LEN, VAL, ISNAN).
// §4.2: the lowerer maps these to IrCall nodes which the emitter does not
// implement; they are reserved, not wired to bytecode.
type FuncCall struct {
	Name string
	Args []Expr
	Line int
}

func (f FuncCall) Accept(v ExprVisitor) any { return v.VisitFuncCall(f) }
func (f FuncCall) SourceLine() int          { return f.Line }

// CustomCall is a call to a user-defined function. User-defined functions
// are a non-goal of execution (§1); the node exists so the grammar can
// parse a call-like form without the parser needing to special-case it,
// but lowering/emission never produce bytecode for it.
type CustomCall struct {
	Name string
	Args []Expr
	Line int
}

func (c CustomCall) Accept(v ExprVisitor) any { return v.VisitCustomCall(c) }
func (c CustomCall) SourceLine() int          { return c.Line }

// Index is an indexed read of an array variable: `target[index]`.
type Index struct {
	Target Expr
	Index  Expr
	Line   int
}

func (i Index) Accept(v ExprVisitor) any { return v.VisitIndex(i) }
func (i Index) SourceLine() int          { return i.Line }

// NewArray is `ARRAY(size)`, producing a fresh array value.
type NewArray struct {
	Size Expr
	Line int
}

func (n NewArray) Accept(v ExprVisitor) any { return v.VisitNewArray(n) }
func (n NewArray) SourceLine() int          { return n.Line }
