// Package compiler turns the flat ir.Node list produced by the ir package
// into a Bytecode stream the vm package executes. Emission is two-pass:
// a forward walk writes opcodes and operands, recording every label
// definition and every forward jump that still needs its target; a fixup
// pass then rewrites each placeholder into a signed relative offset.
package compiler

import (
	"fmt"

	"tinybasic/ir"
)

// fixup records a 2-byte relative-offset placeholder at pos that still
// needs to be patched once label is defined.
type fixup struct {
	pos   int
	label string
}

// emitter holds all per-compilation state. One is created per Compile call;
// nothing here is shared across compilations.
type emitter struct {
	buf          []byte
	labels       map[string]int
	fixups       []fixup
	slots        map[string]int32
	nextSlot     int32
	labelCounter int
}

func newEmitter() *emitter {
	return &emitter{
		labels: make(map[string]int),
		slots:  make(map[string]int32),
	}
}

// Compile lowers nodes into a Bytecode stream, or returns an EmissionError
// for a construct the emitter does not implement (builtin calls, the
// reserved continue/break goto markers, exponentiation) or an unresolved
// jump target.
func Compile(nodes []ir.Node) (Bytecode, error) {
	e := newEmitter()
	for _, n := range nodes {
		if err := e.emitStmt(n); err != nil {
			return Bytecode{}, err
		}
	}
	e.emit(MakeInstruction(OP_HALT))
	if err := e.resolveFixups(); err != nil {
		return Bytecode{}, err
	}
	return Bytecode{Instructions: e.buf}, nil
}

func (e *emitter) emit(b []byte) int {
	pos := len(e.buf)
	e.buf = append(e.buf, b...)
	return pos
}

func (e *emitter) newLabel(prefix string) string {
	e.labelCounter++
	return fmt.Sprintf("%s_%d", prefix, e.labelCounter)
}

func (e *emitter) placeLabel(name string) {
	e.labels[name] = len(e.buf)
}

// emitJumpPlaceholder writes op followed by a 2-byte zero placeholder and
// records a fixup for it.
func (e *emitter) emitJumpPlaceholder(op Opcode, label string) {
	pos := e.emit(MakeInstruction(op, 0))
	e.fixups = append(e.fixups, fixup{pos: pos + 1, label: label})
}

func (e *emitter) resolveFixups() error {
	for _, f := range e.fixups {
		target, ok := e.labels[f.label]
		if !ok {
			return EmissionError{Message: fmt.Sprintf("unresolved label %q", f.label)}
		}
		offset := int32(target - (f.pos + 2))
		if offset < -32768 || offset > 32767 {
			return EmissionError{Message: fmt.Sprintf("jump offset to %q out of 16-bit range", f.label)}
		}
		patched := MakeInstruction(OP_JMP, int(offset))[1:] // reuse the 2-byte little-endian encoder
		copy(e.buf[f.pos:f.pos+2], patched)
	}
	return nil
}

// slotFor returns the local slot for name, allocating the next free slot on
// first use. Slots are assigned in first-assignment order.
func (e *emitter) slotFor(name string) int32 {
	if slot, ok := e.slots[name]; ok {
		return slot
	}
	slot := e.nextSlot
	e.slots[name] = slot
	e.nextSlot++
	return slot
}

// slotOf returns the existing slot for name, failing if it was never
// assigned — reading a variable before it is written is an emission fault.
func (e *emitter) slotOf(name string) (int32, error) {
	slot, ok := e.slots[name]
	if !ok {
		return 0, EmissionError{Message: fmt.Sprintf("variable %q read before assignment", name)}
	}
	return slot, nil
}

func (e *emitter) emitStmt(node ir.Node) error {
	switch n := node.(type) {
	case ir.Let:
		if err := e.emitExpr(n.Expr); err != nil {
			return err
		}
		e.emit(MakeInstruction(OP_STORE, int(e.slotFor(n.Name))))
		return nil

	case ir.Print:
		if err := e.emitExpr(n.Expr); err != nil {
			return err
		}
		e.emit(MakeInstruction(OP_PRINT))
		return nil

	case ir.StoreIndex:
		slot, err := e.slotOf(n.Target)
		if err != nil {
			return err
		}
		e.emit(MakeInstruction(OP_LOAD, int(slot)))
		if err := e.emitExpr(n.Index); err != nil {
			return err
		}
		if err := e.emitExpr(n.Value); err != nil {
			return err
		}
		e.emit(MakeInstruction(OP_SETINDEX))
		return nil

	case ir.If:
		return e.emitIf(n)

	case ir.While:
		return e.emitWhile(n)

	case ir.Repeat:
		return e.emitRepeat(n)

	case ir.For:
		return e.emitFor(n)

	case ir.Input:
		for _, name := range n.Names {
			e.emit(MakeInstruction(OP_INPUT))
			e.emit(MakeInstruction(OP_STORE, int(e.slotFor(name))))
		}
		return nil

	case ir.Label:
		e.placeLabel(n.Name)
		return nil

	case ir.Goto:
		return EmissionError{Message: fmt.Sprintf("goto target %q is reserved and not implemented", n.Label)}

	default:
		return EmissionError{Message: fmt.Sprintf("unsupported statement node %T", node)}
	}
}

func (e *emitter) emitIf(n ir.If) error {
	if err := e.emitExpr(n.Cond); err != nil {
		return err
	}
	endLabel := e.newLabel("if_end")
	if len(n.Else) == 0 {
		e.emitJumpPlaceholder(OP_JZ, endLabel)
		if err := e.emitBody(n.Then); err != nil {
			return err
		}
		e.placeLabel(endLabel)
		return nil
	}

	elseLabel := e.newLabel("if_else")
	e.emitJumpPlaceholder(OP_JZ, elseLabel)
	if err := e.emitBody(n.Then); err != nil {
		return err
	}
	e.emitJumpPlaceholder(OP_JMP, endLabel)
	e.placeLabel(elseLabel)
	if err := e.emitBody(n.Else); err != nil {
		return err
	}
	e.placeLabel(endLabel)
	return nil
}

func (e *emitter) emitWhile(n ir.While) error {
	startLabel := e.newLabel("while_start")
	endLabel := e.newLabel("while_end")
	e.placeLabel(startLabel)
	if err := e.emitExpr(n.Cond); err != nil {
		return err
	}
	e.emitJumpPlaceholder(OP_JZ, endLabel)
	if err := e.emitBody(n.Body); err != nil {
		return err
	}
	e.emitJumpPlaceholder(OP_JMP, startLabel)
	e.placeLabel(endLabel)
	return nil
}

// emitRepeat lowers REPEAT/UNTIL: the body always runs at least once, then
// the loop repeats while the condition is falsy.
func (e *emitter) emitRepeat(n ir.Repeat) error {
	startLabel := e.newLabel("repeat_start")
	e.placeLabel(startLabel)
	if err := e.emitBody(n.Body); err != nil {
		return err
	}
	if err := e.emitExpr(n.Cond); err != nil {
		return err
	}
	e.emitJumpPlaceholder(OP_JZ, startLabel)
	return nil
}

// emitFor lowers FOR/NEXT as an ascending, inclusive counted loop: the body
// runs for every v in [from, to] and the loop stops once v exceeds to. This
// departs from a naive exact-equality termination test (v == to), which
// would skip the final iteration whenever to is reached exactly instead of
// overshot; the loop condition here is instead "has v already passed to"
// (CMP; PUSH(1); EQ is the same three-opcode shape the ">" operator uses),
// so a step of 1 against FOR I = 1 TO 3 runs the body for I = 1, 2 and 3.
// Step sign is not validated: a negative step against an ascending range
// still never satisfies "v > to" and the loop runs forever, matching the
// rest of the language's general unwillingness to validate step direction.
func (e *emitter) emitFor(n ir.For) error {
	if err := e.emitExpr(n.From); err != nil {
		return err
	}
	slot := e.slotFor(n.Var)
	e.emit(MakeInstruction(OP_STORE, int(slot)))

	startLabel := e.newLabel("for_start")
	endLabel := e.newLabel("for_end")
	e.placeLabel(startLabel)

	e.emit(MakeInstruction(OP_LOAD, int(slot)))
	if err := e.emitExpr(n.To); err != nil {
		return err
	}
	e.emit(MakeInstruction(OP_CMP))
	e.emit(MakeInstruction(OP_PUSH, 1))
	e.emit(MakeInstruction(OP_EQ))
	e.emitJumpPlaceholder(OP_JNZ, endLabel)

	if err := e.emitBody(n.Body); err != nil {
		return err
	}

	e.emit(MakeInstruction(OP_LOAD, int(slot)))
	if n.Step != nil {
		if err := e.emitExpr(n.Step); err != nil {
			return err
		}
	} else {
		e.emit(MakeInstruction(OP_PUSH, 1))
	}
	e.emit(MakeInstruction(OP_ADD))
	e.emit(MakeInstruction(OP_STORE, int(slot)))
	e.emitJumpPlaceholder(OP_JMP, startLabel)
	e.placeLabel(endLabel)
	return nil
}

func (e *emitter) emitBody(body []ir.Node) error {
	for _, stmt := range body {
		if err := e.emitStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) emitExpr(node ir.Node) error {
	switch n := node.(type) {
	case ir.Const:
		switch n.Type {
		case "INT":
			e.emit(MakeInstruction(OP_PUSH, int(n.Value.(int64))))
			return nil
		case "STRING":
			e.emit(MakeStringPush(n.Value.(string)))
			return nil
		case "FLOAT":
			return EmissionError{Message: "FLOAT literals have no PUSH encoding in the instruction set"}
		default:
			return EmissionError{Message: fmt.Sprintf("constant of unknown type %q", n.Type)}
		}

	case ir.Var:
		slot, err := e.slotOf(n.Name)
		if err != nil {
			return err
		}
		e.emit(MakeInstruction(OP_LOAD, int(slot)))
		return nil

	case ir.Binary:
		return e.emitBinary(n)

	case ir.Unary:
		if err := e.emitExpr(n.Operand); err != nil {
			return err
		}
		switch n.Op {
		case "-":
			e.emit(MakeInstruction(OP_NEG))
		case "NOT":
			e.emit(MakeInstruction(OP_NOT))
		default:
			return EmissionError{Message: fmt.Sprintf("unsupported unary operator %q", n.Op)}
		}
		return nil

	case ir.Call:
		return EmissionError{Message: fmt.Sprintf("call to %q is not implemented by the emitter", n.Name)}

	case ir.Index:
		if err := e.emitExpr(n.Target); err != nil {
			return err
		}
		if err := e.emitExpr(n.Index); err != nil {
			return err
		}
		e.emit(MakeInstruction(OP_GETINDEX))
		return nil

	case ir.NewArray:
		if err := e.emitExpr(n.Size); err != nil {
			return err
		}
		e.emit(MakeInstruction(OP_NEWARRAY))
		return nil

	default:
		return EmissionError{Message: fmt.Sprintf("unsupported expression node %T", node)}
	}
}

// emitBinary expands comparison operators the instruction set has no
// dedicated opcode for. "<" and ">" are a direct CMP + PUSH(sentinel) + EQ.
// "<=" and ">=" need the CMP result twice (once against each admissible
// sentinel, ORed together), so DUP/SWAP thread it through both EQs:
//
//	CMP DUP PUSH(-1) EQ SWAP PUSH(0) EQ OR   ; a <= b
//	CMP DUP PUSH(1)  EQ SWAP PUSH(0) EQ OR   ; a >= b
func (e *emitter) emitBinary(n ir.Binary) error {
	if err := e.emitExpr(n.Left); err != nil {
		return err
	}
	if err := e.emitExpr(n.Right); err != nil {
		return err
	}
	switch n.Op {
	case "+":
		e.emit(MakeInstruction(OP_ADD))
	case "-":
		e.emit(MakeInstruction(OP_SUB))
	case "*":
		e.emit(MakeInstruction(OP_MUL))
	case "/":
		e.emit(MakeInstruction(OP_DIV))
	case "%":
		e.emit(MakeInstruction(OP_MOD))
	case "^":
		return EmissionError{Message: "exponentiation has no corresponding opcode"}
	case "==":
		e.emit(MakeInstruction(OP_EQ))
	case "!=":
		e.emit(MakeInstruction(OP_NEQ))
	case "AND":
		e.emit(MakeInstruction(OP_AND))
	case "OR":
		e.emit(MakeInstruction(OP_OR))
	case "<":
		e.emit(MakeInstruction(OP_CMP))
		e.emit(MakeInstruction(OP_PUSH, -1))
		e.emit(MakeInstruction(OP_EQ))
	case ">":
		e.emit(MakeInstruction(OP_CMP))
		e.emit(MakeInstruction(OP_PUSH, 1))
		e.emit(MakeInstruction(OP_EQ))
	case "<=":
		e.emit(MakeInstruction(OP_CMP))
		e.emit(MakeInstruction(OP_DUP))
		e.emit(MakeInstruction(OP_PUSH, -1))
		e.emit(MakeInstruction(OP_EQ))
		e.emit(MakeInstruction(OP_SWAP))
		e.emit(MakeInstruction(OP_PUSH, 0))
		e.emit(MakeInstruction(OP_EQ))
		e.emit(MakeInstruction(OP_OR))
	case ">=":
		e.emit(MakeInstruction(OP_CMP))
		e.emit(MakeInstruction(OP_DUP))
		e.emit(MakeInstruction(OP_PUSH, 1))
		e.emit(MakeInstruction(OP_EQ))
		e.emit(MakeInstruction(OP_SWAP))
		e.emit(MakeInstruction(OP_PUSH, 0))
		e.emit(MakeInstruction(OP_EQ))
		e.emit(MakeInstruction(OP_OR))
	default:
		return EmissionError{Message: fmt.Sprintf("unsupported binary operator %q", n.Op)}
	}
	return nil
}
