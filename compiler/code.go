package compiler

import (
	"encoding/binary"
	"fmt"
)

// Bytecode is the final artifact of a compile: a flat instruction stream
// the vm package fetches, decodes and executes one opcode at a time.
type Bytecode struct {
	Instructions Instructions
}

type Opcode byte

type Instructions []byte

// Opcodes. Values and operand widths are fixed by the instruction format;
// changing one breaks every bytecode dump already on disk. Operands are
// little-endian, two's complement.
const (
	OP_PUSH  Opcode = 0x01 // int32 -> pushes an int
	OP_POP   Opcode = 0x02 // pops and discards
	OP_DUP   Opcode = 0x03 // duplicates the top of stack
	OP_SWAP  Opcode = 0x04 // swaps the top two stack entries
	OP_OVER  Opcode = 0x05 // copies the second-from-top entry to the top

	OP_ADD Opcode = 0x10
	OP_SUB Opcode = 0x11
	OP_MUL Opcode = 0x12
	OP_DIV Opcode = 0x13
	OP_MOD Opcode = 0x14
	OP_NEG Opcode = 0x15

	OP_AND Opcode = 0x20
	OP_OR  Opcode = 0x21
	OP_NOT Opcode = 0x22
	OP_CMP Opcode = 0x23 // pops b,a -> pushes -1/0/1 for a<b/a==b/a>b
	OP_EQ  Opcode = 0x24
	OP_NEQ Opcode = 0x25

	OP_STORE Opcode = 0x30 // int32 slot -> pops, writes to frame local
	OP_LOAD  Opcode = 0x31 // int32 slot -> reads frame local, pushes

	OP_JMP  Opcode = 0x40 // int16 relative offset from end of instruction
	OP_JZ   Opcode = 0x41 // pops; jumps if falsy
	OP_JNZ  Opcode = 0x42 // pops; jumps if truthy
	OP_CALL Opcode = 0x43 // int32 absolute target
	OP_RET  Opcode = 0x44

	OP_PRINT Opcode = 0x50
	OP_INPUT Opcode = 0x51
	OP_HALT  Opcode = 0x52
	OP_PUSHS Opcode = 0x59 // int32 length, then that many bytes -> pushes a string

	OP_NEWARRAY Opcode = 0x85
	OP_GETINDEX Opcode = 0x86
	OP_SETINDEX Opcode = 0x87
)

// OpCodeDefinition documents an opcode's mnemonic and fixed operand widths,
// in bytes. OP_PUSHS is variable-width, so its entry lists no operand
// widths; it is encoded and decoded by dedicated helpers.
type OpCodeDefinition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*OpCodeDefinition{
	OP_PUSH: {"PUSH", []int{4}},
	OP_POP:  {"POP", nil},
	OP_DUP:  {"DUP", nil},
	OP_SWAP: {"SWAP", nil},
	OP_OVER: {"OVER", nil},

	OP_ADD: {"ADD", nil},
	OP_SUB: {"SUB", nil},
	OP_MUL: {"MUL", nil},
	OP_DIV: {"DIV", nil},
	OP_MOD: {"MOD", nil},
	OP_NEG: {"NEG", nil},

	OP_AND: {"AND", nil},
	OP_OR:  {"OR", nil},
	OP_NOT: {"NOT", nil},
	OP_CMP: {"CMP", nil},
	OP_EQ:  {"EQ", nil},
	OP_NEQ: {"NEQ", nil},

	OP_STORE: {"STORE", []int{4}},
	OP_LOAD:  {"LOAD", []int{4}},

	OP_JMP:  {"JMP", []int{2}},
	OP_JZ:   {"JZ", []int{2}},
	OP_JNZ:  {"JNZ", []int{2}},
	OP_CALL: {"CALL", []int{4}},
	OP_RET:  {"RET", nil},

	OP_PRINT: {"PRINT", nil},
	OP_INPUT: {"INPUT", nil},
	OP_HALT:  {"HALT", nil},
	OP_PUSHS: {"PUSHS", nil},

	OP_NEWARRAY: {"NEWARRAY", nil},
	OP_GETINDEX: {"GETINDEX", nil},
	OP_SETINDEX: {"SETINDEX", nil},
}

func Get(op Opcode) (*OpCodeDefinition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode 0x%02x undefined", byte(op))
	}
	return def, nil
}

// MakeInstruction encodes an opcode and its fixed-width operands in
// little-endian order. It does not handle OP_PUSHS; use MakeStringPush.
func MakeInstruction(op Opcode, operands ...int) []byte {
	def, err := Get(op)
	if err != nil {
		return nil
	}

	length := 1
	for _, w := range def.OperandWidths {
		length += w
	}
	instruction := make([]byte, length)
	instruction[0] = byte(op)

	offset := 1
	for i, width := range def.OperandWidths {
		o := operands[i]
		switch width {
		case 2:
			binary.LittleEndian.PutUint16(instruction[offset:], uint16(int16(o)))
		case 4:
			binary.LittleEndian.PutUint32(instruction[offset:], uint32(int32(o)))
		}
		offset += width
	}
	return instruction
}

// MakeStringPush encodes OP_PUSHS followed by a 4-byte little-endian length
// and the raw bytes of s.
func MakeStringPush(s string) []byte {
	instruction := make([]byte, 1+4+len(s))
	instruction[0] = byte(OP_PUSHS)
	binary.LittleEndian.PutUint32(instruction[1:], uint32(len(s)))
	copy(instruction[5:], s)
	return instruction
}
