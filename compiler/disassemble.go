package compiler

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Disassemble renders code as human-readable mnemonics, one instruction per
// line, prefixed with its byte offset. It is debug tooling only: nothing in
// the compile/execute path calls it.
func Disassemble(code Instructions) (string, error) {
	var out strings.Builder
	ip := 0
	for ip < len(code) {
		op := Opcode(code[ip])
		def, err := Get(op)
		if err != nil && op != OP_PUSHS {
			return "", fmt.Errorf("disassemble: %w at offset %d", err, ip)
		}

		switch {
		case op == OP_PUSHS:
			if ip+5 > len(code) {
				return "", fmt.Errorf("disassemble: truncated PUSHS at offset %d", ip)
			}
			length := int(binary.LittleEndian.Uint32(code[ip+1 : ip+5]))
			start := ip + 5
			if start+length > len(code) {
				return "", fmt.Errorf("disassemble: truncated PUSHS payload at offset %d", ip)
			}
			value := string(code[start : start+length])
			fmt.Fprintf(&out, "%04d PUSHS %q\n", ip, value)
			ip = start + length

		case len(def.OperandWidths) == 0:
			fmt.Fprintf(&out, "%04d %s\n", ip, def.Name)
			ip++

		default:
			width := def.OperandWidths[0]
			operandBytes := code[ip+1 : ip+1+width]
			var operand int64
			switch width {
			case 2:
				operand = int64(int16(binary.LittleEndian.Uint16(operandBytes)))
			case 4:
				operand = int64(int32(binary.LittleEndian.Uint32(operandBytes)))
			}
			fmt.Fprintf(&out, "%04d %s %d\n", ip, def.Name, operand)
			ip += 1 + width
		}
	}
	return out.String(), nil
}
