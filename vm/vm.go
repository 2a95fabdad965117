// Package vm executes the bytecode the compiler package produces. It is a
// straightforward fetch/decode/dispatch loop over a data stack and a
// frame stack, with no optimization passes and no JIT.
package vm

import (
	"encoding/binary"
	"strconv"

	"tinybasic/compiler"
	"tinybasic/host"
	"tinybasic/runtime"
)

// VM is the runtime environment bytecode executes in. One VM instance runs
// one program; create a new one per run.
type VM struct {
	code   compiler.Instructions
	stack  dataStack
	frames []*Frame
	ip     int
	arrays runtime.Arrays
	sink   host.Sink
}

// New creates a VM that prints to and reads from sink.
func New(sink host.Sink) *VM {
	return &VM{
		frames: []*Frame{newFrame(0)},
		sink:   sink,
	}
}

func (vm *VM) frame() *Frame {
	return vm.frames[len(vm.frames)-1]
}

// Run executes bytecode from its first instruction until HALT. Any fault
// (TypeError, StackError, MemoryError) aborts execution and is returned;
// reaching HALT is the only successful termination.
func (vm *VM) Run(bytecode compiler.Bytecode) error {
	vm.code = bytecode.Instructions
	vm.ip = 0

	for {
		if vm.ip >= len(vm.code) {
			return MemoryError{Message: "execution ran past the end of the instruction stream without HALT", IP: vm.ip}
		}
		op := compiler.Opcode(vm.code[vm.ip])
		width := 1

		switch op {
		case compiler.OP_HALT:
			return nil

		case compiler.OP_PUSH:
			n := vm.readInt32(vm.ip + 1)
			if err := vm.stack.push(runtime.IntValue(int64(n)), vm.ip); err != nil {
				return err
			}
			width = 5

		case compiler.OP_PUSHS:
			length := int(vm.readUint32(vm.ip + 1))
			start := vm.ip + 5
			if start+length > len(vm.code) {
				return MemoryError{Message: "truncated PUSHS payload", IP: vm.ip}
			}
			s := string(vm.code[start : start+length])
			if err := vm.stack.push(runtime.StringValue(s), vm.ip); err != nil {
				return err
			}
			width = 5 + length

		case compiler.OP_POP:
			if _, err := vm.stack.pop(vm.ip); err != nil {
				return err
			}

		case compiler.OP_DUP:
			top, err := vm.stack.peek(vm.ip)
			if err != nil {
				return err
			}
			if err := vm.stack.push(top, vm.ip); err != nil {
				return err
			}

		case compiler.OP_SWAP:
			a, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			b, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			if err := vm.stack.push(a, vm.ip); err != nil {
				return err
			}
			if err := vm.stack.push(b, vm.ip); err != nil {
				return err
			}

		case compiler.OP_OVER:
			second, err := vm.stack.peekAt(1, vm.ip)
			if err != nil {
				return err
			}
			if err := vm.stack.push(second, vm.ip); err != nil {
				return err
			}

		case compiler.OP_ADD, compiler.OP_SUB, compiler.OP_MUL, compiler.OP_DIV, compiler.OP_MOD:
			if err := vm.execArithmetic(op); err != nil {
				return err
			}

		case compiler.OP_NEG:
			v, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			switch v.Tag {
			case runtime.INT:
				v = runtime.IntValue(-v.Int)
			case runtime.FLOAT:
				v = runtime.FloatValue(-v.Float)
			default:
				return TypeError{Message: "NEG requires an INT or FLOAT operand", IP: vm.ip}
			}
			if err := vm.stack.push(v, vm.ip); err != nil {
				return err
			}

		case compiler.OP_AND, compiler.OP_OR:
			if err := vm.execBoolean(op); err != nil {
				return err
			}

		case compiler.OP_NOT:
			v, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			if v.Tag != runtime.BOOL {
				return TypeError{Message: "NOT requires a BOOL operand", IP: vm.ip}
			}
			if err := vm.stack.push(runtime.BoolValue(!v.Bool), vm.ip); err != nil {
				return err
			}

		case compiler.OP_CMP:
			if err := vm.execCompare(); err != nil {
				return err
			}

		case compiler.OP_EQ, compiler.OP_NEQ:
			if err := vm.execEquality(op); err != nil {
				return err
			}

		case compiler.OP_STORE:
			slot := vm.readInt32(vm.ip + 1)
			v, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			vm.frame().Locals[slot] = v
			width = 5

		case compiler.OP_LOAD:
			slot := vm.readInt32(vm.ip + 1)
			v, ok := vm.frame().Locals[slot]
			if !ok {
				return MemoryError{Message: "load of an uninitialized local slot", IP: vm.ip}
			}
			if err := vm.stack.push(v, vm.ip); err != nil {
				return err
			}
			width = 5

		case compiler.OP_JMP:
			vm.ip = vm.ip + 3 + int(vm.readInt16(vm.ip+1))
			continue

		case compiler.OP_JZ:
			v, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			if v.Tag != runtime.INT && v.Tag != runtime.BOOL {
				return TypeError{Message: "JZ condition must be INT or BOOL, got " + v.Tag.String(), IP: vm.ip}
			}
			if !v.Truthy() {
				vm.ip = vm.ip + 3 + int(vm.readInt16(vm.ip+1))
				continue
			}
			width = 3

		case compiler.OP_JNZ:
			v, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			if v.Tag != runtime.INT && v.Tag != runtime.BOOL {
				return TypeError{Message: "JNZ condition must be INT or BOOL, got " + v.Tag.String(), IP: vm.ip}
			}
			if v.Truthy() {
				vm.ip = vm.ip + 3 + int(vm.readInt16(vm.ip+1))
				continue
			}
			width = 3

		case compiler.OP_CALL:
			target := int(vm.readInt32(vm.ip + 1))
			argc, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			if argc.Tag != runtime.INT || argc.Int < 0 {
				return TypeError{Message: "CALL requires a non-negative INT argument count", IP: vm.ip}
			}
			callee := newFrame(vm.ip + 5)
			callee.ArgumentCount = int(argc.Int)
			for i := 0; i < callee.ArgumentCount; i++ {
				arg, err := vm.stack.pop(vm.ip)
				if err != nil {
					return err
				}
				callee.Locals[int32(i)] = arg
			}
			vm.frames = append(vm.frames, callee)
			vm.ip = target
			continue

		case compiler.OP_RET:
			if len(vm.frames) <= 1 {
				return StackError{Message: "RET with no active call frame", IP: vm.ip}
			}
			ret := vm.frame().ReturnAddress
			vm.frames = vm.frames[:len(vm.frames)-1]
			vm.ip = ret
			continue

		case compiler.OP_PRINT:
			v, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			vm.sink.Print(vm.arrays.Format(v) + "\n")

		case compiler.OP_INPUT:
			line, err := vm.sink.ReadLine()
			if err != nil {
				return MemoryError{Message: "input source exhausted: " + err.Error(), IP: vm.ip}
			}
			value := runtime.StringValue(line)
			if n, err := strconv.ParseInt(line, 10, 64); err == nil {
				value = runtime.IntValue(n)
			}
			if err := vm.stack.push(value, vm.ip); err != nil {
				return err
			}

		case compiler.OP_NEWARRAY:
			size, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			if size.Tag != runtime.INT {
				return TypeError{Message: "NEWARRAY requires an INT size", IP: vm.ip}
			}
			arr, aerr := vm.arrays.New(size.Int)
			if aerr != nil {
				return MemoryError{Message: aerr.Error(), IP: vm.ip}
			}
			if err := vm.stack.push(arr, vm.ip); err != nil {
				return err
			}

		case compiler.OP_GETINDEX:
			index, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			arr, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			if index.Tag != runtime.INT {
				return TypeError{Message: "GETINDEX requires an INT index", IP: vm.ip}
			}
			v, aerr := vm.arrays.Get(arr, index.Int)
			if aerr != nil {
				return MemoryError{Message: aerr.Error(), IP: vm.ip}
			}
			if err := vm.stack.push(v, vm.ip); err != nil {
				return err
			}

		case compiler.OP_SETINDEX:
			value, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			index, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			arr, err := vm.stack.pop(vm.ip)
			if err != nil {
				return err
			}
			if index.Tag != runtime.INT {
				return TypeError{Message: "SETINDEX requires an INT index", IP: vm.ip}
			}
			if aerr := vm.arrays.Set(arr, index.Int, value); aerr != nil {
				return MemoryError{Message: aerr.Error(), IP: vm.ip}
			}

		default:
			return MemoryError{Message: "unknown opcode", IP: vm.ip}
		}

		vm.ip += width
	}
}

func (vm *VM) readInt32(at int) int32 {
	return int32(binary.LittleEndian.Uint32(vm.code[at : at+4]))
}

func (vm *VM) readUint32(at int) uint32 {
	return binary.LittleEndian.Uint32(vm.code[at : at+4])
}

func (vm *VM) readInt16(at int) int16 {
	return int16(binary.LittleEndian.Uint16(vm.code[at : at+2]))
}
