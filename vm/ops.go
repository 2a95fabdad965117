package vm

import (
	"strings"

	"tinybasic/compiler"
	"tinybasic/runtime"
)

// execArithmetic implements ADD/SUB/MUL/DIV/MOD. Coercion is strict: both
// operands must share the same numeric tag (INT+INT or FLOAT+FLOAT); any
// other pairing, including two STRINGs, is a TypeError. Division and
// modulo by zero are also TypeErrors rather than a Go panic or an Inf/NaN
// float result.
func (vm *VM) execArithmetic(op compiler.Opcode) error {
	b, err := vm.stack.pop(vm.ip)
	if err != nil {
		return err
	}
	a, err := vm.stack.pop(vm.ip)
	if err != nil {
		return err
	}

	if a.Tag != b.Tag || (a.Tag != runtime.INT && a.Tag != runtime.FLOAT) {
		return TypeError{Message: "arithmetic requires two INTs or two FLOATs", IP: vm.ip}
	}

	var result runtime.Value
	if a.Tag == runtime.INT {
		if (op == compiler.OP_DIV || op == compiler.OP_MOD) && b.Int == 0 {
			return TypeError{Message: "division by zero", IP: vm.ip}
		}
		switch op {
		case compiler.OP_ADD:
			result = runtime.IntValue(a.Int + b.Int)
		case compiler.OP_SUB:
			result = runtime.IntValue(a.Int - b.Int)
		case compiler.OP_MUL:
			result = runtime.IntValue(a.Int * b.Int)
		case compiler.OP_DIV:
			result = runtime.IntValue(a.Int / b.Int)
		case compiler.OP_MOD:
			result = runtime.IntValue(a.Int % b.Int)
		}
	} else {
		if (op == compiler.OP_DIV && b.Float == 0) || (op == compiler.OP_MOD && int64(b.Float) == 0) {
			return TypeError{Message: "division by zero", IP: vm.ip}
		}
		switch op {
		case compiler.OP_ADD:
			result = runtime.FloatValue(a.Float + b.Float)
		case compiler.OP_SUB:
			result = runtime.FloatValue(a.Float - b.Float)
		case compiler.OP_MUL:
			result = runtime.FloatValue(a.Float * b.Float)
		case compiler.OP_DIV:
			result = runtime.FloatValue(a.Float / b.Float)
		case compiler.OP_MOD:
			result = runtime.FloatValue(float64(int64(a.Float) % int64(b.Float)))
		}
	}
	return vm.stack.push(result, vm.ip)
}

// execBoolean implements AND/OR over BOOL operands only.
func (vm *VM) execBoolean(op compiler.Opcode) error {
	b, err := vm.stack.pop(vm.ip)
	if err != nil {
		return err
	}
	a, err := vm.stack.pop(vm.ip)
	if err != nil {
		return err
	}
	if a.Tag != runtime.BOOL || b.Tag != runtime.BOOL {
		return TypeError{Message: "AND/OR require BOOL operands", IP: vm.ip}
	}
	var result bool
	if op == compiler.OP_AND {
		result = a.Bool && b.Bool
	} else {
		result = a.Bool || b.Bool
	}
	return vm.stack.push(runtime.BoolValue(result), vm.ip)
}

// execCompare implements CMP: pops b then a, pushes -1/0/1 for a<b/a==b/a>b.
// Both operands must share an orderable tag (INT, FLOAT or STRING).
func (vm *VM) execCompare() error {
	b, err := vm.stack.pop(vm.ip)
	if err != nil {
		return err
	}
	a, err := vm.stack.pop(vm.ip)
	if err != nil {
		return err
	}
	if a.Tag != b.Tag {
		return TypeError{Message: "CMP requires operands of the same type", IP: vm.ip}
	}

	var cmp int
	switch a.Tag {
	case runtime.INT:
		cmp = compareInt(a.Int, b.Int)
	case runtime.FLOAT:
		cmp = compareFloat(a.Float, b.Float)
	case runtime.STRING:
		cmp = strings.Compare(a.Str, b.Str)
		if cmp < -1 {
			cmp = -1
		} else if cmp > 1 {
			cmp = 1
		}
	default:
		return TypeError{Message: "CMP requires INT, FLOAT or STRING operands", IP: vm.ip}
	}
	return vm.stack.push(runtime.IntValue(int64(cmp)), vm.ip)
}

// execEquality implements EQ/NEQ. Values of different tags simply compare
// unequal rather than faulting.
func (vm *VM) execEquality(op compiler.Opcode) error {
	b, err := vm.stack.pop(vm.ip)
	if err != nil {
		return err
	}
	a, err := vm.stack.pop(vm.ip)
	if err != nil {
		return err
	}

	equal := a.Tag == b.Tag && valuesEqual(a, b)
	if op == compiler.OP_NEQ {
		equal = !equal
	}
	return vm.stack.push(runtime.BoolValue(equal), vm.ip)
}

func valuesEqual(a, b runtime.Value) bool {
	switch a.Tag {
	case runtime.INT:
		return a.Int == b.Int
	case runtime.FLOAT:
		return a.Float == b.Float
	case runtime.STRING:
		return a.Str == b.Str
	case runtime.BOOL:
		return a.Bool == b.Bool
	case runtime.ARRAY:
		return a.Int == b.Int
	case runtime.NULL:
		return true
	default:
		return false
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
