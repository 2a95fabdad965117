package vm

import "tinybasic/runtime"

// Frame is one call's activation record: where to resume after RET, and
// the locals CALLed code sees. ArgumentCount is unused by anything the
// compiler currently emits (this language has no user-defined function
// calls), but is tracked because CALL/RET frame construction is part of
// the VM's execution model regardless of what the compiler exercises.
type Frame struct {
	ReturnAddress int
	Locals        map[int32]runtime.Value
	ArgumentCount int
}

func newFrame(returnAddress int) *Frame {
	return &Frame{ReturnAddress: returnAddress, Locals: make(map[int32]runtime.Value)}
}
