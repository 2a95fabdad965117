package vm

import (
	"bytes"
	"strings"
	"testing"

	"tinybasic/compiler"
	"tinybasic/host"
)

func runProgram(t *testing.T, input string, instructions ...[]byte) (string, error) {
	t.Helper()
	var code compiler.Instructions
	for _, ins := range instructions {
		code = append(code, ins...)
	}
	var out bytes.Buffer
	machine := New(host.NewStdio(&out, strings.NewReader(input)))
	err := machine.Run(compiler.Bytecode{Instructions: code})
	return out.String(), err
}

func TestRunPrintsPushedInt(t *testing.T) {
	out, err := runProgram(t, "",
		compiler.MakeInstruction(compiler.OP_PUSH, 5),
		compiler.MakeInstruction(compiler.OP_PRINT),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "5\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunStoreThenLoad(t *testing.T) {
	out, err := runProgram(t, "",
		compiler.MakeInstruction(compiler.OP_PUSH, 7),
		compiler.MakeInstruction(compiler.OP_STORE, 0),
		compiler.MakeInstruction(compiler.OP_LOAD, 0),
		compiler.MakeInstruction(compiler.OP_PRINT),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "7\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunDivisionByZeroIsTypeError(t *testing.T) {
	_, err := runProgram(t, "",
		compiler.MakeInstruction(compiler.OP_PUSH, 1),
		compiler.MakeInstruction(compiler.OP_PUSH, 0),
		compiler.MakeInstruction(compiler.OP_DIV),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if _, ok := err.(TypeError); !ok {
		t.Fatalf("error type = %T, want TypeError", err)
	}
}

func TestRunStackUnderflowIsStackError(t *testing.T) {
	_, err := runProgram(t, "",
		compiler.MakeInstruction(compiler.OP_ADD),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if _, ok := err.(StackError); !ok {
		t.Fatalf("error type = %T, want StackError", err)
	}
}

func TestRunLoadUninitializedLocalIsMemoryError(t *testing.T) {
	_, err := runProgram(t, "",
		compiler.MakeInstruction(compiler.OP_LOAD, 0),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if _, ok := err.(MemoryError); !ok {
		t.Fatalf("error type = %T, want MemoryError", err)
	}
}

func TestRunMissingHaltIsMemoryError(t *testing.T) {
	_, err := runProgram(t, "", compiler.MakeInstruction(compiler.OP_PUSH, 1))
	if _, ok := err.(MemoryError); !ok {
		t.Fatalf("error type = %T, want MemoryError", err)
	}
}

func TestRunJzSkipsOnFalsy(t *testing.T) {
	// PUSH 0; JZ +skip-print; PUSH 99; PRINT; HALT
	printIns := compiler.MakeInstruction(compiler.OP_PUSH, 99)
	printOp := compiler.MakeInstruction(compiler.OP_PRINT)
	skip := len(printIns) + len(printOp)
	out, err := runProgram(t, "",
		compiler.MakeInstruction(compiler.OP_PUSH, 0),
		compiler.MakeInstruction(compiler.OP_JZ, skip),
		printIns,
		printOp,
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "" {
		t.Fatalf("expected nothing printed, got %q", out)
	}
}

func TestRunArrayRoundTrip(t *testing.T) {
	out, err := runProgram(t, "",
		compiler.MakeInstruction(compiler.OP_PUSH, 3),
		compiler.MakeInstruction(compiler.OP_NEWARRAY),
		compiler.MakeInstruction(compiler.OP_STORE, 0),
		compiler.MakeInstruction(compiler.OP_LOAD, 0),
		compiler.MakeInstruction(compiler.OP_PUSH, 1),
		compiler.MakeInstruction(compiler.OP_PUSH, 42),
		compiler.MakeInstruction(compiler.OP_SETINDEX),
		compiler.MakeInstruction(compiler.OP_LOAD, 0),
		compiler.MakeInstruction(compiler.OP_PUSH, 1),
		compiler.MakeInstruction(compiler.OP_GETINDEX),
		compiler.MakeInstruction(compiler.OP_PRINT),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "42\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunInputReadsLine(t *testing.T) {
	out, err := runProgram(t, "hello\n",
		compiler.MakeInstruction(compiler.OP_INPUT),
		compiler.MakeInstruction(compiler.OP_PRINT),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "hello\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunInputParsesIntegers(t *testing.T) {
	out, err := runProgram(t, "42\n",
		compiler.MakeInstruction(compiler.OP_INPUT),
		compiler.MakeInstruction(compiler.OP_PUSH, 1),
		compiler.MakeInstruction(compiler.OP_ADD),
		compiler.MakeInstruction(compiler.OP_PRINT),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "43\n" {
		t.Fatalf("got %q, want %q (INPUT should have parsed an INT)", out, "43\n")
	}
}

func TestRunPrintExpandsArrayElements(t *testing.T) {
	out, err := runProgram(t, "",
		compiler.MakeInstruction(compiler.OP_PUSH, 2),
		compiler.MakeInstruction(compiler.OP_NEWARRAY),
		compiler.MakeInstruction(compiler.OP_STORE, 0),
		compiler.MakeInstruction(compiler.OP_LOAD, 0),
		compiler.MakeInstruction(compiler.OP_PUSH, 0),
		compiler.MakeInstruction(compiler.OP_PUSH, 10),
		compiler.MakeInstruction(compiler.OP_SETINDEX),
		compiler.MakeInstruction(compiler.OP_LOAD, 0),
		compiler.MakeInstruction(compiler.OP_PUSH, 1),
		compiler.MakeInstruction(compiler.OP_PUSH, 20),
		compiler.MakeInstruction(compiler.OP_SETINDEX),
		compiler.MakeInstruction(compiler.OP_LOAD, 0),
		compiler.MakeInstruction(compiler.OP_PRINT),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "[10, 20]\n" {
		t.Fatalf("got %q, want %q", out, "[10, 20]\n")
	}
}

func TestRunJzOnStringConditionIsTypeError(t *testing.T) {
	_, err := runProgram(t, "",
		compiler.MakeStringPush("x"),
		compiler.MakeInstruction(compiler.OP_JZ, 0),
		compiler.MakeInstruction(compiler.OP_HALT),
	)
	if _, ok := err.(TypeError); !ok {
		t.Fatalf("error type = %T, want TypeError", err)
	}
}
