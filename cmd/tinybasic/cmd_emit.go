package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tinybasic/compiler"
	"tinybasic/parser"
)

type emitCmd struct {
	disassemble bool
	dumpAST     bool
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "compile a source file to bytecode without executing it" }
func (*emitCmd) Usage() string {
	return `emit <file>:
  Lex, parse, lower and compile <file>, printing the bytecode in hex.
`
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.disassemble, "disassemble", false, "print disassembled mnemonics instead of raw hex")
	f.BoolVar(&cmd.dumpAST, "dumpAST", false, "write the parsed AST as JSON to ast.json")
}

func (cmd *emitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 file not provided\n")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	prog, bytecode, err := compileSource(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}

	if cmd.dumpAST {
		if err := parser.WriteASTJSONToFile(prog, "ast.json"); err != nil {
			fmt.Fprintf(os.Stderr, "💥 failed to dump AST: %v\n", err)
		}
	}

	if cmd.disassemble {
		out, err := compiler.Disassemble(bytecode.Instructions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 disassemble error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Print(out)
		return subcommands.ExitSuccess
	}

	fmt.Printf("%x\n", []byte(bytecode.Instructions))
	return subcommands.ExitSuccess
}
