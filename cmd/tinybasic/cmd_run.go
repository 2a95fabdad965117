package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tinybasic/host"
	"tinybasic/parser"
	"tinybasic/vm"
)

type runCmd struct {
	dumpAST bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "execute a source file" }
func (*runCmd) Usage() string {
	return `run <file>:
  Lex, parse, lower and compile <file>, then execute the resulting bytecode.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.dumpAST, "dumpAST", false, "write the parsed AST as JSON to ast.json")
}

func (cmd *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	machine := vm.New(host.NewStdio(os.Stdout, os.Stdin))
	if err := machine.Run(bytecode); err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
