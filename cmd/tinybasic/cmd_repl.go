package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"tinybasic/host"
	"tinybasic/vm"
)

type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive session" }
func (*replCmd) Usage() string {
	return `repl:
  Read a line, compile it, run it, repeat.
`
}

func (*replCmd) SetFlags(*flag.FlagSet) {}

// Execute compiles and runs each line independently: locals declared on one
// line do not survive to the next. This mirrors the simplest form of the
// language's own REPL loop, which re-creates its evaluator every iteration.
func (*replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}
		if line == "" {
			continue
		}

		_, bytecode, err := compileSource(line + "\n")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		machine := vm.New(host.NewStdio(os.Stdout, os.Stdin))
		if err := machine.Run(bytecode); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func historyFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".tinybasic_history"
	}
	return dir + "/tinybasic_history"
}
