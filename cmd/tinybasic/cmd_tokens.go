package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tinybasic/lexer"
)

type tokensCmd struct{}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "dump the raw token stream for a source file" }
func (*tokensCmd) Usage() string {
	return `tokens <file>:
  Lex <file> and print one token per line.
`
}

func (*tokensCmd) SetFlags(*flag.FlagSet) {}

func (*tokensCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	tokens, err := lexer.New(string(data)).Scan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
	for _, tok := range tokens {
		fmt.Println(tok.String())
	}
	return subcommands.ExitSuccess
}
