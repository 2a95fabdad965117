package main

import (
	"tinybasic/ast"
	"tinybasic/compiler"
	"tinybasic/ir"
	"tinybasic/lexer"
	"tinybasic/parser"
)

// compileSource runs every pipeline stage in order and returns both the
// parsed program (so callers can dump its AST) and the resulting bytecode.
func compileSource(source string) (ast.Program, compiler.Bytecode, error) {
	lex := lexer.New(source)
	tokens, err := lex.Scan()
	if err != nil {
		return ast.Program{}, compiler.Bytecode{}, err
	}

	prog, err := parser.Make(tokens).ParseProgram()
	if err != nil {
		return ast.Program{}, compiler.Bytecode{}, err
	}

	nodes := ir.Lower(prog)
	bytecode, err := compiler.Compile(nodes)
	if err != nil {
		return prog, compiler.Bytecode{}, err
	}
	return prog, bytecode, nil
}
