package compiler

import "fmt"

// EmissionError is raised when the compiler is asked to lower an ir.Node it
// cannot turn into bytecode: an unresolved label, a reserved/unimplemented
// construct, or a reference to an undeclared local.
type EmissionError struct {
	Message string
}

func (e EmissionError) Error() string {
	return fmt.Sprintf("💥 EmissionError: %s", e.Message)
}

// DeveloperError marks an invariant violated by the compiler itself rather
// than by the program being compiled, e.g. a malformed fixup table.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
