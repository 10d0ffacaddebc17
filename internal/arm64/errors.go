package arm64

import (
	"errors"
	"fmt"
)

// Recoverable error kinds. These are expected in ordinary use (a caller
// can fall back on them) and are therefore plain sentinel errors rather
// than panics.
var (
	// ErrUnresolvableStackDependency is returned when a data-flow chain
	// bottoms out at the stack pointer, which this engine never tracks
	// statically.
	ErrUnresolvableStackDependency = errors.New("strongarm: register contents depend on stack pointer, cannot determine statically")

	// ErrAmbiguousDataFlow is returned when the backward walk reaches
	// function entry with more than one register still unresolved, or
	// bottoms out at a register that cannot be read as a function
	// argument number (e.g. a vector register).
	ErrAmbiguousDataFlow = errors.New("strongarm: data-flow walk exited with more than one unresolved register")

	// ErrNotApplicable is returned by operations with a narrow applicable
	// instruction shape (e.g. GetSelrefPtr on a non-bl instruction).
	ErrNotApplicable = errors.New("strongarm: operation not applicable to this instruction")

	// ErrBlockInvokeNotFound is returned by BlockAnalyzer.FindBlockInvoke
	// when no blr instruction derived from the block argument is found.
	ErrBlockInvokeNotFound = errors.New("strongarm: never found block invoke")

	// ErrSearchTermNotImplemented is returned when a CodeSearch includes
	// an InstructionIndex term, which is reserved and not implemented.
	ErrSearchTermNotImplemented = errors.New("strongarm: instruction-index search term is reserved, not implemented")
)

// malformedInput panics with a BUG-prefixed message, for invariant
// violations that indicate a decoder bug or corrupted input rather than a
// condition a caller can reasonably catch.
func malformedInput(format string, args ...any) {
	panic(fmt.Errorf("strongarm: BUG: "+format, args...))
}
