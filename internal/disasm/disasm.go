// Package disasm supplies the ARM64 Disassembler collaborator: given a
// byte range, produce a sequence of decoded instructions in the
// normalized operand model.
package disasm

import "github.com/strongarm-go/strongarm/internal/arm64"

// Disassembler decodes a contiguous ARM64 byte range starting at
// baseAddr into the normalized Instruction model. ARM64 only; callers may
// assume (and implementations must enforce) the 4-byte fixed-stride
// invariant asserted elsewhere by FunctionAnalyzer.
type Disassembler interface {
	Decode(code []byte, baseAddr uint64) ([]arm64.Instruction, error)
}
