// Package arm64 implements the ARM64 function analyzer: backward data-flow
// propagation over a disassembled instruction window, branch
// classification, and a predicate-based search engine layered on top.
package arm64

import "strings"

// OperandKind tags the variant held by an Operand.
type OperandKind int

const (
	// OperandInvalid marks an Operand without a recognized shape. Search
	// predicates that ask for a kind never match it.
	OperandInvalid OperandKind = iota
	OperandRegister
	OperandImmediate
	OperandMemory
)

// Operand is a tagged union over a register, an immediate, or a
// base+displacement memory reference. Exactly one of the typed accessors
// is meaningful, selected by Kind.
type Operand struct {
	Kind OperandKind

	// Register / Memory base: the *canonicalized* register id (see
	// CanonicalizeRegister) plus, for Register operands, the leading 'x'
	// or 'w' of the name the operand was built from (so "xzr"/"wzr" keep
	// theirs), or 0 for names without one such as "sp" and vector
	// registers.
	RegID string
	Width byte

	// Immediate value, or Memory displacement.
	Value int64
}

// Reg builds a register operand, canonicalizing the id.
func Reg(name string) Operand {
	width := byte(0)
	if len(name) > 0 && (name[0] == 'x' || name[0] == 'w') {
		width = name[0]
	}
	return Operand{Kind: OperandRegister, RegID: CanonicalizeRegister(name), Width: width}
}

// Imm builds an immediate operand.
func Imm(v int64) Operand {
	return Operand{Kind: OperandImmediate, Value: v}
}

// Mem builds a base+displacement memory operand. base is canonicalized.
func Mem(base string, disp int64) Operand {
	return Operand{Kind: OperandMemory, RegID: CanonicalizeRegister(base), Value: disp}
}

// CanonicalizeRegister strips a leading 'x' or 'w' width prefix from a
// general-purpose register name so that e.g. "x22" and "w22" collapse to
// the same id "22", and folds the zero register's two width spellings
// ("xzr", "wzr") to "zr". Other register names (sp, vector registers) are
// returned unmodified.
func CanonicalizeRegister(name string) string {
	if name == "xzr" || name == "wzr" {
		return "zr"
	}
	if len(name) > 1 && (name[0] == 'x' || name[0] == 'w') {
		rest := name[1:]
		if isDigits(rest) {
			return rest
		}
	}
	return name
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsZeroRegister reports whether the canonicalized register name denotes
// the ARM64 zero register (wzr/xzr both canonicalize to "zr").
func IsZeroRegister(canonicalID string) bool {
	return canonicalID == "zr"
}

// IsStackPointer reports whether the canonicalized register name denotes sp.
func IsStackPointer(canonicalID string) bool {
	return canonicalID == "sp"
}

// Instruction is an immutable, normalized view of one decoded ARM64
// instruction.
type Instruction struct {
	Address  uint64
	Mnemonic string
	Operands []Operand

	// Raw is a back-pointer to whatever decoder-specific representation
	// produced this Instruction (e.g. an arm64asm.Inst), opaque to this
	// package, for re-inspection by a caller that needs decoder-level
	// detail beyond the normalized Operand list.
	Raw any
}

// MnemonicBase returns the mnemonic without a condition-code suffix, e.g.
// "b.eq" -> "b". Most instructions have no suffix and are returned as-is.
func (i Instruction) MnemonicBase() string {
	if idx := strings.IndexByte(i.Mnemonic, '.'); idx >= 0 {
		return i.Mnemonic[:idx]
	}
	return i.Mnemonic
}
