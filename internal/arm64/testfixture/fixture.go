// Package testfixture provides a hand-built BinaryContext and instruction
// builders for exercising the ARM64 analyzer without a real Mach-O image
// or disassembler, so each scenario can hand-construct exactly the
// instruction sequence it needs.
package testfixture

import (
	"github.com/strongarm-go/strongarm/internal/arm64"
	"github.com/strongarm-go/strongarm/objcmeta"
)

// Binary is a fake BinaryContext: a fixed symbol table plus a
// defined-address range, with an optional ObjC resolver.
type Binary struct {
	Symbols       map[uint64]string
	TextStart     uint64
	TextEnd       uint64
	ObjcMetadata  objcmeta.Resolver
	Functions     map[uint64][]arm64.Instruction
}

// NewBinary builds a Binary covering [textStart, textEnd] with no symbols.
func NewBinary(textStart, textEnd uint64) *Binary {
	return &Binary{
		Symbols:      map[uint64]string{},
		TextStart:    textStart,
		TextEnd:      textEnd,
		ObjcMetadata: objcmeta.NoneResolver{},
		Functions:    map[uint64][]arm64.Instruction{},
	}
}

func (b *Binary) SymbolNameAt(addr uint64) (string, bool) {
	name, ok := b.Symbols[addr]
	return name, ok
}

func (b *Binary) ContainsAddress(addr uint64) bool {
	return addr >= b.TextStart && addr <= b.TextEnd
}

func (b *Binary) ObjcResolver() objcmeta.Resolver { return b.ObjcMetadata }

// Fetch implements arm64.FunctionFetcher over the Functions map, for tests
// exercising CanExecuteCall's recursive construction of child analyzers.
func (b *Binary) Fetch(_ arm64.BinaryContext, startAddress uint64) ([]arm64.Instruction, error) {
	instrs, ok := b.Functions[startAddress]
	if !ok {
		return nil, errNoSuchFunction(startAddress)
	}
	return instrs, nil
}

type errNoSuchFunction uint64

func (e errNoSuchFunction) Error() string {
	return "testfixture: no function registered at address"
}

// Builder accumulates instructions at sequential 4-byte-stride addresses
// starting at base, for concise construction of test scenarios.
type Builder struct {
	addr   uint64
	instrs []arm64.Instruction
}

// NewBuilder starts a Builder whose first instruction will be placed at
// base.
func NewBuilder(base uint64) *Builder {
	return &Builder{addr: base}
}

// Emit appends one instruction with the given mnemonic and operands,
// advancing the address by 4.
func (bld *Builder) Emit(mnemonic string, operands ...arm64.Operand) *Builder {
	bld.instrs = append(bld.instrs, arm64.Instruction{
		Address:  bld.addr,
		Mnemonic: mnemonic,
		Operands: operands,
	})
	bld.addr += 4
	return bld
}

// Build returns the accumulated instruction vector.
func (bld *Builder) Build() []arm64.Instruction {
	return bld.instrs
}

// At returns the i'th emitted instruction, for passing to
// GetRegisterContentsAtInstruction / GetSelrefPtr in tests.
func (bld *Builder) At(i int) arm64.Instruction {
	return bld.instrs[i]
}
