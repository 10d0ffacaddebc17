// Package binaryio declares the Mach-O byte-addressable reader collaborator
// contract consumed by the ARM64 analyzer. Parsing load commands,
// segments, sections, symbol tables and rebase/bind opcodes out of a
// Mach-O image is left to a concrete implementation elsewhere — only the
// read/translate/lookup interface the analyzer needs is defined here.
package binaryio

// Reader is the binary collaborator contract the analyzer needs: byte-
// addressable reads, virtual-address containment, and symbol-name lookup
// by address. Virtual/file address translation and fat-slice handling are
// internal to a concrete Reader implementation.
type Reader interface {
	// ReadBytes reads up to n bytes starting at the given virtual address;
	// fewer are returned when the mapped data ends before addr+n.
	ReadBytes(addr uint64, n int) ([]byte, error)

	// ReadStringAt reads a NUL-terminated C string starting at addr.
	ReadStringAt(addr uint64) (string, error)

	// SymbolNameAt returns the symbol table name bound to addr, if any.
	SymbolNameAt(addr uint64) (string, bool)

	// ContainsAddress reports whether addr falls within a mapped,
	// defined-text range of this binary.
	ContainsAddress(addr uint64) bool
}
