// Package objcmeta declares the Objective-C runtime metadata collaborator
// contract consumed by the ARM64 analyzer. Reading class, category,
// protocol and method-list structures out of a Mach-O image is left to a
// concrete implementation elsewhere — only the interface the analyzer
// needs is defined here.
package objcmeta

// SelectorInfo is what a Resolver returns for a resolved selref pointer:
// the selector's literal text, and the address of its method
// implementation when known.
type SelectorInfo struct {
	Literal string
	Impl    uint64
}

// Resolver answers "what selector lives at this selref pointer?" for a
// binary's Objective-C metadata.
type Resolver interface {
	SelectorForSelref(ptr uint64) (SelectorInfo, bool)
}

// NoneResolver is a Resolver that never resolves anything, useful as a
// default when Objective-C metadata has not been loaded for a binary (pure
// C code, or a caller uninterested in selector recovery).
type NoneResolver struct{}

func (NoneResolver) SelectorForSelref(uint64) (SelectorInfo, bool) { return SelectorInfo{}, false }
