package strongarm

import (
	"fmt"

	"github.com/strongarm-go/strongarm/binaryio"
	"github.com/strongarm-go/strongarm/internal/arm64"
	"github.com/strongarm-go/strongarm/internal/disasm"
	"github.com/strongarm-go/strongarm/objcmeta"
)

// AnalyzerContext is an explicit, caller-owned handle bundling the binary
// collaborator, the objc resolver, the tunable config, and a memoizing
// cache of FunctionAnalyzers keyed by start address, filled by
// GetFunctionAnalyzer. The child analyzers CanExecuteCall builds while
// recursing are decoded through fetchFunction and are not stored in this
// cache. No package-level state: callers construct and pass their own
// instance. Not safe for concurrent GetFunctionAnalyzer calls; callers
// needing that must add their own locking.
type AnalyzerContext struct {
	reader   binaryio.Reader
	resolver objcmeta.Resolver
	disasm   disasm.Disassembler
	config   AnalyzerConfig

	cache map[uint64]*arm64.FunctionAnalyzer
}

// NewAnalyzerContext builds a context over reader using the arm64asm
// decoder (internal/disasm.Arm64asmDisassembler) as its Disassembler. A
// nil resolver defaults to objcmeta.NoneResolver{}.
func NewAnalyzerContext(reader binaryio.Reader, resolver objcmeta.Resolver, config AnalyzerConfig) *AnalyzerContext {
	if resolver == nil {
		resolver = objcmeta.NoneResolver{}
	}
	return &AnalyzerContext{
		reader:   reader,
		resolver: resolver,
		disasm:   disasm.Arm64asmDisassembler{},
		config:   config,
		cache:    map[uint64]*arm64.FunctionAnalyzer{},
	}
}

// binaryAdapter satisfies internal/arm64.BinaryContext over a
// binaryio.Reader plus an objcmeta.Resolver, keeping the internal/arm64
// package decoupled from the container-format collaborator contracts.
type binaryAdapter struct {
	reader   binaryio.Reader
	resolver objcmeta.Resolver
}

func (a binaryAdapter) SymbolNameAt(addr uint64) (string, bool) { return a.reader.SymbolNameAt(addr) }
func (a binaryAdapter) ContainsAddress(addr uint64) bool        { return a.reader.ContainsAddress(addr) }
func (a binaryAdapter) ObjcResolver() objcmeta.Resolver         { return a.resolver }

// fetchFunction is the arm64.FunctionFetcher CanExecuteCall uses to
// construct child analyzers: it reads up to maxProbeBytes from the reader
// at startAddress and decodes them into instructions, which the caller
// wraps in a fresh FunctionAnalyzer.
func (c *AnalyzerContext) fetchFunction(binary arm64.BinaryContext, startAddress uint64) ([]arm64.Instruction, error) {
	const maxProbeBytes = 4096 // best-effort upper bound on a single function body

	code, err := c.reader.ReadBytes(startAddress, maxProbeBytes)
	if err != nil {
		return nil, fmt.Errorf("strongarm: read function body at %#x: %w", startAddress, err)
	}
	return c.disasm.Decode(code, startAddress)
}

// GetFunctionAnalyzer returns the memoized FunctionAnalyzer rooted at
// startAddress, decoding and constructing it on first request.
func (c *AnalyzerContext) GetFunctionAnalyzer(startAddress uint64) (*arm64.FunctionAnalyzer, error) {
	if cached, ok := c.cache[startAddress]; ok {
		return cached, nil
	}

	instructions, err := c.fetchFunction(nil, startAddress)
	if err != nil {
		return nil, err
	}

	adapter := binaryAdapter{reader: c.reader, resolver: c.resolver}
	f := arm64.NewFunctionAnalyzer(adapter, c.fetchFunction, instructions).
		WithRecursionGuard(c.config.maxCallDepth)

	c.cache[startAddress] = f
	return f, nil
}

// ForFunction constructs, or fetches the cached, analyzer for the
// function starting at startAddress.
func (c *AnalyzerContext) ForFunction(startAddress uint64) (*arm64.FunctionAnalyzer, error) {
	return c.GetFunctionAnalyzer(startAddress)
}

// BlockAnalyzerFor builds a BlockAnalyzer over the function at
// startAddress tracking blockArgReg.
func (c *AnalyzerContext) BlockAnalyzerFor(startAddress uint64, blockArgReg string) (*arm64.BlockAnalyzer, error) {
	f, err := c.GetFunctionAnalyzer(startAddress)
	if err != nil {
		return nil, err
	}
	adapter := binaryAdapter{reader: c.reader, resolver: c.resolver}
	return arm64.NewBlockAnalyzer(adapter, c.fetchFunction, f.Instructions(), blockArgReg), nil
}
