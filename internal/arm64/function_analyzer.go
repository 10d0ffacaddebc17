package arm64

import "github.com/strongarm-go/strongarm/objcmeta"

// BinaryContext is the minimal view of the enclosing binary a
// FunctionAnalyzer needs: enough to classify branches and recurse into
// callees. It is satisfied by the binaryio.Reader collaborator contract
// plus the objc metadata resolver; kept as its own small interface here so
// this package does not import binaryio directly and stays decoupled from
// the container-format collaborator.
type BinaryContext interface {
	SymbolNameAt(addr uint64) (string, bool)
	ContainsAddress(addr uint64) bool
	ObjcResolver() objcmeta.Resolver
}

// FunctionFetcher loads the instruction vector for a function starting at
// addr, used by CanExecuteCall to construct child analyzers on demand.
// Implementations are expected to be backed by a disassembler plus a
// function-body byte range lookup.
type FunctionFetcher func(binary BinaryContext, startAddress uint64) ([]Instruction, error)

// FunctionAnalyzer owns a contiguous instruction vector representing one
// function body. It lazily computes and caches its branch list, and
// answers reachability and data-flow questions over that body.
type FunctionAnalyzer struct {
	binary    BinaryContext
	fetchFunc FunctionFetcher
	recursion *recursionGuard
	debugLog  DebugLogger

	instructions []Instruction

	StartAddress uint64
	EndAddress   uint64

	callTargets []BranchInstruction
	callsCached bool
}

// DebugLogger is the narrow logging seam used by the analyzer to narrate
// its recursive reachability search and branch enumeration. See
// internal/debug for the concrete implementations.
type DebugLogger interface {
	Logf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Logf(string, ...any) {}

// recursionGuard bounds CanExecuteCall's recursive construction of child
// analyzers, so a cyclic or adversarially deep call graph cannot grow the
// native stack without bound.
type recursionGuard struct {
	maxDepth int
	visited  map[uint64]bool
	depth    int
}

func newRecursionGuard(maxDepth int) *recursionGuard {
	return &recursionGuard{maxDepth: maxDepth, visited: map[uint64]bool{}}
}

// NewFunctionAnalyzer constructs an analyzer over an explicit instruction
// vector. An empty vector is permitted (stub function) and yields
// StartAddress == EndAddress == 0; otherwise addresses must be strictly
// increasing with a constant 4-byte stride — violations panic, as they
// indicate a decoder bug rather than a recoverable condition.
func NewFunctionAnalyzer(binary BinaryContext, fetch FunctionFetcher, instructions []Instruction) *FunctionAnalyzer {
	f := &FunctionAnalyzer{
		binary:       binary,
		fetchFunc:    fetch,
		recursion:    newRecursionGuard(defaultMaxCallDepth),
		debugLog:     noopLogger{},
		instructions: instructions,
	}

	if len(instructions) == 0 {
		return f
	}

	f.StartAddress = instructions[0].Address
	prev := f.StartAddress
	for _, in := range instructions[1:] {
		if in.Address != prev+4 {
			malformedInput("instruction addresses must increase by 4, got %#x after %#x", in.Address, prev)
		}
		prev = in.Address
	}
	f.EndAddress = instructions[len(instructions)-1].Address
	return f
}

const defaultMaxCallDepth = 64

// WithDebugLogger returns a shallow copy of f that logs through logger.
func (f *FunctionAnalyzer) WithDebugLogger(logger DebugLogger) *FunctionAnalyzer {
	clone := *f
	clone.debugLog = logger
	return &clone
}

// WithRecursionGuard returns a shallow copy of f with a fresh
// CanExecuteCall recursion guard whose depth bound is maxDepth.
func (f *FunctionAnalyzer) WithRecursionGuard(maxDepth int) *FunctionAnalyzer {
	clone := *f
	clone.recursion = newRecursionGuard(maxDepth)
	return &clone
}

// Instructions returns the owned instruction vector.
func (f *FunctionAnalyzer) Instructions() []Instruction { return f.instructions }

func (f *FunctionAnalyzer) indexOf(instr Instruction) int {
	idx := int((instr.Address - f.StartAddress) / 4)
	if idx < 0 || idx >= len(f.instructions) || f.instructions[idx].Address != instr.Address {
		malformedInput("instruction at %#x does not belong to this function body [%#x, %#x]", instr.Address, f.StartAddress, f.EndAddress)
	}
	return idx
}

// CallTargets returns, in program order, every branch reachable in this
// function body, computed once and cached.
func (f *FunctionAnalyzer) CallTargets() []BranchInstruction {
	if f.callsCached {
		return f.callTargets
	}

	var targets []BranchInstruction
	lastIdx := 0
	for {
		next, idx, ok := f.NextBranchAfter(lastIdx)
		if !ok {
			break
		}
		targets = append(targets, next)
		lastIdx = idx + 1
	}

	f.callTargets = targets
	f.callsCached = true
	return targets
}

// NextBranchAfter returns the first branch at or after index, and the
// index it was found at. It returns ok=false at the end of the function.
// Message-send destinations are resolved as part of classification.
func (f *FunctionAnalyzer) NextBranchAfter(index int) (BranchInstruction, int, bool) {
	for idx := index; idx < len(f.instructions); idx++ {
		branch, isBranch := ClassifyBranch(f, f.instructions[idx])
		if !isBranch {
			continue
		}
		if branch.IsMsgSendCall && branch.DestinationAddress == 0 {
			f.debugLog.Logf("func(%#x) bl <objc_msgSend> target cannot be determined statically", branch.Address)
		}
		return branch, idx, true
	}
	return BranchInstruction{}, 0, false
}

// LocalBranches returns the subset of CallTargets whose destination lies
// within this function's address range.
func (f *FunctionAnalyzer) LocalBranches() []BranchInstruction {
	var local []BranchInstruction
	for _, target := range f.CallTargets() {
		if f.IsLocalBranch(target) {
			local = append(local, target)
		}
	}
	return local
}

// IsLocalBranch reports whether b's destination is within [StartAddress,
// EndAddress]. A branch with no resolved destination is never local.
func (f *FunctionAnalyzer) IsLocalBranch(b BranchInstruction) bool {
	if !b.HasDestination {
		return false
	}
	return f.StartAddress <= b.DestinationAddress && b.DestinationAddress <= f.EndAddress
}

// CanExecuteCall performs a depth-first transitive reachability probe: can
// this function, directly or through callees it can itself resolve and
// disassemble, reach callAddress?
//
// Local branches are skipped (already covered by this function's own
// CallTargets enumeration — this is what prevents infinite recursion on
// loops within one function). External C calls and external Objective-C
// calls are skipped without recursing, since their bodies are not
// available. Data-flow failures while classifying a branch are treated as
// "path not taken," never propagated.
func (f *FunctionAnalyzer) CanExecuteCall(callAddress uint64) bool {
	if f.recursion.depth == 0 {
		// A new top-level query: callees visited by an earlier query are
		// searched again.
		f.recursion.visited = map[uint64]bool{}
	}
	for _, target := range f.CallTargets() {
		if target.HasDestination && target.DestinationAddress == callAddress {
			f.debugLog.Logf("found call to %#x at %#x", callAddress, target.Address)
			return true
		}

		if target.IsExternalCCall && !target.IsMsgSendCall {
			continue
		}
		if f.IsLocalBranch(target) {
			continue
		}
		if target.IsExternalObjcCall {
			continue
		}
		if !target.HasDestination {
			continue
		}

		if f.recursion.visited[target.DestinationAddress] || f.recursion.depth >= f.recursion.maxDepth {
			continue
		}

		childInstructions, err := f.fetchFunc(f.binary, target.DestinationAddress)
		if err != nil {
			// Could not disassemble the callee; treat as path not taken.
			continue
		}

		f.recursion.visited[target.DestinationAddress] = true
		f.recursion.depth++
		child := NewFunctionAnalyzer(f.binary, f.fetchFunc, childInstructions)
		child.recursion = f.recursion
		child.debugLog = f.debugLog
		reached := child.CanExecuteCall(callAddress)
		f.recursion.depth--

		if reached {
			f.debugLog.Logf("found call to %#x in child code path from %#x", callAddress, target.Address)
			return true
		}
	}
	return false
}

// GetSelrefPtr is a convenience wrapper requiring mnemonic "bl": it
// resolves x1 at msgsendInstr via the data-flow engine and returns the
// selref pointer.
func (f *FunctionAnalyzer) GetSelrefPtr(msgsendInstr Instruction) (uint64, error) {
	if msgsendInstr.MnemonicBase() != "bl" {
		return 0, ErrNotApplicable
	}
	contents, err := f.GetRegisterContentsAtInstruction("x1", msgsendInstr)
	if err != nil {
		return 0, err
	}
	value, ok := contents.Immediate()
	if !ok {
		return 0, ErrAmbiguousDataFlow
	}
	return uint64(value), nil
}
