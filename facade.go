package strongarm

import "github.com/strongarm-go/strongarm/internal/arm64"

// Type aliases re-exporting the internal/arm64 vocabulary directly, so
// callers of this package never need to import internal/arm64 themselves.
type (
	Instruction         = arm64.Instruction
	Operand             = arm64.Operand
	BranchInstruction   = arm64.BranchInstruction
	RegisterContents    = arm64.RegisterContents
	FunctionAnalyzer    = arm64.FunctionAnalyzer
	BlockAnalyzer       = arm64.BlockAnalyzer
	CodeSearch          = arm64.CodeSearch
	CodeSearchResult    = arm64.CodeSearchResult
	SearchTerm          = arm64.SearchTerm
	CallDestination     = arm64.CallDestination
	InstructionMnemonic = arm64.InstructionMnemonic
	InstructionOperand  = arm64.InstructionOperand
	InstructionIndex    = arm64.InstructionIndex
	MatchMode           = arm64.MatchMode
)

const (
	MatchAny = arm64.MatchAny
	MatchAll = arm64.MatchAll
)

// Sentinel errors re-exported from internal/arm64, so callers can
// require.ErrorIs against this package directly.
var (
	ErrUnresolvableStackDependency = arm64.ErrUnresolvableStackDependency
	ErrAmbiguousDataFlow           = arm64.ErrAmbiguousDataFlow
	ErrNotApplicable               = arm64.ErrNotApplicable
	ErrBlockInvokeNotFound         = arm64.ErrBlockInvokeNotFound
	ErrSearchTermNotImplemented    = arm64.ErrSearchTermNotImplemented
)

// NewCodeSearch re-exports internal/arm64.NewCodeSearch.
func NewCodeSearch(mode arm64.MatchMode, terms ...arm64.SearchTerm) (*CodeSearch, error) {
	return arm64.NewCodeSearch(mode, terms...)
}

// SearchCode runs search over f's instructions.
func SearchCode(f *FunctionAnalyzer, search *CodeSearch) []CodeSearchResult {
	return f.SearchCode(search)
}

// GetRegisterContentsAt resolves register's value at instr via the
// backward data-flow walk.
func GetRegisterContentsAt(f *FunctionAnalyzer, register string, instr Instruction) (RegisterContents, error) {
	return f.GetRegisterContentsAtInstruction(register, instr)
}

// FindBlockInvoke locates b's block-invoke call site.
func FindBlockInvoke(b *BlockAnalyzer) (Instruction, int, error) {
	return b.FindBlockInvoke()
}
