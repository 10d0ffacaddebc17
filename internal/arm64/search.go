package arm64

// SearchTerm is a composable predicate evaluated against one instruction
// of a function body.
type SearchTerm interface {
	Satisfied(f *FunctionAnalyzer, instr Instruction) bool
}

// CallDestination matches a branch whose resolved destination symbol
// equals Symbol.
type CallDestination struct {
	Symbol string
}

func (t CallDestination) Satisfied(f *FunctionAnalyzer, instr Instruction) bool {
	branch, ok := ClassifyBranch(f, instr)
	if !ok {
		return false
	}
	return branch.HasSymbol && branch.SymbolName == t.Symbol
}

// InstructionMnemonic matches when the instruction's mnemonic is one of
// Allow.
type InstructionMnemonic struct {
	Allow []string
}

func (t InstructionMnemonic) Satisfied(_ *FunctionAnalyzer, instr Instruction) bool {
	for _, m := range t.Allow {
		if instr.Mnemonic == m {
			return true
		}
	}
	return false
}

// InstructionOperand matches when the operand at Index has the given Kind.
type InstructionOperand struct {
	Index int
	Kind  OperandKind
}

func (t InstructionOperand) Satisfied(_ *FunctionAnalyzer, instr Instruction) bool {
	if t.Index < 0 || t.Index >= len(instr.Operands) {
		return false
	}
	return instr.Operands[t.Index].Kind == t.Kind
}

// InstructionIndex is a window constraint (min/max/step, and a
// search-backwards flag) reserved for future use. It is never evaluated
// per-instruction; NewCodeSearch rejects any CodeSearch containing one
// with ErrSearchTermNotImplemented.
type InstructionIndex struct {
	Min, Max, Step int
	Backwards      bool
}

func (InstructionIndex) Satisfied(*FunctionAnalyzer, Instruction) bool {
	// Never reached: NewCodeSearch rejects this term kind up front.
	return false
}

// MatchMode selects how a CodeSearch's terms combine.
type MatchMode int

const (
	// MatchAny is OR mode: a single satisfied term is enough to emit a
	// result, bound to that term.
	MatchAny MatchMode = iota
	// MatchAll is AND mode: every term must be satisfied on the same
	// instruction, and the result is bound to the whole term set.
	MatchAll
)

// CodeSearch bundles a list of SearchTerms plus a MatchMode. Immutable
// after construction.
type CodeSearch struct {
	terms []SearchTerm
	mode  MatchMode
}

// NewCodeSearch constructs a CodeSearch. It returns
// ErrSearchTermNotImplemented if terms contains an InstructionIndex, since
// that term kind is reserved.
func NewCodeSearch(mode MatchMode, terms ...SearchTerm) (*CodeSearch, error) {
	for _, t := range terms {
		if _, ok := t.(InstructionIndex); ok {
			return nil, ErrSearchTermNotImplemented
		}
	}
	return &CodeSearch{terms: append([]SearchTerm(nil), terms...), mode: mode}, nil
}

// CodeSearchResult binds matched predicate(s) to the function analyzer and
// instruction where they matched.
type CodeSearchResult struct {
	MatchedTerms []SearchTerm
	Analyzer     *FunctionAnalyzer
	Instruction  Instruction
}

// SearchCode scans f's instructions in program order, evaluating search
// against each. Results preserve instruction order.
func (f *FunctionAnalyzer) SearchCode(search *CodeSearch) []CodeSearchResult {
	var results []CodeSearchResult

	for _, instr := range f.instructions {
		if search.mode == MatchAny {
			for _, term := range search.terms {
				if term.Satisfied(f, instr) {
					results = append(results, CodeSearchResult{
						MatchedTerms: []SearchTerm{term},
						Analyzer:     f,
						Instruction:  instr,
					})
					break
				}
			}
			continue
		}

		// MatchAll
		allSatisfied := true
		for _, term := range search.terms {
			if !term.Satisfied(f, instr) {
				allSatisfied = false
				break
			}
		}
		if allSatisfied && len(search.terms) > 0 {
			results = append(results, CodeSearchResult{
				MatchedTerms: append([]SearchTerm(nil), search.terms...),
				Analyzer:     f,
				Instruction:  instr,
			})
		}
	}

	return results
}
