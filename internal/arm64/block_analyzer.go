package arm64

// BlockAnalyzer specializes FunctionAnalyzer for Objective-C block
// trampolines: given the register holding an incoming block pointer, it
// locates the blr instruction that invokes block->invoke.
type BlockAnalyzer struct {
	*FunctionAnalyzer

	// InitialBlockReg is the register name supplied at construction,
	// typically an argument register such as "x0".
	InitialBlockReg string
	blockArgIndex   int
}

// NewBlockAnalyzer constructs a BlockAnalyzer over instructions, with
// initialBlockReg naming the register that holds the block pointer on
// entry.
func NewBlockAnalyzer(binary BinaryContext, fetch FunctionFetcher, instructions []Instruction, initialBlockReg string) *BlockAnalyzer {
	fa := NewFunctionAnalyzer(binary, fetch, instructions)
	argIndex, _ := parseArgIndex(CanonicalizeRegister(initialBlockReg))
	return &BlockAnalyzer{
		FunctionAnalyzer: fa,
		InitialBlockReg:  initialBlockReg,
		blockArgIndex:    argIndex,
	}
}

// FindBlockInvoke searches for a blr instruction with a register operand,
// accepting the first match at which the data-flow engine, queried on
// InitialBlockReg, reports RegisterContentsFunctionArg with ArgIndex equal
// to the block argument's canonicalized register number. The blr's own
// target register is not traced. Returns ErrBlockInvokeNotFound if no
// match qualifies.
//
// The match check is the data-flow engine reporting RegisterContentsFunctionArg
// with ArgIndex equal to the block argument's own canonicalized register
// number — i.e. that register was never redefined between function entry
// and the blr.
func (b *BlockAnalyzer) FindBlockInvoke() (Instruction, int, error) {
	search, err := NewCodeSearch(MatchAll,
		InstructionMnemonic{Allow: []string{"blr"}},
		InstructionOperand{Index: 0, Kind: OperandRegister},
	)
	if err != nil {
		return Instruction{}, 0, err
	}

	for _, result := range b.SearchCode(search) {
		instr := result.Instruction
		contents, err := b.GetRegisterContentsAtInstruction(b.InitialBlockReg, instr)
		if err != nil {
			continue
		}
		if contents.Kind != RegisterContentsFunctionArg || contents.ArgIndex != b.blockArgIndex {
			continue
		}
		return instr, b.indexOf(instr), nil
	}

	return Instruction{}, 0, ErrBlockInvokeNotFound
}
