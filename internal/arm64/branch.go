package arm64

// directBranchMnemonics are unconditional branches whose destination is an
// immediate operand.
var directBranchMnemonics = map[string]bool{
	"b":  true,
	"bl": true,
}

// indirectBranchMnemonics are register-indirect branches whose destination
// must be recovered, if at all, through the data-flow engine.
var indirectBranchMnemonics = map[string]bool{
	"br":  true,
	"blr": true,
}

// conditionalBranchMnemonics are conditional branches. "b.eq"/"b.ne"/...
// match via MnemonicBase() == "b" combined with a non-empty suffix, handled
// separately below; the rest are recognized by their bare mnemonic.
var conditionalBranchMnemonics = map[string]bool{
	"cbz":  true,
	"cbnz": true,
	"tbz":  true,
	"tbnz": true,
}

// IsBranchInstruction reports whether instr's mnemonic is in the
// recognized branch set.
func IsBranchInstruction(instr Instruction) bool {
	if directBranchMnemonics[instr.Mnemonic] || indirectBranchMnemonics[instr.Mnemonic] || conditionalBranchMnemonics[instr.Mnemonic] {
		return true
	}
	base := instr.MnemonicBase()
	return base == "b" && base != instr.Mnemonic
}

// BranchInstruction is the classification of an instruction known to be a
// branch.
type BranchInstruction struct {
	Address  uint64
	Mnemonic string

	DestinationAddress uint64
	HasDestination     bool

	SymbolName string
	HasSymbol  bool

	IsExternalCCall    bool
	IsMsgSendCall      bool
	IsExternalObjcCall bool

	// SelrefPointer is present only for message sends whose selector
	// could be statically recovered.
	SelrefPointer    uint64
	HasSelrefPointer bool

	// SelectorName is the resolved selector literal (e.g. "init"),
	// present whenever HasSelrefPointer is true and the resolver could
	// look it up.
	SelectorName string

	// rawInstr back-points to the original instruction for convenience
	// accessors (GetSelrefPtr, re-inspection).
	rawInstr Instruction
}

// RawInstruction returns the underlying Instruction this branch was
// classified from.
func (b BranchInstruction) RawInstruction() Instruction { return b.rawInstr }

var msgSendSymbols = map[string]bool{
	"_objc_msgSend":            true,
	"_objc_msgSendSuper":       true,
	"_objc_msgSendSuper2":      true,
	"_objc_msgSend_stret":      true,
	"_objc_msgSendSuper_stret": true,
}

func isMsgSendSymbol(name string) bool {
	if msgSendSymbols[name] {
		return true
	}
	return len(name) > len("_objc_msgSendSuper") && name[:len("_objc_msgSendSuper")] == "_objc_msgSendSuper"
}

// ClassifyBranch decides whether instr is a branch and, if so, resolves
// its destination and classification flags. f supplies the surrounding
// function body (for data-flow resolution of indirect destinations and of
// x1 in message sends) and the binary context (symbol lookup,
// defined-text containment, objc metadata resolution).
func ClassifyBranch(f *FunctionAnalyzer, instr Instruction) (BranchInstruction, bool) {
	if !IsBranchInstruction(instr) {
		return BranchInstruction{}, false
	}

	b := BranchInstruction{Address: instr.Address, Mnemonic: instr.Mnemonic, rawInstr: instr}

	switch {
	case directBranchMnemonics[instr.Mnemonic]:
		if len(instr.Operands) == 0 || instr.Operands[0].Kind != OperandImmediate {
			malformedInput("%s at %#x missing immediate target operand", instr.Mnemonic, instr.Address)
		}
		b.DestinationAddress = uint64(instr.Operands[0].Value)
		b.HasDestination = true

	case indirectBranchMnemonics[instr.Mnemonic]:
		if len(instr.Operands) == 0 || instr.Operands[0].Kind != OperandRegister {
			malformedInput("%s at %#x missing register target operand", instr.Mnemonic, instr.Address)
		}
		if contents, err := f.GetRegisterContentsAtInstruction(instr.Operands[0].RegID, instr); err == nil {
			if v, ok := contents.Immediate(); ok {
				b.DestinationAddress = uint64(v)
				b.HasDestination = true
			}
		}

	default:
		// Conditional branch: the destination operand is the last operand
		// (an immediate) for cbz/cbnz/tbz/tbnz/b.cond alike.
		if n := len(instr.Operands); n > 0 && instr.Operands[n-1].Kind == OperandImmediate {
			b.DestinationAddress = uint64(instr.Operands[n-1].Value)
			b.HasDestination = true
		}
	}

	isCallMnemonic := instr.Mnemonic == "bl" || instr.Mnemonic == "blr"
	if !b.HasDestination || !isCallMnemonic {
		return b, true
	}

	if name, ok := f.binary.SymbolNameAt(b.DestinationAddress); ok {
		b.SymbolName = name
		b.HasSymbol = true
	}

	if instr.Mnemonic == "bl" && b.HasSymbol && isMsgSendSymbol(b.SymbolName) {
		b.IsMsgSendCall = true
		if contents, err := f.GetRegisterContentsAtInstruction("x1", instr); err == nil {
			if v, ok := contents.Immediate(); ok {
				selref := uint64(v)
				b.SelrefPointer = selref
				b.HasSelrefPointer = true
				if sel, found := f.binary.ObjcResolver().SelectorForSelref(selref); found {
					b.SelectorName = sel.Literal
				}
			}
		}
		if !f.binary.ContainsAddress(b.DestinationAddress) {
			b.IsExternalObjcCall = true
		}
		return b, true
	}

	if !f.binary.ContainsAddress(b.DestinationAddress) {
		b.IsExternalCCall = true
	}

	return b, true
}
