package disasm

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/arch/arm64/arm64asm"

	"github.com/strongarm-go/strongarm/internal/arm64"
)

// Arm64asmDisassembler implements Disassembler over
// golang.org/x/arch/arm64/arm64asm, a real ARM64 decoder.
type Arm64asmDisassembler struct{}

var _ Disassembler = Arm64asmDisassembler{}

const instructionSize = 4

// Decode disassembles code in 4-byte steps starting at baseAddr, asserting
// the fixed-stride assumption the rest of this analyzer depends on. An
// instruction arm64asm cannot decode is represented with mnemonic "udf"
// and no operands rather than aborting the whole range, so that a handful
// of unrecognized bytes (data islands, literal pools) don't prevent
// analysis of the surrounding code.
func (Arm64asmDisassembler) Decode(code []byte, baseAddr uint64) ([]arm64.Instruction, error) {
	if len(code)%instructionSize != 0 {
		return nil, fmt.Errorf("strongarm: code length %d is not a multiple of %d", len(code), instructionSize)
	}

	out := make([]arm64.Instruction, 0, len(code)/instructionSize)
	for off := 0; off < len(code); off += instructionSize {
		addr := baseAddr + uint64(off)
		chunk := code[off : off+instructionSize]

		inst, err := arm64asm.Decode(chunk)
		if err != nil {
			out = append(out, arm64.Instruction{Address: addr, Mnemonic: "udf"})
			continue
		}

		mnemonic := strings.ToLower(inst.Op.String())
		if cond, ok := inst.Args[0].(arm64asm.Cond); ok && inst.Op == arm64asm.B {
			// Conditional branch: fold the condition into "b.eq", "b.ne", ...
			mnemonic += "." + strings.ToLower(cond.String())
		}
		out = append(out, arm64.Instruction{
			Address:  addr,
			Mnemonic: mnemonic,
			Operands: convertOperands(inst, addr),
			Raw:      inst,
		})
	}
	return out, nil
}

// convertOperands normalizes arm64asm's Args into the Operand tagged
// union. Operand shapes this analyzer never needs to trace through data
// flow (vector registers with lane arrangements, extended-register shifts,
// condition codes used as branch suffixes) are recorded best-effort via
// their textual form so the instruction is still inspectable, but never as
// a type the data-flow engine would try to chase.
func convertOperands(inst arm64asm.Inst, addr uint64) []arm64.Operand {
	var ops []arm64.Operand
	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		switch a := arg.(type) {
		case arm64asm.Reg:
			ops = append(ops, arm64.Reg(regName(a)))
		case arm64asm.RegSP:
			ops = append(ops, arm64.Reg(strings.ToLower(a.String())))
		case arm64asm.Imm:
			ops = append(ops, arm64.Imm(int64(a.Imm)))
		case arm64asm.Imm64:
			ops = append(ops, arm64.Imm(int64(a.Imm)))
		case arm64asm.ImmShift:
			ops = append(ops, arm64.Imm(parseHashImmediate(a.String())))
		case arm64asm.PCRel:
			ops = append(ops, arm64.Imm(int64(addr)+int64(a)))
		case arm64asm.MemImmediate:
			base, offset := memImmediateParts(a)
			ops = append(ops, arm64.Mem(base, offset))
		default:
			ops = append(ops, arm64.Operand{Kind: arm64.OperandInvalid, RegID: arg.String()})
		}
	}
	return ops
}

// regName renders an arm64asm.Reg the way arm64.CanonicalizeRegister
// expects to see it: a lowercase name with an 'x'/'w' width prefix for
// general-purpose registers ("x1", "w1"), or the bare name otherwise
// ("xzr", "wzr", vector registers). Register 31 in an arm64asm.RegSP
// operand is the stack pointer and is rendered from the RegSP itself
// ("sp", "wsp"), not through regName.
func regName(r arm64asm.Reg) string {
	return strings.ToLower(r.String())
}

// memImmediateParts extracts the canonical base register name and signed
// displacement from an arm64asm.MemImmediate, regardless of addressing
// mode (offset, pre-index, post-index) — the data-flow engine only cares
// about the base+displacement pair, not which form produced it. The
// displacement itself is unexported on MemImmediate, so it is recovered
// from the operand's rendered text (e.g. "[X0,#0x10]").
func memImmediateParts(m arm64asm.MemImmediate) (base string, disp int64) {
	return strings.ToLower(m.Base.String()), parseHashImmediate(m.String())
}

// parseHashImmediate extracts the first "#<value>" token from an
// arm64asm operand's rendered text, used for operand shapes (MemImmediate,
// ImmShift) that only expose their immediate through String().
func parseHashImmediate(s string) int64 {
	idx := strings.IndexByte(s, '#')
	if idx < 0 {
		return 0
	}
	rest := s[idx+1:]
	end := strings.IndexFunc(rest, func(r rune) bool {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		case r == 'x' || r == 'X' || r == '-':
		default:
			return true
		}
		return false
	})
	if end >= 0 {
		rest = rest[:end]
	}
	v, err := strconv.ParseInt(rest, 0, 64)
	if err != nil {
		return 0
	}
	return v
}
