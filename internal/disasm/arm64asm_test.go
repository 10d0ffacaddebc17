package disasm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strongarm-go/strongarm/internal/disasm"
)

// retBytes encodes AArch64 "ret" (0xd65f03c0, little-endian).
var retBytes = []byte{0xc0, 0x03, 0x5f, 0xd6}

func TestArm64asmDisassembler_decodesRet(t *testing.T) {
	var d disasm.Arm64asmDisassembler
	instrs, err := d.Decode(retBytes, 0x4000)
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	require.Equal(t, uint64(0x4000), instrs[0].Address)
	require.Equal(t, "ret", instrs[0].Mnemonic)
}

func TestArm64asmDisassembler_rejectsUnalignedLength(t *testing.T) {
	var d disasm.Arm64asmDisassembler
	_, err := d.Decode([]byte{0x00, 0x01, 0x02}, 0x4000)
	require.Error(t, err)
}

func TestArm64asmDisassembler_undecodableFallsBackToUdf(t *testing.T) {
	var d disasm.Arm64asmDisassembler
	// all-zero word is not a valid AArch64 encoding.
	instrs, err := d.Decode([]byte{0x00, 0x00, 0x00, 0x00}, 0x4000)
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	require.Equal(t, "udf", instrs[0].Mnemonic)
}
