package arm64_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strongarm-go/strongarm/internal/arm64"
	"github.com/strongarm-go/strongarm/internal/arm64/testfixture"
)

func newAnalyzer(binary *testfixture.Binary, instrs []arm64.Instruction) *arm64.FunctionAnalyzer {
	return arm64.NewFunctionAnalyzer(binary, binary.Fetch, instrs)
}

// Immediate chain through adrp+add.
func TestGetRegisterContentsAtInstruction_immediateChain(t *testing.T) {
	binary := testfixture.NewBinary(0x1000, 0x9000)
	b := testfixture.NewBuilder(0x4000)
	b.Emit("adrp", arm64.Reg("x8"), arm64.Imm(0x100000000))
	b.Emit("add", arm64.Reg("x1"), arm64.Reg("x8"), arm64.Imm(0x10))
	b.Emit("bl", arm64.Imm(0x2000))
	instrs := b.Build()

	f := newAnalyzer(binary, instrs)
	contents, err := f.GetRegisterContentsAtInstruction("x1", b.At(2))
	require.NoError(t, err)
	require.Equal(t, arm64.RegisterContentsImmediate, contents.Kind)
	require.Equal(t, int64(0x100000010), contents.Value)
}

// Scenario 2: stack dependency is statically unresolvable.
func TestGetRegisterContentsAtInstruction_stackDependency(t *testing.T) {
	binary := testfixture.NewBinary(0x1000, 0x9000)
	b := testfixture.NewBuilder(0x4000)
	b.Emit("mov", arm64.Reg("x1"), arm64.Reg("sp"))
	b.Emit("bl", arm64.Imm(0x2000))
	instrs := b.Build()

	f := newAnalyzer(binary, instrs)
	_, err := f.GetRegisterContentsAtInstruction("x1", b.At(1))
	require.ErrorIs(t, err, arm64.ErrUnresolvableStackDependency)
}

// Scenario 3: passthrough from a function argument.
func TestGetRegisterContentsAtInstruction_functionArgPassthrough(t *testing.T) {
	binary := testfixture.NewBinary(0x1000, 0x9000)
	b := testfixture.NewBuilder(0x4000)
	b.Emit("mov", arm64.Reg("x1"), arm64.Reg("x0"))
	b.Emit("bl", arm64.Imm(0x2000))
	instrs := b.Build()

	f := newAnalyzer(binary, instrs)
	contents, err := f.GetRegisterContentsAtInstruction("x1", b.At(1))
	require.NoError(t, err)
	require.Equal(t, arm64.RegisterContentsFunctionArg, contents.Kind)
	require.Equal(t, 0, contents.ArgIndex)
}

// Scenario 4: zero-register idiom, "orr x1, xzr, #0x2".
func TestGetRegisterContentsAtInstruction_zeroRegisterIdiom(t *testing.T) {
	binary := testfixture.NewBinary(0x1000, 0x9000)
	b := testfixture.NewBuilder(0x4000)
	b.Emit("orr", arm64.Reg("x1"), arm64.Reg("xzr"), arm64.Imm(0x2))
	b.Emit("bl", arm64.Imm(0x2000))
	instrs := b.Build()

	f := newAnalyzer(binary, instrs)
	contents, err := f.GetRegisterContentsAtInstruction("x1", b.At(1))
	require.NoError(t, err)
	require.Equal(t, arm64.RegisterContentsImmediate, contents.Kind)
	require.Equal(t, int64(2), contents.Value)
}

// Scenario 5: a later `str x1, [sp, #0x38]` must not be read as redefining x1.
func TestGetRegisterContentsAtInstruction_storeDoesNotDefine(t *testing.T) {
	binary := testfixture.NewBinary(0x1000, 0x9000)
	b := testfixture.NewBuilder(0x4000)
	b.Emit("mov", arm64.Reg("x1"), arm64.Imm(0x5))
	b.Emit("str", arm64.Reg("x1"), arm64.Mem("sp", 0x38))
	b.Emit("bl", arm64.Imm(0x2000))
	instrs := b.Build()

	f := newAnalyzer(binary, instrs)
	contents, err := f.GetRegisterContentsAtInstruction("x1", b.At(2))
	require.NoError(t, err)
	require.Equal(t, arm64.RegisterContentsImmediate, contents.Kind)
	require.Equal(t, int64(5), contents.Value)
}

// Memory-based data dependency: ldr from a base register plus displacement.
func TestGetRegisterContentsAtInstruction_memoryChain(t *testing.T) {
	binary := testfixture.NewBinary(0x1000, 0x9000)
	b := testfixture.NewBuilder(0x4000)
	b.Emit("adrp", arm64.Reg("x8"), arm64.Imm(0x100000000))
	b.Emit("ldr", arm64.Reg("x22"), arm64.Mem("x8", 0x378))
	b.Emit("mov", arm64.Reg("x1"), arm64.Reg("x22"))
	b.Emit("bl", arm64.Imm(0x2000))
	instrs := b.Build()

	f := newAnalyzer(binary, instrs)
	contents, err := f.GetRegisterContentsAtInstruction("x1", b.At(3))
	require.NoError(t, err)
	require.Equal(t, arm64.RegisterContentsImmediate, contents.Kind)
	require.Equal(t, int64(0x100000378), contents.Value)
}

// Ambiguous: the chain bottoms out at a non-argument register (a vector
// register, here standing in for any register parseArgIndex can't read as
// a plain argument number), so the walk can neither resolve an immediate
// nor classify the result as a function argument.
func TestGetRegisterContentsAtInstruction_ambiguous(t *testing.T) {
	binary := testfixture.NewBinary(0x1000, 0x9000)
	b := testfixture.NewBuilder(0x4000)
	b.Emit("mov", arm64.Reg("x1"), arm64.Reg("v3"))
	instrs := b.Build()

	f := newAnalyzer(binary, instrs)
	_, err := f.GetRegisterContentsAtInstruction("x1", b.At(0))
	require.ErrorIs(t, err, arm64.ErrAmbiguousDataFlow)
}

func TestTrackReg(t *testing.T) {
	binary := testfixture.NewBinary(0x1000, 0x9000)
	b := testfixture.NewBuilder(0x4000)
	b.Emit("mov", arm64.Reg("x1"), arm64.Reg("x0"))
	b.Emit("mov", arm64.Reg("x2"), arm64.Reg("x1"))
	b.Emit("mov", arm64.Reg("x1"), arm64.Reg("x9"))
	instrs := b.Build()

	f := newAnalyzer(binary, instrs)
	held := f.TrackReg("x0")
	require.Contains(t, held, "x0")
	require.Contains(t, held, "x2")
	require.NotContains(t, held, "x1")
}
