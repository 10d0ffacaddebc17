package arm64

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeRegister(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"x22", "22"},
		{"w22", "22"},
		{"x0", "0"},
		{"w0", "0"},
		{"sp", "sp"},
		{"xzr", "zr"},
		{"wzr", "zr"},
		{"v3", "v3"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, CanonicalizeRegister(tc.name), tc.name)
	}
}

func TestCanonicalizeRegister_widthAliasing(t *testing.T) {
	for i := 0; i <= 30; i++ {
		x := Reg("x" + itoa(i))
		w := Reg("w" + itoa(i))
		require.Equal(t, x.RegID, w.RegID)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestMnemonicBase(t *testing.T) {
	require.Equal(t, "b", Instruction{Mnemonic: "b.eq"}.MnemonicBase())
	require.Equal(t, "bl", Instruction{Mnemonic: "bl"}.MnemonicBase())
}

func TestIsZeroRegisterAndIsStackPointer(t *testing.T) {
	require.True(t, IsZeroRegister(CanonicalizeRegister("xzr")))
	require.True(t, IsZeroRegister(CanonicalizeRegister("wzr")))
	require.False(t, IsZeroRegister(CanonicalizeRegister("x0")))

	require.True(t, IsStackPointer(CanonicalizeRegister("sp")))
	require.False(t, IsStackPointer(CanonicalizeRegister("x0")))
}
