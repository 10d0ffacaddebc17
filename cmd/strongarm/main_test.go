package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// retBytes encodes AArch64 "ret" (0xd65f03c0, little-endian).
var retBytes = []byte{0xc0, 0x03, 0x5f, 0xd6}

func runMain(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet("strongarm", flag.ContinueOnError)

	stdOut := &bytes.Buffer{}
	stdErr := &bytes.Buffer{}
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"strongarm"}, args...)

	code := doMain(stdOut, stdErr)
	return code, stdOut.String(), stdErr.String()
}

func TestHelp(t *testing.T) {
	code, _, stdErr := runMain(t, []string{"-h"})
	require.Equal(t, 0, code)
	require.Contains(t, stdErr, "strongarm is a static ARM64 function analyzer")
}

func TestCalls_stubFunction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code.bin")
	require.NoError(t, os.WriteFile(path, retBytes, 0o644))

	code, stdOut, stdErr := runMain(t, []string{"calls", "-code", path, "-base", "0x4000", "-addr", "0x4000"})
	require.Equal(t, 0, code, stdErr)
	require.Empty(t, stdOut) // a lone "ret" has no branches to report
}

func TestSearch_findsMnemonic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code.bin")
	require.NoError(t, os.WriteFile(path, retBytes, 0o644))

	code, stdOut, stdErr := runMain(t, []string{"search", "-code", path, "-base", "0x4000", "-addr", "0x4000", "-mnemonic", "ret"})
	require.Equal(t, 0, code, stdErr)
	require.Contains(t, stdOut, "0x4000: ret")
}

func TestInvalidCommand(t *testing.T) {
	code, _, stdErr := runMain(t, []string{"bogus"})
	require.Equal(t, 1, code)
	require.Contains(t, stdErr, "invalid command")
}
