package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/shadowvm/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSandbox(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const tokenConfig = `
[naming]
user-classes = ["com.example.Token"]
`

func TestRenameAndRestore(t *testing.T) {
	cfg := writeSandbox(t, tokenConfig)

	code, out, errOut := runCLI(t, "-c", cfg, "rename", "java.lang.String", "com.example.Token", "[Lcom.example.Token")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, []string{
		"org.shadowvm.shadow.java.lang.String",
		"org.shadowvm.user.com.example.Token",
		"org.shadowvm.arraywrapper.$Lorg.shadowvm.user.com.example.Token",
	}, strings.Fields(out))

	code, out, _ = runCLI(t, "-c", cfg, "rename", "--array", "unifying", "[Lcom.example.Token")
	require.Equal(t, 0, code)
	assert.Equal(t, "org.shadowvm.arraywrapper.interface._Lorg.shadowvm.user.com.example.Token\n", out)

	code, out, _ = runCLI(t, "-c", cfg, "restore", "org.shadowvm.user.com.example.Token")
	require.Equal(t, 0, code)
	assert.Equal(t, "com.example.Token\n", out)

	code, out, _ = runCLI(t, "-c", cfg, "wrapper", "java.lang.Throwable")
	require.Equal(t, 0, code)
	assert.Equal(t, "org.shadowvm.exceptionwrapper.java.lang.Throwable\n", out)
}

func TestClassify(t *testing.T) {
	cfg := writeSandbox(t, tokenConfig)

	code, out, _ := runCLI(t, "-c", cfg, "classify", "java.lang.ArithmeticException", "com.example.Token")
	require.Equal(t, 0, code)
	assert.Equal(t, "runtime-library-exception\nuser\n", out)

	code, out, _ = runCLI(t, "-c", cfg, "classify", "--post", "org.shadowvm.arraywrapper.IntArray")
	require.Equal(t, 0, code)
	assert.Equal(t, "precise-array\n", out)
}

func TestFailuresSetExitCode(t *testing.T) {
	cfg := writeSandbox(t, tokenConfig)

	code, out, errOut := runCLI(t, "-c", cfg, "restore", "org.shadowvm.arraywrapper.Array", "org.shadowvm.shadow.java.lang.Math")
	assert.Equal(t, 1, code)
	assert.Equal(t, "java.lang.Math\n", out)
	assert.Contains(t, errOut, "ambiguous")

	code, _, _ = runCLI(t, "-c", cfg, "rename", "--array", "sideways", "[I")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "-c", cfg, "frobnicate")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "-c", cfg, "rename")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "-c", filepath.Join(t.TempDir(), "missing.toml"), "rename", "x")
	assert.Equal(t, 1, code)
}

func TestAccountCommands(t *testing.T) {
	cfg := writeSandbox(t, "[kernel]\nbackend = \"sqlite\"\npath = \"state.db\"\n")
	addr := strings.Repeat("01", kernel.AddressLength)

	code, out, errOut := runCLI(t, "-c", cfg, "account", "open", addr)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, addr+"\n", out)

	code, out, _ = runCLI(t, "-c", cfg, "account", "balance", kernel.PreminedAddress.String())
	require.Equal(t, 0, code)
	assert.Equal(t, "1000000000000000000\n", out)

	code, out, _ = runCLI(t, "-c", cfg, "account", "balance", addr)
	require.Equal(t, 0, code)
	assert.Equal(t, "0\n", out)

	code, _, _ = runCLI(t, "-c", cfg, "account", "balance", "nothex")
	assert.Equal(t, 2, code)
}

func TestHelp(t *testing.T) {
	code, _, errOut := runCLI(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut, "Usage: shadowvm")
}
