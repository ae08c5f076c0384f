package toolchain

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"
)

func TestRunExitError(t *testing.T) {
	bin, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}

	err = run(context.Background(), "shell", bin, "-c", "echo bad input >&2; exit 3")
	require.Error(t, err)

	var exit ExitError
	require.True(t, errors.As(err, &exit), "%v", err)

	assert.Equal(t, "shell", exit.Tool)
	assert.Equal(t, 3, exit.Code)
	assert.Equal(t, "shell: exit code 3: bad input", exit.Error())
}

func TestRunOK(t *testing.T) {
	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not found")
	}

	err = run(context.Background(), "true", bin)
	assert.NoError(t, err)
}

func TestRunMissingBinary(t *testing.T) {
	err := run(context.Background(), "nope", filepath.Join(t.TempDir(), "no-such-tool"))
	require.Error(t, err)

	var exit ExitError
	assert.False(t, errors.As(err, &exit), "%v", err)
}

func TestLLVMAsArtifact(t *testing.T) {
	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not found")
	}

	dir := t.TempDir()

	bc, err := LLVMAs{Bin: bin}.Assemble(context.Background(), "src/prog.ll", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "prog.bc"), bc)
}

func TestJasminArtifact(t *testing.T) {
	bin, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not found")
	}

	dir := t.TempDir()

	class, err := Jasmin{Java: bin}.Assemble(context.Background(), "src/prog.j", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "prog.class"), class)
}

func TestExitErrorNoOutput(t *testing.T) {
	assert.Equal(t, "llvm-as: exit code 1", ExitError{Tool: "llvm-as", Code: 1}.Error())
}
