package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/instantlang/insc/compiler/back"
	"github.com/instantlang/insc/compiler/back/jvm"
	"github.com/instantlang/insc/compiler/back/llvm"
	"github.com/instantlang/insc/compiler/ir"
	"github.com/instantlang/insc/compiler/parse"
	"github.com/instantlang/insc/compiler/slots"
)

type recorder struct {
	paths []string
	err   error
}

func (r *recorder) Assemble(ctx context.Context, path, dir string) (string, error) {
	r.paths = append(r.paths, path)

	if r.err != nil {
		return "", r.err
	}

	return filepath.Join(dir, "artifact"), nil
}

func TestCompileFile(t *testing.T) {
	ctx := context.Background()

	for _, be := range []back.Backend{jvm.New(), llvm.New(llvm.Options{})} {
		t.Run(be.Name(), func(t *testing.T) {
			dir := t.TempDir()
			src := writeSource(t, dir, "prog.ins", "a = 2 + 3 * 4; print a;")

			res, err := CompileFile(ctx, src, Options{Backend: be})
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, "prog."+be.Ext()), res.Output)
			assert.Empty(t, res.Artifact)

			b, err := os.ReadFile(res.Output)
			require.NoError(t, err)

			want, err := Compile(ctx, src, []byte("a = 2 + 3 * 4; print a;"), be)
			require.NoError(t, err)

			assert.Equal(t, string(want), string(b))
		})
	}
}

func TestCompileFileOutDir(t *testing.T) {
	ctx := context.Background()

	src := writeSource(t, t.TempDir(), "x.y.ins", "print 1")
	out := t.TempDir()

	res, err := CompileFile(ctx, src, Options{Backend: llvm.New(llvm.Options{}), OutDir: out})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "x.y.ll"), res.Output)
	assert.FileExists(t, res.Output)
}

func TestCompileFileUnboundWritesNothing(t *testing.T) {
	ctx := context.Background()

	for _, be := range []back.Backend{jvm.New(), llvm.New(llvm.Options{})} {
		t.Run(be.Name(), func(t *testing.T) {
			dir := t.TempDir()
			src := writeSource(t, dir, "bad.ins", "a = 1;\nprint b")

			_, err := CompileFile(ctx, src, Options{Backend: be})
			require.Error(t, err)

			var ue slots.UnboundVariableError
			assert.True(t, errors.As(err, &ue), "%v", err)
			assert.True(t, strings.HasPrefix(err.Error(), src+":2:7: "), "%v", err)

			assert.NoFileExists(t, filepath.Join(dir, "bad."+be.Ext()))
		})
	}
}

func TestCompileSyntaxError(t *testing.T) {
	ctx := context.Background()

	_, err := Compile(ctx, "s.ins", []byte("a = 1;\nb = * 2"), jvm.New())
	require.Error(t, err)

	var serr parse.SyntaxError
	require.True(t, errors.As(err, &serr), "%v", err)
	assert.Equal(t, 2, serr.Line)
}

func TestCompileFileAssemble(t *testing.T) {
	ctx := context.Background()

	t.Run("jvm", func(t *testing.T) {
		dir := t.TempDir()
		src := writeSource(t, dir, "prog.ins", "print 1")

		rec := &recorder{}

		res, err := CompileFile(ctx, src, Options{Backend: jvm.New(), Assembler: rec})
		require.NoError(t, err)

		assert.Equal(t, []string{filepath.Join(dir, "Runtime.j"), filepath.Join(dir, "prog.j")}, rec.paths)
		assert.Equal(t, filepath.Join(dir, "artifact"), res.Artifact)

		rt, err := os.ReadFile(filepath.Join(dir, "Runtime.j"))
		require.NoError(t, err)
		assert.Equal(t, jvm.Runtime, string(rt))
	})

	t.Run("llvm", func(t *testing.T) {
		dir := t.TempDir()
		src := writeSource(t, dir, "prog.ins", "print 1")

		rec := &recorder{}

		_, err := CompileFile(ctx, src, Options{Backend: llvm.New(llvm.Options{}), Assembler: rec})
		require.NoError(t, err)

		assert.Equal(t, []string{filepath.Join(dir, "prog.ll")}, rec.paths)
	})

	t.Run("failure_keeps_output", func(t *testing.T) {
		dir := t.TempDir()
		src := writeSource(t, dir, "prog.ins", "print 1")

		rec := &recorder{err: errors.New("rejected")}

		res, err := CompileFile(ctx, src, Options{Backend: llvm.New(llvm.Options{}), Assembler: rec})
		require.Error(t, err)

		assert.FileExists(t, res.Output)
	})
}

func TestStatMatchesBackends(t *testing.T) {
	ctx := context.Background()

	src := "b = 1; a = b * (b - 2); c = a - (b - (a - 1)); print c; a = c"

	p, err := parse.Parse(ctx, []byte(src))
	require.NoError(t, err)

	st := Stat(ctx, p)

	assert.Equal(t, []string{"b", "a", "c"}, st.Vars)
	assert.Equal(t, 4, st.Locals)
	assert.Equal(t, 4, st.MaxStack)

	j, err := jvm.New().Generate(ctx, "stat", p)
	require.NoError(t, err)

	assert.Contains(t, string(j), ".limit stack 4\n.limit locals 4\n")

	f, err := llvm.New(llvm.Options{}).Lower(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, []ir.Cell{"b", "a", "c"}, f.Cells)
	assert.Equal(t, st.Locals, len(f.Cells)+1)
}

func writeSource(t *testing.T, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte(text), 0o644)
	require.NoError(t, err)

	return path
}
