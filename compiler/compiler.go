package compiler

import (
	"context"
	"os"
	"path/filepath"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/instantlang/insc/compiler/analyze"
	"github.com/instantlang/insc/compiler/ast"
	"github.com/instantlang/insc/compiler/back"
	"github.com/instantlang/insc/compiler/parse"
	"github.com/instantlang/insc/compiler/slots"
	"github.com/instantlang/insc/compiler/toolchain"
)

type (
	Options struct {
		Backend back.Backend

		// OutDir defaults to the input file directory.
		OutDir string

		// Assembler is run on the written file if set.
		Assembler toolchain.Assembler
	}

	// Result lists the files written by CompileFile.
	Result struct {
		Output   string
		Artifact string
	}

	Stats struct {
		MaxStack int
		Locals   int
		Vars     []string
	}

	// RuntimeSourcer is implemented by backends whose output
	// calls into a support unit that must be assembled alongside.
	RuntimeSourcer interface {
		RuntimeSource() (unit string, text []byte)
	}
)

func CompileFile(ctx context.Context, name string, opts Options) (res Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile file", "name", name, "backend", opts.Backend.Name())
	defer tr.Finish("err", &err)

	text, err := os.ReadFile(name)
	if err != nil {
		return res, errors.Wrap(err, "read file")
	}

	tr.Printw("read file", "size", len(text), "name", name)

	obj, err := Compile(ctx, name, text, opts.Backend)
	if err != nil {
		return res, err
	}

	dir := opts.OutDir
	res.Output = back.OutputPath(name, opts.Backend.Ext())

	if dir != "" {
		res.Output = filepath.Join(dir, filepath.Base(res.Output))
	} else {
		dir = filepath.Dir(name)
	}

	err = os.WriteFile(res.Output, obj, 0o644)
	if err != nil {
		return res, errors.Wrap(err, "write output")
	}

	tr.Printw("written", "path", res.Output, "size", len(obj))

	if opts.Assembler == nil {
		return res, nil
	}

	if rs, ok := opts.Backend.(RuntimeSourcer); ok {
		err = assembleRuntime(ctx, dir, opts.Backend.Ext(), rs, opts.Assembler)
		if err != nil {
			return res, errors.Wrap(err, "runtime")
		}
	}

	res.Artifact, err = opts.Assembler.Assemble(ctx, res.Output, dir)
	if err != nil {
		return res, errors.Wrap(err, "assemble %v", res.Output)
	}

	return res, nil
}

// Compile parses text and generates the backend's output for it.
// Errors carry the file name and line of the failing construct.
func Compile(ctx context.Context, name string, text []byte, be back.Backend) (obj []byte, err error) {
	st := parse.New(name, text)

	p, err := st.Parse(ctx)
	if err != nil {
		return nil, err
	}

	obj, err = be.Generate(ctx, back.UnitName(name), p)

	var unbound slots.UnboundVariableError
	if errors.As(err, &unbound) {
		line, col := st.Position(unbound.Pos)

		return nil, errors.Wrap(err, "%v:%d:%d", name, line, col)
	}
	if err != nil {
		return nil, errors.Wrap(err, "%v: %v", name, be.Name())
	}

	return obj, nil
}

// Stat reports the storage both backends reserve for p.
func Stat(ctx context.Context, p *ast.Program) Stats {
	t := slots.Allocate(p)

	return Stats{
		MaxStack: analyze.New().MaxStack(ctx, p),
		Locals:   1 + t.Len(),
		Vars:     t.Names(),
	}
}

func assembleRuntime(ctx context.Context, dir, ext string, rs RuntimeSourcer, asm toolchain.Assembler) error {
	unit, text := rs.RuntimeSource()

	path := filepath.Join(dir, unit+"."+ext)

	err := os.WriteFile(path, text, 0o644)
	if err != nil {
		return errors.Wrap(err, "write")
	}

	_, err = asm.Assemble(ctx, path, dir)

	return err
}
