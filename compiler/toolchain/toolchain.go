package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	// Assembler turns emitted text at path into a binary artifact in dir.
	Assembler interface {
		Assemble(ctx context.Context, path, dir string) (artifact string, err error)
	}

	// Jasmin assembles .j files into .class files.
	Jasmin struct {
		Java string
		Jar  string
	}

	// LLVMAs assembles .ll files into .bc bitcode.
	LLVMAs struct {
		Bin string
	}

	// ExitError means the tool ran and rejected its input.
	ExitError struct {
		Tool   string
		Code   int
		Output []byte
	}
)

func (t Jasmin) Assemble(ctx context.Context, path, dir string) (string, error) {
	java := or(t.Java, "java")
	jar := or(t.Jar, "lib/jasmin.jar")

	err := run(ctx, "jasmin", java, "-jar", jar, "-d", dir, path)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, trimExt(filepath.Base(path))+".class"), nil
}

func (t LLVMAs) Assemble(ctx context.Context, path, dir string) (string, error) {
	bc := filepath.Join(dir, trimExt(filepath.Base(path))+".bc")

	err := run(ctx, "llvm-as", or(t.Bin, "llvm-as"), "-o", bc, path)
	if err != nil {
		return "", err
	}

	return bc, nil
}

func run(ctx context.Context, tool, name string, args ...string) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "toolchain: run", "tool", tool, "bin", name, "args", args)
	defer tr.Finish("err", &err)

	cmd := exec.CommandContext(ctx, name, args...)

	out, err := cmd.CombinedOutput()

	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return ExitError{
			Tool:   tool,
			Code:   exit.ExitCode(),
			Output: out,
		}
	}
	if err != nil {
		return errors.Wrap(err, "run %v", tool)
	}

	if len(out) != 0 {
		tr.Printw("tool output", "output", out)
	}

	return nil
}

func or(s, def string) string {
	if s != "" {
		return s
	}

	return def
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (e ExitError) Error() string {
	msg := strings.TrimSpace(string(e.Output))
	if msg == "" {
		return fmt.Sprintf("%s: exit code %d", e.Tool, e.Code)
	}

	return fmt.Sprintf("%s: exit code %d: %s", e.Tool, e.Code, msg)
}
