package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/instantlang/insc/compiler"
	"github.com/instantlang/insc/compiler/back"
	"github.com/instantlang/insc/compiler/back/jvm"
	"github.com/instantlang/insc/compiler/back/llvm"
	"github.com/instantlang/insc/compiler/eval"
	"github.com/instantlang/insc/compiler/format"
	"github.com/instantlang/insc/compiler/parse"
	"github.com/instantlang/insc/compiler/toolchain"
)

func main() {
	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "parse and print programs back in canonical form",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("dump", false, "dump syntax tree"),
		},
	}

	jvmCmd := &cli.Command{
		Name:        "jvm",
		Description: "compile to Jasmin assembly (.j), optionally assemble to .class",
		Action:      jvmAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("java", "java", "java binary"),
			cli.NewFlag("jasmin", "lib/jasmin.jar", "jasmin.jar path"),
		},
	}

	llvmCmd := &cli.Command{
		Name:        "llvm",
		Description: "compile to LLVM IR (.ll), optionally assemble to .bc",
		Action:      llvmAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("llvm-as", "llvm-as", "llvm-as binary"),
			cli.NewFlag("typed-pointers", false, "emit i32*/i8* pointer types for LLVM 14 and older"),
		},
	}

	statCmd := &cli.Command{
		Name:        "stat",
		Description: "print stack depth and variable slots",
		Action:      statAct,
		Args:        cli.Args{},
	}

	runCmd := &cli.Command{
		Name:        "run",
		Description: "interpret programs",
		Action:      runAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "insc",
		Description: "insc compiles Instant programs for the JVM and LLVM",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("outdir,o", "", "output directory (default: next to the input)"),
			cli.NewFlag("assemble,a", false, "run the external assembler on the output"),
			cli.NewFlag("verbosity,v", "", "tlog verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			parseCmd,
			jvmCmd,
			llvmCmd,
			statCmd,
			runCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range c.Args {
		x, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		if c.Bool("dump") {
			spew.Fdump(os.Stdout, x)
			continue
		}

		b, err := format.Format(ctx, nil, x)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func jvmAct(c *cli.Command) (err error) {
	var asm toolchain.Assembler

	if c.Bool("assemble") {
		asm = toolchain.Jasmin{
			Java: c.String("java"),
			Jar:  c.String("jasmin"),
		}
	}

	return compileAll(c, jvm.New(), asm)
}

func llvmAct(c *cli.Command) (err error) {
	var asm toolchain.Assembler

	if c.Bool("assemble") {
		asm = toolchain.LLVMAs{
			Bin: c.String("llvm-as"),
		}
	}

	be := llvm.New(llvm.Options{
		TypedPointers: c.Bool("typed-pointers"),
	})

	return compileAll(c, be, asm)
}

func compileAll(c *cli.Command, be back.Backend, asm toolchain.Assembler) error {
	ctx := rootContext()

	if len(c.Args) == 0 {
		return errors.New("no input files")
	}

	for _, a := range c.Args {
		res, err := compiler.CompileFile(ctx, a, compiler.Options{
			Backend:   be,
			OutDir:    c.String("outdir"),
			Assembler: asm,
		})
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		fmt.Printf("%s\n", res.Output)

		if res.Artifact != "" {
			fmt.Printf("%s\n", res.Artifact)
		}
	}

	return nil
}

func statAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range c.Args {
		x, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		st := compiler.Stat(ctx, x)

		fmt.Printf("%s: stack %d  locals %d  vars %v\n", a, st.MaxStack, st.Locals, st.Vars)
	}

	return nil
}

func runAct(c *cli.Command) (err error) {
	ctx := rootContext()

	for _, a := range c.Args {
		x, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		out, err := eval.Run(ctx, x)
		if err != nil {
			return errors.Wrap(err, "run %v", a)
		}

		for _, v := range out {
			fmt.Printf("%d\n", v)
		}
	}

	return nil
}

func rootContext() context.Context {
	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}
