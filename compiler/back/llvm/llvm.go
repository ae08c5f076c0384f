package llvm

import (
	"context"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/instantlang/insc/compiler/ast"
	"github.com/instantlang/insc/compiler/ir"
	"github.com/instantlang/insc/compiler/slots"
)

type (
	Options struct {
		// TypedPointers selects pre-opaque-pointer syntax (i32*, i8*)
		// understood by LLVM 14 and older.
		TypedPointers bool
	}

	// Backend emits LLVM textual IR of a main function.
	Backend struct {
		Options
	}

	gen struct {
		f    *ir.Func
		vars *slots.Table

		fmtPtr bool
	}
)

func New(opts Options) *Backend {
	return &Backend{Options: opts}
}

func (c *Backend) Name() string { return "llvm" }
func (c *Backend) Ext() string  { return "ll" }

func (c *Backend) Generate(ctx context.Context, unit string, p *ast.Program) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "llvm: generate", "unit", unit, "stmts", len(p.Stmts), "typed_ptr", c.TypedPointers)
	defer tr.Finish("err", &err)

	f, err := c.Lower(ctx, p)
	if err != nil {
		return nil, err
	}

	return c.Print(nil, unit, f), nil
}

// Lower translates p into a single main function.
func (c *Backend) Lower(ctx context.Context, p *ast.Program) (*ir.Func, error) {
	g := &gen{
		f:    &ir.Func{Name: "main"},
		vars: slots.New(),

		fmtPtr: c.TypedPointers,
	}

	for i, s := range p.Stmts {
		err := g.stmt(s)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i+1)
		}
	}

	g.f.Emit(ir.Ret{Val: ir.Imm(0)})

	if tr := tlog.SpanFromContext(ctx); tr.If("dump_ir") {
		tr.Printw("ir func", "name", g.f.Name, "cells", len(g.f.Cells), "temps", g.f.Temps(), "instrs", len(g.f.Code))

		for i, x := range g.f.Code {
			tr.Printw("ir", "i", i, "typ", tlog.NextAsType, x, "val", x)
		}
	}

	return g.f, nil
}

func (g *gen) stmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Print:
		v, err := g.expr(s.Expr)
		if err != nil {
			return err
		}

		x := ir.Print{Val: v}

		if g.fmtPtr {
			x.Fmt = g.f.Temp()
		}

		g.f.Emit(x)
	case *ast.Assign:
		v, err := g.expr(s.Expr)
		if err != nil {
			return err
		}

		if _, ok := g.vars.Lookup(s.Name); !ok {
			g.vars.Assign(s.Name)
			g.f.Declare(ir.Cell(s.Name))
		}

		g.f.Emit(ir.Store{Val: v, Cell: ir.Cell(s.Name)})
	default:
		return ast.NewUnsupportedNode(s)
	}

	return nil
}

func (g *gen) expr(e ast.Expr) (ir.Value, error) {
	var op ir.Op

	switch e := e.(type) {
	case *ast.Lit:
		return ir.Imm(e.Value), nil
	case *ast.Var:
		_, err := g.vars.Load(e.Name, e.Pos)
		if err != nil {
			return nil, err
		}

		t := g.f.Temp()
		g.f.Emit(ir.Load{Out: t, Cell: ir.Cell(e.Name)})

		return t, nil
	case *ast.Add:
		op = ir.Add
	case *ast.Sub:
		op = ir.Sub
	case *ast.Mul:
		op = ir.Mul
	case *ast.Div:
		op = ir.Div
	default:
		return nil, ast.NewUnsupportedNode(e)
	}

	l, r, _ := ast.Operands(e)

	lv, err := g.expr(l)
	if err != nil {
		return nil, err
	}

	rv, err := g.expr(r)
	if err != nil {
		return nil, err
	}

	t := g.f.Temp()
	g.f.Emit(ir.BinOp{Op: op, Out: t, L: lv, R: rv})

	return t, nil
}

// Print appends module text of f named unit to b.
func (c *Backend) Print(b []byte, unit string, f *ir.Func) []byte {
	ptr := c.ptr("i32")
	str := c.ptr("i8")

	b = hfmt.Appendf(b, `; ModuleID = '%s'
declare i32 @printf(%s, ...)
@.fmt = private unnamed_addr constant [4 x i8] c"%%d\0A\00", align 1

define i32 @%s() {
entry:
`, unit, str, f.Name)

	for _, cell := range f.Cells {
		b = hfmt.Appendf(b, "  %s = alloca i32\n", cellName(cell))
	}

	for _, x := range f.Code {
		switch x := x.(type) {
		case ir.Load:
			b = hfmt.Appendf(b, "  %v = load i32, %s %s\n", x.Out, ptr, cellName(x.Cell))
		case ir.Store:
			b = hfmt.Appendf(b, "  store i32 %v, %s %s\n", x.Val, ptr, cellName(x.Cell))
		case ir.BinOp:
			b = hfmt.Appendf(b, "  %v = %s i32 %v, %v\n", x.Out, x.Op, x.L, x.R)
		case ir.Print:
			arg := "@.fmt"

			if x.Fmt != 0 {
				b = hfmt.Appendf(b, "  %v = getelementptr inbounds [4 x i8], [4 x i8]* @.fmt, i64 0, i64 0\n", x.Fmt)
				arg = x.Fmt.String()
			}

			b = hfmt.Appendf(b, "  call i32 (%s, ...) @printf(%s %s, i32 %v)\n", str, str, arg, x.Val)
		case ir.Ret:
			b = hfmt.Appendf(b, "  ret i32 %v\n", x.Val)
		default:
			panic(x)
		}
	}

	b = append(b, "}\n"...)

	return b
}

func (c *Backend) ptr(elem string) string {
	if c.TypedPointers {
		return elem + "*"
	}

	return "ptr"
}

// cellName is the local name of a variable's alloca.
// The suffix keeps cells apart from %tN temporaries.
func cellName(c ir.Cell) string {
	name := string(c) + ".addr"

	if strings.ContainsAny(name, `'"\`) {
		return `%"` + name + `"`
	}

	return "%" + name
}
