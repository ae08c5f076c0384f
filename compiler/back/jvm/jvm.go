package jvm

import (
	"context"
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/instantlang/insc/compiler/analyze"
	"github.com/instantlang/insc/compiler/ast"
	"github.com/instantlang/insc/compiler/slots"
)

type (
	// Backend emits Jasmin assembly of a class with a static main method.
	Backend struct{}

	gen struct {
		b []byte

		an   *analyze.Analyzer
		vars *slots.Table
	}
)

const (
	PrintMethod = "Runtime/printInt(I)V"

	// Runtime is the Jasmin source of the class providing PrintMethod.
	Runtime = `.class public Runtime
.super java/lang/Object

.method public <init>()V
  aload_0
  invokespecial java/lang/Object/<init>()V
  return
.end method

.method public static printInt(I)V
.limit stack 2
.limit locals 1
  getstatic java/lang/System/out Ljava/io/PrintStream;
  iload_0
  invokevirtual java/io/PrintStream/println(I)V
  return
.end method
`
)

func New() *Backend { return &Backend{} }

func (c *Backend) Name() string { return "jvm" }
func (c *Backend) Ext() string  { return "j" }

// RuntimeSource returns the unit name and source of the support class
// the emitted code calls into.
func (c *Backend) RuntimeSource() (string, []byte) {
	return "Runtime", []byte(Runtime)
}

func (c *Backend) Generate(ctx context.Context, unit string, p *ast.Program) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "jvm: generate", "unit", unit, "stmts", len(p.Stmts))
	defer tr.Finish("err", &err)

	g := &gen{
		an:   analyze.New(),
		vars: slots.New(),
	}

	stack := g.an.MaxStack(ctx, p)

	for i, s := range p.Stmts {
		err = g.stmt(s)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i+1)
		}
	}

	locals := 1 + g.vars.Len() // slot 0 holds main's args

	tr.Printw("limits", "stack", stack, "locals", locals, "vars", g.vars)

	var b []byte

	b = hfmt.Appendf(b, `.class public %s
.super java/lang/Object

.method public static main([Ljava/lang/String;)V
.limit stack %d
.limit locals %d
`, unit, stack, locals)

	b = append(b, g.b...)

	b = append(b, "  return\n.end method\n"...)

	return b, nil
}

func (g *gen) stmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Print:
		err := g.expr(s.Expr)
		if err != nil {
			return err
		}

		g.b = append(g.b, "  invokestatic "+PrintMethod+"\n"...)
	case *ast.Assign:
		err := g.expr(s.Expr)
		if err != nil {
			return err
		}

		slot := g.vars.Assign(s.Name)

		g.b = AppendSlot(g.b, "istore", slot)
	default:
		return ast.NewUnsupportedNode(s)
	}

	return nil
}

func (g *gen) expr(e ast.Expr) (err error) {
	switch e := e.(type) {
	case *ast.Lit:
		g.b = AppendConst(g.b, e.Value)

		return nil
	case *ast.Var:
		slot, err := g.vars.Load(e.Name, e.Pos)
		if err != nil {
			return err
		}

		g.b = AppendSlot(g.b, "iload", slot)

		return nil
	case *ast.Add:
		err = g.commutative(e.L, e.R)
	case *ast.Mul:
		err = g.commutative(e.L, e.R)
	case *ast.Sub:
		err = g.ordered(e.L, e.R)
	case *ast.Div:
		err = g.ordered(e.L, e.R)
	default:
		return ast.NewUnsupportedNode(e)
	}

	if err != nil {
		return err
	}

	g.b = append(g.b, "  "...)
	g.b = append(g.b, mnemonic(e)...)
	g.b = append(g.b, '\n')

	return nil
}

// commutative evaluates the deeper operand first, ties left first.
func (g *gen) commutative(l, r ast.Expr) error {
	if g.an.Heavier(l, r) {
		l, r = r, l
	}

	return g.ordered(l, r)
}

func (g *gen) ordered(l, r ast.Expr) error {
	err := g.expr(l)
	if err != nil {
		return err
	}

	return g.expr(r)
}

func mnemonic(e ast.Expr) string {
	switch e.(type) {
	case *ast.Add:
		return "iadd"
	case *ast.Sub:
		return "isub"
	case *ast.Mul:
		return "imul"
	case *ast.Div:
		return "idiv"
	}

	panic(ast.NewUnsupportedNode(e))
}

// AppendConst appends the shortest instruction pushing v.
func AppendConst(b []byte, v int32) []byte {
	switch {
	case v == -1:
		return append(b, "  iconst_m1\n"...)
	case v >= 0 && v <= 5:
		return hfmt.Appendf(b, "  iconst_%d\n", v)
	case v >= -128 && v <= 127:
		return hfmt.Appendf(b, "  bipush %d\n", v)
	case v >= -32768 && v <= 32767:
		return hfmt.Appendf(b, "  sipush %d\n", v)
	default:
		return hfmt.Appendf(b, "  ldc %d\n", v)
	}
}

// AppendSlot appends iload or istore, using the _0.._3 short forms.
func AppendSlot(b []byte, op string, slot int) []byte {
	b = append(b, "  "...)
	b = append(b, op...)

	if slot <= 3 {
		b = append(b, '_')
	} else {
		b = append(b, ' ')
	}

	b = strconv.AppendInt(b, int64(slot), 10)

	return append(b, '\n')
}
