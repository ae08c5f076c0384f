package analyze

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	// Analyzer computes Sethi–Ullman stack depths.
	// Results are cached by node identity for the lifetime of the Analyzer.
	Analyzer struct {
		depth map[ast.Expr]int
	}
)

func New() *Analyzer {
	return &Analyzer{
		depth: make(map[ast.Expr]int),
	}
}

// Depth returns the minimum number of operand stack cells
// needed to evaluate e with optimal operand order.
func (a *Analyzer) Depth(e ast.Expr) int {
	if d, ok := a.depth[e]; ok {
		return d
	}

	d := a.compute(e)
	a.depth[e] = d

	return d
}

func (a *Analyzer) compute(e ast.Expr) int {
	switch e := e.(type) {
	case *ast.Lit, *ast.Var:
		return 1
	case *ast.Add:
		return commutative(a.Depth(e.L), a.Depth(e.R))
	case *ast.Mul:
		return commutative(a.Depth(e.L), a.Depth(e.R))
	case *ast.Sub:
		return fixed(a.Depth(e.L), a.Depth(e.R))
	case *ast.Div:
		return fixed(a.Depth(e.L), a.Depth(e.R))
	default:
		panic(ast.NewUnsupportedNode(e))
	}
}

// MaxStack is the max depth over all statement root expressions, at least 1.
func (a *Analyzer) MaxStack(ctx context.Context, p *ast.Program) int {
	m := 1

	for _, s := range p.Stmts {
		var e ast.Expr

		switch s := s.(type) {
		case *ast.Print:
			e = s.Expr
		case *ast.Assign:
			e = s.Expr
		default:
			panic(ast.NewUnsupportedNode(s))
		}

		m = max(m, a.Depth(e))
	}

	tlog.SpanFromContext(ctx).V("stack").Printw("max stack", "stack", m, "stmts", len(p.Stmts), "cached", len(a.depth))

	return m
}

// Heavier reports whether r must be evaluated before l
// so that a commutative node reaches its minimal depth.
func (a *Analyzer) Heavier(l, r ast.Expr) bool {
	return a.Depth(r) > a.Depth(l)
}

func commutative(l, r int) int {
	if l == r {
		return l + 1
	}

	return max(l, r)
}

func fixed(l, r int) int {
	return max(l, r+1)
}
