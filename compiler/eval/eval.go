package eval

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/instantlang/insc/compiler/ast"
	"github.com/instantlang/insc/compiler/slots"
)

type (
	DivisionByZeroError struct {
		Pos int
	}

	machine struct {
		vars map[string]int32
	}
)

// Run executes p and returns the printed values.
// Arithmetic wraps at 32 bits and division truncates toward zero,
// as both backends' targets do.
func Run(ctx context.Context, p *ast.Program) (out []int32, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "eval", "stmts", len(p.Stmts))
	defer tr.Finish("err", &err)

	m := &machine{vars: make(map[string]int32)}

	for i, s := range p.Stmts {
		switch s := s.(type) {
		case *ast.Print:
			v, err := m.expr(s.Expr)
			if err != nil {
				return nil, errors.Wrap(err, "stmt %d", i+1)
			}

			out = append(out, v)
		case *ast.Assign:
			v, err := m.expr(s.Expr)
			if err != nil {
				return nil, errors.Wrap(err, "stmt %d", i+1)
			}

			m.vars[s.Name] = v
		default:
			return nil, ast.NewUnsupportedNode(s)
		}
	}

	return out, nil
}

func (m *machine) expr(e ast.Expr) (int32, error) {
	switch e := e.(type) {
	case *ast.Lit:
		return e.Value, nil
	case *ast.Var:
		v, ok := m.vars[e.Name]
		if !ok {
			return 0, slots.UnboundVariableError{Name: e.Name, Pos: e.Pos}
		}

		return v, nil
	}

	l, r, ok := ast.Operands(e)
	if !ok {
		return 0, ast.NewUnsupportedNode(e)
	}

	lv, err := m.expr(l)
	if err != nil {
		return 0, err
	}

	rv, err := m.expr(r)
	if err != nil {
		return 0, err
	}

	switch e.(type) {
	case *ast.Add:
		return lv + rv, nil
	case *ast.Sub:
		return lv - rv, nil
	case *ast.Mul:
		return lv * rv, nil
	case *ast.Div:
		if rv == 0 {
			return 0, DivisionByZeroError{Pos: e.Span().Pos}
		}

		return lv / rv, nil
	}

	return 0, ast.NewUnsupportedNode(e)
}

func (e DivisionByZeroError) Error() string {
	return "division by zero"
}
