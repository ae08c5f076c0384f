package format

import (
	"context"
	"math"
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/instantlang/insc/compiler/ast"
)

// Format appends x in canonical source form.
// Parentheses are emitted only where the grammar needs them,
// so the output parses back into the same tree.
// The grammar has no negative literals, they are written
// as a parenthesized subtraction from zero.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *ast.Program:
		return formatProgram(ctx, b, x)
	case ast.Stmt:
		return formatStmt(ctx, b, x)
	case ast.Expr:
		return formatExpr(ctx, b, x, 0)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatProgram(ctx context.Context, b []byte, x *ast.Program) (_ []byte, err error) {
	for i, s := range x.Stmts {
		b, err = formatStmt(ctx, b, s)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i+1)
		}

		b = append(b, ";\n"...)
	}

	return b, nil
}

func formatStmt(ctx context.Context, b []byte, s ast.Stmt) (_ []byte, err error) {
	switch s := s.(type) {
	case *ast.Print:
		return formatExpr(ctx, b, s.Expr, 0)
	case *ast.Assign:
		b = app(b, "%s = ", s.Name)

		return formatExpr(ctx, b, s.Expr, 0)
	default:
		return nil, errors.New("unsupported stmt: %T", s)
	}
}

// formatExpr wraps x in parentheses if its precedence is below outer.
func formatExpr(ctx context.Context, b []byte, x ast.Expr, outer int) (_ []byte, err error) {
	var sym string
	var prec, lmin, rmin int

	switch x := x.(type) {
	case *ast.Lit:
		return appendLit(b, x.Value), nil
	case *ast.Var:
		return append(b, x.Name...), nil
	case *ast.Add: // right associative
		sym, prec, lmin, rmin = "+", 1, 2, 1
	case *ast.Sub:
		sym, prec, lmin, rmin = "-", 2, 2, 3
	case *ast.Mul:
		sym, prec, lmin, rmin = "*", 3, 3, 4
	case *ast.Div:
		sym, prec, lmin, rmin = "/", 3, 3, 4
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	l, r, _ := ast.Operands(x)

	if prec < outer {
		b = append(b, '(')
	}

	b, err = formatExpr(ctx, b, l, lmin)
	if err != nil {
		return nil, errors.Wrap(err, "left")
	}

	b = app(b, " %s ", sym)

	b, err = formatExpr(ctx, b, r, rmin)
	if err != nil {
		return nil, errors.Wrap(err, "right")
	}

	if prec < outer {
		b = append(b, ')')
	}

	return b, nil
}

func appendLit(b []byte, v int32) []byte {
	switch {
	case v >= 0:
		return strconv.AppendInt(b, int64(v), 10)
	case v == math.MinInt32:
		return append(b, "(0 - 2147483647 - 1)"...)
	default:
		return app(b, "(0 - %d)", -int64(v))
	}
}

func app(b []byte, f string, args ...any) []byte {
	return hfmt.Appendf(b, f, args...)
}
