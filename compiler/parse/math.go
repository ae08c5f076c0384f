package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	LeftToRight struct {
		Op  Parser
		Arg Parser
	}

	RightToLeft struct {
		Op  Parser
		Arg Parser
	}

	BinOper interface {
		BinOp(l, r ast.Expr) ast.Expr
	}

	Add struct{}
	Sub struct{}
	Mul struct{}
	Div struct{}
)

func (p LeftToRight) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	l, i, err := parseExpr(ctx, p.Arg, b, st)
	if err != nil {
		return nil, i, err
	}

	for {
		c, opend, ok, err := parseOp(ctx, p.Op, b, i)
		if err != nil {
			return nil, opend, err
		}
		if !ok {
			break
		}

		var r ast.Expr
		r, i, err = parseExpr(ctx, p.Arg, b, opend)
		if err != nil {
			return nil, i, errors.Wrap(err, "right operand")
		}

		l = c.BinOp(l, r)
	}

	return l, i, nil
}

func (p RightToLeft) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	l, i, err := parseExpr(ctx, p.Arg, b, st)
	if err != nil {
		return nil, i, err
	}

	c, opend, ok, err := parseOp(ctx, p.Op, b, i)
	if err != nil {
		return nil, opend, err
	}
	if !ok {
		return l, i, nil
	}

	r, i, err := parseExpr(ctx, p, b, opend)
	if err != nil {
		return nil, i, errors.Wrap(err, "right operand")
	}

	return c.BinOp(l, r), i, nil
}

func parseExpr(ctx context.Context, p Parser, b []byte, st int) (e ast.Expr, i int, err error) {
	x, i, err := p.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	e, ok := x.(ast.Expr)
	if !ok {
		return nil, st, errors.New("expression expected, got %T", x)
	}

	return e, i, nil
}

func parseOp(ctx context.Context, p Parser, b []byte, st int) (c BinOper, i int, ok bool, err error) {
	x, i, err := p.Parse(ctx, b, st)
	if i == st {
		return nil, st, false, nil
	}
	if err != nil {
		return nil, i, false, errors.Wrap(err, "op")
	}

	c, ok = x.(BinOper)
	if !ok {
		return nil, i, false, errors.New("BinOper expected, got %T", x)
	}

	return c, i, true, nil
}

func (p Add) Parse(ctx context.Context, b []byte, st int) (ast.Node, int, error) {
	return op(ctx, p, "+", b, st)
}

func (p Sub) Parse(ctx context.Context, b []byte, st int) (ast.Node, int, error) {
	return op(ctx, p, "-", b, st)
}

func (p Mul) Parse(ctx context.Context, b []byte, st int) (ast.Node, int, error) {
	return op(ctx, p, "*", b, st)
}

func (p Div) Parse(ctx context.Context, b []byte, st int) (ast.Node, int, error) {
	return op(ctx, p, "/", b, st)
}

func op(ctx context.Context, p ast.Node, sym string, b []byte, st int) (x ast.Node, i int, err error) {
	_, i, err = Spaced(Const(sym)).Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	return p, i, nil
}

func (Add) BinOp(l, r ast.Expr) ast.Expr { return &ast.Add{Base: span(l, r), L: l, R: r} }
func (Sub) BinOp(l, r ast.Expr) ast.Expr { return &ast.Sub{Base: span(l, r), L: l, R: r} }
func (Mul) BinOp(l, r ast.Expr) ast.Expr { return &ast.Mul{Base: span(l, r), L: l, R: r} }
func (Div) BinOp(l, r ast.Expr) ast.Expr { return &ast.Div{Base: span(l, r), L: l, R: r} }

func span(l, r ast.Expr) ast.Base {
	return ast.Base{Pos: l.Span().Pos, End: r.Span().End}
}
