package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	// Program is a list of statements separated by ';'.
	Program struct{}

	Stmt struct{}

	Assignment struct{}

	// PrintStmt is `print Exp`, an explicit spelling of an expression statement.
	PrintStmt struct{}

	ExprStmt struct{}
)

func (p Program) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	prog := &ast.Program{}

	i = Blanks.Skip(b, st)

	for i < len(b) {
		if b[i] == ';' {
			i = Blanks.Skip(b, i+1)
			continue
		}

		var s ast.Node
		s, i, err = Stmt{}.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "stmt %d", len(prog.Stmts)+1)
		}

		prog.Stmts = append(prog.Stmts, s.(ast.Stmt))

		i = Blanks.Skip(b, i)

		if i < len(b) && b[i] != ';' {
			return nil, i, errors.New("\";\" expected")
		}
	}

	prog.Base = ast.Base{Pos: st, End: i}

	return prog, i, nil
}

func (p Stmt) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	r := AnyOf{
		Assignment{},
		PrintStmt{},
		ExprStmt{},
	}

	return r.Parse(ctx, b, st)
}

func (p Stmt) String() string { return "statement" }

func (p Assignment) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	id, i, err := Ident{}.Parse(ctx, b, st)
	if err != nil {
		return nil, st, err
	}

	_, i, err = Spaced(Const("=")).Parse(ctx, b, i)
	if err != nil {
		return nil, st, err
	}

	e, i, err := parseExpr(ctx, Expr{}, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "assignment")
	}

	return &ast.Assign{
		Base: ast.Base{Pos: st, End: i},
		Name: id.(*ast.Var).Name,
		Expr: e,
	}, i, nil
}

func (p Assignment) String() string { return "assignment" }

func (p PrintStmt) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	_, i, err = Keyword("print").Parse(ctx, b, st)
	if err != nil {
		return nil, st, err
	}

	est := i

	e, i, err := parseExpr(ctx, Expr{}, b, i)
	if err != nil {
		if i == est {
			i = st
		}

		return nil, i, err
	}

	return &ast.Print{
		Base: ast.Base{Pos: st, End: i},
		Expr: e,
	}, i, nil
}

func (p PrintStmt) String() string { return "print statement" }

func (p ExprStmt) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	e, i, err := parseExpr(ctx, Expr{}, b, st)
	if err != nil {
		return nil, i, err
	}

	return &ast.Print{
		Base: ast.Base{Pos: st, End: i},
		Expr: e,
	}, i, nil
}

func (p ExprStmt) String() string { return "expression" }
