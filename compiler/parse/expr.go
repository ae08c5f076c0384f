package parse

import (
	"context"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	// Expr is Exp1 ::= Exp2 "+" Exp1.
	Expr struct{}

	// Atom is Exp4 ::= Integer | Ident | "(" Exp ")".
	Atom struct{}
)

var (
	mulDiv = LeftToRight{
		Op:  AnyOf{Mul{}, Div{}},
		Arg: Atom{},
	}

	subs = LeftToRight{
		Op:  Sub{},
		Arg: mulDiv,
	}

	sums = RightToLeft{
		Op:  Add{},
		Arg: subs,
	}
)

func (p Expr) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return sums.Parse(ctx, b, st)
}

func (p Expr) String() string { return "expression" }

func (p Atom) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	r := Spaced(AnyOf{
		Int{},
		Ident{},
		Context{
			Pre:  Const("("),
			Of:   Expr{},
			Post: Spaced(Const(")")),
		},
	})

	return r.Parse(ctx, b, st)
}

func (p Atom) String() string { return "operand" }
