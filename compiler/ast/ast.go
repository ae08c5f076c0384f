package ast

import (
	"fmt"
	"reflect"

	"tlog.app/go/loc"
)

type (
	Node interface {
	}

	Base struct {
		Pos int
		End int
	}

	Program struct {
		Base `tlog:",embed"`

		Stmts []Stmt
	}

	// Stmt is one of *Print or *Assign.
	Stmt interface {
		stmt()
		Span() Base
	}

	// Expr is one of *Lit, *Var, *Add, *Sub, *Mul or *Div.
	Expr interface {
		expr()
		Span() Base
	}

	Print struct {
		Base `tlog:",embed"`

		Expr Expr
	}

	Assign struct {
		Base `tlog:",embed"`

		Name string
		Expr Expr
	}

	Lit struct {
		Base `tlog:",embed"`

		Value int32
	}

	Var struct {
		Base `tlog:",embed"`

		Name string
	}

	Add struct {
		Base `tlog:",embed"`

		L, R Expr
	}

	Sub struct {
		Base `tlog:",embed"`

		L, R Expr
	}

	Mul struct {
		Base `tlog:",embed"`

		L, R Expr
	}

	Div struct {
		Base `tlog:",embed"`

		L, R Expr
	}

	UnsupportedNodeError struct {
		T    Node
		From loc.PC
	}
)

func (b Base) Span() Base { return b }

func (*Print) stmt()  {}
func (*Assign) stmt() {}

func (*Lit) expr() {}
func (*Var) expr() {}
func (*Add) expr() {}
func (*Sub) expr() {}
func (*Mul) expr() {}
func (*Div) expr() {}

// Operands returns both sides of a binary expression.
// ok is false for leaves.
func Operands(e Expr) (l, r Expr, ok bool) {
	switch e := e.(type) {
	case *Add:
		return e.L, e.R, true
	case *Sub:
		return e.L, e.R, true
	case *Mul:
		return e.L, e.R, true
	case *Div:
		return e.L, e.R, true
	}

	return nil, nil, false
}

func Num(v int32) *Lit { return &Lit{Value: v} }

func Ident(name string) *Var { return &Var{Name: name} }

func NewAdd(l, r Expr) *Add { return &Add{L: l, R: r} }
func NewSub(l, r Expr) *Sub { return &Sub{L: l, R: r} }
func NewMul(l, r Expr) *Mul { return &Mul{L: l, R: r} }
func NewDiv(l, r Expr) *Div { return &Div{L: l, R: r} }

func NewPrint(e Expr) *Print { return &Print{Expr: e} }

func NewAssign(name string, e Expr) *Assign { return &Assign{Name: name, Expr: e} }

func NewProgram(stmts ...Stmt) *Program { return &Program{Stmts: stmts} }

func NewUnsupportedNode(x Node) UnsupportedNodeError {
	return UnsupportedNodeError{
		T:    x,
		From: loc.Caller(1),
	}
}

func (e UnsupportedNodeError) Error() string {
	return fmt.Sprintf("unsupported node: %v (at %v)", reflect.TypeOf(e.T), e.From)
}
