package parse

import (
	"bytes"
	"context"
	"strconv"

	"tlog.app/go/errors"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	Const []byte

	// Keyword is a Const not followed by an identifier character.
	Keyword []byte

	Ident struct{}
)

func (p Const) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if bytes.HasPrefix(b[st:], p) {
		return Const(b[st : st+len(p)]), st + len(p), nil
	}

	return nil, st, errors.New("%q expected", []byte(p))
}

func (p Const) String() string { return strconv.Quote(string(p)) }

func (p Keyword) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st + len(p)

	if !bytes.HasPrefix(b[st:], p) || i < len(b) && isIdentChar(b[i]) {
		return nil, st, errors.New("%q expected", []byte(p))
	}

	return Const(b[st:i]), i, nil
}

func (p Keyword) String() string { return strconv.Quote(string(p)) }

func (p Ident) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	if i == len(b) || !isIdentStart(b[i]) {
		return nil, st, errors.New("identifier expected")
	}

	for i < len(b) && isIdentChar(b[i]) {
		i++
	}

	return &ast.Var{
		Base: ast.Base{Pos: st, End: i},
		Name: string(b[st:i]),
	}, i, nil
}

func (p Ident) String() string { return "identifier" }

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '_' || c == '\''
}
