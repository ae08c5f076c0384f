package parse

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/errors"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	Context struct {
		Pre  Parser
		Of   Parser
		Post Parser
	}

	AllOf []Parser

	AnyOf []Parser
)

func (p Context) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	if p.Pre != nil {
		_, i, err = p.Pre.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "pre")
		}
	}

	x, i, err = p.Of.Parse(ctx, b, i)
	if err != nil {
		return nil, i, err
	}

	if p.Post != nil {
		_, i, err = p.Post.Parse(ctx, b, i)
		if err != nil {
			return nil, i, err
		}
	}

	return x, i, nil
}

func (p Context) String() string {
	var parts []string

	for _, r := range []Parser{p.Pre, p.Of, p.Post} {
		if r != nil {
			parts = append(parts, describe(r))
		}
	}

	return strings.Join(parts, " ")
}

func (p AllOf) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	res := make([]ast.Node, len(p))

	for j, r := range p {
		x, i, err = r.Parse(ctx, b, i)
		if err != nil {
			return nil, i, err
		}

		res[j] = x
	}

	return res, i, nil
}

// AnyOf returns the first alternative that succeeds.
// An alternative failed after consuming input wins over the rest.
func (p AnyOf) Parse(ctx context.Context, b []byte, st int) (_ ast.Node, i int, err error) {
	for _, r := range p {
		x, j, e := r.Parse(ctx, b, st)
		if e == nil {
			return x, j, nil
		}
		if j == st {
			continue
		}

		return nil, j, e
	}

	return nil, st, errors.New("expected %v", joinHuman(p...))
}

func joinHuman(l ...Parser) string {
	switch len(l) {
	case 0:
		return "<none>"
	case 1:
		return describe(l[0])
	}

	var b strings.Builder

	for i, r := range l {
		if i+1 == len(l) {
			b.WriteString(" or ")
		} else if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(describe(r))
	}

	return b.String()
}

func describe(p Parser) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", p)
}
