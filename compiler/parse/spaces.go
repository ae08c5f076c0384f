package parse

import (
	"bytes"
	"context"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	Spaces uint64

	Skipper interface {
		Skip(b []byte, st int) int
	}

	// Blank skips spaces and comments: //, # to the end of line and /* */.
	Blank struct {
		Spaces Spaces
	}

	Spacer struct {
		Spaces Skipper
		Of     Parser
	}
)

var (
	SpaceAll = NewSpaces(' ', '\t', '\r', '\n')

	Blanks = Blank{Spaces: SpaceAll}
)

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && b[i] < 64 && s&(1<<b[i]) != 0 {
		i++
	}

	return
}

func (s Blank) Skip(b []byte, st int) (i int) {
	i = st

	for {
		i = s.Spaces.Skip(b, i)

		switch {
		case bytes.HasPrefix(b[i:], []byte("//")), i < len(b) && b[i] == '#':
			for i < len(b) && b[i] != '\n' {
				i++
			}
		case bytes.HasPrefix(b[i:], []byte("/*")):
			end := bytes.Index(b[i+2:], []byte("*/"))
			if end < 0 {
				return i // unterminated comment is left for the parser to reject
			}

			i += 2 + end + 2
		default:
			return i
		}
	}
}

func Spaced(p Parser) Spacer {
	return Spacer{
		Spaces: Blanks,
		Of:     p,
	}
}

func (p Spacer) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	vst := p.Spaces.Skip(b, st)

	x, i, err = p.Of.Parse(ctx, b, vst)
	if err != nil && i == vst {
		i = st
	}

	return
}

func (p Spacer) String() string { return describe(p.Of) }
