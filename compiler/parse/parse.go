package parse

import (
	"context"
	"fmt"
	"os"
	"sort"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	State struct {
		b    []byte
		name string

		lines []int // offsets of line starts

		Grammar Parser
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	SyntaxError struct {
		File string
		Line int
		Col  int

		Err error
	}

	PartialReadError struct {
		End int
	}
)

func ParseFile(ctx context.Context, name string) (*ast.Program, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return New(name, data).Parse(ctx)
}

func Parse(ctx context.Context, text []byte) (*ast.Program, error) {
	return New("", text).Parse(ctx)
}

func New(name string, text []byte) *State {
	s := &State{
		b:    text,
		name: name,

		Grammar: Program{},
	}

	s.lines = append(s.lines, 0)

	for i, c := range text {
		if c == '\n' {
			s.lines = append(s.lines, i+1)
		}
	}

	return s
}

func (s *State) Parse(ctx context.Context) (p *ast.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "name", s.name, "size", len(s.b))
	defer tr.Finish("err", &err)

	x, i, err := s.Grammar.Parse(ctx, s.b, 0)
	if err != nil {
		return nil, s.SyntaxError(i, err)
	}

	if i = Blanks.Skip(s.b, i); i != len(s.b) {
		return nil, s.SyntaxError(i, PartialReadError{End: i})
	}

	p, ok := x.(*ast.Program)
	if !ok {
		return nil, errors.New("grammar returned %T, not a program", x)
	}

	if tr.If("dump_ast") {
		for j, st := range p.Stmts {
			sp := st.Span()

			tr.Printw("stmt", "i", j, "text", s.Text(sp.Pos, sp.End), "typ", tlog.NextAsType, st, "val", st)
		}
	}

	return p, nil
}

func (s *State) Name() string { return s.name }

func (s *State) Text(pos, end int) []byte {
	return s.b[pos:end]
}

// Position converts byte offset into 1-based line and column.
func (s *State) Position(pos int) (line, col int) {
	l := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > pos })

	return l, pos - s.lines[l-1] + 1
}

func (s *State) SyntaxError(pos int, err error) SyntaxError {
	line, col := s.Position(pos)

	return SyntaxError{
		File: s.name,
		Line: line,
		Col:  col,
		Err:  err,
	}
}

func (e SyntaxError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("syntax error at line %d:%d: %v", e.Line, e.Col, e.Err)
	}

	return fmt.Sprintf("%s:%d:%d: syntax error: %v", e.File, e.Line, e.Col, e.Err)
}

func (e SyntaxError) Unwrap() error { return e.Err }

func (e PartialReadError) Error() string {
	return "unexpected text after program end"
}
