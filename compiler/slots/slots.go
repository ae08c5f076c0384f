package slots

import (
	"fmt"

	"nikand.dev/go/heap"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	// Table maps variable names to storage slots.
	// Slots are dense, start at 1 and follow first assignment order.
	Table struct {
		slot map[string]int
		next int
	}

	UnboundVariableError struct {
		Name string
		Pos  int
	}

	entry struct {
		name string
		slot int
	}
)

func New() *Table {
	return &Table{
		slot: make(map[string]int),
		next: 1,
	}
}

// Allocate assigns slots to every variable assigned in p, in program order.
// Reads are not considered.
func Allocate(p *ast.Program) *Table {
	t := New()

	for _, s := range p.Stmts {
		if a, ok := s.(*ast.Assign); ok {
			t.Assign(a.Name)
		}
	}

	return t
}

// Assign returns the slot of name, allocating the next one if name is new.
func (t *Table) Assign(name string) int {
	if s, ok := t.slot[name]; ok {
		return s
	}

	s := t.next
	t.next++

	t.slot[name] = s

	tlog.V("slots").Printw("slot assigned", "name", name, "slot", s, "from", loc.Caller(1))

	return s
}

func (t *Table) Lookup(name string) (int, bool) {
	s, ok := t.slot[name]
	return s, ok
}

// Load returns the slot of a variable being read at pos.
func (t *Table) Load(name string, pos int) (int, error) {
	s, ok := t.slot[name]
	if !ok {
		return 0, UnboundVariableError{Name: name, Pos: pos}
	}

	return s, nil
}

func (t *Table) Len() int { return len(t.slot) }

// Names returns variable names ordered by slot.
func (t *Table) Names() []string {
	h := heap.Heap[entry]{Less: bySlot}

	for name, s := range t.slot {
		h.Push(entry{name: name, slot: s})
	}

	names := make([]string, 0, h.Len())

	for h.Len() != 0 {
		names = append(names, h.Pop().name)
	}

	return names
}

func bySlot(d []entry, i, j int) bool {
	return d[i].slot < d[j].slot
}

func (t *Table) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	names := t.Names()

	b = e.AppendMap(b, len(names))

	for _, name := range names {
		b = e.AppendKeyInt(b, name, t.slot[name])
	}

	return b
}

func (e UnboundVariableError) Error() string {
	return fmt.Sprintf("variable %q used before assignment", e.Name)
}
