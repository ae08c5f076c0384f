package ir

import (
	"strconv"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Value is an instruction operand: Imm or Temp.
	Value interface {
		value()
	}

	Imm  int32
	Temp int

	// Cell is the memory cell of a variable, named after it.
	Cell string

	Op string

	Func struct {
		Name string

		Cells []Cell
		Code  []Instr

		temps int
	}

	Instr any

	Load struct {
		Out  Temp
		Cell Cell
	}

	Store struct {
		Val  Value
		Cell Cell
	}

	BinOp struct {
		Op   Op
		Out  Temp
		L, R Value
	}

	// Print writes Val as a decimal line.
	// Fmt is a temporary holding the format string address
	// for targets that need one, zero otherwise.
	Print struct {
		Val Value
		Fmt Temp
	}

	Ret struct {
		Val Value
	}
)

const (
	Add Op = "add"
	Sub Op = "sub"
	Mul Op = "mul"
	Div Op = "sdiv"
)

func (Imm) value()  {}
func (Temp) value() {}

// Temp allocates the next temporary. Temporaries are numbered from 1.
func (f *Func) Temp() Temp {
	f.temps++

	return Temp(f.temps)
}

func (f *Func) Temps() int { return f.temps }

func (f *Func) Emit(x Instr) {
	f.Code = append(f.Code, x)
}

func (f *Func) Declare(c Cell) {
	f.Cells = append(f.Cells, c)
}

func (t Temp) String() string { return "%t" + strconv.Itoa(int(t)) }

func (v Imm) String() string { return strconv.Itoa(int(v)) }

func (x BinOp) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 4)
	b = e.AppendKeyString(b, "op", string(x.Op))
	b = e.AppendKeyInt(b, "out", int(x.Out))
	b = e.AppendKeyString(b, "l", valueString(x.L))
	b = e.AppendKeyString(b, "r", valueString(x.R))

	return b
}

func valueString(v Value) string {
	switch v := v.(type) {
	case Imm:
		return v.String()
	case Temp:
		return v.String()
	}

	return "<nil>"
}
