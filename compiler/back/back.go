package back

import (
	"context"
	"strings"

	"github.com/instantlang/insc/compiler/ast"
)

type (
	// Backend turns a program into the text of one output unit.
	// Generate returns no output on error.
	Backend interface {
		Name() string
		Ext() string

		Generate(ctx context.Context, unit string, p *ast.Program) ([]byte, error)
	}
)

// UnitName derives output unit name from the input path:
// directories and the last extension are stripped.
// Both '/' and '\' separate directories.
func UnitName(path string) string {
	base := path

	if p := strings.LastIndexAny(base, `/\`); p >= 0 {
		base = base[p+1:]
	}

	if p := strings.LastIndexByte(base, '.'); p >= 0 {
		base = base[:p]
	}

	return base
}

// OutputPath is the path of unit's file with ext next to the input.
func OutputPath(input, ext string) string {
	dir := ""

	if p := strings.LastIndexAny(input, `/\`); p >= 0 {
		dir = input[:p+1]
	}

	return dir + UnitName(input) + "." + ext
}
