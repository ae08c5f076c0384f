package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"

	"github.com/instantlang/insc/compiler/ast"
	"github.com/instantlang/insc/compiler/parse"
	"github.com/instantlang/insc/compiler/slots"
)

func TestRun(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		src string
		out []int32
	}{
		{"", nil},
		{"a = 2 + 3 * 4; print a;", []int32{14}},
		{"print 1 - (2 - 3);", []int32{2}},
		{"1; 2; x = 3; x * x", []int32{1, 2, 9}},
		{"a = 1; a = a + a; a = a * a; print a", []int32{4}},
		{"print 7 / 2; print (0 - 7) / 2", []int32{3, -3}},
		{"a = 2147483647; print a + 1", []int32{-2147483648}},
		{"m = 0 - 2147483647 - 1; print m / (0 - 1); print m * (0 - 1)", []int32{-2147483648, -2147483648}},
	} {
		out, err := Run(ctx, mustParse(t, tc.src))
		require.NoError(t, err, "src: %q", tc.src)

		assert.Equal(t, tc.out, out, "src: %q", tc.src)
	}
}

func TestRunUnbound(t *testing.T) {
	ctx := context.Background()

	out, err := Run(ctx, mustParse(t, "a = 1;\nprint a + b"))
	assert.Nil(t, out)

	var ue slots.UnboundVariableError
	require.True(t, errors.As(err, &ue), "%v", err)
	assert.Equal(t, "b", ue.Name)
	assert.Equal(t, 17, ue.Pos)
}

func TestRunDivisionByZero(t *testing.T) {
	ctx := context.Background()

	out, err := Run(ctx, mustParse(t, "print 1; z = 0; print 5 / z"))
	assert.Nil(t, out)

	var dz DivisionByZeroError
	require.True(t, errors.As(err, &dz), "%v", err)
	assert.Equal(t, 22, dz.Pos)
	assert.Contains(t, err.Error(), "stmt 3")
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()

	p, err := parse.Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return p
}
