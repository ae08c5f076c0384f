package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instantlang/insc/compiler/ast"
	"github.com/instantlang/insc/compiler/parse"
)

func TestDepthLeaves(t *testing.T) {
	a := New()

	assert.Equal(t, 1, a.Depth(ast.Num(7)))
	assert.Equal(t, 1, a.Depth(ast.Ident("x")))
}

func TestDepthRules(t *testing.T) {
	// depths: one 1, two 2, three 3, deep 4, lopsided 3
	one := func() ast.Expr { return ast.Num(1) }
	two := func() ast.Expr { return ast.NewAdd(ast.Num(1), ast.Num(2)) }
	three := func() ast.Expr { return ast.NewSub(ast.Num(1), two()) }
	deep := func() ast.Expr { return ast.NewMul(three(), three()) }
	lopsided := func() ast.Expr { return ast.NewDiv(three(), ast.Ident("x")) }

	for _, tc := range []struct {
		name string
		e    ast.Expr
		d    int
	}{
		{"add_equal", ast.NewAdd(one(), one()), 2},
		{"mul_equal", ast.NewMul(two(), two()), 3},
		{"add_left_heavy", ast.NewAdd(three(), one()), 3},
		{"add_right_heavy", ast.NewAdd(one(), three()), 3},
		{"mul_right_heavy", ast.NewMul(two(), deep()), 4},
		{"sub_leaves", ast.NewSub(one(), one()), 2},
		{"sub_left_heavy", ast.NewSub(three(), one()), 3},
		{"sub_right_heavy", ast.NewSub(one(), three()), 4},
		{"sub_equal", ast.NewSub(two(), two()), 3},
		{"div_right_heavy", ast.NewDiv(one(), two()), 3},
		{"div_left", lopsided(), 3},
		{"div_much_heavier_left", ast.NewDiv(deep(), two()), 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.d, New().Depth(tc.e))
		})
	}
}

func TestDepthProperties(t *testing.T) {
	a := New()

	var exprs []ast.Expr

	leaves := []ast.Expr{ast.Num(0), ast.Ident("a"), ast.Num(-1)}
	exprs = append(exprs, leaves...)

	for len(exprs) < 1000 {
		n := len(exprs)

		for i := 0; i < n; i++ {
			for j := 0; j < n; j += 2 {
				l, r := exprs[i], exprs[j]

				exprs = append(exprs, ast.NewAdd(l, r), ast.NewSub(l, r), ast.NewMul(l, r), ast.NewDiv(l, r))
			}
		}
	}

	for _, e := range exprs {
		d := a.Depth(e)

		l, r, ok := ast.Operands(e)
		if !ok {
			assert.Equal(t, 1, d)
			continue
		}

		L, R := a.Depth(l), a.Depth(r)

		switch e.(type) {
		case *ast.Add, *ast.Mul:
			if L == R {
				assert.Equal(t, L+1, d)
			} else {
				assert.Equal(t, max(L, R), d)
			}
		case *ast.Sub, *ast.Div:
			assert.Equal(t, max(L, R+1), d)
		}
	}
}

func TestDepthSharedSubtrees(t *testing.T) {
	a := New()

	var e ast.Expr = ast.Ident("x")

	const n = 200

	for i := 0; i < n; i++ {
		e = ast.NewAdd(e, e) // each level shares both operands
	}

	assert.Equal(t, n+1, a.Depth(e))
	assert.Len(t, a.depth, n+1)
}

func TestDepthCacheIsPerAnalyzer(t *testing.T) {
	e := ast.NewSub(ast.Num(1), ast.NewSub(ast.Num(2), ast.Num(3)))

	a := New()
	b := New()

	assert.Equal(t, 3, a.Depth(e))
	assert.Len(t, a.depth, 5)
	assert.Empty(t, b.depth)
}

func TestMaxStack(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		src   string
		stack int
	}{
		{"", 1},
		{"a = 2 + 3 * 4; print a;", 2},
		{"print 1 - (2 - 3);", 3},
		{"1; 2; 3", 1},
		{"a = 1; b = a * (a + (a - 1)); print b", 2},
		{"print 1 - (2 - (3 - 4))", 4},
		{"x = (1+2)*(3+4); (1+2)+(3+4)*(5+6)", 3},
	} {
		p, err := parse.Parse(ctx, []byte(tc.src))
		require.NoError(t, err)

		assert.Equal(t, tc.stack, New().MaxStack(ctx, p), "src: %q", tc.src)
	}
}

func TestHeavier(t *testing.T) {
	a := New()

	light := ast.Num(1)
	heavy := ast.NewSub(ast.Num(1), ast.Num(2))

	assert.True(t, a.Heavier(light, heavy))
	assert.False(t, a.Heavier(heavy, light))
	assert.False(t, a.Heavier(light, ast.Num(2)), "ties keep left first")
}
