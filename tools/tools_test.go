package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strangemother/hyperway/graph"
	"github.com/strangemother/hyperway/packer"
	"github.com/strangemother/hyperway/stepper"
	"github.com/strangemother/hyperway/unit"
)

func call(t *testing.T, fn unit.Func, v any) any {
	t.Helper()
	res, err := fn([]any{v}, nil)
	require.NoError(t, err)
	return res
}

func TestFixedOps(t *testing.T) {
	assert.Equal(t, 11.0, call(t, Add(1), 10))
	assert.Equal(t, 6.0, call(t, Sub(4), 10))
	assert.Equal(t, 20.0, call(t, Mul(2), 10))
	assert.Equal(t, 5.0, call(t, Div(2), 10))
}

func TestOpParsing(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"add_10", 5, 15},
		{"sub_3", 10, 7},
		{"mul_0.5", 8, 4},
		{"div_4", 8, 2},
		{"pow_2", 3, 9},
		{"mod_3", 10, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fn, err := Op(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, call(t, fn, tc.in))
		})
	}
}

func TestOpErrors(t *testing.T) {
	_, err := Op("add")
	assert.ErrorContains(t, err, "want <operator>_<operand>")

	_, err = Op("add_ten")
	assert.ErrorContains(t, err, "bad operand")

	_, err = Op("xor_1")
	assert.ErrorContains(t, err, "unknown operator")

	assert.Panics(t, func() { MustOp("nope_1") })
}

func TestOpArgumentValidation(t *testing.T) {
	fn := MustOp("add_1")

	_, err := fn([]any{1, 2}, nil)
	assert.ErrorContains(t, err, "want 1 argument")

	_, err = fn([]any{"ten"}, nil)
	assert.ErrorContains(t, err, "want a number")
}

func TestSum(t *testing.T) {
	fn := Sum(1)
	res, err := fn([]any{2, 3.0, 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, res)

	res, err = fn(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res)

	_, err = fn([]any{"x"}, nil)
	assert.ErrorContains(t, err, "argument 0")

	parsed, err := Op("sum_0")
	require.NoError(t, err)
	assert.Equal(t, 9.0, call(t, parsed, 9))
}

func TestDivByZero(t *testing.T) {
	fn := MustOp("div_0")
	_, err := fn([]any{4}, nil)
	assert.ErrorContains(t, err, "division by zero")
}

func TestDoubler(t *testing.T) {
	w := Doubler()
	res, err := w(packer.PackArgs([]any{3}, map[string]any{"keep": true}))
	require.NoError(t, err)

	pack, ok := res.(*packer.ArgsPack)
	require.True(t, ok)
	assert.Equal(t, []any{6.0}, pack.Args())
	assert.Equal(t, map[string]any{"keep": true}, pack.Kwargs())
}

func TestWireOf(t *testing.T) {
	w := WireOf(MustOp("mul_3"))
	res, err := w(packer.Pack(2))
	require.NoError(t, err)

	pack, ok := res.(*packer.ArgsPack)
	require.True(t, ok)
	assert.Equal(t, []any{6.0}, pack.Args())
}

func TestFactoryDrivesGraph(t *testing.T) {
	g := graph.New()
	start := unit.New(MustOp("add_10"), unit.WithName("add_10"))
	end := unit.New(MustOp("add_20"), unit.WithName("add_20"))
	_, err := g.Add(start, end)
	require.NoError(t, err)

	st, err := stepper.Run(context.Background(), g, start, packer.Pack(10), 0)
	require.NoError(t, err)

	packs := st.Packs(end)
	require.Len(t, packs, 1)
	assert.Equal(t, []any{40.0}, packs[0].Args())
}
