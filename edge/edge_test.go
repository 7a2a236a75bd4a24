package edge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strangemother/hyperway/packer"
	"github.com/strangemother/hyperway/unit"
)

func addN(n int) *unit.Unit {
	return unit.New(func(args []any, kwargs map[string]any) (any, error) {
		return args[0].(int) + n, nil
	})
}

func doubler(p *packer.ArgsPack) (any, error) {
	return packer.PackArgs([]any{p.Arg(0).(int) * 2}, p.Kwargs()), nil
}

func TestTwoPhaseEqualsPluck(t *testing.T) {
	c := New(addN(1), addN(2), WithWire(doubler))

	mid, err := c.InvokeA(packer.Pack(1))
	require.NoError(t, err)
	twoPhase, err := c.Transfer(mid)
	require.NoError(t, err)

	plucked, err := c.Pluck(packer.Pack(1))
	require.NoError(t, err)

	assert.True(t, twoPhase.Equal(plucked))
}

func TestPluckWithWire(t *testing.T) {
	// add_1 -> doubler -> add_2
	c := New(addN(1), addN(2), WithWire(doubler))

	res, err := c.Pluck(packer.Pack(1))
	require.NoError(t, err)
	assert.Equal(t, []any{6}, res.Args())

	res, err = c.Pluck(packer.Pack(10))
	require.NoError(t, err)
	assert.Equal(t, []any{24}, res.Args())
}

func TestPluckNoWire(t *testing.T) {
	c := New(addN(10), addN(20))
	res, err := c.Pluck(packer.Pack(10))
	require.NoError(t, err)
	assert.Equal(t, []any{40}, res.Args())
}

func TestApplyWirePassthrough(t *testing.T) {
	c := New(addN(1), addN(2))
	in := packer.Pack(7)
	out, err := c.ApplyWire(in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestWireContract(t *testing.T) {
	bad := func(p *packer.ArgsPack) (any, error) {
		return 42, nil // not a pack
	}
	c := New(addN(1), addN(2), WithNamedWire("bad", bad))

	_, err := c.ApplyWire(packer.Pack(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWireContract)

	_, err = c.Transfer(packer.Pack(1))
	assert.ErrorIs(t, err, ErrWireContract)
}

func TestWireFailure(t *testing.T) {
	boom := errors.New("wire boom")
	c := New(addN(1), addN(2), WithWire(func(p *packer.ArgsPack) (any, error) {
		return nil, boom
	}))

	_, err := c.Pluck(packer.Pack(1))
	assert.ErrorIs(t, err, boom)
}

func TestIdentityAndParallelEdges(t *testing.T) {
	a, b := addN(1), addN(2)
	c1 := New(a, b)
	c2 := New(a, b)

	assert.NotEqual(t, c1.ID(), c2.ID(), "parallel edges are distinct")
	assert.Same(t, c1.A(), c2.A())
	assert.Same(t, c1.B(), c2.B())
}

func TestSelfLoopAllowed(t *testing.T) {
	u := addN(2)
	c := New(u, u)
	res, err := c.Pluck(packer.Pack(1))
	require.NoError(t, err)
	assert.Equal(t, []any{5}, res.Args())
}

func TestNames(t *testing.T) {
	c := New(addN(1), addN(2), WithName("main"), WithNamedWire("double", doubler))
	assert.Equal(t, "main", c.Name())
	assert.Equal(t, "double", c.WireName())
	assert.True(t, c.HasWire())
}
