// Package tools provides pre-built arithmetic callables and wire helpers
// for graph construction. The engine treats them as ordinary callables.
package tools

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/strangemother/hyperway/edge"
	"github.com/strangemother/hyperway/packer"
	"github.com/strangemother/hyperway/unit"
)

// Add returns a callable computing v + n.
func Add(n float64) unit.Func { return applyOp("add", n) }

// Sub returns a callable computing v - n.
func Sub(n float64) unit.Func { return applyOp("sub", n) }

// Mul returns a callable computing v * n.
func Mul(n float64) unit.Func { return applyOp("mul", n) }

// Div returns a callable computing v / n.
func Div(n float64) unit.Func { return applyOp("div", n) }

// Sum returns a callable summing every positional value plus n. Unlike the
// single-argument operators it accepts any number of values, so it suits
// merge nodes receiving folded packs.
func Sum(n float64) unit.Func {
	return func(args []any, kwargs map[string]any) (any, error) {
		total := n
		for i, a := range args {
			v, err := asFloat(a)
			if err != nil {
				return nil, fmt.Errorf("tools: sum_%v: argument %d: %w", n, i, err)
			}
			total += v
		}
		return total, nil
	}
}

// Op resolves an operator name of the form "<op>_<operand>" into a
// callable, e.g. "add_10", "mul_0.5", "pow_2". Supported operators: add,
// sub, mul, div, mod, pow, and the variadic sum.
func Op(name string) (unit.Func, error) {
	op, rest, ok := strings.Cut(name, "_")
	if !ok {
		return nil, fmt.Errorf("tools: op %q: want <operator>_<operand>", name)
	}
	operand, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return nil, fmt.Errorf("tools: op %q: bad operand: %w", name, err)
	}
	switch op {
	case "add", "sub", "mul", "div", "mod", "pow":
		return applyOp(op, operand), nil
	case "sum":
		return Sum(operand), nil
	}
	return nil, fmt.Errorf("tools: op %q: unknown operator %q", name, op)
}

// MustOp is Op for construction paths where a bad name is a programmer
// error.
func MustOp(name string) unit.Func {
	fn, err := Op(name)
	if err != nil {
		panic(err)
	}
	return fn
}

// Doubler is a wire that doubles the sole positional value, preserving
// keywords.
func Doubler() edge.Wire {
	return func(p *packer.ArgsPack) (any, error) {
		v, err := asFloat(p.Arg(0))
		if err != nil {
			return nil, fmt.Errorf("tools: doubler: %w", err)
		}
		return packer.PackArgs([]any{v * 2}, p.Kwargs()), nil
	}
}

// WireOf lifts a callable into a wire: the callable runs on the pack's
// values and its result is re-wrapped into a pack.
func WireOf(fn unit.Func) edge.Wire {
	return func(p *packer.ArgsPack) (any, error) {
		res, err := fn(p.Args(), p.Kwargs())
		if err != nil {
			return nil, err
		}
		return packer.Pack(res), nil
	}
}

// applyOp builds the single-argument arithmetic callable. The operand binds
// on the right: sub_4 computes v - 4.
func applyOp(op string, operand float64) unit.Func {
	return func(args []any, kwargs map[string]any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("tools: %s_%v: want 1 argument, got %d", op, operand, len(args))
		}
		v, err := asFloat(args[0])
		if err != nil {
			return nil, fmt.Errorf("tools: %s_%v: %w", op, operand, err)
		}
		switch op {
		case "add":
			return v + operand, nil
		case "sub":
			return v - operand, nil
		case "mul":
			return v * operand, nil
		case "div":
			if operand == 0 {
				return nil, fmt.Errorf("tools: div_%v: division by zero", operand)
			}
			return v / operand, nil
		case "mod":
			return math.Mod(v, operand), nil
		case "pow":
			return math.Pow(v, operand), nil
		}
		return nil, fmt.Errorf("tools: unknown operator %q", op)
	}
}

func asFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	}
	return 0, fmt.Errorf("want a number, got %T", v)
}
