package hclgraph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ctyToGo converts an evaluated cty value into plain Go values: numbers
// become float64, objects and maps become map[string]any, tuples and lists
// become []any. Null and unknown values convert to nil.
func ctyToGo(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() || val.Type().IsSetType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type %s", val.Type().FriendlyName())
}

// ctyToGoSlice converts an evaluated cty collection into a positional
// argument slice.
func ctyToGoSlice(val cty.Value) ([]any, error) {
	converted, err := ctyToGo(val)
	if err != nil {
		return nil, err
	}
	if converted == nil {
		return nil, nil
	}
	slice, ok := converted.([]any)
	if !ok {
		return nil, fmt.Errorf("want a list, got %s", val.Type().FriendlyName())
	}
	return slice, nil
}

// ctyToGoMap converts an evaluated cty object into a keyword argument map.
func ctyToGoMap(val cty.Value) (map[string]any, error) {
	converted, err := ctyToGo(val)
	if err != nil {
		return nil, err
	}
	if converted == nil {
		return nil, nil
	}
	m, ok := converted.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("want an object, got %s", val.Type().FriendlyName())
	}
	return m, nil
}
