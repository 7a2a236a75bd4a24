// Package packer provides the ArgsPack, the sole value carrier moved
// between units, wires and the stash.
//
// An ArgsPack couples an ordered slice of positional values with a map of
// keyword values, mirroring a single call's argument list. Packs are treated
// as immutable once built: the engine never mutates a pack in flight, and
// folding concurrent packs produces a fresh pack.
package packer

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ArgsPack carries the positional and keyword arguments for one call.
type ArgsPack struct {
	args   []any
	kwargs map[string]any
}

// Pack wraps a value into an ArgsPack. Wrapping is idempotent: a value that
// already is an *ArgsPack is returned unchanged, any other value becomes the
// sole positional argument of a new pack. This includes nil, which wraps to
// a pack with a single nil positional.
func Pack(v any) *ArgsPack {
	if p, ok := v.(*ArgsPack); ok {
		return p
	}
	return &ArgsPack{args: []any{v}}
}

// PackArgs builds a pack from an explicit positional slice and keyword map.
// Both may be nil. The inputs are copied, so the caller may reuse them.
func PackArgs(args []any, kwargs map[string]any) *ArgsPack {
	p := &ArgsPack{}
	if len(args) > 0 {
		p.args = append([]any(nil), args...)
	}
	if len(kwargs) > 0 {
		p.kwargs = make(map[string]any, len(kwargs))
		for k, v := range kwargs {
			p.kwargs[k] = v
		}
	}
	return p
}

// PackOf builds a pack from a list of positional values.
func PackOf(args ...any) *ArgsPack {
	return PackArgs(args, nil)
}

// Merge folds many packs into one using row-concat semantics: positional
// slices are concatenated in the given order, keyword maps are merged with
// last-write-wins in the given order.
func Merge(packs ...*ArgsPack) *ArgsPack {
	r := &ArgsPack{}
	for _, p := range packs {
		if p == nil {
			continue
		}
		r.args = append(r.args, p.args...)
		if len(p.kwargs) == 0 {
			continue
		}
		if r.kwargs == nil {
			r.kwargs = make(map[string]any, len(p.kwargs))
		}
		for k, v := range p.kwargs {
			r.kwargs[k] = v
		}
	}
	return r
}

// Args returns the positional values. The returned slice is shared with the
// pack and must not be mutated.
func (p *ArgsPack) Args() []any {
	if p == nil {
		return nil
	}
	return p.args
}

// Kwargs returns the keyword values. The returned map is shared with the
// pack and must not be mutated.
func (p *ArgsPack) Kwargs() map[string]any {
	if p == nil {
		return nil
	}
	return p.kwargs
}

// Len returns the number of positional values.
func (p *ArgsPack) Len() int {
	if p == nil {
		return 0
	}
	return len(p.args)
}

// Arg returns the positional value at i, or nil when out of range.
func (p *ArgsPack) Arg(i int) any {
	if p == nil || i < 0 || i >= len(p.args) {
		return nil
	}
	return p.args[i]
}

// Equal reports whether two packs carry deeply equal positional and keyword
// values.
func (p *ArgsPack) Equal(o *ArgsPack) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.args) != len(o.args) || len(p.kwargs) != len(o.kwargs) {
		return false
	}
	for i := range p.args {
		if !reflect.DeepEqual(p.args[i], o.args[i]) {
			return false
		}
	}
	for k, v := range p.kwargs {
		ov, ok := o.kwargs[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

func (p *ArgsPack) String() string {
	if p == nil {
		return "ArgsPack(nil)"
	}
	var sb strings.Builder
	sb.WriteString("ArgsPack(")
	for i, a := range p.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", a)
	}
	if len(p.kwargs) > 0 {
		keys := make([]string, 0, len(p.kwargs))
		for k := range p.kwargs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if sb.Len() > len("ArgsPack(") {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, p.kwargs[k])
		}
	}
	sb.WriteString(")")
	return sb.String()
}
