// Package unit wraps user callables into identity-bearing graph vertices.
package unit

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/strangemother/hyperway/packer"
)

// Func is the shape of a user callable: positional values in, keyword values
// in, any value out. The returned value is wrapped into an ArgsPack by the
// engine; returning an *ArgsPack directly passes it through unchanged.
type Func func(args []any, kwargs map[string]any) (any, error)

// Unit is a vertex: a callable plus its identity and invocation policies.
// Two Units built from the same Func carry distinct ids; re-wrapping an
// existing Unit via As returns the same Unit. The id is the only basis for
// edge keying.
type Unit struct {
	id   string
	name string
	fn   Func

	sentinel    any
	hasSentinel bool
	merge       bool
	raw         bool
	discardLeaf bool
}

// Option configures a Unit at construction.
type Option func(*Unit)

// WithName sets a human-readable name, used in logs and DOT output.
func WithName(name string) Option {
	return func(u *Unit) { u.name = name }
}

// WithSentinel configures the marker value stripped when it arrives as the
// sole positional argument. The sentinel may be nil.
func WithSentinel(v any) Option {
	return func(u *Unit) {
		u.sentinel = v
		u.hasSentinel = true
	}
}

// WithMerge marks the unit as a merge node: concurrent incoming rows within
// one step fold into a single invocation when the stepper is merge-aware.
func WithMerge() Option {
	return func(u *Unit) { u.merge = true }
}

// WithRawArgs bypasses sentinel stripping, passing positional and keyword
// values through untouched.
func WithRawArgs() Option {
	return func(u *Unit) { u.raw = true }
}

// WithDiscardLeaf suppresses stashing when the unit terminates a path. The
// result of a discarded leaf is consumed: no successor row, no stash entry.
func WithDiscardLeaf() Option {
	return func(u *Unit) { u.discardLeaf = true }
}

// New wraps fn into a fresh Unit with a new identity.
func New(fn Func, opts ...Option) *Unit {
	u := &Unit{
		id: uuid.NewString(),
		fn: fn,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// As converts v into a Unit. An existing *Unit is returned as-is, preserving
// its identity; a Func (or a value assignable to one) is wrapped into a
// fresh Unit. Anything else is an error.
func As(v any, opts ...Option) (*Unit, error) {
	switch t := v.(type) {
	case *Unit:
		return t, nil
	case Func:
		return New(t, opts...), nil
	case func(args []any, kwargs map[string]any) (any, error):
		return New(t, opts...), nil
	case nil:
		return nil, fmt.Errorf("unit: cannot wrap nil")
	}
	return nil, fmt.Errorf("unit: cannot wrap %T as a unit", v)
}

// MustAs is As for construction paths where a conversion failure is a
// programmer error.
func MustAs(v any, opts ...Option) *Unit {
	u, err := As(v, opts...)
	if err != nil {
		panic(err)
	}
	return u
}

// ID returns the unit's opaque identity, stable for its lifetime.
func (u *Unit) ID() string { return u.id }

// Name returns the configured name, or a short id-derived fallback.
func (u *Unit) Name() string {
	if u.name != "" {
		return u.name
	}
	if len(u.id) >= 8 {
		return "unit-" + u.id[:8]
	}
	return "unit-" + u.id
}

// MergeNode reports whether the unit folds concurrent incoming rows.
func (u *Unit) MergeNode() bool { return u.merge }

// Sentinel returns the configured sentinel and whether one is set.
func (u *Unit) Sentinel() (any, bool) { return u.sentinel, u.hasSentinel }

// StashesLeaf reports whether a terminal result is written to the stash.
func (u *Unit) StashesLeaf() bool { return !u.discardLeaf }

// Invoke calls the wrapped Func with the pack's values and wraps the result.
//
// When a sentinel is configured and the pack holds exactly one positional
// value deeply equal to it, the positional list is dropped before the call.
// Raw units skip stripping entirely.
func (u *Unit) Invoke(akw *packer.ArgsPack) (*packer.ArgsPack, error) {
	args := akw.Args()
	if !u.raw && u.hasSentinel && len(args) == 1 && reflect.DeepEqual(args[0], u.sentinel) {
		args = nil
	}
	res, err := u.fn(args, akw.Kwargs())
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", u.Name(), err)
	}
	return packer.Pack(res), nil
}

func (u *Unit) String() string {
	return fmt.Sprintf("Unit(%s)", u.Name())
}
