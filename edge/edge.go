// Package edge binds a source unit to a target unit with an optional
// in-transit wire transform.
//
// A connection executes in two phases. InvokeA runs the source unit;
// Transfer applies the wire and runs the target. The stepper schedules the
// two halves on either side of a step boundary, which is what allows
// concurrent paths to interleave without lock-step between source and
// target. Pluck composes both phases for direct, graph-less execution.
package edge

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/strangemother/hyperway/packer"
	"github.com/strangemother/hyperway/unit"
)

// ErrWireContract is returned when a wire produces a value that is not an
// *packer.ArgsPack. Wires transform packs to packs; anything else is a
// programming error on the user side.
var ErrWireContract = errors.New("edge: wire returned a non-pack value")

// Wire is an in-transit transform applied between the source's result and
// the target's invocation. It must return an *packer.ArgsPack.
type Wire func(*packer.ArgsPack) (any, error)

// Connection is a directed edge: source unit A, optional wire, target
// unit B. Self connections (A == B) and parallel connections between the
// same pair are both permitted; each connection executes independently.
type Connection struct {
	id       string
	name     string
	a, b     *unit.Unit
	wire     Wire
	wireName string
}

// Option configures a Connection at construction.
type Option func(*Connection)

// WithName attaches a user-side selection name. The engine does not
// interpret it.
func WithName(name string) Option {
	return func(c *Connection) { c.name = name }
}

// WithWire attaches the in-transit transform.
func WithWire(w Wire) Option {
	return func(c *Connection) { c.wire = w }
}

// WithNamedWire attaches a transform with a label for logs and DOT output.
func WithNamedWire(name string, w Wire) Option {
	return func(c *Connection) {
		c.wire = w
		c.wireName = name
	}
}

// New builds a connection from a to b.
func New(a, b *unit.Unit, opts ...Option) *Connection {
	c := &Connection{
		id: uuid.NewString(),
		a:  a,
		b:  b,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the connection's opaque identity.
func (c *Connection) ID() string { return c.id }

// Name returns the user-side selection name, possibly empty.
func (c *Connection) Name() string { return c.name }

// A returns the source unit.
func (c *Connection) A() *unit.Unit { return c.a }

// B returns the target unit.
func (c *Connection) B() *unit.Unit { return c.b }

// HasWire reports whether an in-transit transform is attached.
func (c *Connection) HasWire() bool { return c.wire != nil }

// WireName returns the wire's label, possibly empty.
func (c *Connection) WireName() string { return c.wireName }

// InvokeA runs the source unit with the given pack and returns its result.
func (c *Connection) InvokeA(akw *packer.ArgsPack) (*packer.ArgsPack, error) {
	return c.a.Invoke(akw)
}

// ApplyWire runs the wire on the pack, or passes the pack through untouched
// when no wire is attached. A wire result that is not an *ArgsPack surfaces
// ErrWireContract.
func (c *Connection) ApplyWire(akw *packer.ArgsPack) (*packer.ArgsPack, error) {
	if c.wire == nil {
		return akw, nil
	}
	res, err := c.wire(akw)
	if err != nil {
		return nil, fmt.Errorf("edge %s: wire: %w", c.label(), err)
	}
	mid, ok := res.(*packer.ArgsPack)
	if !ok {
		return nil, fmt.Errorf("edge %s: got %T: %w", c.label(), res, ErrWireContract)
	}
	return mid, nil
}

// Transfer applies the wire (if any) to the pack, then invokes the target
// unit with the wire's output.
func (c *Connection) Transfer(akw *packer.ArgsPack) (*packer.ArgsPack, error) {
	mid, err := c.ApplyWire(akw)
	if err != nil {
		return nil, err
	}
	return c.b.Invoke(mid)
}

// Pluck executes both halves end to end: source, wire, target. Used for
// direct connection execution outside the stepper.
func (c *Connection) Pluck(akw *packer.ArgsPack) (*packer.ArgsPack, error) {
	res, err := c.InvokeA(akw)
	if err != nil {
		return nil, err
	}
	return c.Transfer(res)
}

func (c *Connection) label() string {
	if c.name != "" {
		return c.name
	}
	return fmt.Sprintf("%s->%s", c.a.Name(), c.b.Name())
}

func (c *Connection) String() string {
	return fmt.Sprintf("Connection(%s, %s, name=%s)", c.a, c.b, c.name)
}
