package stepper

import (
	"fmt"

	"github.com/strangemother/hyperway/edge"
	"github.com/strangemother/hyperway/packer"
	"github.com/strangemother/hyperway/unit"
)

// Kind tags the three row variants. The partial variant is what makes an
// edge a first-class scheduling point: a step boundary lies between the
// source invocation and the wire-then-target half.
type Kind uint8

const (
	// KindUnit schedules a unit invocation.
	KindUnit Kind = iota + 1
	// KindPartial schedules the second half of an edge: wire, then target.
	KindPartial
	// KindLeaf marks a terminal result. Leaf rows are stashed, never
	// re-enqueued.
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindPartial:
		return "partial"
	case KindLeaf:
		return "leaf"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Row is one scheduled work item in the driver's queue.
type Row struct {
	Kind Kind
	// Unit is set for KindUnit and KindLeaf rows.
	Unit *unit.Unit
	// Conn is set for KindPartial rows.
	Conn *edge.Connection
	Pack *packer.ArgsPack
}

// UnitRow schedules u to be invoked on pack at the next step.
func UnitRow(u *unit.Unit, pack *packer.ArgsPack) Row {
	return Row{Kind: KindUnit, Unit: u, Pack: pack}
}

// PartialRow schedules the wire-then-target half of c on pack.
func PartialRow(c *edge.Connection, pack *packer.ArgsPack) Row {
	return Row{Kind: KindPartial, Conn: c, Pack: pack}
}

// LeafRow marks a terminal result at u.
func LeafRow(u *unit.Unit, pack *packer.ArgsPack) Row {
	return Row{Kind: KindLeaf, Unit: u, Pack: pack}
}

// Target returns the unit this row is heading for: the unit itself for unit
// and leaf rows, the connection's B side for partials.
func (r Row) Target() *unit.Unit {
	if r.Kind == KindPartial {
		return r.Conn.B()
	}
	return r.Unit
}

func (r Row) String() string {
	switch r.Kind {
	case KindPartial:
		return fmt.Sprintf("Row(partial %s, %s)", r.Conn, r.Pack)
	default:
		return fmt.Sprintf("Row(%s %s, %s)", r.Kind, r.Unit, r.Pack)
	}
}
