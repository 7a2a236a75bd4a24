// Package graph holds the append-only topology: an identity-keyed multimap
// of outgoing connections per unit.
//
// The graph is a builder surface. It never deduplicates edges, never
// validates acyclicity (cycles are legal and run forever under an unbounded
// driver), and is treated as immutable once a stepper holds it.
package graph

import (
	"fmt"

	"github.com/strangemother/hyperway/edge"
	"github.com/strangemother/hyperway/unit"
)

// Graph maps a unit id to the ordered sequence of its outgoing connections.
type Graph struct {
	outgoing map[string][]*edge.Connection

	// units and unitOrder track every unit seen, in first-appearance order,
	// for renderers and lookups. Sinks appear here even though they own no
	// outgoing entry.
	units     map[string]*unit.Unit
	unitOrder []string

	edges []*edge.Connection
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		outgoing: make(map[string][]*edge.Connection),
		units:    make(map[string]*unit.Unit),
	}
}

// Add connects a to b, converting callables to fresh units and passing
// existing units through with their identity intact. The new connection is
// appended to a's outgoing list; repeated Add calls for the same pair
// produce parallel edges.
func (g *Graph) Add(a, b any, opts ...edge.Option) (*edge.Connection, error) {
	ua, err := unit.As(a)
	if err != nil {
		return nil, fmt.Errorf("graph: source: %w", err)
	}
	ub, err := unit.As(b)
	if err != nil {
		return nil, fmt.Errorf("graph: target: %w", err)
	}

	c := edge.New(ua, ub, opts...)
	g.put(c)
	return c, nil
}

// AddConnection appends an externally built connection.
func (g *Graph) AddConnection(c *edge.Connection) {
	g.put(c)
}

// Chain connects each value to the next: Chain(a, b, c) produces a->b and
// b->c. Intermediate callables are wrapped once, so the same unit carries
// both the incoming and the outgoing edge.
func (g *Graph) Chain(vs ...any) ([]*edge.Connection, error) {
	return g.ChainWith(nil, vs...)
}

// ChainWith is Chain with a single wire applied to every hop.
func (g *Graph) ChainWith(wire edge.Wire, vs ...any) ([]*edge.Connection, error) {
	if len(vs) < 2 {
		return nil, fmt.Errorf("graph: chain needs at least two vertices, got %d", len(vs))
	}

	units := make([]*unit.Unit, len(vs))
	for i, v := range vs {
		u, err := unit.As(v)
		if err != nil {
			return nil, fmt.Errorf("graph: chain vertex %d: %w", i, err)
		}
		units[i] = u
	}

	conns := make([]*edge.Connection, 0, len(units)-1)
	for i := 0; i < len(units)-1; i++ {
		var opts []edge.Option
		if wire != nil {
			opts = append(opts, edge.WithWire(wire))
		}
		c := edge.New(units[i], units[i+1], opts...)
		g.put(c)
		conns = append(conns, c)
	}
	return conns, nil
}

// Outgoing returns u's outgoing connections in insertion order. A unit with
// no outgoing connections returns nil; the stepper treats it as a leaf.
func (g *Graph) Outgoing(u *unit.Unit) []*edge.Connection {
	if u == nil {
		return nil
	}
	return g.outgoing[u.ID()]
}

// OutgoingByID returns the outgoing connections for a unit id.
func (g *Graph) OutgoingByID(id string) []*edge.Connection {
	return g.outgoing[id]
}

// Unit resolves a unit id to the unit stored in the graph.
func (g *Graph) Unit(id string) (*unit.Unit, bool) {
	u, ok := g.units[id]
	return u, ok
}

// Units returns every unit referenced by the graph in first-appearance
// order.
func (g *Graph) Units() []*unit.Unit {
	res := make([]*unit.Unit, 0, len(g.unitOrder))
	for _, id := range g.unitOrder {
		res = append(res, g.units[id])
	}
	return res
}

// Edges returns every connection in insertion order.
func (g *Graph) Edges() []*edge.Connection {
	return g.edges
}

// Len returns the number of connections.
func (g *Graph) Len() int { return len(g.edges) }

func (g *Graph) put(c *edge.Connection) {
	g.outgoing[c.A().ID()] = append(g.outgoing[c.A().ID()], c)
	g.edges = append(g.edges, c)
	g.track(c.A())
	g.track(c.B())
}

func (g *Graph) track(u *unit.Unit) {
	if _, ok := g.units[u.ID()]; ok {
		return
	}
	g.units[u.ID()] = u
	g.unitOrder = append(g.unitOrder, u.ID())
}
