package hclgraph

import (
	"context"
	"fmt"

	"github.com/strangemother/hyperway/edge"
	"github.com/strangemother/hyperway/graph"
	"github.com/strangemother/hyperway/internal/ctxlog"
	"github.com/strangemother/hyperway/tools"
	"github.com/strangemother/hyperway/unit"
)

// Build materializes the definition into a graph. Units resolve their ops
// through the tools factory; edge wires resolve the same way and are lifted
// into pack transforms. The returned map resolves declared unit names to
// the built units, for seeding a stepper.
func Build(ctx context.Context, def *Definition) (*graph.Graph, map[string]*unit.Unit, error) {
	logger := ctxlog.FromContext(ctx)

	units := make(map[string]*unit.Unit, len(def.Units))
	for _, ud := range def.Units {
		fn, err := tools.Op(ud.Op)
		if err != nil {
			return nil, nil, fmt.Errorf("hclgraph: unit %q: %w", ud.Name, err)
		}

		opts := []unit.Option{unit.WithName(ud.Name)}
		if ud.Merge {
			opts = append(opts, unit.WithMerge())
		}
		if ud.Raw {
			opts = append(opts, unit.WithRawArgs())
		}
		if ud.DiscardLeaf {
			opts = append(opts, unit.WithDiscardLeaf())
		}
		if ud.HasSentinel {
			opts = append(opts, unit.WithSentinel(ud.Sentinel))
		}
		units[ud.Name] = unit.New(fn, opts...)
	}

	g := graph.New()
	for _, ed := range def.Edges {
		var opts []edge.Option
		if ed.Name != "" {
			opts = append(opts, edge.WithName(ed.Name))
		}
		if ed.Wire != "" {
			fn, err := tools.Op(ed.Wire)
			if err != nil {
				return nil, nil, fmt.Errorf("hclgraph: edge %s->%s: wire: %w", ed.From, ed.To, err)
			}
			opts = append(opts, edge.WithNamedWire(ed.Wire, tools.WireOf(fn)))
		}
		if _, err := g.Add(units[ed.From], units[ed.To], opts...); err != nil {
			return nil, nil, fmt.Errorf("hclgraph: edge %s->%s: %w", ed.From, ed.To, err)
		}
	}

	logger.Debug("Graph built from definition.", "units", len(units), "edges", g.Len())
	return g, units, nil
}
