// Package dot renders a graph as Graphviz DOT text. Rendering reads the
// graph's outgoing map only; producing an image from the text is left to
// external tooling.
package dot

import (
	"fmt"
	"io"
	"strings"

	"github.com/strangemother/hyperway/graph"
)

// Node is a renderable vertex: a stable id and a display label.
type Node struct {
	ID    string
	Label string
}

// Arrow is a renderable directed edge, labelled with the wire name when one
// is attached.
type Arrow struct {
	From  string
	To    string
	Label string
}

// Options control the emitted DOT attributes. Zero values fall back to the
// defaults in DefaultOptions.
type Options struct {
	Name      string
	Rankdir   string // "TB" or "LR"
	NodeShape string
	NodeStyle string
	FontName  string
	NodeColor string
	FontColor string
	BGColor   string
	FontSize  string
}

// DefaultOptions returns the default styling.
func DefaultOptions() Options {
	return Options{
		Name:      "hyperway",
		Rankdir:   "TB",
		NodeShape: "box",
		NodeStyle: "rounded",
		FontName:  "Arial",
		NodeColor: "#2299FF",
		FontColor: "#DDDDDD",
		BGColor:   "#00000000",
		FontSize:  "12",
	}
}

// NodesEdges flattens the graph into renderable nodes and arrows. Nodes
// appear in first-appearance order, arrows in connection insertion order.
func NodesEdges(g *graph.Graph) ([]Node, []Arrow) {
	units := g.Units()
	nodes := make([]Node, 0, len(units))
	for _, u := range units {
		nodes = append(nodes, Node{ID: u.ID(), Label: u.Name()})
	}

	conns := g.Edges()
	arrows := make([]Arrow, 0, len(conns))
	for _, c := range conns {
		arrows = append(arrows, Arrow{
			From:  c.A().ID(),
			To:    c.B().ID(),
			Label: c.WireName(),
		})
	}
	return nodes, arrows
}

// Write emits the graph as DOT text.
func Write(w io.Writer, g *graph.Graph, opts Options) error {
	def := DefaultOptions()
	merge := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}

	nodes, arrows := NodesEdges(g)

	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", quote(merge(opts.Name, def.Name)))
	fmt.Fprintf(&sb, "\trankdir=%s;\n", merge(opts.Rankdir, def.Rankdir))
	fmt.Fprintf(&sb, "\tbgcolor=%s;\n", quote(merge(opts.BGColor, def.BGColor)))
	fmt.Fprintf(&sb, "\tfontsize=%s;\n", merge(opts.FontSize, def.FontSize))
	fmt.Fprintf(&sb, "\tnode [shape=%s style=%s fontname=%s color=%s fontcolor=%s];\n",
		merge(opts.NodeShape, def.NodeShape),
		quote(merge(opts.NodeStyle, def.NodeStyle)),
		quote(merge(opts.FontName, def.FontName)),
		quote(merge(opts.NodeColor, def.NodeColor)),
		quote(merge(opts.FontColor, def.FontColor)),
	)

	for _, n := range nodes {
		fmt.Fprintf(&sb, "\t%s [label=%s];\n", quote(n.ID), quote(n.Label))
	}
	for _, a := range arrows {
		if a.Label != "" {
			fmt.Fprintf(&sb, "\t%s -> %s [label=%s];\n", quote(a.From), quote(a.To), quote(a.Label))
			continue
		}
		fmt.Fprintf(&sb, "\t%s -> %s;\n", quote(a.From), quote(a.To))
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// Marshal renders the graph as a DOT string.
func Marshal(g *graph.Graph, opts Options) string {
	var sb strings.Builder
	// strings.Builder writes never fail.
	_ = Write(&sb, g, opts)
	return sb.String()
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
