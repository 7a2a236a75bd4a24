// Package hclgraph loads declarative graph definitions from HCL grid files
// and builds executable graphs from them.
//
// A grid file declares units by factory operator, edges between them with
// optional wires, and at most one run block seeding a drive:
//
//	unit "start" { op = "add_10" }
//
//	unit "end" {
//	  op    = "add_20"
//	  merge = true
//	}
//
//	edge {
//	  from = "start"
//	  to   = "end"
//	  wire = "mul_2"
//	}
//
//	run {
//	  start     = "start"
//	  args      = [10]
//	  max_steps = 50
//	}
package hclgraph

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/strangemother/hyperway/internal/ctxlog"
	"github.com/strangemother/hyperway/internal/fsutil"
)

// UnitDef is one declared unit, decoded out of the HCL form.
type UnitDef struct {
	Name        string
	Op          string
	Merge       bool
	Raw         bool
	DiscardLeaf bool
	Sentinel    any
	HasSentinel bool
}

// EdgeDef is one declared edge.
type EdgeDef struct {
	From string
	To   string
	Wire string
	Name string
}

// RunDef seeds a drive: the start unit, the initial argument pack, a step
// bound and merge awareness.
type RunDef struct {
	Start      string
	Args       []any
	Kwargs     map[string]any
	MaxSteps   int
	MergeAware bool
}

// Definition is the decoded content of one or more grid files.
type Definition struct {
	Units []*UnitDef
	Edges []*EdgeDef
	Run   *RunDef
}

// Load reads grid definitions from path: a single .hcl file, or a
// directory searched recursively for .hcl files. Definitions from multiple
// files merge into one Definition; at most one run block is allowed across
// the whole set.
func Load(ctx context.Context, path string) (*Definition, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("hclgraph: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("hclgraph: %w", err)
		}
		if len(files) == 0 {
			logger.Warn("No .hcl grid files found in path.", "path", path)
		}
	}

	def := &Definition{}
	parser := hclparse.NewParser()
	for _, file := range files {
		if err := loadFile(file, parser, def); err != nil {
			return nil, err
		}
	}
	logger.Debug("Grid definition loaded.",
		"files", len(files), "units", len(def.Units), "edges", len(def.Edges))

	if err := def.validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func loadFile(path string, parser *hclparse.Parser, def *Definition) error {
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("hclgraph: failed to parse %s: %w", path, diags)
	}

	var parsed fileSchema
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("hclgraph: failed to decode %s: %w", path, diags)
	}

	for _, ub := range parsed.Units {
		u, err := translateUnit(ub)
		if err != nil {
			return fmt.Errorf("hclgraph: %s: %w", path, err)
		}
		def.Units = append(def.Units, u)
	}
	for _, eb := range parsed.Edges {
		def.Edges = append(def.Edges, &EdgeDef{
			From: eb.From,
			To:   eb.To,
			Wire: eb.Wire,
			Name: eb.Name,
		})
	}
	for _, rb := range parsed.Runs {
		if def.Run != nil {
			return fmt.Errorf("hclgraph: %s: multiple run blocks declared", path)
		}
		run, err := translateRun(rb)
		if err != nil {
			return fmt.Errorf("hclgraph: %s: %w", path, err)
		}
		def.Run = run
	}
	return nil
}

func translateUnit(ub *unitBlock) (*UnitDef, error) {
	u := &UnitDef{
		Name:        ub.Name,
		Op:          ub.Op,
		Merge:       ub.Merge,
		Raw:         ub.Raw,
		DiscardLeaf: ub.DiscardLeaf,
	}
	// gohcl fills an absent optional expression with a synthetic null, so a
	// declared sentinel is one whose expression came from the parsed source.
	if _, declared := ub.Sentinel.(hclsyntax.Expression); declared {
		val, diags := ub.Sentinel.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("unit %q: sentinel: %w", ub.Name, diags)
		}
		sentinel, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("unit %q: sentinel: %w", ub.Name, err)
		}
		u.Sentinel = sentinel
		u.HasSentinel = true
	}
	return u, nil
}

func translateRun(rb *runBlock) (*RunDef, error) {
	run := &RunDef{
		Start:      rb.Start,
		MaxSteps:   rb.MaxSteps,
		MergeAware: rb.MergeAware,
	}
	if rb.Args != nil {
		val, diags := rb.Args.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("run: args: %w", diags)
		}
		args, err := ctyToGoSlice(val)
		if err != nil {
			return nil, fmt.Errorf("run: args: %w", err)
		}
		run.Args = args
	}
	if rb.Kwargs != nil {
		val, diags := rb.Kwargs.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("run: kwargs: %w", diags)
		}
		kwargs, err := ctyToGoMap(val)
		if err != nil {
			return nil, fmt.Errorf("run: kwargs: %w", err)
		}
		run.Kwargs = kwargs
	}
	return run, nil
}

func (d *Definition) validate() error {
	seen := make(map[string]bool, len(d.Units))
	for _, u := range d.Units {
		if u.Name == "" {
			return fmt.Errorf("hclgraph: unit with empty name")
		}
		if seen[u.Name] {
			return fmt.Errorf("hclgraph: duplicate unit %q", u.Name)
		}
		seen[u.Name] = true
	}
	for _, e := range d.Edges {
		if !seen[e.From] {
			return fmt.Errorf("hclgraph: edge references unknown unit %q", e.From)
		}
		if !seen[e.To] {
			return fmt.Errorf("hclgraph: edge references unknown unit %q", e.To)
		}
	}
	if d.Run != nil && !seen[d.Run.Start] {
		return fmt.Errorf("hclgraph: run references unknown unit %q", d.Run.Start)
	}
	return nil
}
