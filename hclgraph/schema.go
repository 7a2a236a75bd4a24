package hclgraph

import "github.com/hashicorp/hcl/v2"

// unitBlock is the HCL shape of a `unit "name" { ... }` block.
type unitBlock struct {
	Name        string         `hcl:"name,label"`
	Op          string         `hcl:"op"`
	Merge       bool           `hcl:"merge,optional"`
	Raw         bool           `hcl:"raw,optional"`
	DiscardLeaf bool           `hcl:"discard_leaf,optional"`
	Sentinel    hcl.Expression `hcl:"sentinel,optional"`
}

// edgeBlock is the HCL shape of an `edge { from = ... to = ... }` block.
type edgeBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
	Wire string `hcl:"wire,optional"`
	Name string `hcl:"name,optional"`
}

// runBlock is the HCL shape of the `run { ... }` block seeding a drive.
type runBlock struct {
	Start      string         `hcl:"start"`
	Args       hcl.Expression `hcl:"args,optional"`
	Kwargs     hcl.Expression `hcl:"kwargs,optional"`
	MaxSteps   int            `hcl:"max_steps,optional"`
	MergeAware bool           `hcl:"merge_aware,optional"`
}

// fileSchema is the top-level structure of one grid file.
type fileSchema struct {
	Units []*unitBlock `hcl:"unit,block"`
	Edges []*edgeBlock `hcl:"edge,block"`
	Runs  []*runBlock  `hcl:"run,block"`
}
