package hclgraph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strangemother/hyperway/packer"
	"github.com/strangemother/hyperway/stepper"
)

func writeGrid(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const basicGrid = `
unit "start" {
  op = "add_10"
}

unit "end" {
  op    = "add_20"
  merge = true
}

edge {
  from = "start"
  to   = "end"
  wire = "mul_2"
  name = "main"
}

run {
  start       = "start"
  args        = [10]
  kwargs      = { tag = "demo" }
  max_steps   = 50
  merge_aware = true
}
`

func TestLoad(t *testing.T) {
	path := writeGrid(t, "grid.hcl", basicGrid)

	def, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, def.Units, 2)
	assert.Equal(t, "start", def.Units[0].Name)
	assert.Equal(t, "add_10", def.Units[0].Op)
	assert.False(t, def.Units[0].Merge)
	assert.True(t, def.Units[1].Merge)
	assert.False(t, def.Units[0].HasSentinel)

	require.Len(t, def.Edges, 1)
	assert.Equal(t, "mul_2", def.Edges[0].Wire)
	assert.Equal(t, "main", def.Edges[0].Name)

	require.NotNil(t, def.Run)
	assert.Equal(t, "start", def.Run.Start)
	assert.Equal(t, []any{10.0}, def.Run.Args)
	assert.Equal(t, map[string]any{"tag": "demo"}, def.Run.Kwargs)
	assert.Equal(t, 50, def.Run.MaxSteps)
	assert.True(t, def.Run.MergeAware)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "units.hcl"), []byte(`
unit "a" { op = "add_1" }
unit "b" { op = "add_2" }
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edges.hcl"), []byte(`
edge {
  from = "a"
  to   = "b"
}
`), 0o644))

	def, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, def.Units, 2)
	assert.Len(t, def.Edges, 1)
	assert.Nil(t, def.Run)
}

func TestLoadSentinel(t *testing.T) {
	path := writeGrid(t, "grid.hcl", `
unit "a" {
  op       = "add_1"
  sentinel = null
}
`)
	def, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, def.Units, 1)
	assert.True(t, def.Units[0].HasSentinel)
	assert.Nil(t, def.Units[0].Sentinel)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
		assert.Error(t, err)
	})

	t.Run("duplicate unit", func(t *testing.T) {
		path := writeGrid(t, "grid.hcl", `
unit "a" { op = "add_1" }
unit "a" { op = "add_2" }
`)
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, `duplicate unit "a"`)
	})

	t.Run("unknown edge endpoint", func(t *testing.T) {
		path := writeGrid(t, "grid.hcl", `
unit "a" { op = "add_1" }
edge {
  from = "a"
  to   = "ghost"
}
`)
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, `unknown unit "ghost"`)
	})

	t.Run("unknown run start", func(t *testing.T) {
		path := writeGrid(t, "grid.hcl", `
unit "a" { op = "add_1" }
run { start = "ghost" }
`)
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, `unknown unit "ghost"`)
	})

	t.Run("multiple run blocks", func(t *testing.T) {
		path := writeGrid(t, "grid.hcl", `
unit "a" { op = "add_1" }
run { start = "a" }
run { start = "a" }
`)
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, "multiple run blocks")
	})

	t.Run("malformed hcl", func(t *testing.T) {
		path := writeGrid(t, "grid.hcl", `unit "a" {`)
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to parse")
	})
}

func TestBuild(t *testing.T) {
	path := writeGrid(t, "grid.hcl", basicGrid)
	def, err := Load(context.Background(), path)
	require.NoError(t, err)

	g, units, err := Build(context.Background(), def)
	require.NoError(t, err)
	require.Contains(t, units, "start")
	require.Contains(t, units, "end")

	out := g.Outgoing(units["start"])
	require.Len(t, out, 1)
	assert.True(t, out[0].HasWire())
	assert.Equal(t, "mul_2", out[0].WireName())
	assert.True(t, units["end"].MergeNode())
}

func TestBuildErrors(t *testing.T) {
	t.Run("unknown unit op", func(t *testing.T) {
		def := &Definition{Units: []*UnitDef{{Name: "a", Op: "frob_1"}}}
		_, _, err := Build(context.Background(), def)
		assert.ErrorContains(t, err, "unknown operator")
	})

	t.Run("unknown wire op", func(t *testing.T) {
		def := &Definition{
			Units: []*UnitDef{{Name: "a", Op: "add_1"}, {Name: "b", Op: "add_2"}},
			Edges: []*EdgeDef{{From: "a", To: "b", Wire: "frob_1"}},
		}
		_, _, err := Build(context.Background(), def)
		assert.ErrorContains(t, err, "wire")
	})
}

func TestLoadBuildRun(t *testing.T) {
	// End to end: (10+10) then wire *2 then +20 = 60.
	path := writeGrid(t, "grid.hcl", basicGrid)
	def, err := Load(context.Background(), path)
	require.NoError(t, err)

	g, units, err := Build(context.Background(), def)
	require.NoError(t, err)

	var opts []stepper.Option
	if def.Run.MergeAware {
		opts = append(opts, stepper.MergeAware())
	}
	seed := packer.PackArgs(def.Run.Args, def.Run.Kwargs)
	st, err := stepper.Run(context.Background(), g, units[def.Run.Start], seed, def.Run.MaxSteps, opts...)
	require.NoError(t, err)

	packs := st.Packs(units["end"])
	require.Len(t, packs, 1)
	assert.Equal(t, []any{60.0}, packs[0].Args())
}
