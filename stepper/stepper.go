// Package stepper drives a graph one half-edge at a time.
//
// The stepper is single-threaded and cooperative: each Step consumes the
// current row set synchronously on the caller's goroutine and produces the
// next one, fanning out at branch points, optionally folding rows at
// merge-marked units, and stashing terminal results. "Concurrent" here
// means logical fan-out across paths, not parallel execution.
//
// A run completes when Step returns an empty row set. Cycles are legal and
// never detected; callers bound cyclic runs with a step limit.
package stepper

import (
	"context"
	"errors"
	"fmt"

	"github.com/strangemother/hyperway/graph"
	"github.com/strangemother/hyperway/internal/ctxlog"
	"github.com/strangemother/hyperway/packer"
	"github.com/strangemother/hyperway/unit"
)

// ErrNotPrepared is returned by Step before any seed row has been supplied.
var ErrNotPrepared = errors.New("stepper: not prepared, call Prepare first")

// Stepper owns a row queue and a stash over a borrowed graph. Multiple
// steppers over the same graph are independent; the graph must not be
// mutated while a stepper holds it.
type Stepper struct {
	g *graph.Graph

	queue    []Row
	stash    *Stash
	expand   ExpandFunc
	prepared bool

	mergeAware bool
	cancelled  bool
}

// Option configures a Stepper at construction.
type Option func(*Stepper)

// MergeAware enables folding of concurrent rows into merge-marked units.
func MergeAware() Option {
	return func(s *Stepper) { s.mergeAware = true }
}

// WithExpand replaces the queue expansion strategy.
func WithExpand(f ExpandFunc) Option {
	return func(s *Stepper) { s.expand = f }
}

// New creates a stepper over g.
func New(g *graph.Graph, opts ...Option) *Stepper {
	s := &Stepper{
		g:      g,
		stash:  NewStash(),
		expand: ExpandAccumulate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare seeds the queue with a single unit row. The start unit does not
// need to appear in the graph; a start with no outgoing edges produces one
// leaf stash entry and terminates.
func (s *Stepper) Prepare(start *unit.Unit, akw *packer.ArgsPack) {
	s.queue = []Row{UnitRow(start, akw)}
	s.prepared = true
}

// PrepareRows seeds the queue with explicit rows.
func (s *Stepper) PrepareRows(rows ...Row) {
	s.queue = append([]Row(nil), rows...)
	s.prepared = true
}

// Queue returns the rows pending for the next step.
func (s *Stepper) Queue() []Row { return s.queue }

// Stash returns the accumulated terminal results.
func (s *Stepper) Stash() *Stash { return s.stash }

// Cancel stops future steps. The pending queue is left intact so state can
// be inspected; no in-flight row is abandoned because cancellation is only
// observed at the top of Step.
func (s *Stepper) Cancel() { s.cancelled = true }

// Cancelled reports whether Cancel was called.
func (s *Stepper) Cancelled() bool { return s.cancelled }

// Step consumes the current queue and produces the next one, returning the
// rows produced. Callers drive a run to exhaustion by looping until the
// returned set is empty.
//
// Resolution per row:
//   - a unit row invokes its unit; each outgoing connection yields a
//     partial row, or, with no outgoing connections, the result is stashed
//     per the unit's leaf policy and no successor is produced;
//   - a partial row applies the connection's wire (the pack passes through
//     untouched when no wire is attached) and yields a unit row for the
//     target.
//
// When merge awareness is on, unit rows targeting the same merge-marked
// unit are folded into one row before resolution, concatenating positionals
// in arrival order and merging keywords last-write-wins. Partial rows are
// never folded; they resolve first and their unit rows fold on the next
// step.
//
// A callable failure or wire contract violation aborts the step: the error
// propagates, the offending row is consumed, and the queue holds the rows
// produced before the failure.
func (s *Stepper) Step(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.cancelled {
		return nil, nil
	}
	if !s.prepared {
		return nil, ErrNotPrepared
	}

	logger := ctxlog.FromContext(ctx)

	input := s.queue
	s.queue = nil
	if len(input) == 0 {
		return nil, nil
	}
	logger.Debug("Step started.", "rows", len(input))

	if s.mergeAware {
		input = s.foldMergeRows(ctx, input)
	}

	batches := make([][]Row, 0, len(input))
	for i, row := range input {
		produced, err := s.resolve(ctx, row)
		if err != nil {
			s.queue = s.expand(batches)
			return nil, fmt.Errorf("stepper: row %d: %w", i, err)
		}
		batches = append(batches, produced)
	}

	s.queue = s.expand(batches)
	logger.Debug("Step finished.", "produced", len(s.queue))
	return s.queue, nil
}

// Run drives Step until the produced row set is empty or maxSteps is
// reached. maxSteps <= 0 means unbounded; an unbounded run over a cyclic
// graph never returns. The stash is returned in every case, including on
// error, so partial results stay inspectable.
func (s *Stepper) Run(ctx context.Context, maxSteps int) (*Stash, error) {
	steps := 0
	for {
		if maxSteps > 0 && steps >= maxSteps {
			return s.stash, nil
		}
		rows, err := s.Step(ctx)
		if err != nil {
			return s.stash, err
		}
		steps++
		if len(rows) == 0 {
			return s.stash, nil
		}
	}
}

// Run prepares a fresh stepper over g and drives it to exhaustion. The
// start value is converted through unit.As, so both units and callables
// seed directly.
func Run(ctx context.Context, g *graph.Graph, start any, akw *packer.ArgsPack, maxSteps int, opts ...Option) (*Stash, error) {
	u, err := unit.As(start)
	if err != nil {
		return nil, fmt.Errorf("stepper: start: %w", err)
	}
	s := New(g, opts...)
	s.Prepare(u, akw)
	return s.Run(ctx, maxSteps)
}

func (s *Stepper) resolve(ctx context.Context, row Row) ([]Row, error) {
	switch row.Kind {
	case KindUnit:
		return s.resolveUnit(ctx, row)
	case KindPartial:
		mid, err := row.Conn.ApplyWire(row.Pack)
		if err != nil {
			return nil, err
		}
		return []Row{UnitRow(row.Conn.B(), mid)}, nil
	case KindLeaf:
		// Terminal: apply the unit's leaf policy, produce no successor.
		s.endBranch(ctx, row.Unit, row.Pack)
		return nil, nil
	}
	return nil, fmt.Errorf("unknown row kind %d", row.Kind)
}

func (s *Stepper) resolveUnit(ctx context.Context, row Row) ([]Row, error) {
	res, err := row.Unit.Invoke(row.Pack)
	if err != nil {
		return nil, err
	}

	out := s.g.Outgoing(row.Unit)
	if len(out) == 0 {
		// No outgoing connections: the invocation result becomes a leaf
		// row, resolved in place.
		return s.resolve(ctx, LeafRow(row.Unit, res))
	}

	rows := make([]Row, 0, len(out))
	for _, conn := range out {
		rows = append(rows, PartialRow(conn, res))
	}
	return rows, nil
}

// foldMergeRows partitions the input by merge-marked target and collapses
// each group into a single row at the group's first position.
func (s *Stepper) foldMergeRows(ctx context.Context, rows []Row) []Row {
	type group struct {
		at    int
		packs []*packer.ArgsPack
	}
	groups := make(map[string]*group)
	out := make([]Row, 0, len(rows))
	folded := false

	for _, row := range rows {
		if row.Kind != KindUnit || !row.Unit.MergeNode() {
			out = append(out, row)
			continue
		}
		id := row.Unit.ID()
		if g, ok := groups[id]; ok {
			g.packs = append(g.packs, row.Pack)
			folded = true
			continue
		}
		groups[id] = &group{at: len(out), packs: []*packer.ArgsPack{row.Pack}}
		out = append(out, row)
	}

	if !folded {
		return rows
	}
	for _, g := range groups {
		if len(g.packs) > 1 {
			out[g.at].Pack = packer.Merge(g.packs...)
		}
	}
	ctxlog.FromContext(ctx).Debug("Merge fold applied.", "in", len(rows), "out", len(out))
	return out
}

func (s *Stepper) endBranch(ctx context.Context, u *unit.Unit, akw *packer.ArgsPack) {
	if !u.StashesLeaf() {
		ctxlog.FromContext(ctx).Debug("Leaf discarded.", "unit", u.Name())
		return
	}
	ctxlog.FromContext(ctx).Debug("Leaf stashed.", "unit", u.Name(), "pack", akw.String())
	s.stash.Put(u, akw)
}
