// Package app wires grid loading, graph construction and the stepper into
// one runnable application.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/strangemother/hyperway/dot"
	"github.com/strangemother/hyperway/hclgraph"
	"github.com/strangemother/hyperway/internal/ctxlog"
	"github.com/strangemother/hyperway/packer"
	"github.com/strangemother/hyperway/stepper"
)

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp constructs an App with its own isolated logger.
func NewApp(outW io.Writer, logW io.Writer, cfg *Config) *App {
	return &App{
		outW:   outW,
		logger: cfg.newLogger(logW),
		config: cfg,
	}
}

// Run loads the grid, builds the graph and either renders it or drives it
// to exhaustion, reporting the stash.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started.", "grid", a.config.GridPath)

	def, err := hclgraph.Load(ctx, a.config.GridPath)
	if err != nil {
		return fmt.Errorf("failed to load grid: %w", err)
	}

	g, units, err := hclgraph.Build(ctx, def)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	a.logger.Debug("Graph built.", "units", len(units), "edges", g.Len())

	if a.config.DotOnly {
		return dot.Write(a.outW, g, dot.Options{})
	}

	if def.Run == nil {
		return fmt.Errorf("grid %s declares no run block", a.config.GridPath)
	}

	maxSteps := def.Run.MaxSteps
	if a.config.MaxSteps > 0 {
		maxSteps = a.config.MaxSteps
	}

	var opts []stepper.Option
	if def.Run.MergeAware {
		opts = append(opts, stepper.MergeAware())
	}

	a.logger.Info("Starting run.", "start", def.Run.Start, "maxSteps", maxSteps)
	seed := packer.PackArgs(def.Run.Args, def.Run.Kwargs)
	stash, err := stepper.Run(ctx, g, units[def.Run.Start], seed, maxSteps, opts...)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	a.logger.Info("Run finished.", "terminals", stash.Len(), "results", stash.Size())

	a.report(stash)
	return nil
}

// report prints every stash entry in arrival order.
func (a *App) report(stash *stepper.Stash) {
	for _, entry := range stash.Entries() {
		for _, pack := range entry.Packs {
			fmt.Fprintf(a.outW, "%s: %s\n", entry.Unit.Name(), pack)
		}
	}
}
