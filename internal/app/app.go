// Package app implements the application layer for forge.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/forge/internal/adapters/watcher"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/directive"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App wires the build file, the target tree and the renderer into the CLI operations.
type App struct {
	loader   ports.ConfigLoader
	tree     *scheduler.Tree
	renderer ports.Renderer
	logger   ports.Logger
	analyzer *directive.Analyzer
	hasher   ports.Hasher
	watcher  ports.Watcher
	cache    *AnalysisCache
	store    ports.AnalysisStore

	stdout   io.Writer
	debounce time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	tree *scheduler.Tree,
	renderer ports.Renderer,
	log ports.Logger,
	analyzer *directive.Analyzer,
	hasher ports.Hasher,
	w ports.Watcher,
) *App {
	return &App{
		loader:   loader,
		tree:     tree,
		renderer: renderer,
		logger:   log,
		analyzer: analyzer,
		hasher:   hasher,
		watcher:  w,
		cache:    NewAnalysisCache(),
		stdout:   os.Stdout,
		debounce: watcher.DefaultDebounceWindow,
	}
}

// WithStdout redirects listings and analysis output.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithAnalysisStore persists analyses in store so later invocations can reuse them.
func (a *App) WithAnalysisStore(store ports.AnalysisStore) *App {
	a.store = store
	return a
}

// WithDebounce sets how long watch mode waits for changes to settle.
func (a *App) WithDebounce(d time.Duration) *App {
	a.debounce = d
	return a
}

// RunOptions configures Run and Watch.
type RunOptions struct {
	// Dir is where the build file search starts. Empty means the working directory.
	Dir              string
	SkipDependencies bool
	Only             []string
	DryRun           bool
	Parallelism      int
}

func (o RunOptions) session() domain.Session {
	return domain.Session{
		SkipDependencies: o.SkipDependencies,
		TargetsToExecute: o.Only,
		DryRun:           o.DryRun,
		Parallelism:      o.Parallelism,
	}
}

// Run loads the build file and executes the named targets, or the defaults when
// none are named. Failures after execution started are reported by the summary
// and returned wrapped in domain.ErrBuildExecutionFailed.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	if _, err := a.load(opts.Dir); err != nil {
		return err
	}
	run := scheduler.NewRun(opts.session())
	return a.build(ctx, run, targetNames)
}

// build runs the targets on the loaded tree while the renderer is live, then
// renders the summary.
func (a *App) build(ctx context.Context, run *scheduler.Run, targetNames []string) error {
	if err := a.renderer.Start(ctx); err != nil {
		return zerr.Wrap(err, "start renderer")
	}

	var runErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.renderer.Wait)
	g.Go(func() error {
		defer func() { _ = a.renderer.Stop() }()
		runErr = a.tree.RunTargets(gctx, run, targetNames)
		return nil
	})
	renderErr := g.Wait()
	err := runErr
	if renderErr != nil {
		err = errors.Join(renderErr, runErr)
	}

	summary := a.tree.Summarize(run, err)
	if err != nil && len(summary.Targets) == 0 {
		return err
	}

	// Task failures were already shown by the renderer; anything else is logged here.
	if err != nil && !errors.Is(err, domain.ErrTargetExecutionFailed) {
		a.logger.Error(err)
	}
	a.renderer.OnSummary(summary)
	if flushErr := a.renderer.Flush(); flushErr != nil {
		a.logger.Warn(fmt.Sprintf("flush output: %v", flushErr))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// ListTargets loads the build file and prints the visible targets.
func (a *App) ListTargets(_ context.Context, dir string) error {
	if _, err := a.load(dir); err != nil {
		return err
	}
	return a.tree.WriteHelp(a.stdout)
}

// load reads the build file found from dir and replaces the tree's targets with its targets.
func (a *App) load(dir string) (*domain.Buildfile, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "resolve directory"), "dir", dir)
	}

	bf, err := a.loader.Load(abs)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load build file")
	}

	a.tree.Clear()
	for _, target := range bf.Targets {
		if err := a.tree.Register(target); err != nil {
			return nil, zerr.With(err, "file", bf.Path)
		}
	}
	for _, name := range bf.Defaults {
		if target, ok := a.tree.GetTarget(name); ok {
			a.tree.SetDefaultTarget(target)
		}
	}

	a.logger.Info(fmt.Sprintf("loaded %d targets from %s", len(bf.Targets), filepath.Base(bf.Path)))
	return bf, nil
}
