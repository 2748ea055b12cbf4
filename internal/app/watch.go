package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"go.trai.ch/forge/internal/adapters/watcher"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch runs the targets once and again after every burst of file changes
// below the build file's directory, until ctx is canceled. The build file is
// reloaded when it is among the changed paths. Build failures are reported and
// do not end watching.
func (a *App) Watch(ctx context.Context, targetNames []string, opts RunOptions) error {
	bf, err := a.load(opts.Dir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.watcher.Start(ctx, bf.Root); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrWatcherFailed, err), "root", bf.Root)
	}
	defer func() { _ = a.watcher.Stop() }()

	run := scheduler.NewRun(opts.session())
	a.rebuild(ctx, run, targetNames)

	changes := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
		select {
		case changes <- paths:
		case <-ctx.Done():
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-changes:
				a.cache.Invalidate(paths)
				a.logger.Info(fmt.Sprintf("%d changed files, rebuilding", len(paths)))

				if slices.Contains(paths, filepath.Clean(bf.Path)) {
					reloaded, err := a.load(bf.Root)
					if err != nil {
						a.logger.Error(err)
						continue
					}
					bf = reloaded
				}
				run.ResetTargetExecutionInfo()
				a.rebuild(ctx, run, targetNames)
			}
		}
	})

	err = g.Wait()
	debouncer.Flush()
	return err
}

// rebuild runs one watch iteration. Errors are logged; failures the summary
// already reported are not repeated.
func (a *App) rebuild(ctx context.Context, run *scheduler.Run, targetNames []string) {
	err := a.build(ctx, run, targetNames)
	if err == nil || errors.Is(err, domain.ErrBuildExecutionFailed) || ctx.Err() != nil {
		return
	}
	a.logger.Error(err)
}
