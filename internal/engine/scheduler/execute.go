package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// RunTargets runs the named targets in order. With no names the default
// targets run. The reachable graph is checked for cycles before anything executes.
func (t *Tree) RunTargets(ctx context.Context, run *Run, names []string) error {
	if len(names) == 0 {
		names = t.DefaultTargets()
	}
	if len(names) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	if ok, missing := t.HasAllTargets(names); !ok {
		err := zerr.Wrap(domain.ErrTargetNotFound, "unknown targets requested")
		err = zerr.With(err, "targets", missing)
		return domain.WithCode(err, domain.CodeTargetNotFound)
	}

	if err := t.checkAcyclic(names); err != nil {
		return err
	}

	for _, name := range names {
		target, _ := t.GetTarget(name)
		if err := t.execute(ctx, run, target); err != nil {
			return err
		}
	}
	return nil
}

// RunTarget executes the named target and its dependencies and waits for completion.
func (t *Tree) RunTarget(ctx context.Context, run *Run, name string) error {
	target, ok := t.GetTarget(name)
	if !ok {
		return targetNotFound(name)
	}
	if err := t.checkAcyclic([]string{name}); err != nil {
		return err
	}
	return t.execute(ctx, run, target)
}

// RunTargetAsync starts the named target and returns a channel that receives exactly one result.
func (t *Tree) RunTargetAsync(ctx context.Context, run *Run, name string) <-chan error {
	result := make(chan error, 1)

	target, ok := t.GetTarget(name)
	if !ok {
		result <- targetNotFound(name)
		close(result)
		return result
	}
	if err := t.checkAcyclic([]string{name}); err != nil {
		result <- err
		close(result)
		return result
	}

	go func() {
		defer close(result)
		result <- t.execute(ctx, run, target)
	}()
	return result
}

func (t *Tree) checkAcyclic(roots []string) error {
	return domain.DetectCycle(roots, func(name string) ([]domain.Dependency, bool) {
		target, ok := t.GetTarget(name)
		if !ok {
			return nil, false
		}
		return target.Dependencies(), true
	})
}

// execute runs target once per run. Later callers wait for the first one to finish.
func (t *Tree) execute(ctx context.Context, run *Run, target *domain.Target) error {
	exec, owner := run.claim(target.Key())
	if !owner {
		select {
		case <-exec.done:
			return exec.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	err := t.executeOwned(ctx, run, target)
	exec.finish(err)
	return err
}

func (t *Tree) executeOwned(ctx context.Context, run *Run, target *domain.Target) error {
	if err := t.EnsureDependenciesExecuted(ctx, run, target.Name()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := t.tracer.Start(ctx, target.Name(), ports.WithKind("target"))
	start := time.Now()

	err := t.runTasks(ctx, run, target, span)

	elapsed := time.Since(start)
	target.AddElapsed(elapsed)
	run.recordDuration(target.Key(), elapsed)

	if err != nil {
		err = zerr.With(fmt.Errorf("%w: %w", domain.ErrTargetExecutionFailed, err), "target", target.Name())
		span.RecordError(err)
	}
	span.End()
	return err
}

// runTasks runs the task entries with the same batching rule as dependency edges.
func (t *Tree) runTasks(ctx context.Context, run *Run, target *domain.Target, span ports.Span) error {
	entries := target.Tasks()
	session := run.Session()
	span.SetAttribute("forge.tasks", len(entries))

	if session.DryRun {
		for _, e := range entries {
			run.addNote(target.Key(), fmt.Sprintf("%s task skipped (dry run)", e.Task.Kind()))
		}
		span.SetAttribute("forge.dry_run", true)
		return nil
	}

	tc := &domain.TaskContext{
		Target: target,
		Stdout: span,
		Stderr: span,
		Exec:   t.executor.Execute,
	}

	pending := newBatch(session.Parallelism)
	for i, e := range entries {
		if e.Mode == domain.Synchronous {
			if err := pending.Join(); err != nil {
				return err
			}
			if err := e.Task.Execute(ctx, tc); err != nil {
				return err
			}
			continue
		}

		pending.Go(func() error {
			return e.Task.Execute(ctx, tc)
		})
		if i+1 < len(entries) && entries[i+1].Mode == domain.Asynchronous {
			continue
		}
		if err := pending.Join(); err != nil {
			return err
		}
	}
	return pending.Join()
}

// Summarize builds the summary of run, listing executed targets in claim order.
func (t *Tree) Summarize(run *Run, err error) domain.Summary {
	summary := domain.Summary{
		DryRun: run.Session().DryRun,
		Err:    err,
	}
	for target := range t.EnumerateExecutedTargets(run) {
		summary.Targets = append(summary.Targets, domain.TargetResult{
			Name:     target.Name(),
			Duration: run.Duration(target.Name()),
			Notes:    run.Notes(target.Name()),
		})
	}
	if n := run.RestrictedDependencyCount(); n > 0 {
		summary.Extras = append(summary.Extras, fmt.Sprintf("%d dependencies allowed by the execution list", n))
	}
	summary.Extras = append(summary.Extras, run.SummaryExtras()...)
	return summary
}
