package scheduler

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// NoteDependenciesSkipped is recorded on a target whose dependencies were skipped by the session.
const NoteDependenciesSkipped = "dependencies skipped"

// EnsureDependenciesExecuted runs the dependencies of the named target in declaration order.
//
// A synchronous edge first joins any open asynchronous batch, then runs to completion.
// Consecutive asynchronous edges form one batch that is joined before the next
// synchronous edge and at the end. Dependencies already claimed in run are only
// waited for.
func (t *Tree) EnsureDependenciesExecuted(ctx context.Context, run *Run, name string) error {
	session := run.Session()
	if session.SkipDependencies {
		t.logger.Warn(fmt.Sprintf("skipping dependencies of %s", name))
		run.addNote(domain.KeyOf(name), NoteDependenciesSkipped)
		return nil
	}

	target, ok := t.GetTarget(name)
	if !ok {
		return targetNotFound(name)
	}

	deps := target.Dependencies()
	pending := newBatch(session.Parallelism)

	for i, dep := range deps {
		if !run.IsExecuted(dep.Name) {
			if !session.Allows(dep.Name) {
				return errors.Join(pending.Join(), notOnExecutionList(target, dep.Name))
			}
			if session.Restricted() {
				run.countRestricted()
			}
		}

		depTarget, ok := t.GetTarget(dep.Name)
		if !ok {
			err := zerr.With(targetNotFound(dep.Name), "required_by", target.Name())
			return errors.Join(pending.Join(), err)
		}

		if dep.Mode == domain.Synchronous {
			if err := pending.Join(); err != nil {
				return dependencyFailed(target, err)
			}
			if err := t.execute(ctx, run, depTarget); err != nil {
				return dependencyFailed(target, err)
			}
			continue
		}

		pending.Go(func() error {
			return t.execute(ctx, run, depTarget)
		})
		if i+1 < len(deps) && deps[i+1].Mode == domain.Asynchronous {
			continue
		}
		if err := pending.Join(); err != nil {
			return dependencyFailed(target, err)
		}
	}

	if err := pending.Join(); err != nil {
		return dependencyFailed(target, err)
	}
	return nil
}

func notOnExecutionList(target *domain.Target, dep string) error {
	err := zerr.Wrap(domain.ErrTargetNotOnExecutionList, "dependency blocked")
	err = zerr.With(err, "target", target.Name())
	err = zerr.With(err, "dependency", dep)
	return domain.WithCode(err, domain.CodeTargetNotOnExecutionList)
}

func dependencyFailed(target *domain.Target, err error) error {
	return zerr.With(zerr.Wrap(err, "dependency failed"), "target", target.Name())
}
