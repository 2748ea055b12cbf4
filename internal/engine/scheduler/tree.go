// Package scheduler implements the target registry and the dependency-driven
// execution engine.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Names of the targets every tree starts with.
const (
	HelpTargetName  = "help"
	TasksTargetName = "tasks"
)

// Tree is the registry of targets. It is safe for concurrent use, so several
// independent runs may share one tree.
type Tree struct {
	logger   ports.Logger
	tracer   ports.Tracer
	executor ports.Executor

	mu       sync.RWMutex
	targets  map[domain.TargetKey]*domain.Target
	builtins map[domain.TargetKey]bool
	defaults []string
	kinds    []domain.TaskKind
}

// NewTree creates a tree holding the built-in help and tasks targets.
func NewTree(logger ports.Logger, tracer ports.Tracer, executor ports.Executor) *Tree {
	t := &Tree{
		logger:   logger,
		tracer:   tracer,
		executor: executor,
		targets:  make(map[domain.TargetKey]*domain.Target),
		builtins: make(map[domain.TargetKey]bool),
		kinds:    domain.BuiltinTaskKinds(),
	}
	t.registerBuiltins()
	return t
}

func (t *Tree) registerBuiltins() {
	help := domain.NewTarget(HelpTargetName).
		SetDescription("Lists all targets with their descriptions").
		Do(func(_ context.Context, tc *domain.TaskContext) error {
			return t.WriteHelp(tc.Stdout)
		})
	tasks := domain.NewTarget(TasksTargetName).
		SetDescription("Lists all available task kinds").
		Do(func(_ context.Context, tc *domain.TaskContext) error {
			return t.WriteTaskKinds(tc.Stdout)
		})

	for _, b := range []*domain.Target{help, tasks} {
		t.targets[b.Key()] = b
		t.builtins[b.Key()] = true
	}
}

// AddTarget creates and registers a target with the given name.
func (t *Tree) AddTarget(name string) (*domain.Target, error) {
	target := domain.NewTarget(name)
	if err := t.Register(target); err != nil {
		return nil, err
	}
	return target, nil
}

// Register adds an already configured target.
// Names are compared case-insensitively.
func (t *Tree) Register(target *domain.Target) error {
	if strings.TrimSpace(target.Name()) == "" {
		return zerr.Wrap(domain.ErrInvalidTargetName, "target name is empty")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.targets[target.Key()]; ok {
		err := zerr.Wrap(domain.ErrTargetAlreadyExists, "register target")
		err = zerr.With(err, "target", target.Name())
		return zerr.With(err, "existing", existing.Name())
	}
	t.targets[target.Key()] = target
	return nil
}

// GetTarget looks a target up by name.
func (t *Tree) GetTarget(name string) (*domain.Target, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	target, ok := t.targets[domain.KeyOf(name)]
	return target, ok
}

// HasTarget reports whether a target with the given name is registered.
func (t *Tree) HasTarget(name string) bool {
	_, ok := t.GetTarget(name)
	return ok
}

// HasAllTargets reports whether every name is registered and returns the missing ones in input order.
func (t *Tree) HasAllTargets(names []string) (bool, []string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var missing []string
	for _, n := range names {
		if _, ok := t.targets[domain.KeyOf(n)]; !ok {
			missing = append(missing, n)
		}
	}
	return len(missing) == 0, missing
}

// Targets returns all registered targets sorted by key.
func (t *Tree) Targets() []*domain.Target {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*domain.Target, 0, len(t.targets))
	for _, target := range t.targets {
		out = append(out, target)
	}
	slices.SortFunc(out, func(a, b *domain.Target) int {
		return strings.Compare(a.Key().String(), b.Key().String())
	})
	return out
}

// Clear removes every user target and default, keeping the built-ins.
// Watch mode uses it before reloading a changed build file.
func (t *Tree) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key := range t.targets {
		if !t.builtins[key] {
			delete(t.targets, key)
		}
	}
	t.defaults = nil
}

// SetDefaultTarget appends target to the ordered list of defaults.
// A target that is already a default keeps its position.
func (t *Tree) SetDefaultTarget(target *domain.Target) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if slices.ContainsFunc(t.defaults, func(n string) bool { return domain.KeyOf(n) == target.Key() }) {
		return
	}
	t.defaults = append(t.defaults, target.Name())
}

// DefaultTargets returns the names of the default targets in order.
func (t *Tree) DefaultTargets() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.defaults)
}

// RegisterTaskKind adds a task kind to the "tasks" listing. Re-registering a name replaces it.
func (t *Tree) RegisterTaskKind(kind domain.TaskKind) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, k := range t.kinds {
		if k.Name == kind.Name {
			t.kinds[i] = kind
			return
		}
	}
	t.kinds = append(t.kinds, kind)
}

// TaskKinds returns the registered task kinds sorted by name.
func (t *Tree) TaskKinds() []domain.TaskKind {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := slices.Clone(t.kinds)
	slices.SortFunc(out, func(a, b domain.TaskKind) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// EnumerateExecutedTargets yields the targets executed in run, in the order they were claimed.
// Names not registered in this tree are skipped.
func (t *Tree) EnumerateExecutedTargets(run *Run) iter.Seq[*domain.Target] {
	return func(yield func(*domain.Target) bool) {
		for _, key := range run.executedKeys() {
			t.mu.RLock()
			target, ok := t.targets[key]
			t.mu.RUnlock()
			if !ok {
				continue
			}
			if !yield(target) {
				return
			}
		}
	}
}

// WriteHelp writes the visible targets with their descriptions.
func (t *Tree) WriteHelp(w io.Writer) error {
	targets := slices.DeleteFunc(t.Targets(), (*domain.Target).Hidden)
	defaults := t.DefaultTargets()

	width := 0
	for _, target := range targets {
		width = max(width, len(target.Name()))
	}

	if _, err := fmt.Fprintln(w, "Targets:"); err != nil {
		return err
	}
	for _, target := range targets {
		line := fmt.Sprintf("  %-*s  %s", width, target.Name(), target.Description())
		if slices.ContainsFunc(defaults, func(n string) bool { return domain.KeyOf(n) == target.Key() }) {
			line += " (default)"
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteTaskKinds writes the registered task kinds with their descriptions.
func (t *Tree) WriteTaskKinds(w io.Writer) error {
	kinds := t.TaskKinds()

	width := 0
	for _, k := range kinds {
		width = max(width, len(k.Name))
	}

	if _, err := fmt.Fprintln(w, "Tasks:"); err != nil {
		return err
	}
	for _, k := range kinds {
		if _, err := fmt.Fprintf(w, "  %-*s  %s\n", width, k.Name, k.Description); err != nil {
			return err
		}
	}
	return nil
}

func targetNotFound(name string) error {
	err := zerr.Wrap(domain.ErrTargetNotFound, "lookup target")
	err = zerr.With(err, "target", name)
	return domain.WithCode(err, domain.CodeTargetNotFound)
}
