// Package domain contains the core domain models of the build engine: targets,
// their dependency edges and tasks, and the result of script analysis.
package domain

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/zerr"
)

// ExecutionMode tells the scheduler whether an edge or task must complete before
// the next one starts.
type ExecutionMode int

const (
	// Synchronous runs the item to completion before moving on.
	Synchronous ExecutionMode = iota
	// Asynchronous lets the item run concurrently with adjacent asynchronous items.
	Asynchronous
)

// String returns "sync" or "async".
func (m ExecutionMode) String() string {
	if m == Asynchronous {
		return "async"
	}
	return "sync"
}

// ParseExecutionMode parses "sync" or "async" (case-insensitive). An empty string is Synchronous.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sync", "synchronous":
		return Synchronous, nil
	case "async", "asynchronous":
		return Asynchronous, nil
	default:
		return Synchronous, zerr.With(zerr.Wrap(ErrInvalidExecutionMode, "parse execution mode"), "mode", s)
	}
}

// Dependency is a weak, name-based edge from one target to another.
type Dependency struct {
	Name string
	Mode ExecutionMode
}

// TaskEntry is one step of a target's action body.
type TaskEntry struct {
	Task Task
	Mode ExecutionMode
}

// Target is a named unit of work with ordered dependencies and an ordered task list.
// Configuration methods return the target so calls can be chained.
type Target struct {
	name string
	key  TargetKey

	mu          sync.RWMutex
	description string
	hidden      bool
	deps        []Dependency
	tasks       []TaskEntry

	elapsed atomic.Int64
}

// NewTarget creates a target with the given name.
func NewTarget(name string) *Target {
	return &Target{
		name: name,
		key:  KeyOf(name),
	}
}

// Name returns the name as registered.
func (t *Target) Name() string {
	return t.name
}

// Key returns the case-folded lookup key.
func (t *Target) Key() TargetKey {
	return t.key
}

// Description returns the human readable description.
func (t *Target) Description() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.description
}

// SetDescription sets the description shown by the help target.
func (t *Target) SetDescription(description string) *Target {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.description = description
	return t
}

// Hidden reports whether the target is omitted from help listings.
func (t *Target) Hidden() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hidden
}

// SetHidden hides or shows the target in help listings.
func (t *Target) SetHidden(hidden bool) *Target {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hidden = hidden
	return t
}

// DependsOn appends synchronous dependency edges in the given order.
func (t *Target) DependsOn(names ...string) *Target {
	return t.addDependencies(Synchronous, names)
}

// DependsOnAsync appends asynchronous dependency edges in the given order.
func (t *Target) DependsOnAsync(names ...string) *Target {
	return t.addDependencies(Asynchronous, names)
}

// AddDependency appends a single edge with an explicit mode.
func (t *Target) AddDependency(name string, mode ExecutionMode) *Target {
	return t.addDependencies(mode, []string{name})
}

func (t *Target) addDependencies(mode ExecutionMode, names []string) *Target {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range names {
		t.deps = append(t.deps, Dependency{Name: n, Mode: mode})
	}
	return t
}

// Dependencies returns a copy of the dependency edges in declaration order.
func (t *Target) Dependencies() []Dependency {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Dependency, len(t.deps))
	copy(out, t.deps)
	return out
}

// AddTask appends a task that runs to completion before the next entry.
func (t *Target) AddTask(task Task) *Target {
	return t.addTask(task, Synchronous)
}

// AddTaskAsync appends a task that may overlap adjacent asynchronous tasks.
func (t *Target) AddTaskAsync(task Task) *Target {
	return t.addTask(task, Asynchronous)
}

// Do appends a synchronous action task wrapping fn.
func (t *Target) Do(fn ActionFunc) *Target {
	return t.addTask(&ActionTask{Fn: fn}, Synchronous)
}

func (t *Target) addTask(task Task, mode ExecutionMode) *Target {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks = append(t.tasks, TaskEntry{Task: task, Mode: mode})
	return t
}

// Tasks returns a copy of the task list in declaration order.
func (t *Target) Tasks() []TaskEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TaskEntry, len(t.tasks))
	copy(out, t.tasks)
	return out
}

// Elapsed returns the total time spent executing this target across all runs.
func (t *Target) Elapsed() time.Duration {
	return time.Duration(t.elapsed.Load())
}

// AddElapsed adds d to the cumulative elapsed time.
func (t *Target) AddElapsed(d time.Duration) {
	t.elapsed.Add(int64(d))
}
