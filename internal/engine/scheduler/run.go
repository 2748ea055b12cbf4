package scheduler

import (
	"slices"
	"sync"
	"time"

	"go.trai.ch/forge/internal/core/domain"
)

// Run is the execution state of one build invocation. It records which
// targets have been claimed, so each target executes at most once per run.
type Run struct {
	session domain.Session

	mu         sync.Mutex
	executions map[domain.TargetKey]*execution
	order      []domain.TargetKey
	restricted int
	extras     []string
	notes      map[domain.TargetKey][]string
	durations  map[domain.TargetKey]time.Duration
}

// execution is a claim on a target. done is closed once err is final.
type execution struct {
	done chan struct{}
	err  error
}

func (e *execution) finish(err error) {
	e.err = err
	close(e.done)
}

// NewRun creates run state for the given session.
func NewRun(session domain.Session) *Run {
	r := &Run{session: session}
	r.reset()
	return r
}

// Session returns the options the run was created with.
func (r *Run) Session() domain.Session {
	return r.session
}

func (r *Run) reset() {
	r.executions = make(map[domain.TargetKey]*execution)
	r.order = nil
	r.restricted = 0
	r.extras = nil
	r.notes = make(map[domain.TargetKey][]string)
	r.durations = make(map[domain.TargetKey]time.Duration)
}

// ResetTargetExecutionInfo forgets all executed targets, counters and notes,
// so the same targets can run again. It must not be called while a run is in flight.
func (r *Run) ResetTargetExecutionInfo() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

// MarkTargetAsExecuted records name as executed without running it. Marking twice is a no-op.
func (r *Run) MarkTargetAsExecuted(name string) {
	key := domain.KeyOf(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.executions[key]; ok {
		return
	}
	e := &execution{done: make(chan struct{})}
	close(e.done)
	r.executions[key] = e
	r.order = append(r.order, key)
}

// IsExecuted reports whether name has been claimed in this run, including targets still running.
func (r *Run) IsExecuted(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.executions[domain.KeyOf(name)]
	return ok
}

// claim returns the execution for key. owner is true if the caller created
// the claim and must run the target and finish it.
func (r *Run) claim(key domain.TargetKey) (e *execution, owner bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.executions[key]; ok {
		return existing, false
	}
	e = &execution{done: make(chan struct{})}
	r.executions[key] = e
	r.order = append(r.order, key)
	return e, true
}

func (r *Run) executedKeys() []domain.TargetKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

func (r *Run) countRestricted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restricted++
}

// RestrictedDependencyCount returns how many dependencies were allowed through the execution list.
func (r *Run) RestrictedDependencyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.restricted
}

// AddSummaryExtra appends a free-form line to the build summary.
func (r *Run) AddSummaryExtra(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extras = append(r.extras, line)
}

// SummaryExtras returns the extra summary lines in insertion order.
func (r *Run) SummaryExtras() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.extras)
}

func (r *Run) addNote(key domain.TargetKey, note string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[key] = append(r.notes[key], note)
}

// Notes returns the annotations recorded for name, such as skipped work.
func (r *Run) Notes(name string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.notes[domain.KeyOf(name)])
}

func (r *Run) recordDuration(key domain.TargetKey, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[key] += d
}

// Duration returns the time spent in name's own tasks during this run.
func (r *Run) Duration(name string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.durations[domain.KeyOf(name)]
}
