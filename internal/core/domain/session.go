package domain

import (
	"slices"
	"strings"
	"time"
)

// Session holds the options of one build invocation.
type Session struct {
	// SkipDependencies runs the requested targets without their dependencies.
	SkipDependencies bool
	// TargetsToExecute is the allow-list of dependencies that may run. Empty means unrestricted.
	TargetsToExecute []string
	// DryRun walks the graph without executing tasks.
	DryRun bool
	// Parallelism bounds how many members of one asynchronous batch run at once. 0 is unbounded.
	Parallelism int
}

// Restricted reports whether an allow-list is in effect.
func (s Session) Restricted() bool {
	return len(s.TargetsToExecute) > 0
}

// Allows reports whether name is on the allow-list, comparing case-insensitively.
// An empty allow-list allows everything.
func (s Session) Allows(name string) bool {
	if !s.Restricted() {
		return true
	}
	return slices.ContainsFunc(s.TargetsToExecute, func(n string) bool {
		return strings.EqualFold(n, name)
	})
}

// TargetResult is the per-target line of a build summary.
type TargetResult struct {
	Name     string
	Duration time.Duration
	Notes    []string
}

// Summary describes a finished run.
type Summary struct {
	Targets []TargetResult
	Extras  []string
	DryRun  bool
	Err     error
}

// Succeeded reports whether the run finished without error.
func (s Summary) Succeeded() bool {
	return s.Err == nil
}
