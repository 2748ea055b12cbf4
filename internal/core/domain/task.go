package domain

import (
	"context"
	"io"
	"strings"
)

// Task kinds known to the engine.
const (
	KindAction = "action"
	KindExec   = "exec"
)

// Task is a single step of a target's body.
type Task interface {
	// Kind names the task type, e.g. "exec".
	Kind() string
	// Execute performs the work.
	Execute(ctx context.Context, tc *TaskContext) error
}

// TaskKind describes a task type for the "tasks" listing.
type TaskKind struct {
	Name        string
	Description string
}

// BuiltinTaskKinds returns the task kinds every registry starts with.
func BuiltinTaskKinds() []TaskKind {
	return []TaskKind{
		{Name: KindAction, Description: "Runs a Go function registered by the build script"},
		{Name: KindExec, Description: "Runs an external command"},
	}
}

// CommandRunner runs an external command, streaming its output.
type CommandRunner func(ctx context.Context, cmd *Command, stdout, stderr io.Writer) error

// TaskContext carries everything a task may need while it runs.
type TaskContext struct {
	Target *Target
	Stdout io.Writer
	Stderr io.Writer
	Exec   CommandRunner
}

// Command describes an external process invocation.
type Command struct {
	Args []string
	Dir  string
	Env  map[string]string
}

// String renders the command line for logs.
func (c *Command) String() string {
	return strings.Join(c.Args, " ")
}

// ActionFunc is the body of an ActionTask.
type ActionFunc func(ctx context.Context, tc *TaskContext) error

// ActionTask wraps a Go function.
type ActionTask struct {
	Fn ActionFunc
}

// Kind returns KindAction.
func (a *ActionTask) Kind() string { return KindAction }

// Execute calls the wrapped function. A nil function does nothing.
func (a *ActionTask) Execute(ctx context.Context, tc *TaskContext) error {
	if a.Fn == nil {
		return nil
	}
	return a.Fn(ctx, tc)
}

// CommandTask runs an external command through the task context's runner.
type CommandTask struct {
	Command Command
}

// Kind returns KindExec.
func (c *CommandTask) Kind() string { return KindExec }

// Execute runs the command.
func (c *CommandTask) Execute(ctx context.Context, tc *TaskContext) error {
	if len(c.Command.Args) == 0 {
		return ErrEmptyCommand
	}
	return tc.Exec(ctx, &c.Command, tc.Stdout, tc.Stderr)
}
