package domain

import "go.trai.ch/zerr"

// ErrorCode is a stable, machine-readable identifier attached to selected errors.
type ErrorCode string

// CodeKey is the zerr metadata key under which an ErrorCode is stored.
const CodeKey = "code"

const (
	// CodeTargetNotOnExecutionList marks a dependency that was blocked by the session allow-list.
	CodeTargetNotOnExecutionList ErrorCode = "TARGET_NOT_ON_EXECUTION_LIST"
	// CodeTargetNotFound marks a lookup of an unregistered target.
	CodeTargetNotFound ErrorCode = "TARGET_NOT_FOUND"
	// CodeCycleDetected marks a dependency cycle found before execution.
	CodeCycleDetected ErrorCode = "CYCLE_DETECTED"
	// CodeCommandFailed marks an external command that exited non-zero or could not start.
	CodeCommandFailed ErrorCode = "COMMAND_FAILED"
)

var (
	// ErrTargetAlreadyExists is returned when a target name (case-insensitively) is already registered.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrTargetNotFound is returned when a requested target is not registered.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrTargetNotOnExecutionList is returned when a dependency is not on the session allow-list.
	ErrTargetNotOnExecutionList = zerr.New("target is not on the execution list")

	// ErrCycleDetected is returned when the dependency graph reachable from the requested targets has a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrNoTargetsSpecified is returned when no targets are requested and no default target is set.
	ErrNoTargetsSpecified = zerr.New("no targets specified and no default target set")

	// ErrInvalidTargetName is returned when a target name is empty or contains invalid characters.
	ErrInvalidTargetName = zerr.New("invalid target name")

	// ErrInvalidExecutionMode is returned when an execution mode string cannot be parsed.
	ErrInvalidExecutionMode = zerr.New("invalid execution mode, expected 'sync' or 'async'")

	// ErrTargetExecutionFailed is returned when a task of a target fails.
	ErrTargetExecutionFailed = zerr.New("target execution failed")

	// ErrBuildExecutionFailed is returned when the build as a whole fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrEmptyCommand is returned when an exec task has no arguments.
	ErrEmptyCommand = zerr.New("command is empty")

	// ErrCommandFailed is returned when an external command exits with an error.
	ErrCommandFailed = zerr.New("command failed")

	// ErrConfigReadFailed is returned when the build file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read build file")

	// ErrConfigParseFailed is returned when the build file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse build file")

	// ErrConfigNotFound is returned when no build file is found walking up from the working directory.
	ErrConfigNotFound = zerr.New("could not find forge.yaml or forge.hcl")

	// ErrScriptReadFailed is returned when a build script cannot be read.
	ErrScriptReadFailed = zerr.New("failed to read build script")

	// ErrDirectiveFailed is returned when a directive line cannot be processed.
	ErrDirectiveFailed = zerr.New("failed to process directive")

	// ErrTypeResolutionFailed is returned when a //#ref identifier does not resolve to a type.
	ErrTypeResolutionFailed = zerr.New("failed to resolve type reference")

	// ErrInvalidTypeIdentifier is returned when a //#ref identifier is malformed.
	ErrInvalidTypeIdentifier = zerr.New("invalid type identifier, expected 'importpath.Type[, module[@version]]'")

	// ErrInvalidModuleDirective is returned when a //#mod directive names an invalid module or version.
	ErrInvalidModuleDirective = zerr.New("invalid module requirement")

	// ErrUnsupportedFormat is returned when an analysis output format is unknown.
	ErrUnsupportedFormat = zerr.New("unsupported output format, expected 'yaml' or 'json'")

	// ErrStoreReadFailed is returned when a persisted analysis cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read analysis store")

	// ErrStoreWriteFailed is returned when an analysis cannot be persisted.
	ErrStoreWriteFailed = zerr.New("failed to write analysis store")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrInterrupted is returned when the user closes the interactive view during a build.
	ErrInterrupted = zerr.New("build interrupted by user")
)

// WithCode attaches a stable error code to err.
func WithCode(err error, code ErrorCode) error {
	return zerr.With(err, CodeKey, code)
}

// CodeOf returns the first error code found in err's tree, depth first, or "" if none is set.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if z, ok := err.(*zerr.Error); ok {
		if code, ok := z.Metadata()[CodeKey].(ErrorCode); ok {
			return code
		}
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return CodeOf(u.Unwrap())
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if code := CodeOf(e); code != "" {
				return code
			}
		}
	}
	return ""
}
