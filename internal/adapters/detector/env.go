// Package detector decides whether forge talks to an interactive terminal.
package detector

import (
	"os"

	"golang.org/x/term"
)

// Mode is the terminal mode commands and output run in.
type Mode int

const (
	// ModeAuto leaves the decision to Detect.
	ModeAuto Mode = iota
	// ModeInteractive runs commands in a pseudo terminal and shows the interactive view.
	ModeInteractive
	// ModePlain runs commands with pipes.
	ModePlain
)

// String returns the flag spelling of m.
func (m Mode) String() string {
	switch m {
	case ModeInteractive:
		return "tty"
	case ModePlain:
		return "plain"
	default:
		return "auto"
	}
}

// Detect inspects stdout and the CI variable.
func Detect() Mode {
	return DetectWith(term.IsTerminal(int(os.Stdout.Fd())), os.Getenv)
}

// DetectWith returns ModePlain on CI or when stdout is not a terminal.
func DetectWith(isTTY bool, getenv func(string) string) Mode {
	switch getenv("CI") {
	case "true", "1":
		return ModePlain
	}
	if !isTTY {
		return ModePlain
	}
	return ModeInteractive
}

// ResolveMode applies a user flag ("auto", "tty", "plain" or "ci") to a detected mode.
func ResolveMode(detected Mode, flag string) Mode {
	switch flag {
	case "tty":
		return ModeInteractive
	case "plain", "ci":
		return ModePlain
	default:
		return detected
	}
}
