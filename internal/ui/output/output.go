// Package output builds termenv outputs that follow forge's color rules.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// noColor reports whether the NO_COLOR convention is in effect.
func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}

// ColorProfile honors NO_COLOR and otherwise detects what the terminal supports.
func ColorProfile() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI honors NO_COLOR and otherwise uses the basic ANSI palette
// that CI log viewers render.
func ColorProfileANSI() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New returns an output for w using ColorProfile. A nil w writes to stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return NewWithProfile(w, ColorProfile, opts...)
}

// NewWithProfile returns an output for w whose profile comes from profileFn.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	opts = append(opts, termenv.WithProfile(profileFn()), termenv.WithTTY(true))
	return termenv.NewOutput(w, opts...)
}
