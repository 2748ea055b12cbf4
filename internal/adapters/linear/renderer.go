// Package linear provides a synchronous, line-buffered renderer for build output.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/ui/output"
	"go.trai.ch/forge/internal/ui/style"
)

// Renderer implements ports.Renderer with chronological, target-prefixed lines.
// Command output goes to stdout, lifecycle and summary lines to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	targets map[string]*targetState // spanID -> state
}

type targetState struct {
	name      string
	startTime time.Time
	partial   bytes.Buffer
}

// NewRenderer creates a Renderer. Nil writers select os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, output.ColorProfileANSI),
		targets: make(map[string]*targetState),
	}
}

// Start is a no-op; the linear renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop prints every buffered partial line.
func (r *Renderer) Stop() error {
	return r.Flush()
}

// Wait is a no-op; the linear renderer writes synchronously.
func (r *Renderer) Wait() error {
	return nil
}

// OnTargetStart prints the start line of a target.
func (r *Renderer) OnTargetStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.targets[spanID] = &targetState{name: name, startTime: startTime}
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.prefix(name))
}

// OnTargetLog prints the complete lines of data and keeps a trailing partial line.
func (r *Renderer) OnTargetLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.targets[spanID]
	if !ok {
		return
	}

	target.partial.Write(data)
	for {
		rest := target.partial.Bytes()
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}
		r.printLineLocked(target.name, rest[:i])
		target.partial.Next(i + 1)
	}
}

// OnTargetComplete flushes the target's partial line and prints its outcome.
func (r *Renderer) OnTargetComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.targets[spanID]
	if !ok {
		return
	}
	r.flushLocked(target)
	delete(r.targets, spanID)

	duration := formatDuration(endTime.Sub(target.startTime))
	if err != nil {
		symbol := r.paint(style.Cross, style.Red).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %s: %v\n", r.prefix(target.name), symbol, duration, err)
		return
	}
	symbol := r.paint(style.Check, style.Green).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %s\n", r.prefix(target.name), symbol, duration)
}

// OnSummary prints one line per executed target, the summary extras and the verdict.
func (r *Renderer) OnSummary(summary domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	width := 0
	for _, t := range summary.Targets {
		width = max(width, lipgloss.Width(t.Name))
	}

	_, _ = fmt.Fprintln(r.stderr)
	for _, t := range summary.Targets {
		line := fmt.Sprintf("  %s%s  %s", t.Name, strings.Repeat(" ", width-lipgloss.Width(t.Name)), formatDuration(t.Duration))
		if len(t.Notes) > 0 {
			line += "  " + r.paint(style.Tilde+" "+strings.Join(t.Notes, ", "), style.Yellow).String()
		}
		_, _ = fmt.Fprintln(r.stderr, line)
	}
	for _, extra := range summary.Extras {
		_, _ = fmt.Fprintf(r.stderr, "  %s\n", r.output.String(extra).Faint())
	}

	switch {
	case !summary.Succeeded():
		_, _ = fmt.Fprintln(r.stderr, r.paint("BUILD FAILED", style.Red).Bold())
	case summary.DryRun:
		_, _ = fmt.Fprintln(r.stderr, r.paint("DRY RUN", style.Yellow).Bold())
	default:
		_, _ = fmt.Fprintln(r.stderr, r.paint("BUILD SUCCESSFUL", style.Green).Bold())
	}
}

// Flush prints every buffered partial line.
func (r *Renderer) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, target := range r.targets {
		r.flushLocked(target)
	}
	return nil
}

// flushLocked must be called with r.mu held.
func (r *Renderer) flushLocked(target *targetState) {
	if target.partial.Len() > 0 {
		r.printLineLocked(target.name, target.partial.Bytes())
		target.partial.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}

func (r *Renderer) paint(s string, c lipgloss.Color) termenv.Style {
	return r.output.String(s).Foreground(r.output.Color(string(c)))
}

func (r *Renderer) prefix(name string) string {
	return r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
