// Package tui renders a build as an interactive terminal view: the targets on
// the left, the live output of the selected target on the right.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/forge/internal/core/domain"
)

// failureTailLines is how many output rows of a failed target are printed
// once the view closed.
const failureTailLines = 20

// SummaryWriter prints the build summary after the view closed.
type SummaryWriter interface {
	OnSummary(summary domain.Summary)
	Flush() error
}

// Renderer implements ports.Renderer with a bubbletea program. Each build
// runs a fresh program between Start and Wait.
type Renderer struct {
	model   *Model
	summary SummaryWriter
	out     io.Writer
	opts    []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
	errCh   chan error
}

// NewRenderer creates a renderer drawing model. Failed target output is
// written to out after the view closed, followed by the summary. A nil out
// selects os.Stderr.
func NewRenderer(model *Model, summary SummaryWriter, out io.Writer, opts ...tea.ProgramOption) *Renderer {
	if out == nil {
		out = os.Stderr
	}
	return &Renderer{
		model:   model,
		summary: summary,
		out:     out,
		opts:    opts,
	}
}

// Start launches the view in a background goroutine.
func (r *Renderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.model.Reset()
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, r.opts...)
	program := tea.NewProgram(r.model, opts...)
	errCh := make(chan error, 1)
	go func() {
		_, err := program.Run()
		errCh <- err
	}()
	r.program, r.errCh = program, errCh
	return nil
}

// Stop asks the view to close.
func (r *Renderer) Stop() error {
	if program := r.current(); program != nil {
		program.Quit()
	}
	return nil
}

// Wait blocks until the view closed. It returns domain.ErrInterrupted when
// the user closed it.
func (r *Renderer) Wait() error {
	r.mu.Lock()
	errCh := r.errCh
	r.mu.Unlock()
	if errCh == nil {
		return nil
	}

	err := <-errCh
	switch {
	case r.model.Quitting:
		return domain.ErrInterrupted
	case errors.Is(err, tea.ErrProgramKilled):
		return nil
	default:
		return err
	}
}

// OnTargetStart adds the target to the list.
func (r *Renderer) OnTargetStart(spanID, name string, startTime time.Time) {
	r.send(MsgTargetStart{SpanID: spanID, Name: name, StartTime: startTime})
}

// OnTargetLog writes data to the target's terminal.
func (r *Renderer) OnTargetLog(spanID string, data []byte) {
	r.send(MsgTargetLog{SpanID: spanID, Data: data})
}

// OnTargetComplete marks the target done or failed.
func (r *Renderer) OnTargetComplete(spanID string, endTime time.Time, err error) {
	r.send(MsgTargetComplete{SpanID: spanID, EndTime: endTime, Err: err})
}

// OnSummary prints the last output rows of every failed target, then the summary.
// It must be called after Wait returned.
func (r *Renderer) OnSummary(summary domain.Summary) {
	for _, node := range r.model.Targets {
		if node.Status != StatusError {
			continue
		}
		_, _ = fmt.Fprintln(r.out, failureTitleStyle.Render("FAILED: "+node.Name))
		if tail := node.Term.Tail(failureTailLines); tail != "" {
			_, _ = fmt.Fprintln(r.out, tail)
		}
	}
	r.summary.OnSummary(summary)
}

// Flush flushes the summary writer.
func (r *Renderer) Flush() error {
	return r.summary.Flush()
}

func (r *Renderer) send(msg tea.Msg) {
	if program := r.current(); program != nil {
		program.Send(msg)
	}
}

func (r *Renderer) current() *tea.Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.program
}
