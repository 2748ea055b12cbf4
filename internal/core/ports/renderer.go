package ports

import (
	"context"
	"time"

	"go.trai.ch/forge/internal/core/domain"
)

// Renderer is the abstraction for output rendering.
// It is driven by span events and by the final build summary.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start begins a build. Asynchronous renderers (the TUI) launch their
	// event loop here.
	Start(ctx context.Context) error

	// Stop signals that no more target events follow.
	Stop() error

	// Wait blocks until the renderer released the terminal.
	Wait() error

	// OnTargetStart is called when a target begins execution.
	OnTargetStart(spanID, name string, startTime time.Time)

	// OnTargetLog is called when a target emits output.
	// data may contain partial lines.
	OnTargetLog(spanID string, data []byte)

	// OnTargetComplete is called when a target finishes. err is nil on success.
	OnTargetComplete(spanID string, endTime time.Time, err error)

	// OnSummary is called once per run after all targets finished.
	OnSummary(summary domain.Summary)

	// Flush writes out any buffered partial lines.
	Flush() error
}
