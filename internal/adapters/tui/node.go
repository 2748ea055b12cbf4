package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/detector" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/forge/internal/adapters/linear"   //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the renderer Graft node.
const NodeID graft.ID = "adapter.renderer"

func init() {
	graft.Register(graft.Node[ports.Renderer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{detector.NodeID, linear.NodeID},
		Run: func(ctx context.Context) (ports.Renderer, error) {
			mode, err := graft.Dep[detector.Mode](ctx)
			if err != nil {
				return nil, err
			}
			plain, err := graft.Dep[*linear.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			return Select(mode, plain), nil
		},
	})
}

// Select returns the interactive view in ModeInteractive and plain otherwise.
// The interactive view prints its summary through plain.
func Select(mode detector.Mode, plain *linear.Renderer, opts ...tea.ProgramOption) ports.Renderer {
	if mode != detector.ModeInteractive {
		return plain
	}
	return NewRenderer(NewModel(), plain, nil, opts...)
}
