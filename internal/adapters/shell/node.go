package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/detector" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/forge/internal/adapters/logger"   //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the executor Graft node.
const NodeID graft.ID = "adapter.executor"

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, detector.NodeID},
		Run: func(ctx context.Context) (ports.Executor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			mode, err := graft.Dep[detector.Mode](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log, mode == detector.ModeInteractive), nil
		},
	})
}
