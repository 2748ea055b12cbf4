package directive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/golang" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the directive analyzer Graft node.
const NodeID graft.ID = "engine.directive"

func init() {
	graft.Register(graft.Node[*Analyzer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{golang.NodeID},
		Run: func(ctx context.Context) (*Analyzer, error) {
			resolver, err := graft.Dep[ports.TypeResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewAnalyzer(resolver), nil
		},
	})
}
