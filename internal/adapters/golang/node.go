package golang

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the type resolver Graft node.
const NodeID graft.ID = "adapter.golang"

func init() {
	graft.Register(graft.Node[ports.TypeResolver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TypeResolver, error) {
			return NewResolver(""), nil
		},
	})
}
