package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the analysis store Graft node.
const NodeID graft.ID = "adapter.analysis_store"

func init() {
	graft.Register(graft.Node[ports.AnalysisStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.AnalysisStore, error) {
			return NewStore(DefaultDir()), nil
		},
	})
}
