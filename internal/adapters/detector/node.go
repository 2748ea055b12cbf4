package detector

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the terminal mode Graft node.
const NodeID graft.ID = "adapter.detector"

func init() {
	graft.Register(graft.Node[Mode]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Mode, error) {
			return ResolveMode(Detect(), os.Getenv("FORGE_TERMINAL")), nil
		},
	})
}
