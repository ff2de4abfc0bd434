package python

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/autoscan/internal/core/ports"
)

// NodeID is the unique identifier for the classifier Graft node.
const NodeID graft.ID = "adapter.classifier"

func init() {
	graft.Register(graft.Node[ports.Classifier]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Classifier, error) {
			return NewClassifier(), nil
		},
	})
}
