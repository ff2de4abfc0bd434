package interpreter

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/autoscan/internal/adapters/logger"
	"go.trai.ch/autoscan/internal/core/ports"
)

// NodeID is the unique identifier for the importer Graft node.
const NodeID graft.ID = "adapter.importer"

func init() {
	graft.Register(graft.Node[ports.Importer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Importer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewImporter(log), nil
		},
	})
}
