package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/autoscan/internal/adapters/logger"
	"go.trai.ch/autoscan/internal/core/ports"
)

// NodeID is the unique identifier for the result cache Graft node.
const NodeID graft.ID = "adapter.result_cache"

func init() {
	graft.Register(graft.Node[ports.ResultCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ResultCache, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(log), nil
		},
	})
}
