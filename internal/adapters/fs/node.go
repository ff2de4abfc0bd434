package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/autoscan/internal/core/ports"
)

// SelectorNodeID is the unique identifier for the file selector Graft node.
const SelectorNodeID graft.ID = "adapter.file_selector"

func init() {
	graft.Register(graft.Node[ports.FileSelector]{
		ID:        SelectorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSelector, error) {
			return NewSelector(NewWalker()), nil
		},
	})
}
