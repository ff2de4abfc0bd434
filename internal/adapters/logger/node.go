package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/autoscan/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// EnvLogLevel sets the level in effect until configuration is loaded.
const EnvLogLevel = "AUTOSCAN_LOG_LEVEL"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return NewFromEnv()
		},
	})
}

// NewFromEnv creates a Logger whose initial level comes from EnvLogLevel.
func NewFromEnv() (ports.Logger, error) {
	l := New().(*Logger)
	if name := os.Getenv(EnvLogLevel); name != "" {
		if err := l.SetLevel(name); err != nil {
			return nil, err
		}
	}
	return l, nil
}
