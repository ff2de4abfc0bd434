package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/autoscan/internal/adapters/cache"       //nolint:depguard // Wired in app layer
	"go.trai.ch/autoscan/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/autoscan/internal/adapters/fs"          //nolint:depguard // Wired in app layer
	"go.trai.ch/autoscan/internal/adapters/interpreter" //nolint:depguard // Wired in app layer
	"go.trai.ch/autoscan/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/autoscan/internal/adapters/python"      //nolint:depguard // Wired in app layer
	"go.trai.ch/autoscan/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles what the entry point needs to run the CLI.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.SelectorNodeID,
			python.NodeID,
			cache.NodeID,
			interpreter.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	selector, err := graft.Dep[ports.FileSelector](ctx)
	if err != nil {
		return nil, err
	}

	classifier, err := graft.Dep[ports.Classifier](ctx)
	if err != nil {
		return nil, err
	}

	resultCache, err := graft.Dep[ports.ResultCache](ctx)
	if err != nil {
		return nil, err
	}

	importer, err := graft.Dep[ports.Importer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, selector, classifier, resultCache, importer, log), nil
}
