// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/autoscan/internal/adapters/cache"
	_ "go.trai.ch/autoscan/internal/adapters/config"
	_ "go.trai.ch/autoscan/internal/adapters/fs"
	_ "go.trai.ch/autoscan/internal/adapters/interpreter"
	_ "go.trai.ch/autoscan/internal/adapters/logger"
	_ "go.trai.ch/autoscan/internal/adapters/python"
	// Register app nodes.
	_ "go.trai.ch/autoscan/internal/app"
)
