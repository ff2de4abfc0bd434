package ports

import "go.trai.ch/autoscan/internal/core/domain"

//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks

// ConfigLoader resolves a ScanConfig from layered sources.
type ConfigLoader interface {
	// Load merges defaults, config files found from cwd and the overrides.
	Load(cwd string, overrides domain.ConfigOverrides) (*domain.ScanConfig, error)
}
