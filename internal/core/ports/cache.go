package ports

import "go.trai.ch/autoscan/internal/core/domain"

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// ResultCache persists classification outcomes between scans.
type ResultCache interface {
	// Load returns the records stored for cfg, or false on any kind of miss.
	Load(cfg *domain.ScanConfig) (map[string]domain.FileRecord, bool)
	// Save stores records for cfg, preserving entries of other configurations.
	Save(cfg *domain.ScanConfig, records map[string]domain.FileRecord)
	// Invalidate removes the cache store under basePath.
	Invalidate(basePath string) error
	// IsModified reports whether the file changed since modTime was recorded.
	IsModified(path string, modTime int64) bool
}
