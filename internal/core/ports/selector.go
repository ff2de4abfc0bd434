package ports

import (
	"context"

	"go.trai.ch/autoscan/internal/core/domain"
)

//go:generate mockgen -source=selector.go -destination=mocks/mock_selector.go -package=mocks

// Selection is the set of files eligible for a scan.
type Selection struct {
	// BasePath is the absolute, symlink-free scan root.
	BasePath string
	// Files are absolute paths in enumeration order.
	Files []string
	// ExcludePatterns is the full exclude list applied: user, built-in and ignore-file rules.
	ExcludePatterns []string
}

// FileSelector enumerates the source files a scan should consider.
type FileSelector interface {
	// Select walks cfg.BasePath and returns the files accepted by the include and exclude rules.
	Select(ctx context.Context, cfg *domain.ScanConfig) (*Selection, error)
}
