package ports

import (
	"context"

	"go.trai.ch/autoscan/internal/core/domain"
)

//go:generate mockgen -source=importer.go -destination=mocks/mock_importer.go -package=mocks

// Importer loads discovered modules so their side effects take place.
type Importer interface {
	// Import imports every module with basePath on the import path.
	// A failing module never prevents the remaining ones from being imported.
	Import(ctx context.Context, basePath string, modules []string) *domain.ImportReport
}
