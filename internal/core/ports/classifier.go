package ports

import "go.trai.ch/autoscan/internal/core/domain"

//go:generate mockgen -source=classifier.go -destination=mocks/mock_classifier.go -package=mocks

// Classifier decides whether a Python source file declares a persisted model.
// Implementations never fail: unreadable or malformed files classify as non-models.
// Implementations must be safe for concurrent use.
type Classifier interface {
	// ClassifyFile reads and classifies the file at path.
	ClassifyFile(path string, markers *domain.Markers) domain.Classification
}
