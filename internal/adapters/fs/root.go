package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/autoscan/internal/core/domain"
)

// FindProjectRoot walks up from start until a directory holding one of the
// project markers is found. It returns start when no marker exists.
func FindProjectRoot(start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return start
	}

	for dir := abs; ; {
		for _, marker := range domain.ProjectRootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		dir = parent
	}
}
