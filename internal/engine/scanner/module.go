package scanner

import (
	"path/filepath"
	"strings"

	"go.trai.ch/autoscan/internal/core/domain"
)

// ModulePath converts a source file path into a dotted module identifier relative to basePath.
// Package entry files name their package. It returns "" for files outside basePath
// and for the entry file of basePath itself.
func ModulePath(basePath, path string) string {
	rel, err := filepath.Rel(basePath, path)
	if err != nil {
		return ""
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return ""
	}

	rel = strings.TrimSuffix(rel, domain.PythonSuffix)
	parts := strings.Split(rel, "/")
	if parts[len(parts)-1] == domain.PackageEntryName {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 || (len(parts) == 1 && parts[0] == ".") {
		return ""
	}

	return strings.Join(parts, ".")
}
