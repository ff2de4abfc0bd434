package fs

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/autoscan/internal/core/domain"
	"go.trai.ch/autoscan/internal/core/ports"
	"go.trai.ch/zerr"
)

// Selector implements ports.FileSelector by walking the scan root and applying a Matcher.
type Selector struct {
	walker *Walker
}

// NewSelector creates a new Selector.
func NewSelector(walker *Walker) *Selector {
	return &Selector{walker: walker}
}

// Select returns the Python files under cfg.BasePath eligible for scanning.
func (s *Selector) Select(ctx context.Context, cfg *domain.ScanConfig) (*ports.Selection, error) {
	base, err := ResolveBasePath(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	excludes := ExcludePatterns(base, cfg.ExcludePatterns)
	matcher := NewMatcher(base, cfg.EffectiveIncludes(), excludes)

	var files []string
	for path := range s.walker.PythonFiles(base, pruneNames()) {
		if err := ctx.Err(); err != nil {
			return nil, zerr.Wrap(err, domain.ErrWalkFailed.Error())
		}
		if matcher.ShouldScan(path) {
			files = append(files, path)
		}
	}

	return &ports.Selection{
		BasePath:        base,
		Files:           files,
		ExcludePatterns: excludes,
	}, nil
}

// ResolveBasePath returns the absolute, symlink-free form of basePath.
// It fails with domain.ErrBasePathInvalid unless basePath is an existing directory.
func ResolveBasePath(basePath string) (string, error) {
	if basePath == "" {
		basePath = "."
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrBasePathInvalid.Error()), "base_path", basePath)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrBasePathInvalid.Error()), "base_path", basePath)
	}
	if !info.IsDir() {
		return "", zerr.With(domain.ErrBasePathInvalid, "base_path", basePath)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

// ExcludePatterns returns the user patterns followed by the built-in ones and the
// rules of the ignore file at base.
func ExcludePatterns(base string, user []string) []string {
	excludes := slices.Clone(user)
	excludes = append(excludes, domain.DefaultExcludePatterns...)
	excludes = append(excludes, ParseIgnoreFile(filepath.Join(base, domain.IgnoreFileName))...)
	return excludes
}

// pruneNames returns directory names whose whole subtree is excluded by a built-in pattern.
func pruneNames() []string {
	names := make([]string, 0, len(domain.DefaultExcludePatterns))
	for _, pattern := range domain.DefaultExcludePatterns {
		inner, ok := strings.CutPrefix(pattern, "**/")
		if !ok {
			continue
		}
		name, ok := strings.CutSuffix(inner, "/**")
		if ok && !strings.Contains(name, "/") {
			names = append(names, name)
		}
	}
	return names
}
