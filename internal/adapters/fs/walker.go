// Package fs provides file system adapters for enumerating and selecting source files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"go.trai.ch/autoscan/internal/core/domain"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file under root, in lexical order.
// Directories whose name matches one of prune are not descended into,
// and .git and .jj are always skipped. Unreadable subdirectories are skipped.
func (w *Walker) WalkFiles(root string, prune []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return err
			}

			if d.IsDir() {
				if path != root && w.shouldPrune(d.Name(), prune) {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// PythonFiles yields the Python source files under root.
func (w *Walker) PythonFiles(root string, prune []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for path := range w.WalkFiles(root, prune) {
			if !strings.HasSuffix(path, domain.PythonSuffix) {
				continue
			}
			if !yield(path) {
				return
			}
		}
	}
}

func (w *Walker) shouldPrune(name string, prune []string) bool {
	if name == ".git" || name == ".jj" {
		return true
	}
	for _, pattern := range prune {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
