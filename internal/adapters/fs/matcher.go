package fs

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides which files take part in a scan.
type Matcher struct {
	basePath string
	includes []string
	excludes []string
}

// NewMatcher creates a Matcher for files under basePath.
func NewMatcher(basePath string, includes, excludes []string) *Matcher {
	return &Matcher{
		basePath: basePath,
		includes: includes,
		excludes: excludes,
	}
}

// ShouldScan reports whether path matches an include pattern and no exclude pattern.
func (m *Matcher) ShouldScan(path string) bool {
	rel, abs := m.paths(path)
	if !matchAny(rel, abs, m.includes) {
		return false
	}
	return !matchAny(rel, abs, m.excludes)
}

// Excludes returns the exclude patterns in effect.
func (m *Matcher) Excludes() []string {
	return slices.Clone(m.excludes)
}

// paths returns path relative to the base path and in absolute form, both slash separated.
// A path outside the base path is matched as given.
func (m *Matcher) paths(p string) (string, string) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(m.basePath, p)
	}
	rel, err := filepath.Rel(m.basePath, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = p
	}
	return filepath.ToSlash(rel), filepath.ToSlash(abs)
}

// MatchPattern reports whether the slash-separated relative path rel matches pattern.
func MatchPattern(rel, pattern string) bool {
	return matchPattern(rel, "", pattern)
}

func matchAny(rel, abs string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchPattern(rel, abs, pattern) {
			return true
		}
	}
	return false
}

// matchPattern tries the pattern as entered and then a set of rewritten variants,
// so that recursive segments match at any depth and on either side of a directory.
func matchPattern(rel, abs, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	if strings.HasPrefix(pattern, "/") {
		return abs != "" && globMatch(pattern, abs)
	}

	if globMatch(pattern, rel) {
		return true
	}

	if stripped, ok := strings.CutPrefix(pattern, "**/"); ok {
		if globMatch(stripped, rel) {
			return true
		}

		if middle, ok := strings.CutSuffix(stripped, "/**"); ok && middle != "" && hasSegment(rel, middle) {
			if globMatch(stripped, rel) || globMatch(stripped+"/*", rel) {
				return true
			}
		}
	}

	if strings.Contains(pattern, "/**/") {
		if globMatch(strings.ReplaceAll(pattern, "/**/", "/"), rel) {
			return true
		}
	}

	if strings.HasSuffix(pattern, "/**") {
		if globMatch(pattern+"/*", rel) {
			return true
		}
	}

	return false
}

// globMatch matches name against pattern. Relative patterns are anchored at the right,
// so "models/*.py" matches "app/models/user.py".
func globMatch(pattern, name string) bool {
	if matched, err := doublestar.Match(pattern, name); err == nil && matched {
		return true
	}
	if strings.HasPrefix(pattern, "/") || strings.HasPrefix(pattern, "**/") {
		return false
	}
	matched, err := doublestar.Match("**/"+pattern, name)
	return err == nil && matched
}

// hasSegment reports whether a directory segment of rel matches segment.
func hasSegment(rel, segment string) bool {
	parts := strings.Split(rel, "/")
	for _, part := range parts[:len(parts)-1] {
		if matched, err := path.Match(segment, part); err == nil && matched {
			return true
		}
	}
	return false
}
