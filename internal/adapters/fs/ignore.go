package fs

import (
	"bufio"
	"os"
	"strings"
)

// ParseIgnoreFile translates a .gitignore file into exclude patterns.
// Negated entries are dropped. A missing or unreadable file yields no patterns.
func ParseIgnoreFile(path string) []string {
	//nolint:gosec // Path is the ignore file at the scan root
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, TranslateIgnoreEntry(scanner.Text())...)
	}
	return patterns
}

// TranslateIgnoreEntry converts one ignore-file line into zero or more exclude patterns.
func TranslateIgnoreEntry(line string) []string {
	entry := strings.TrimSpace(line)
	if entry == "" || strings.HasPrefix(entry, "#") || strings.HasPrefix(entry, "!") {
		return nil
	}

	if strings.HasSuffix(entry, "/") {
		entry += "**"
	}

	if anchored, ok := strings.CutPrefix(entry, "/"); ok {
		return []string{anchored}
	}

	if !strings.Contains(entry, "/") {
		if strings.Contains(entry, "*") {
			return []string{"**/" + entry}
		}
		return []string{"**/" + entry + "/**", "**/" + entry}
	}

	if !strings.HasPrefix(entry, "**/") && !strings.HasPrefix(entry, "*") {
		entry = "**/" + entry
	}
	return []string{entry}
}
