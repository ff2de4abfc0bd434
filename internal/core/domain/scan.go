package domain

import (
	"maps"
	"slices"
)

// FileRecord is the cached outcome of classifying one file.
// Module is set if and only if IsModel is true.
type FileRecord struct {
	Path    string  `json:"-"`
	ModTime int64   `json:"mtime"`
	IsModel bool    `json:"is_model"`
	Module  *string `json:"module_path"`
}

// NewFileRecord builds a record, clearing the model flag when no module identifier exists.
func NewFileRecord(path string, modTime int64, isModel bool, module string) FileRecord {
	rec := FileRecord{Path: path, ModTime: modTime}
	if isModel && module != "" {
		rec.IsModel = true
		rec.Module = &module
	}
	return rec
}

// ModuleName returns the module identifier, or "" when the record is not a model.
func (r FileRecord) ModuleName() string {
	if r.Module == nil {
		return ""
	}
	return *r.Module
}

// Classification is the result of classifying one source file.
type Classification struct {
	Path            string
	IsModel         bool
	AbstractClasses []string
	// Unparsable is set when the source is not valid UTF-8 or does not parse.
	Unparsable bool
}

// ModuleSet is a set of module identifiers.
type ModuleSet map[string]struct{}

// Add inserts module into the set. Empty identifiers are ignored.
func (s ModuleSet) Add(module string) {
	if module == "" {
		return
	}
	s[module] = struct{}{}
}

// Sorted returns the identifiers in ascending order.
func (s ModuleSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// DiscoveryReport summarizes one scan.
type DiscoveryReport struct {
	BasePath        string
	Modules         []string
	AbstractClasses []string
	// Scanned is the number of files classified during this scan.
	Scanned int
	// Cached is the number of files replayed from the cache.
	Cached int
	// Unverified lists modules that failed strict-mode import verification.
	Unverified []string
}

// ImportReport is the outcome of importing a list of modules.
type ImportReport struct {
	Imported []string
	Failed   map[string]string
}

// Count returns the number of successfully imported modules.
func (r *ImportReport) Count() int {
	return len(r.Imported)
}
