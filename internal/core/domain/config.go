package domain

import (
	"slices"
)

const (
	// DefaultIncludePattern selects every Python file.
	DefaultIncludePattern = "**/*.py"

	// DefaultParallelThreshold is the file count at which the config loader enables parallel scanning.
	DefaultParallelThreshold = 100

	// DefaultScannerParallelThreshold applies when a ScanConfig carries no threshold.
	DefaultScannerParallelThreshold = 50

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "WARNING"
)

// ScanConfig is the resolved configuration of one scan. It must not be mutated once a scan begins.
type ScanConfig struct {
	BasePath          string   `mapstructure:"base_path" json:"base_path"`
	IncludePatterns   []string `mapstructure:"include_patterns" json:"include_patterns"`
	ExcludePatterns   []string `mapstructure:"exclude_patterns" json:"exclude_patterns"`
	LogLevel          string   `mapstructure:"log_level" json:"log_level"`
	CacheEnabled      bool     `mapstructure:"cache_enabled" json:"cache_enabled"`
	ParallelEnabled   *bool    `mapstructure:"parallel_enabled" json:"parallel_enabled"`
	ParallelThreshold int      `mapstructure:"parallel_threshold" json:"parallel_threshold"`
	StrictMode        bool     `mapstructure:"strict_mode" json:"strict_mode"`
	// Markers extends the built-in classifier marker table.
	Markers Markers `mapstructure:"markers" json:"markers"`
}

// DefaultScanConfig returns the configuration used when no source sets a value.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		BasePath:          ".",
		IncludePatterns:   []string{DefaultIncludePattern},
		ExcludePatterns:   []string{},
		LogLevel:          DefaultLogLevel,
		CacheEnabled:      true,
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// Clone returns a deep copy of c.
func (c *ScanConfig) Clone() *ScanConfig {
	out := *c
	out.IncludePatterns = slices.Clone(c.IncludePatterns)
	out.ExcludePatterns = slices.Clone(c.ExcludePatterns)
	if c.ParallelEnabled != nil {
		v := *c.ParallelEnabled
		out.ParallelEnabled = &v
	}
	out.Markers = c.Markers.Clone()
	return &out
}

// EffectiveIncludes returns the include patterns, falling back to the default pattern.
func (c *ScanConfig) EffectiveIncludes() []string {
	if len(c.IncludePatterns) == 0 {
		return []string{DefaultIncludePattern}
	}
	return c.IncludePatterns
}

// EffectiveMarkers returns the built-in marker table extended with the configured one.
func (c *ScanConfig) EffectiveMarkers() Markers {
	return DefaultMarkers().Merge(c.Markers)
}

// ShouldParallelize reports whether pending files are classified by a worker pool.
func (c *ScanConfig) ShouldParallelize(pending int) bool {
	if pending <= 1 {
		return false
	}
	if c.ParallelEnabled != nil {
		return *c.ParallelEnabled
	}
	threshold := c.ParallelThreshold
	if threshold <= 0 {
		threshold = DefaultScannerParallelThreshold
	}
	return pending >= threshold
}

// ConfigOverrides carries explicitly requested settings. Unset fields leave lower layers untouched.
type ConfigOverrides struct {
	ConfigFile        string
	BasePath          string
	IncludePatterns   []string
	ExcludePatterns   []string
	LogLevel          string
	CacheEnabled      *bool
	ParallelEnabled   *bool
	ParallelThreshold *int
	StrictMode        *bool
}
