// Package config resolves scan configuration from defaults, config files and flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"go.trai.ch/autoscan/internal/core/domain"
	"go.trai.ch/autoscan/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Configuration keys shared by every layer.
const (
	keyBasePath          = "base_path"
	keyIncludePatterns   = "include_patterns"
	keyExcludePatterns   = "exclude_patterns"
	keyLogLevel          = "log_level"
	keyCacheEnabled      = "cache_enabled"
	keyParallelEnabled   = "parallel_enabled"
	keyParallelThreshold = "parallel_threshold"
	keyStrictMode        = "strict_mode"
)

// Loader implements ports.ConfigLoader.
// Layers are applied in increasing priority: defaults, the YAML config file,
// the [tool.autoscan] table of pyproject.toml, then explicit overrides.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load resolves the configuration seen from cwd.
func (l *Loader) Load(cwd string, overrides domain.ConfigOverrides) (*domain.ScanConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path := l.yamlPath(cwd, overrides.ConfigFile); path != "" {
		if data := l.readYAML(path); data != nil {
			if err := v.MergeConfigMap(data); err != nil {
				l.logger.Warn(fmt.Sprintf("ignoring config file %s: %v", path, err))
			}
		}
	}

	if path := FindUp(cwd, domain.PyprojectFileName, domain.ConfigSearchDepth); path != "" {
		if data := l.readPyproject(path); len(data) > 0 {
			if err := v.MergeConfigMap(data); err != nil {
				l.logger.Warn(fmt.Sprintf("ignoring %s: %v", path, err))
			}
		}
	}

	applyOverrides(v, overrides)

	cfg := domain.DefaultScanConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigDecodeFailed.Error())
	}

	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	if cfg.BasePath == "" {
		cfg.BasePath = "."
	}
	if len(cfg.IncludePatterns) == 0 {
		cfg.IncludePatterns = []string{domain.DefaultIncludePattern}
	}
	if cfg.ExcludePatterns == nil {
		cfg.ExcludePatterns = []string{}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := domain.DefaultScanConfig()
	v.SetDefault(keyBasePath, def.BasePath)
	v.SetDefault(keyIncludePatterns, def.IncludePatterns)
	v.SetDefault(keyExcludePatterns, def.ExcludePatterns)
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyCacheEnabled, def.CacheEnabled)
	v.SetDefault(keyParallelThreshold, def.ParallelThreshold)
	v.SetDefault(keyStrictMode, def.StrictMode)
}

func applyOverrides(v *viper.Viper, o domain.ConfigOverrides) {
	if o.BasePath != "" {
		v.Set(keyBasePath, o.BasePath)
	}
	if o.IncludePatterns != nil {
		v.Set(keyIncludePatterns, o.IncludePatterns)
	}
	if o.ExcludePatterns != nil {
		v.Set(keyExcludePatterns, o.ExcludePatterns)
	}
	if o.LogLevel != "" {
		v.Set(keyLogLevel, o.LogLevel)
	}
	if o.CacheEnabled != nil {
		v.Set(keyCacheEnabled, *o.CacheEnabled)
	}
	if o.ParallelEnabled != nil {
		v.Set(keyParallelEnabled, *o.ParallelEnabled)
	}
	if o.ParallelThreshold != nil {
		v.Set(keyParallelThreshold, *o.ParallelThreshold)
	}
	if o.StrictMode != nil {
		v.Set(keyStrictMode, *o.StrictMode)
	}
}

// yamlPath returns the explicit config file when given, else the nearest YAML config above cwd.
func (l *Loader) yamlPath(cwd, explicit string) string {
	if explicit == "" {
		return FindUp(cwd, domain.ConfigFileName, domain.ConfigSearchDepth)
	}

	if !filepath.IsAbs(explicit) {
		explicit = filepath.Join(cwd, explicit)
	}
	if _, err := os.Stat(explicit); err != nil {
		l.logger.Warn(zerr.With(domain.ErrConfigNotFound, "path", explicit).Error())
		return ""
	}
	return explicit
}

func (l *Loader) readYAML(path string) map[string]any {
	//nolint:gosec // Path is provided by the user or found next to the project
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Warn(fmt.Sprintf("failed to load YAML config from %s: %v",
			path, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())))
		return nil
	}

	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		l.logger.Warn(fmt.Sprintf("failed to load YAML config from %s: %v",
			path, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())))
		return nil
	}

	l.logger.Debug("loaded YAML config from " + path)
	return out
}

// readPyproject returns the [tool.autoscan] table of a pyproject.toml file.
func (l *Loader) readPyproject(path string) map[string]any {
	//nolint:gosec // Path is found next to the project
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Warn(fmt.Sprintf("failed to load TOML config from %s: %v",
			path, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())))
		return nil
	}

	var doc struct {
		Tool map[string]any `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		l.logger.Warn(fmt.Sprintf("failed to load TOML config from %s: %v",
			path, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())))
		return nil
	}

	section, ok := doc.Tool[domain.PyprojectSection].(map[string]any)
	if !ok {
		return nil
	}

	if len(section) > 0 {
		l.logger.Debug("loaded TOML config from " + path)
	}
	return section
}

// FindUp returns the first file called name in start or one of its parents,
// visiting at most depth directories. It returns "" when none exists.
func FindUp(start, name string, depth int) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}

	for range depth {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		} else if !errors.Is(err, fs.ErrNotExist) {
			return ""
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
