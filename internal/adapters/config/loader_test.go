package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/autoscan/internal/adapters/config"
	"go.trai.ch/autoscan/internal/core/domain"
	"go.trai.ch/autoscan/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return config.NewLoader(log), log
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	t.Parallel()

	loader, _ := newLoader(t)
	cfg, err := loader.Load(t.TempDir(), domain.ConfigOverrides{})
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.BasePath)
	assert.Equal(t, []string{"**/*.py"}, cfg.IncludePatterns)
	assert.Empty(t, cfg.ExcludePatterns)
	assert.Equal(t, "WARNING", cfg.LogLevel)
	assert.True(t, cfg.CacheEnabled)
	assert.Nil(t, cfg.ParallelEnabled)
	assert.Equal(t, 100, cfg.ParallelThreshold)
	assert.False(t, cfg.StrictMode)
	assert.True(t, cfg.Markers.IsZero())
}

func TestLoader_YAMLFoundAbove(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, ".autoscan.yaml", `
include_patterns:
  - "app/**/*.py"
exclude_patterns:
  - "**/legacy/**"
log_level: debug
cache_enabled: false
parallel_enabled: true
parallel_threshold: 7
markers:
  base_names: [Entity]
`)
	cwd := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(cwd, domain.DirPerm))

	loader, _ := newLoader(t)
	cfg, err := loader.Load(cwd, domain.ConfigOverrides{})
	require.NoError(t, err)

	assert.Equal(t, []string{"app/**/*.py"}, cfg.IncludePatterns)
	assert.Equal(t, []string{"**/legacy/**"}, cfg.ExcludePatterns)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.False(t, cfg.CacheEnabled)
	require.NotNil(t, cfg.ParallelEnabled)
	assert.True(t, *cfg.ParallelEnabled)
	assert.Equal(t, 7, cfg.ParallelThreshold)
	assert.Equal(t, []string{"Entity"}, cfg.Markers.BaseNames)
}

func TestLoader_PyprojectOverridesYAML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, ".autoscan.yaml", "log_level: INFO\nparallel_threshold: 5\n")
	write(t, root, "pyproject.toml", `
[project]
name = "demo"

[tool.autoscan]
log_level = "ERROR"
strict_mode = true
`)

	loader, _ := newLoader(t)
	cfg, err := loader.Load(root, domain.ConfigOverrides{})
	require.NoError(t, err)

	assert.Equal(t, "ERROR", cfg.LogLevel)
	assert.Equal(t, 5, cfg.ParallelThreshold)
	assert.True(t, cfg.StrictMode)
}

func TestLoader_PyprojectWithoutSection(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "pyproject.toml", "[tool.black]\nline-length = 100\n")

	loader, _ := newLoader(t)
	cfg, err := loader.Load(root, domain.ConfigOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "WARNING", cfg.LogLevel)
}

func TestLoader_OverridesWin(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "pyproject.toml", "[tool.autoscan]\ncache_enabled = true\ninclude_patterns = [\"a/*.py\"]\n")

	noCache := false
	parallel := false
	threshold := 3
	strict := true

	loader, _ := newLoader(t)
	cfg, err := loader.Load(root, domain.ConfigOverrides{
		BasePath:          "/srv/app",
		IncludePatterns:   []string{"b/*.py"},
		ExcludePatterns:   []string{"**/gen/**"},
		LogLevel:          "info",
		CacheEnabled:      &noCache,
		ParallelEnabled:   &parallel,
		ParallelThreshold: &threshold,
		StrictMode:        &strict,
	})
	require.NoError(t, err)

	assert.Equal(t, "/srv/app", cfg.BasePath)
	assert.Equal(t, []string{"b/*.py"}, cfg.IncludePatterns)
	assert.Equal(t, []string{"**/gen/**"}, cfg.ExcludePatterns)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.False(t, cfg.CacheEnabled)
	require.NotNil(t, cfg.ParallelEnabled)
	assert.False(t, *cfg.ParallelEnabled)
	assert.Equal(t, 3, cfg.ParallelThreshold)
	assert.True(t, cfg.StrictMode)
}

func TestLoader_ExplicitConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, ".autoscan.yaml", "log_level: INFO\n")
	write(t, root, "conf/custom.yaml", "log_level: ERROR\n")

	loader, _ := newLoader(t)
	cfg, err := loader.Load(root, domain.ConfigOverrides{ConfigFile: "conf/custom.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "ERROR", cfg.LogLevel)
}

func TestLoader_MissingExplicitConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, ".autoscan.yaml", "log_level: INFO\n")

	loader, log := newLoader(t)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	cfg, err := loader.Load(root, domain.ConfigOverrides{ConfigFile: filepath.Join(root, "missing.yaml")})
	require.NoError(t, err)
	assert.Equal(t, "WARNING", cfg.LogLevel)
}

func TestLoader_InvalidFilesAreSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, ".autoscan.yaml", "log_level: [unterminated\n")
	write(t, root, "pyproject.toml", "[tool.autoscan\n")

	loader, log := newLoader(t)
	log.EXPECT().Warn(gomock.Any()).Times(2)

	cfg, err := loader.Load(root, domain.ConfigOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "WARNING", cfg.LogLevel)
}

func TestFindUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := write(t, root, "marker.txt", "")
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, domain.DirPerm))

	assert.Equal(t, target, config.FindUp(deep, "marker.txt", 10))
	assert.Empty(t, config.FindUp(deep, "marker.txt", 3))
	assert.Empty(t, config.FindUp(deep, "absent.txt", 10))
}
