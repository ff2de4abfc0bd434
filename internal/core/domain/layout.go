package domain

import "path/filepath"

const (
	// ToolName is the short name used for on-disk artifacts.
	ToolName = "autoscan"

	// CacheFileName is the name of the scan cache stored at the scan root.
	CacheFileName = ".autoscan.cache"

	// ConfigFileName is the name of the dedicated YAML config file.
	ConfigFileName = ".autoscan.yaml"

	// PyprojectFileName is the name of the build-tool config file.
	PyprojectFileName = "pyproject.toml"

	// PyprojectSection is the table under [tool] holding autoscan settings.
	PyprojectSection = "autoscan"

	// IgnoreFileName is the name of the ignore file read at the scan root.
	IgnoreFileName = ".gitignore"

	// ConfigSearchDepth bounds how many directories are visited when looking for config files.
	ConfigSearchDepth = 10

	// PythonSuffix is the extension of Python source files.
	PythonSuffix = ".py"

	// PackageEntryName is the stem of a package's entry file.
	PackageEntryName = "__init__"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// ProjectRootMarkers are the files whose presence marks a project root.
var ProjectRootMarkers = []string{"pyproject.toml", "setup.py", "setup.cfg", ".git"}

// DefaultExcludePatterns are always excluded from scanning, in addition to user patterns.
var DefaultExcludePatterns = []string{
	"**/venv/**",
	"**/env/**",
	"**/.venv/**",
	"**/my_venv/**",
	"**/site-packages/**",
	"**/tests/**",
	"**/test/**",
	"**/migrations/**",
	"**/alembic/**",
	"**/__pycache__/**",
	"**/.git/**",
	"**/.idea/**",
	"**/.vscode/**",
	"**/node_modules/**",
	"**/build/**",
	"**/dist/**",
}

// CachePath returns the location of the scan cache for the given scan root.
func CachePath(basePath string) string {
	return filepath.Join(basePath, CacheFileName)
}
