package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/autoscan/internal/adapters/fs"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "file1.txt", "content1")
	writeFile(t, tmpDir, "dir1/file2.py", "content2")
	writeFile(t, tmpDir, "dir2/file3.py", "content3")

	walker := fs.NewWalker()
	files := slices.Collect(walker.WalkFiles(tmpDir, nil))

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "dir1", "file2.py"),
		filepath.Join(tmpDir, "dir2", "file3.py"),
		filepath.Join(tmpDir, "file1.txt"),
	}, files)
}

func TestWalker_WalkFiles_SkipsGitAndJJ(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, ".git/hooks/pre_commit.py", "")
	writeFile(t, tmpDir, ".jj/store.py", "")
	writeFile(t, tmpDir, "src/main.py", "")

	files := slices.Collect(fs.NewWalker().WalkFiles(tmpDir, nil))

	assert.Equal(t, []string{filepath.Join(tmpDir, "src", "main.py")}, files)
}

func TestWalker_WalkFiles_Prune(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "node_modules/pkg/x.py", "")
	writeFile(t, tmpDir, "app/__pycache__/x.py", "")
	writeFile(t, tmpDir, "app/x.py", "")

	files := slices.Collect(fs.NewWalker().WalkFiles(tmpDir, []string{"node_modules", "__pycache__"}))

	assert.Equal(t, []string{filepath.Join(tmpDir, "app", "x.py")}, files)
}

func TestWalker_PythonFiles(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "a.py", "")
	writeFile(t, tmpDir, "b.pyc", "")
	writeFile(t, tmpDir, "c.txt", "")
	writeFile(t, tmpDir, "pkg/__init__.py", "")

	files := slices.Collect(fs.NewWalker().PythonFiles(tmpDir, nil))

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.py"),
		filepath.Join(tmpDir, "pkg", "__init__.py"),
	}, files)
}

func TestWalker_EarlyStop(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "a.py", "")
	writeFile(t, tmpDir, "b.py", "")

	var seen int
	for range fs.NewWalker().PythonFiles(tmpDir, nil) {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}
