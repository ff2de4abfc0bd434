//go:build e2e

package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var autoscanBinary string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "autoscan-e2e-*")
	if err != nil {
		panic(err)
	}

	autoscanBinary = filepath.Join(tmpDir, "autoscan")

	//nolint:gosec // Building binary with static arguments, not user input
	cmd := exec.Command("go", "build", "-o", autoscanBinary, "./cmd/autoscan")
	cmd.Dir = ".."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		panic("failed to build autoscan binary: " + err.Error())
	}

	exitCode := m.Run()

	_ = os.RemoveAll(tmpDir)

	os.Exit(exitCode)
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata",
		Setup: setupE2E,
	})
}

func setupE2E(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")

	binDir := filepath.Dir(autoscanBinary)
	currentPath := env.Getenv("PATH")
	env.Setenv("PATH", binDir+string(os.PathListSeparator)+currentPath)

	homeDir := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	// A stand-in interpreter keeps the import scripts independent of a local Python.
	// It fails for modules whose name contains "broken".
	python := filepath.Join(env.WorkDir, ".bin", "python")
	if err := os.MkdirAll(filepath.Dir(python), 0o750); err != nil {
		return err
	}
	//nolint:gosec // test executable
	if err := os.WriteFile(python, []byte(fakePython), 0o700); err != nil {
		return err
	}
	env.Setenv("AUTOSCAN_PYTHON", python)

	return nil
}

const fakePython = `#!/bin/sh
case "$3" in
  *broken*) echo "Traceback (most recent call last):" >&2; echo "ModuleNotFoundError: No module named 'missing'" >&2; exit 1 ;;
esac
exit 0
`
