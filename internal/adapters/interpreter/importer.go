// Package interpreter imports discovered modules with an external Python interpreter.
package interpreter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/autoscan/internal/core/domain"
	"go.trai.ch/autoscan/internal/core/ports"
	"go.trai.ch/zerr"
)

// EnvInterpreter names the environment variable selecting the interpreter.
const EnvInterpreter = "AUTOSCAN_PYTHON"

// DefaultInterpreter is used when EnvInterpreter is unset.
const DefaultInterpreter = "python3"

const importScript = "import importlib, sys; importlib.import_module(sys.argv[1])"

// Importer implements ports.Importer by running one interpreter process per module.
type Importer struct {
	logger      ports.Logger
	interpreter string
}

// NewImporter creates an Importer using the interpreter named by AUTOSCAN_PYTHON, or python3.
func NewImporter(logger ports.Logger) *Importer {
	interpreter := os.Getenv(EnvInterpreter)
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	return NewImporterWith(logger, interpreter)
}

// NewImporterWith creates an Importer using the given interpreter.
func NewImporterWith(logger ports.Logger, interpreter string) *Importer {
	return &Importer{logger: logger, interpreter: interpreter}
}

// Import imports every module in order. A failing module is recorded and the rest still run.
// A cancelled context stops the remaining imports and marks them failed.
func (i *Importer) Import(ctx context.Context, basePath string, modules []string) *domain.ImportReport {
	report := &domain.ImportReport{Failed: make(map[string]string)}

	for _, module := range modules {
		if err := ctx.Err(); err != nil {
			report.Failed[module] = err.Error()
			continue
		}

		if reason, err := i.importOne(ctx, basePath, module); err != nil {
			i.logger.Warn(fmt.Sprintf("failed to import %s: %v", module, err))
			if reason == "" {
				reason = err.Error()
			}
			report.Failed[module] = reason
			continue
		}

		i.logger.Debug("imported " + module)
		report.Imported = append(report.Imported, module)
	}

	return report
}

// importOne imports module and returns the interpreter's last stderr line on failure.
func (i *Importer) importOne(ctx context.Context, basePath, module string) (string, error) {
	//nolint:gosec // Interpreter is chosen by the user; the module is passed as an argument
	cmd := exec.CommandContext(ctx, i.interpreter, "-c", importScript, module)
	cmd.Dir = basePath
	cmd.Env = resolveEnvironment(os.Environ(), basePath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(err, domain.ErrInterpreterNotFound.Error()), "interpreter", i.interpreter)
		}

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		err = zerr.With(zerr.Wrap(err, domain.ErrImportFailed.Error()), "module", module)
		err = zerr.With(err, "exit_code", exitCode)
		msg := lastLine(stderr.String())
		if msg != "" {
			err = zerr.With(err, "stderr", msg)
		}
		return msg, err
	}

	return "", nil
}

// resolveEnvironment returns sysEnv with basePath prepended to PYTHONPATH.
func resolveEnvironment(sysEnv []string, basePath string) []string {
	env := make([]string, 0, len(sysEnv)+1)
	pythonPath := basePath

	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok && k == "PYTHONPATH" {
			if v != "" {
				pythonPath = basePath + string(os.PathListSeparator) + v
			}
			continue
		}
		env = append(env, entry)
	}

	return append(env, "PYTHONPATH="+pythonPath)
}

// lastLine returns the final non-empty line of a traceback.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
