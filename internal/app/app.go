// Package app implements the application layer for autoscan.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/autoscan/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/autoscan/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/autoscan/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/autoscan/internal/core/domain"
	"go.trai.ch/autoscan/internal/core/ports"
	"go.trai.ch/autoscan/internal/engine/scanner"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	selector     ports.FileSelector
	classifier   ports.Classifier
	cache        ports.ResultCache
	importer     ports.Importer
	logger       ports.Logger
	tracer       ports.Tracer
	workDir      string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	selector ports.FileSelector,
	classifier ports.Classifier,
	cache ports.ResultCache,
	importer ports.Importer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		selector:     selector,
		classifier:   classifier,
		cache:        cache,
		importer:     importer,
		logger:       log,
	}
}

// WithTracer makes the App use tracer instead of an OpenTelemetry tracer built per run.
func (a *App) WithTracer(tracer ports.Tracer) *App {
	a.tracer = tracer
	return a
}

// WithWorkDir sets the directory config files and the project root are searched from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// DiscoverOptions configuration for the Discover and Import methods.
type DiscoverOptions struct {
	// Path is the directory to scan. Empty means the configured base path, else the project root.
	Path       string
	Includes   []string
	Excludes   []string
	ConfigFile string
	NoCache    bool
	Parallel   bool
	Strict     bool
	Verbose    bool
	// LogFormat is "auto", "pretty" or "json". Empty means auto.
	LogFormat  string
}

// DiscoverResult is the outcome of a discovery run.
type DiscoverResult struct {
	// Path is the scanned directory as the user should see it.
	Path   string
	Report *domain.DiscoveryReport
}

// ImportResult is the outcome of a discovery run followed by an import of every module.
type ImportResult struct {
	DiscoverResult
	Import *domain.ImportReport
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Path is the directory whose cache is removed. Empty means the configured base path, else the project root.
	Path       string
	ConfigFile string
}

// Discover scans the tree selected by opts for model modules.
func (a *App) Discover(ctx context.Context, opts DiscoverOptions) (*DiscoverResult, error) {
	cfg, path, err := a.resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	tracer, shutdown := a.startTracing()
	defer shutdown(ctx)

	s := scanner.New(a.selector, a.classifier, a.cache, a.importer, tracer, a.logger)
	report, err := s.Scan(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &DiscoverResult{Path: path, Report: report}, nil
}

// Import discovers model modules and imports each of them with the Python interpreter.
// Import failures are reported, not returned.
func (a *App) Import(ctx context.Context, opts DiscoverOptions) (*ImportResult, error) {
	discovered, err := a.Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := &domain.ImportReport{Failed: map[string]string{}}
	if len(discovered.Report.Modules) > 0 {
		report = a.importer.Import(ctx, discovered.Report.BasePath, discovered.Report.Modules)
	}
	a.logger.Info(fmt.Sprintf("successfully imported %d modules", report.Count()))

	return &ImportResult{DiscoverResult: *discovered, Import: report}, nil
}

// Clean removes the scan cache of the selected directory.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cwd := a.cwd()
	cfg, err := a.configLoader.Load(cwd, domain.ConfigOverrides{
		ConfigFile: opts.ConfigFile,
		BasePath:   opts.Path,
	})
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	_, path := selectBasePath(cwd, opts.Path, cfg.BasePath)
	base, err := fs.ResolveBasePath(path)
	if err != nil {
		return err
	}

	a.logger.Info("removing scan cache...")
	if err := a.cache.Invalidate(base); err != nil {
		return zerr.Wrap(err, "failed to clean scan cache")
	}
	a.logger.Info("removed scan cache")
	return nil
}

// resolveConfig merges the configuration layers with opts and applies the log level.
func (a *App) resolveConfig(opts DiscoverOptions) (*domain.ScanConfig, string, error) {
	cwd := a.cwd()

	overrides := domain.ConfigOverrides{
		ConfigFile:      opts.ConfigFile,
		BasePath:        opts.Path,
		IncludePatterns: opts.Includes,
		ExcludePatterns: opts.Excludes,
	}
	if opts.NoCache {
		overrides.CacheEnabled = boolPtr(false)
	}
	if opts.Parallel {
		overrides.ParallelEnabled = boolPtr(true)
	}
	if opts.Strict {
		overrides.StrictMode = boolPtr(true)
	}
	if opts.Verbose {
		overrides.LogLevel = "DEBUG"
	}

	cfg, err := a.configLoader.Load(cwd, overrides)
	if err != nil {
		return nil, "", zerr.Wrap(err, "failed to load configuration")
	}

	if jsoner, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		format := detector.ResolveFormat(detector.DetectEnvironment(), opts.LogFormat)
		jsoner.SetJSON(format == detector.FormatJSON)
	}

	if leveler, ok := a.logger.(interface{ SetLevel(string) error }); ok {
		if err := leveler.SetLevel(cfg.LogLevel); err != nil {
			a.logger.Warn(fmt.Sprintf("ignoring log level: %v", err))
		}
	}

	display, resolved := selectBasePath(cwd, opts.Path, cfg.BasePath)

	cfg = cfg.Clone()
	cfg.BasePath = resolved
	return cfg, display, nil
}

// selectBasePath picks the scan root from the explicit path, the configured base path
// and the project root, in that order. It returns the root as the user should see it
// and the root made absolute against cwd.
func selectBasePath(cwd, explicit, configured string) (display, resolved string) {
	switch {
	case explicit != "":
		display = explicit
	case configured != "" && configured != ".":
		display = configured
	default:
		display = fs.FindProjectRoot(cwd)
	}

	resolved = display
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(cwd, resolved)
	}
	return display, resolved
}

// startTracing returns the tracer for one run and a function releasing it.
func (a *App) startTracing() (ports.Tracer, func(context.Context)) {
	if a.tracer != nil {
		return a.tracer, func(context.Context) {}
	}

	tp := telemetry.Setup(telemetry.NewBridge(a.logger))
	return telemetry.NewOTelTracer(domain.ToolName), func(ctx context.Context) {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}
}

func (a *App) cwd() string {
	if a.workDir != "" {
		return a.workDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func boolPtr(b bool) *bool {
	return &b
}
