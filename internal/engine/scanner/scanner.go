// Package scanner orchestrates model discovery over a source tree.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"

	"go.trai.ch/autoscan/internal/core/domain"
	"go.trai.ch/autoscan/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scanner discovers the modules of a source tree that declare ORM models.
type Scanner struct {
	selector   ports.FileSelector
	classifier ports.Classifier
	cache      ports.ResultCache
	importer   ports.Importer
	tracer     ports.Tracer
	logger     ports.Logger
}

// New creates a new Scanner with the given dependencies.
func New(
	selector ports.FileSelector,
	classifier ports.Classifier,
	cache ports.ResultCache,
	importer ports.Importer,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scanner {
	return &Scanner{
		selector:   selector,
		classifier: classifier,
		cache:      cache,
		importer:   importer,
		tracer:     tracer,
		logger:     logger,
	}
}

// pendingFile is a file that must be classified during this scan.
type pendingFile struct {
	path    string
	modTime int64
}

// Discover returns the sorted module identifiers of cfg's tree that declare models.
func (s *Scanner) Discover(ctx context.Context, cfg *domain.ScanConfig) ([]string, error) {
	report, err := s.Scan(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return report.Modules, nil
}

// Scan runs one discovery pass and reports what it found.
// Only an invalid base path or cancellation fail a scan; every other problem
// degrades to a miss, a non-model, or a log line.
func (s *Scanner) Scan(ctx context.Context, cfg *domain.ScanConfig) (*domain.DiscoveryReport, error) {
	selection, err := s.walk(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// The cache identity uses the resolved root and the full exclude list.
	effective := cfg.Clone()
	effective.BasePath = selection.BasePath
	effective.ExcludePatterns = selection.ExcludePatterns

	report := &domain.DiscoveryReport{BasePath: selection.BasePath}
	modules := domain.ModuleSet{}
	records := make(map[string]domain.FileRecord, len(selection.Files))

	cached := s.loadCache(ctx, effective)

	var pending []pendingFile
	for _, path := range selection.Files {
		if rec, ok := cached[path]; ok && !s.cache.IsModified(path, rec.ModTime) {
			rec.Path = path
			records[path] = rec
			modules.Add(rec.ModuleName())
			report.Cached++
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			s.logger.Warn(fmt.Sprintf("skipping %s: %v", path, err))
			continue
		}
		pending = append(pending, pendingFile{path: path, modTime: info.ModTime().UnixNano()})
	}

	results, err := s.classify(ctx, cfg, pending)
	if err != nil {
		return nil, err
	}

	abstract := domain.ModuleSet{}
	for i, res := range results {
		file := pending[i]
		if res.Unparsable {
			s.logger.Debug(fmt.Sprintf("treating %s as a non-model: source could not be parsed", file.path))
		}
		rec := domain.NewFileRecord(file.path, file.modTime, res.IsModel, ModulePath(selection.BasePath, file.path))
		records[file.path] = rec
		modules.Add(rec.ModuleName())
		for _, name := range res.AbstractClasses {
			abstract.Add(name)
		}
	}
	report.Scanned = len(results)
	report.AbstractClasses = abstract.Sorted()

	s.saveCache(ctx, effective, records)

	report.Modules = modules.Sorted()

	if cfg.StrictMode && len(report.Modules) > 0 {
		report.Unverified = s.verify(ctx, selection.BasePath, report.Modules)
	}

	return report, nil
}

func (s *Scanner) walk(ctx context.Context, cfg *domain.ScanConfig) (*ports.Selection, error) {
	ctx, span := s.tracer.Start(ctx, "walk")
	defer span.End()

	selection, err := s.selector.Select(ctx, cfg)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("autoscan.base_path", selection.BasePath)
	span.SetAttribute("autoscan.files", len(selection.Files))
	return selection, nil
}

func (s *Scanner) loadCache(ctx context.Context, cfg *domain.ScanConfig) map[string]domain.FileRecord {
	_, span := s.tracer.Start(ctx, "cache.load")
	defer span.End()

	records, ok := s.cache.Load(cfg)
	span.SetAttribute("autoscan.cache_hit", ok)
	if !ok {
		return nil
	}
	span.SetAttribute("autoscan.cached_files", len(records))
	return records
}

func (s *Scanner) saveCache(ctx context.Context, cfg *domain.ScanConfig, records map[string]domain.FileRecord) {
	_, span := s.tracer.Start(ctx, "cache.save")
	defer span.End()

	span.SetAttribute("autoscan.records", len(records))
	s.cache.Save(cfg, records)
}

func (s *Scanner) classify(ctx context.Context, cfg *domain.ScanConfig, pending []pendingFile) ([]domain.Classification, error) {
	ctx, span := s.tracer.Start(ctx, "classify")
	defer span.End()

	span.SetAttribute("autoscan.pending", len(pending))
	if len(pending) == 0 {
		return nil, nil
	}

	s.logger.Info(fmt.Sprintf("scanning %d files", len(pending)))

	markers := cfg.EffectiveMarkers()
	parallel := cfg.ShouldParallelize(len(pending))
	span.SetAttribute("autoscan.parallel", parallel)

	if parallel {
		results, err := s.classifyParallel(ctx, pending, &markers)
		if err == nil {
			return results, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			span.RecordError(ctxErr)
			return nil, errors.Join(domain.ErrScanCancelled, ctxErr)
		}
		s.logger.Warn(fmt.Sprintf("parallel scanning failed, falling back to serial: %v", err))
	}

	results, err := s.classifySerial(ctx, pending, &markers)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return results, nil
}

// classifyParallel classifies files on a bounded worker pool.
// Each worker writes only its own result slot.
func (s *Scanner) classifyParallel(
	ctx context.Context,
	pending []pendingFile,
	markers *domain.Markers,
) ([]domain.Classification, error) {
	results := make([]domain.Classification, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(len(pending), runtime.NumCPU()))

	for i, file := range pending {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = zerr.With(zerr.With(domain.ErrWorkerPanicked, "path", file.path), "panic", fmt.Sprint(r))
				}
			}()

			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.classifier.ClassifyFile(file.path, markers)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scanner) classifySerial(
	ctx context.Context,
	pending []pendingFile,
	markers *domain.Markers,
) ([]domain.Classification, error) {
	results := make([]domain.Classification, 0, len(pending))
	for _, file := range pending {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(domain.ErrScanCancelled, err)
		}
		results = append(results, s.classifyOne(file.path, markers))
	}
	return results, nil
}

// classifyOne classifies path, treating a panicking classifier as a non-model verdict.
func (s *Scanner) classifyOne(path string, markers *domain.Markers) (res domain.Classification) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn(fmt.Sprintf("failed to classify %s: %v", path, r))
			res = domain.Classification{Path: path}
		}
	}()
	return s.classifier.ClassifyFile(path, markers)
}

// verify imports modules and returns those that failed. Failures are logged, never returned.
func (s *Scanner) verify(ctx context.Context, basePath string, modules []string) []string {
	ctx, span := s.tracer.Start(ctx, "verify")
	defer span.End()

	report := s.importer.Import(ctx, basePath, modules)

	var failed []string
	for _, module := range modules {
		reason, ok := report.Failed[module]
		if !ok {
			continue
		}
		failed = append(failed, module)
		s.logger.Error(zerr.With(errors.Join(domain.ErrModuleUnverified, errors.New(reason)), "module", module))
	}
	slices.Sort(failed)

	span.SetAttribute("autoscan.verified", report.Count())
	if len(failed) > 0 {
		span.RecordError(zerr.With(domain.ErrModuleUnverified, "count", len(failed)))
	}
	return failed
}
