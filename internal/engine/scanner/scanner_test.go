package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/autoscan/internal/core/domain"
	"go.trai.ch/autoscan/internal/core/ports"
	"go.trai.ch/autoscan/internal/core/ports/mocks"
	"go.trai.ch/autoscan/internal/engine/scanner"
	"go.uber.org/mock/gomock"
)

type scannerTestMocks struct {
	selector   *mocks.MockFileSelector
	classifier *mocks.MockClassifier
	cache      *mocks.MockResultCache
	importer   *mocks.MockImporter
	tracer     *mocks.MockTracer
	logger     *mocks.MockLogger
}

// setupScannerTest creates a scanner and common mocks.
func setupScannerTest(t *testing.T) (*scanner.Scanner, scannerTestMocks) {
	t.Helper()
	return setupScannerTestWithLogger(t, nil)
}

// setupScannerTestWithLogger runs expect on the logger mock before the catch-all expectations.
func setupScannerTestWithLogger(
	t *testing.T,
	expect func(*mocks.MockLogger),
) (*scanner.Scanner, scannerTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := scannerTestMocks{
		selector:   mocks.NewMockFileSelector(ctrl),
		classifier: mocks.NewMockClassifier(ctrl),
		cache:      mocks.NewMockResultCache(ctrl),
		importer:   mocks.NewMockImporter(ctrl),
		tracer:     mocks.NewMockTracer(ctrl),
		logger:     mocks.NewMockLogger(ctrl),
	}

	mockSpan := mocks.NewMockSpan(ctrl)
	mockSpan.EXPECT().End().AnyTimes()
	mockSpan.EXPECT().RecordError(gomock.Any()).AnyTimes()
	mockSpan.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, mockSpan
		},
	).AnyTimes()

	if expect != nil {
		expect(m.logger)
	}
	m.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	s := scanner.New(m.selector, m.classifier, m.cache, m.importer, m.tracer, m.logger)
	return s, m
}

// touch creates empty files under base and returns their paths.
func touch(t *testing.T, base string, rels ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(rels))
	for _, rel := range rels {
		path := filepath.Join(base, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, nil, domain.FilePerm))
		paths = append(paths, path)
	}
	return paths
}

func scanConfig(base string) *domain.ScanConfig {
	cfg := domain.DefaultScanConfig()
	cfg.BasePath = base
	return &cfg
}

func TestScanner_ReplaysUnchangedFiles(t *testing.T) {
	s, m := setupScannerTest(t)
	base := t.TempDir()
	files := touch(t, base, "app/cached.py", "app/fresh.py", "app/__init__.py")
	cfg := scanConfig(base)

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{
		BasePath:        base,
		Files:           files,
		ExcludePatterns: []string{"**/tests/**"},
	}, nil)

	m.cache.EXPECT().Load(gomock.Any()).DoAndReturn(func(c *domain.ScanConfig) (map[string]domain.FileRecord, bool) {
		assert.Equal(t, []string{"**/tests/**"}, c.ExcludePatterns)
		return map[string]domain.FileRecord{
			files[0]: domain.NewFileRecord(files[0], 1, true, "app.cached"),
			files[1]: domain.NewFileRecord(files[1], 1, false, ""),
		}, true
	})
	m.cache.EXPECT().IsModified(files[0], int64(1)).Return(false)
	m.cache.EXPECT().IsModified(files[1], int64(1)).Return(true)

	m.classifier.EXPECT().ClassifyFile(files[1], gomock.Any()).Return(domain.Classification{Path: files[1], IsModel: true})
	m.classifier.EXPECT().ClassifyFile(files[2], gomock.Any()).Return(domain.Classification{Path: files[2], IsModel: true})

	m.cache.EXPECT().Save(gomock.Any(), gomock.Any()).Do(func(_ *domain.ScanConfig, records map[string]domain.FileRecord) {
		require.Len(t, records, 3)
		assert.Equal(t, "app.cached", records[files[0]].ModuleName())
		assert.Equal(t, "app.fresh", records[files[1]].ModuleName())
		assert.Equal(t, "app", records[files[2]].ModuleName())
		assert.NotEqual(t, int64(1), records[files[1]].ModTime)
	})

	report, err := s.Scan(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"app", "app.cached", "app.fresh"}, report.Modules)
	assert.Equal(t, 1, report.Cached)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, base, report.BasePath)
}

func TestScanner_DropsRecordsOfVanishedFiles(t *testing.T) {
	s, m := setupScannerTest(t)
	base := t.TempDir()
	files := touch(t, base, "a.py")
	cfg := scanConfig(base)

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{BasePath: base, Files: files}, nil)
	m.cache.EXPECT().Load(gomock.Any()).Return(map[string]domain.FileRecord{
		files[0]:                    domain.NewFileRecord(files[0], 1, false, ""),
		filepath.Join(base, "b.py"): domain.NewFileRecord(filepath.Join(base, "b.py"), 1, true, "b"),
	}, true)
	m.cache.EXPECT().IsModified(files[0], int64(1)).Return(false)
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any()).Do(func(_ *domain.ScanConfig, records map[string]domain.FileRecord) {
		assert.Len(t, records, 1)
	})

	modules, err := s.Discover(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, modules)
}

func TestScanner_SelectorFailureIsFatal(t *testing.T) {
	s, m := setupScannerTest(t)
	cfg := scanConfig("/does/not/exist")

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(nil, domain.ErrBasePathInvalid)

	_, err := s.Discover(context.Background(), cfg)
	require.ErrorContains(t, err, domain.ErrBasePathInvalid.Error())
}

func TestScanner_TracksAbstractClasses(t *testing.T) {
	s, m := setupScannerTest(t)
	base := t.TempDir()
	files := touch(t, base, "a.py", "b.py")
	cfg := scanConfig(base)

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{BasePath: base, Files: files}, nil)
	m.cache.EXPECT().Load(gomock.Any()).Return(nil, false)
	m.classifier.EXPECT().ClassifyFile(files[0], gomock.Any()).Return(domain.Classification{AbstractClasses: []string{"Timestamped", "AbstractBase"}})
	m.classifier.EXPECT().ClassifyFile(files[1], gomock.Any()).Return(domain.Classification{IsModel: true, AbstractClasses: []string{"AbstractBase"}})
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any())

	report, err := s.Scan(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, report.Modules)
	assert.Equal(t, []string{"AbstractBase", "Timestamped"}, report.AbstractClasses)
}

func TestScanner_LogsUnparsableFiles(t *testing.T) {
	base := t.TempDir()
	files := touch(t, base, "broken.py", "models.py")
	s, m := setupScannerTestWithLogger(t, func(log *mocks.MockLogger) {
		log.EXPECT().Debug("treating " + files[0] + " as a non-model: source could not be parsed")
	})
	cfg := scanConfig(base)

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{BasePath: base, Files: files}, nil)
	m.cache.EXPECT().Load(gomock.Any()).Return(nil, false)
	m.classifier.EXPECT().ClassifyFile(files[0], gomock.Any()).Return(domain.Classification{Path: files[0], Unparsable: true})
	m.classifier.EXPECT().ClassifyFile(files[1], gomock.Any()).Return(domain.Classification{Path: files[1], IsModel: true})
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any()).Do(func(_ *domain.ScanConfig, records map[string]domain.FileRecord) {
		require.Len(t, records, 2)
		assert.False(t, records[files[0]].IsModel)
	})

	report, err := s.Scan(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"models"}, report.Modules)
}

func TestScanner_PassesMergedMarkers(t *testing.T) {
	s, m := setupScannerTest(t)
	base := t.TempDir()
	files := touch(t, base, "a.py")
	cfg := scanConfig(base)
	cfg.Markers = domain.Markers{BaseNames: []string{"Entity"}}

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{BasePath: base, Files: files}, nil)
	m.cache.EXPECT().Load(gomock.Any()).Return(nil, false)
	m.classifier.EXPECT().ClassifyFile(files[0], gomock.Any()).DoAndReturn(
		func(path string, markers *domain.Markers) domain.Classification {
			assert.Contains(t, markers.BaseNames, "Entity")
			assert.Contains(t, markers.BaseNames, "Base")
			return domain.Classification{Path: path}
		},
	)
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any())

	_, err := s.Discover(context.Background(), cfg)
	require.NoError(t, err)
}

func TestScanner_StrictModeLogsFailures(t *testing.T) {
	s, m := setupScannerTest(t)
	base := t.TempDir()
	files := touch(t, base, "good.py", "bad.py")
	cfg := scanConfig(base)
	cfg.StrictMode = true

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{BasePath: base, Files: files}, nil)
	m.cache.EXPECT().Load(gomock.Any()).Return(nil, false)
	m.classifier.EXPECT().ClassifyFile(gomock.Any(), gomock.Any()).Return(domain.Classification{IsModel: true}).Times(2)
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any())
	m.importer.EXPECT().Import(gomock.Any(), base, []string{"bad", "good"}).Return(&domain.ImportReport{
		Imported: []string{"good"},
		Failed:   map[string]string{"bad": "ImportError: boom"},
	})
	m.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, domain.ErrModuleUnverified.Error())
		assert.ErrorContains(t, err, "ImportError: boom")
	}).Times(1)

	report, err := s.Scan(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"bad", "good"}, report.Modules, "unverified modules stay in the result")
	assert.Equal(t, []string{"bad"}, report.Unverified)
}

func TestScanner_StrictModeSkipsEmptyResult(t *testing.T) {
	s, m := setupScannerTest(t)
	base := t.TempDir()
	cfg := scanConfig(base)
	cfg.StrictMode = true

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{BasePath: base}, nil)
	m.cache.EXPECT().Load(gomock.Any()).Return(nil, false)
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any())

	modules, err := s.Discover(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, modules)
}

// panicOnce panics the first time it classifies the named file.
type panicOnce struct {
	target   string
	panicked atomic.Bool
}

func (p *panicOnce) ClassifyFile(path string, _ *domain.Markers) domain.Classification {
	if path == p.target && p.panicked.CompareAndSwap(false, true) {
		panic("tree-sitter exploded")
	}
	return domain.Classification{Path: path, IsModel: true}
}

func TestScanner_ParallelPanicFallsBackToSerial(t *testing.T) {
	_, m := setupScannerTest(t)
	base := t.TempDir()
	files := touch(t, base, "a.py", "b.py", "c.py", "d.py")
	cfg := scanConfig(base)
	cfg.ParallelEnabled = new(bool)
	*cfg.ParallelEnabled = true

	classifier := &panicOnce{target: files[2]}
	s := scanner.New(m.selector, classifier, m.cache, m.importer, m.tracer, m.logger)

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{BasePath: base, Files: files}, nil)
	m.cache.EXPECT().Load(gomock.Any()).Return(nil, false)
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any())
	m.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "falling back to serial")
	}).Times(1)

	modules, err := s.Discover(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, modules)
}

// alwaysPanics panics on every file.
type alwaysPanics struct{}

func (alwaysPanics) ClassifyFile(string, *domain.Markers) domain.Classification {
	panic("broken")
}

func TestScanner_SerialPanicIsNonModel(t *testing.T) {
	_, m := setupScannerTest(t)
	base := t.TempDir()
	files := touch(t, base, "a.py")
	cfg := scanConfig(base)

	s := scanner.New(m.selector, alwaysPanics{}, m.cache, m.importer, m.tracer, m.logger)

	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{BasePath: base, Files: files}, nil)
	m.cache.EXPECT().Load(gomock.Any()).Return(nil, false)
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any())
	m.logger.EXPECT().Warn(gomock.Any()).Times(1)

	modules, err := s.Discover(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, modules)
}

func TestScanner_Cancelled(t *testing.T) {
	s, m := setupScannerTest(t)
	base := t.TempDir()
	files := touch(t, base, "a.py", "b.py")
	cfg := scanConfig(base)

	ctx, cancel := context.WithCancel(context.Background())
	m.selector.EXPECT().Select(gomock.Any(), cfg).Return(&ports.Selection{BasePath: base, Files: files}, nil)
	m.cache.EXPECT().Load(gomock.Any()).DoAndReturn(func(*domain.ScanConfig) (map[string]domain.FileRecord, bool) {
		cancel()
		return nil, false
	})

	_, err := s.Discover(ctx, cfg)
	require.ErrorIs(t, err, domain.ErrScanCancelled)
}

func TestModulePath(t *testing.T) {
	t.Parallel()

	base := filepath.FromSlash("/srv/app")
	tests := []struct {
		path string
		want string
	}{
		{path: "/srv/app/models.py", want: "models"},
		{path: "/srv/app/pkg/models/user.py", want: "pkg.models.user"},
		{path: "/srv/app/pkg/__init__.py", want: "pkg"},
		{path: "/srv/app/__init__.py", want: ""},
		{path: "/srv/other/models.py", want: ""},
		{path: "/srv/app/pkg/module.pyx.py", want: "pkg.module.pyx"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scanner.ModulePath(base, filepath.FromSlash(tt.path)))
		})
	}
}
