package domain

import "go.trai.ch/zerr"

var (
	// ErrBasePathInvalid is returned when the scan root does not exist or is not a directory.
	ErrBasePathInvalid = zerr.New("base path does not exist or is not a directory")

	// ErrWalkFailed is returned when the source tree cannot be enumerated.
	ErrWalkFailed = zerr.New("failed to walk source tree")

	// ErrWorkerPanicked is returned when a classification worker panics.
	ErrWorkerPanicked = zerr.New("classification worker panicked")

	// ErrScanCancelled is returned when a scan is interrupted before it completes.
	ErrScanCancelled = zerr.New("scan cancelled")

	// ErrModuleUnverified is logged when a discovered module fails strict-mode verification.
	ErrModuleUnverified = zerr.New("failed to verify module")

	// ErrCacheReadFailed is returned when the cache store cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read scan cache")

	// ErrCacheCorrupt is returned when the cache store is not valid JSON of the expected shape.
	ErrCacheCorrupt = zerr.New("scan cache is corrupt")

	// ErrCacheMarshalFailed is returned when the cache store cannot be encoded.
	ErrCacheMarshalFailed = zerr.New("failed to marshal scan cache")

	// ErrCacheWriteFailed is returned when the cache store cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write scan cache")

	// ErrCacheRemoveFailed is returned when the cache store cannot be deleted.
	ErrCacheRemoveFailed = zerr.New("failed to remove scan cache")

	// ErrConfigReadFailed is returned when a config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrConfigDecodeFailed is returned when merged settings cannot be decoded into a ScanConfig.
	ErrConfigDecodeFailed = zerr.New("failed to decode configuration")

	// ErrInvalidLogLevel is returned when a log level name is not recognized.
	ErrInvalidLogLevel = zerr.New("invalid log level, expected DEBUG, INFO, WARNING or ERROR")

	// ErrImportFailed is returned when a module cannot be imported by the interpreter.
	ErrImportFailed = zerr.New("failed to import module")

	// ErrInterpreterNotFound is returned when the Python interpreter cannot be located.
	ErrInterpreterNotFound = zerr.New("python interpreter not found")
)
