package logger

// Exported for white-box tests of error rendering.
var (
	CollectErrorMessages = collectErrorMessages
	FormatErrorMessages  = formatErrorMessages
)
