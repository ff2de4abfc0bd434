// Package detector selects the log format for the current environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the rendering of log records on stderr.
type LogFormat int

const (
	// FormatAuto lets the environment decide.
	FormatAuto LogFormat = iota
	// FormatPretty renders styled, human-oriented records.
	FormatPretty
	// FormatJSON renders one JSON object per record.
	FormatJSON
)

// DetectEnvironment returns the recommended log format.
// CI runs whose stderr is not a terminal get JSON; everything else gets pretty output.
func DetectEnvironment() LogFormat {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if isCI && !isTTY {
		return FormatJSON
	}
	return FormatPretty
}

// ResolveFormat applies the user's --log-format value to the detected format.
// userFlag should be one of: "auto", "pretty", "text", "json", or empty.
func ResolveFormat(autoDetected LogFormat, userFlag string) LogFormat {
	switch userFlag {
	case "pretty", "text":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return autoDetected
	}
}
