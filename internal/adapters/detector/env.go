// Package detector provides environment detection for log format selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the format diagnostics are written in.
type LogFormat int

const (
	// FormatAuto defers to environment detection.
	FormatAuto LogFormat = iota
	// FormatPretty writes colored human-readable lines.
	FormatPretty
	// FormatJSON writes one JSON object per line.
	FormatJSON
)

// String returns the format name.
func (f LogFormat) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended log format based on the environment.
// It checks if stderr is a TTY and if CI environment variables are set.
func DetectEnvironment() LogFormat {
	return detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) LogFormat {
	isCI := ci == "true" || ci == "1"
	if !isTTY || isCI {
		return FormatJSON
	}
	return FormatPretty
}

// ResolveFormat applies the explicit JSON request from flags or configuration.
func ResolveFormat(autoDetected LogFormat, forceJSON bool) LogFormat {
	if forceJSON {
		return FormatJSON
	}
	if autoDetected == FormatAuto {
		return FormatPretty
	}
	return autoDetected
}
