package domain

import (
	"io"
	"strings"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatJS writes the forest as a CommonJS data module (module.exports = [...]).
	OutputFormatJS OutputFormat = "js"
)

// ParseOutputFormat converts a user supplied name into an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return OutputFormatText, nil
	case "json":
		return OutputFormatJSON, nil
	case "yaml", "yml":
		return OutputFormatYAML, nil
	case "js", "javascript":
		return OutputFormatJS, nil
	default:
		return "", NewUnsupportedFormatError(name)
	}
}

// FileReader discovers and reads source files
type FileReader interface {
	// CollectSourceFiles finds all JavaScript/TypeScript files in the given paths, in walk order
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidSourceFile checks if a file has a supported extension
	IsValidSourceFile(path string) bool

	// FileExists checks if a file exists
	FileExists(path string) (bool, error)
}

// ProgressManager manages progress tracking for analysis
type ProgressManager interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Start starts the progress bar
	Start()

	// Complete marks the progress as completed
	Complete(success bool)

	// Update updates the progress
	Update(processed, total int)

	// SetWriter sets the output writer for progress bars
	SetWriter(writer io.Writer)

	// IsInteractive returns true if progress bars should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}

// ReportWriter writes a formatted report to a file or writer
type ReportWriter interface {
	// Write runs writeFunc against outputPath when set, otherwise against writer
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}
