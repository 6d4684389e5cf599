package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/jscan/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns map[domain.ErrorCategory][]string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		codes:    initializeErrorCodes(),
		patterns: initializeErrorPatterns(),
	}
}

func initializeErrorCodes() map[string]domain.ErrorCategory {
	return map[string]domain.ErrorCategory{
		domain.ErrCodeInvalidInput:      domain.ErrorCategoryInput,
		domain.ErrCodeFileNotFound:      domain.ErrorCategoryInput,
		domain.ErrCodeConfigError:       domain.ErrorCategoryConfig,
		domain.ErrCodeParseError:        domain.ErrorCategoryProcessing,
		domain.ErrCodeAnalysisError:     domain.ErrorCategoryProcessing,
		domain.ErrCodeDistanceError:     domain.ErrorCategoryProcessing,
		domain.ErrCodeWorkerFailed:      domain.ErrorCategoryProcessing,
		domain.ErrCodeOutputError:       domain.ErrorCategoryOutput,
		domain.ErrCodeUnsupportedFormat: domain.ErrorCategoryOutput,
	}
}

// initializeErrorPatterns covers errors that carry no domain code
func initializeErrorPatterns() map[domain.ErrorCategory][]string {
	return map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"no such file",
			"permission denied",
			"not a directory",
		},
		domain.ErrorCategoryConfig: {
			"config",
			"toml",
		},
		domain.ErrorCategoryOutput: {
			"unknown flag",
			"unsupported format",
		},
	}
}

// Categorize determines the category of an error. Domain error codes win
// over message patterns; context errors are timeouts.
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	category := ec.categoryOf(err)
	message := ec.getCategoryMessage(category)
	if category == domain.ErrorCategoryUnknown {
		message = err.Error()
	}
	return &domain.CategorizedError{
		Category: category,
		Message:  message,
		Original: err,
	}
}

func (ec *ErrorCategorizerImpl) categoryOf(err error) domain.ErrorCategory {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrorCategoryTimeout
	}

	var de domain.DomainError
	if errors.As(err, &de) {
		if category, ok := ec.codes[de.Code]; ok {
			return category
		}
	}

	errMsg := strings.ToLower(err.Error())
	for _, category := range []domain.ErrorCategory{
		domain.ErrorCategoryInput,
		domain.ErrorCategoryConfig,
		domain.ErrorCategoryOutput,
	} {
		if containsAnyPattern(errMsg, ec.patterns[category]) {
			return category
		}
	}
	return domain.ErrorCategoryUnknown
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the folders exist and contain .js/.ts files",
			"Try: jscan cluster . --verbose to see which files are collected",
			"Check --include and --exclude patterns",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: jscan init to generate a valid .jscan.toml",
		},
		domain.ErrorCategoryTimeout: {
			"The run was cancelled before the distance matrix was complete",
			"Try clustering a smaller folder set",
		},
		domain.ErrorCategoryOutput: {
			"Use --format text, json, yaml or js",
			"Check that the output path is writable",
		},
		domain.ErrorCategoryProcessing: {
			"A matrix worker failed; run with --verbose for details",
			"Try --workers 1 to isolate the failing snippet range",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to process input files or directories",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Clustering was cancelled",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while computing structural distances",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
