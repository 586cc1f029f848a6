package config

import (
	"fmt"
	"strings"
)

// Error types reported by ParseError.ErrorType.
const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
)

// ParseError reports a configuration file that could not be loaded.
// A reload that fails with a ParseError leaves the previously loaded
// destinations running.
type ParseError struct {
	FilePath    string   `json:"filePath"`    // Full path to the file that caused the error
	ErrorType   string   `json:"errorType"`   // io, parse or validation
	Message     string   `json:"message"`     // Human-readable error message
	Suggestions []string `json:"suggestions"` // Actionable suggestions to fix the error
	Err         error    `json:"-"`
}

// Error implements the error interface
func (pe *ParseError) Error() string {
	return fmt.Sprintf("configuration %s (%s): %s", pe.FilePath, pe.ErrorType, pe.Message)
}

// Unwrap returns the underlying decode or I/O error.
func (pe *ParseError) Unwrap() error {
	return pe.Err
}

// DetailedError returns a detailed error message with all context
func (pe *ParseError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Configuration Error in %s", pe.FilePath))
	parts = append(parts, fmt.Sprintf("  Type: %s", pe.ErrorType))
	parts = append(parts, fmt.Sprintf("  Error: %s", pe.Message))

	if len(pe.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range pe.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

func newParseError(filePath, errorType string, err error, suggestions ...string) *ParseError {
	return &ParseError{
		FilePath:    filePath,
		ErrorType:   errorType,
		Message:     err.Error(),
		Suggestions: suggestions,
		Err:         err,
	}
}
