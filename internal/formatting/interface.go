// Package formatting renders configuration summaries for the txtsync CLI.
//
// The same view model is printed as a table for people or as JSON/YAML for
// scripts.
package formatting

import (
	"fmt"
	"io"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
	FormatTable OutputFormat = "table" // Rich table output
)

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected table, json or yaml)", s)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
}

// Formatter prints configuration summaries.
type Formatter interface {
	FormatDestinations(w io.Writer, views []DestinationView) error
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	default:
		return NewTableFormatter(options)
	}
}
