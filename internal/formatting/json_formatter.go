package formatting

import (
	"fmt"
	"io"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatDestinations writes views as an indented JSON array.
func (f *JSONFormatter) FormatDestinations(w io.Writer, views []DestinationView) error {
	if views == nil {
		views = []DestinationView{}
	}
	_, err := fmt.Fprintln(w, PrettyJSON(views))
	return err
}
