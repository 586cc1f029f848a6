package formatting

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatDestinations writes views as a YAML sequence.
func (f *YAMLFormatter) FormatDestinations(w io.Writer, views []DestinationView) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if views == nil {
		views = []DestinationView{}
	}
	if err := enc.Encode(views); err != nil {
		return err
	}
	return enc.Close()
}
