package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Document is a parsed configuration file: one or more destinations in
// file order. A file holding a single mapping yields a one-element Document.
type Document []DestinationSpec

// DestinationSpec describes one output file and the sources assembled into it.
type DestinationSpec struct {
	// Destination is the path of the generated file.
	Destination string `yaml:"destination"`

	// Sources are fetched and concatenated in this order.
	Sources []SourceSpec `yaml:"sources"`

	// UpdateInterval is the raw interval string, e.g. "6h" or "1d".
	// Use Interval for the parsed value.
	UpdateInterval string `yaml:"updateInterval,omitempty"`
}

// Interval returns the refresh period of the destination, falling back to
// DefaultUpdateInterval when UpdateInterval is absent or unparsable.
func (d DestinationSpec) Interval() time.Duration {
	return ParseInterval(d.UpdateInterval)
}

// SourceSpec is a single remote document feeding a destination.
type SourceSpec struct {
	URL       string         `yaml:"source"`
	Transform *TransformSpec `yaml:"transform,omitempty"`
}

// TransformSpec configures the text filter applied to a fetched source.
type TransformSpec struct {
	StripVariables *StripVariables `yaml:"strip_variables,omitempty"`
}

// StripVariables selects which `key = value` declarations are removed.
// All strips every declaration; otherwise only the listed names are removed.
type StripVariables struct {
	All   bool
	Names []string
}

// UnmarshalYAML accepts either a single destination mapping or a sequence of them.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var spec DestinationSpec
		if err := node.Decode(&spec); err != nil {
			return err
		}
		*d = Document{spec}
		return nil
	case yaml.SequenceNode:
		specs := make([]DestinationSpec, 0, len(node.Content))
		for _, item := range node.Content {
			var spec DestinationSpec
			if err := item.Decode(&spec); err != nil {
				return err
			}
			specs = append(specs, spec)
		}
		*d = specs
		return nil
	default:
		return fmt.Errorf("line %d: expected a destination mapping or a list of destinations", node.Line)
	}
}

// UnmarshalYAML decodes a destination and rejects entries lacking the
// required destination or sources keys. An explicitly empty source list is
// allowed.
func (d *DestinationSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: destination entry must be a mapping", node.Line)
	}

	var raw struct {
		Destination    string        `yaml:"destination"`
		Sources        *[]SourceSpec `yaml:"sources"`
		UpdateInterval string        `yaml:"updateInterval"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if err := ValidateRequired("destination", raw.Destination, "destination entry"); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	if raw.Sources == nil {
		return fmt.Errorf("line %d: %w", node.Line, ValidationError{
			Field:   "sources",
			Message: fmt.Sprintf("is required for destination %s", raw.Destination),
		})
	}

	d.Destination = raw.Destination
	d.Sources = *raw.Sources
	d.UpdateInterval = raw.UpdateInterval
	return nil
}

// UnmarshalYAML accepts a bare URL string or a {source, transform} mapping.
func (s *SourceSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var url string
		if err := node.Decode(&url); err != nil {
			return err
		}
		if err := ValidateRequired("source", url, "source entry"); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*s = SourceSpec{URL: url}
		return nil
	case yaml.MappingNode:
		var raw struct {
			URL       string         `yaml:"source"`
			Transform *TransformSpec `yaml:"transform"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if err := ValidateRequired("source", raw.URL, "source entry"); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*s = SourceSpec{URL: raw.URL, Transform: raw.Transform}
		return nil
	default:
		return fmt.Errorf("line %d: source must be a URL or a mapping with a source key", node.Line)
	}
}

// UnmarshalYAML accepts `true`, `false` or a list of variable names.
func (v *StripVariables) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var all bool
		if err := node.Decode(&all); err != nil {
			return fmt.Errorf("line %d: strip_variables must be a boolean or a list of names", node.Line)
		}
		*v = StripVariables{All: all}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		// An empty list strips everything, same as true.
		*v = StripVariables{All: len(names) == 0, Names: names}
		return nil
	default:
		return fmt.Errorf("line %d: strip_variables must be a boolean or a list of names", node.Line)
	}
}

// Enabled reports whether any stripping was requested.
func (v *StripVariables) Enabled() bool {
	return v != nil && (v.All || len(v.Names) > 0)
}
