package formatting

import (
	"strings"

	"txtsync/internal/config"
)

// DestinationView is the printable summary of one configured destination.
type DestinationView struct {
	Config      string       `json:"config" yaml:"config"`
	Destination string       `json:"destination" yaml:"destination"`
	Interval    string       `json:"interval" yaml:"interval"`
	Sources     []SourceView `json:"sources" yaml:"sources"`
}

// SourceView is the printable summary of one source.
type SourceView struct {
	URL   string `json:"url" yaml:"url"`
	Strip string `json:"strip,omitempty" yaml:"strip,omitempty"`
}

// Views summarizes every destination of doc, loaded from configPath.
func Views(configPath string, doc config.Document) []DestinationView {
	views := make([]DestinationView, 0, len(doc))
	for _, spec := range doc {
		view := DestinationView{
			Config:      configPath,
			Destination: spec.Destination,
			Interval:    HumanInterval(spec.Interval()),
			Sources:     make([]SourceView, 0, len(spec.Sources)),
		}
		for _, src := range spec.Sources {
			view.Sources = append(view.Sources, SourceView{URL: src.URL, Strip: describeStrip(src)})
		}
		views = append(views, view)
	}
	return views
}

func describeStrip(src config.SourceSpec) string {
	if src.Transform == nil || !src.Transform.StripVariables.Enabled() {
		return ""
	}
	sv := src.Transform.StripVariables
	if sv.All {
		return "all"
	}
	return strings.Join(sv.Names, ", ")
}
