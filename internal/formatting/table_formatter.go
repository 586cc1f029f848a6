package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatDestinations renders one row per destination.
func (f *TableFormatter) FormatDestinations(w io.Writer, views []DestinationView) error {
	if len(views) == 0 {
		_, err := fmt.Fprint(w, f.formatEmptyMessage("No destinations configured"))
		return err
	}

	t := f.createTable(w)
	t.AppendHeader(table.Row{
		f.header("CONFIG"),
		f.header("DESTINATION"),
		f.header("INTERVAL"),
		f.header("SOURCES"),
	})

	for _, v := range views {
		sources := make([]string, 0, len(v.Sources))
		for _, s := range v.Sources {
			if s.Strip != "" {
				sources = append(sources, fmt.Sprintf("%s (strip: %s)", s.URL, s.Strip))
			} else {
				sources = append(sources, s.URL)
			}
		}
		if len(sources) == 0 {
			sources = append(sources, f.warn("none"))
		}
		t.AppendRow(table.Row{v.Config, v.Destination, v.Interval, strings.Join(sources, "\n")})
		t.AppendSeparator()
	}

	t.Render()
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(s string) string {
	if !f.options.Color {
		return s
	}
	return text.FgHiCyan.Sprint(s)
}

func (f *TableFormatter) warn(s string) string {
	if !f.options.Color {
		return s
	}
	return text.FgYellow.Sprint(s)
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(message string) string {
	return f.warn(message) + "\n"
}
