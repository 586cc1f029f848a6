// Package transform implements the stateless text filters that can be
// applied to a fetched source before it is assembled into a destination.
package transform

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"txtsync/internal/config"
)

// variablePattern matches `key = value` declaration lines such as
// `contact=adops@example.com` or `OWNERDOMAIN = example.com`.
var variablePattern = regexp.MustCompile(`^\s*([^\s#=,]+)\s*=`)

// Apply runs the transforms configured in spec over content. A nil spec
// returns content unchanged.
func Apply(spec *config.TransformSpec, content string) string {
	if spec == nil || !spec.StripVariables.Enabled() {
		return content
	}
	return StripVariables(content, spec.StripVariables)
}

// StripVariables removes `key = value` declaration lines. When opts.All is
// set every declaration is removed; otherwise only declarations whose key
// case-insensitively matches one of opts.Names. Comment lines and lines not
// shaped like a declaration are kept verbatim.
func StripVariables(content string, opts *config.StripVariables) string {
	if !opts.Enabled() {
		return content
	}

	// A Caser must not be shared between goroutines.
	fold := cases.Fold()
	names := make(map[string]struct{}, len(opts.Names))
	for _, n := range opts.Names {
		names[fold.String(strings.TrimSpace(n))] = struct{}{}
	}

	lines := strings.SplitAfter(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strip(fold, line, opts.All, names) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "")
}

func strip(fold cases.Caser, line string, all bool, names map[string]struct{}) bool {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return false
	}
	m := variablePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	if all {
		return true
	}
	_, ok := names[fold.String(m[1])]
	return ok
}
