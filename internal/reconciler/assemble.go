package reconciler

import (
	"strings"
	"time"
)

const (
	// generatedHeaderPrefix starts the first line of every assembled file.
	generatedHeaderPrefix = "# Generated by txtsync on "

	emptySourcesWarning = "# Warning: no sources configured\n"

	failedBlockHeader = "# Error: the following sources could not be fetched:\n"
	staleBlockHeader  = "# Warning: the following sources are stale (served from cache):\n"
)

type sourceStatus int

const (
	statusFresh sourceStatus = iota
	statusStale
	statusFailed
)

// sourceOutcome is the result of fetching one source during a cycle.
// content is empty for failed sources.
type sourceOutcome struct {
	url     string
	content string
	status  sourceStatus
}

// assemble builds the desired destination content from outcomes, which are
// in configuration order.
func assemble(now time.Time, outcomes []sourceOutcome) string {
	if len(outcomes) == 0 {
		return emptySourcesWarning
	}

	var failed, stale []string
	for _, o := range outcomes {
		switch o.status {
		case statusFailed:
			failed = append(failed, o.url)
		case statusStale:
			stale = append(stale, o.url)
		}
	}

	var b strings.Builder
	b.WriteString(generatedHeaderPrefix)
	b.WriteString(now.UTC().Format(time.RFC3339))
	b.WriteString("\n\n")

	writeURLBlock(&b, failedBlockHeader, failed)
	writeURLBlock(&b, staleBlockHeader, stale)

	for _, o := range outcomes {
		if o.status == statusFailed {
			continue
		}
		b.WriteString("# ")
		b.WriteString(o.url)
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(o.content, "\r\n"))
		b.WriteString("\n\n")
	}

	return b.String()
}

func writeURLBlock(b *strings.Builder, header string, urls []string) {
	if len(urls) == 0 {
		return
	}
	b.WriteString(header)
	for _, u := range urls {
		b.WriteString("# ")
		b.WriteString(u)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// sameBody reports whether current and desired differ at most in the
// generation header line.
func sameBody(current, desired string) bool {
	return stripGeneratedHeader(current) == stripGeneratedHeader(desired)
}

func stripGeneratedHeader(s string) string {
	if !strings.HasPrefix(s, generatedHeaderPrefix) {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return ""
}
