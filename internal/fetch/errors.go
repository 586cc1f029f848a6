package fetch

import (
	"fmt"
	"net/http"
)

// FetchError reports a source for which no content is available at all:
// the fetch failed and nothing was cached for the URL.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
