package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"golang.org/x/sync/singleflight"

	"txtsync/pkg/logging"
)

const (
	// DefaultHTTPTimeout is the default timeout for source requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every source request unless overridden.
	DefaultUserAgent = "txtsync"

	// MaxContentSize bounds the body accepted from a single source.
	MaxContentSize = 10 << 20
)

// Result is the content served for a source.
type Result struct {
	Content string

	// Fresh is false when the network fetch failed and Content comes from
	// an earlier successful fetch of any age.
	Fresh bool
}

// cacheEntry holds fetched content with its timestamp.
// Entries are replaced, never mutated.
type cacheEntry struct {
	content   string
	fetchedAt time.Time
}

// Cache fetches text documents over HTTP and keeps the last successful
// response per URL for the lifetime of the process.
//
// Freshness is decided per call against the caller's TTL, so destinations
// with different update intervals can share entries. A Cache is safe for
// concurrent use and is meant to be shared by every destination in a process.
type Cache struct {
	httpClient *http.Client
	clock      clock.Clock
	userAgent  string

	mu      sync.RWMutex
	entries map[string]*cacheEntry

	// group collapses concurrent network fetches of the same URL
	group singleflight.Group
}

// Option configures the cache.
type Option func(*Cache)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Cache) {
		c.httpClient = httpClient
	}
}

// WithClock sets the clock used for freshness checks.
func WithClock(clk clock.Clock) Option {
	return func(c *Cache) {
		c.clock = clk
	}
}

// WithUserAgent sets the User-Agent header sent to sources.
func WithUserAgent(userAgent string) Option {
	return func(c *Cache) {
		c.userAgent = userAgent
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		clock:      clock.NewClock(),
		userAgent:  DefaultUserAgent,
		entries:    make(map[string]*cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch returns the content of url.
//
// An entry younger than ttl is served without a network call. Otherwise the
// URL is fetched; a 2xx response replaces the entry. When the fetch fails
// (transport error or non-2xx status) the previous entry is served with
// Fresh set to false, and when there is none a *FetchError is returned.
func (c *Cache) Fetch(ctx context.Context, url string, ttl time.Duration) (Result, error) {
	if entry, ok := c.fresh(url, ttl); ok {
		recordFetch(resultCached)
		return Result{Content: entry.content, Fresh: true}, nil
	}

	v, err, _ := c.group.Do(url, func() (interface{}, error) {
		// Another caller may have stored a response while we waited.
		if entry, ok := c.fresh(url, ttl); ok {
			recordFetch(resultCached)
			return entry.content, nil
		}

		content, err := c.download(ctx, url)
		if err != nil {
			return nil, err
		}
		c.store(url, content)
		recordFetch(resultFetched)
		return content, nil
	})
	if err == nil {
		return Result{Content: v.(string), Fresh: true}, nil
	}

	if entry, ok := c.lookup(url); ok {
		recordFetch(resultStale)
		logging.Warn("FetchCache", "Serving stale content for %s fetched at %s: %v",
			url, entry.fetchedAt.Format(time.RFC3339), err)
		return Result{Content: entry.content, Fresh: false}, nil
	}

	recordFetch(resultFailed)
	return Result{}, &FetchError{URL: url, Err: err}
}

// Len returns the number of cached URLs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(url string) (*cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[url]
	return entry, ok
}

func (c *Cache) fresh(url string, ttl time.Duration) (*cacheEntry, bool) {
	entry, ok := c.lookup(url)
	if !ok || c.clock.Since(entry.fetchedAt) >= ttl {
		return nil, false
	}
	return entry, true
}

// store records a successful response.
func (c *Cache) store(url, content string) {
	c.mu.Lock()
	c.entries[url] = &cacheEntry{
		content:   content,
		fetchedAt: c.clock.Now(),
	}
	c.mu.Unlock()

	logging.Debug("FetchCache", "Cached %d bytes from %s", len(content), url)
}

// download performs the HTTP request for url.
func (c *Cache) download(ctx context.Context, url string) (string, error) {
	start := c.clock.Now()
	defer func() {
		observeFetchDuration(c.clock.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxContentSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxContentSize {
		return "", fmt.Errorf("response body exceeds %d bytes", MaxContentSize)
	}

	return string(body), nil
}
