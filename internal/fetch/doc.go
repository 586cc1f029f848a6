// Package fetch provides the shared HTTP fetch cache used by every
// destination reconciler in a txtsync process.
//
// Entries are keyed by URL only and are never evicted. Each call supplies its
// own TTL; an entry younger than the TTL is served without touching the
// network. When a refetch fails, the last good content is served with
// Result.Fresh set to false so the caller can flag it as stale. Only a URL
// that has never been fetched successfully yields a *FetchError.
//
// Concurrent fetches of one URL are collapsed with singleflight.
package fetch
