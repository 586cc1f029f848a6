package fetch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the result label on txtsync_fetch_requests_total.
const (
	resultCached  = "cached"
	resultFetched = "fetched"
	resultStale   = "stale"
	resultFailed  = "failed"
)

var (
	fetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "txtsync",
		Subsystem: "fetch",
		Name:      "requests_total",
		Help:      "Source lookups by outcome: cached (no network), fetched, stale (served after a failed fetch) or failed.",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "txtsync",
		Subsystem: "fetch",
		Name:      "duration_seconds",
		Help:      "Duration of HTTP requests to sources.",
		Buckets:   prometheus.DefBuckets,
	})
)

func recordFetch(result string) {
	fetchRequests.WithLabelValues(result).Inc()
}

func observeFetchDuration(d time.Duration) {
	fetchDuration.Observe(d.Seconds())
}
