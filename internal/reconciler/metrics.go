package reconciler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the result label on txtsync_destination_cycles_total.
const (
	cycleWritten   = "written"
	cycleUnchanged = "unchanged"
	cycleFailed    = "failed"
)

// Values of the result label on txtsync_config_reloads_total.
const (
	reloadSucceeded = "success"
	reloadFailed    = "failure"
)

var (
	destinationCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "txtsync",
		Subsystem: "destination",
		Name:      "cycles_total",
		Help:      "Rebuild cycles by result: written, unchanged or failed.",
	}, []string{"result"})

	destinationWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "txtsync",
		Subsystem: "destination",
		Name:      "writes_total",
		Help:      "Destination files rewritten.",
	})

	destinationCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "txtsync",
		Subsystem: "destination",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of rebuild cycles, fetches included.",
		Buckets:   prometheus.DefBuckets,
	})

	activeDestinations = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "txtsync",
		Name:      "destinations",
		Help:      "Destinations currently held by all supervisors.",
	})

	configReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "txtsync",
		Subsystem: "config",
		Name:      "reloads_total",
		Help:      "Configuration reloads by result.",
	}, []string{"result"})
)

func recordCycle(result string, d time.Duration) {
	destinationCycles.WithLabelValues(result).Inc()
	destinationCycleDuration.Observe(d.Seconds())
	if result == cycleWritten {
		destinationWrites.Inc()
	}
}

func recordReload(result string) {
	configReloads.WithLabelValues(result).Inc()
}
