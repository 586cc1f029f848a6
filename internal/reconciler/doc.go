// Package reconciler keeps generated text files in sync with their remote
// sources and with the configuration that describes them.
//
// # Overview
//
// The package is built from three layers:
//
//   - Runner: runs a unit of work so that it never overlaps itself and so
//     that any number of triggers arriving while it runs collapse into one
//     rerun
//   - Destination: owns one output file and drives its rebuild cycle
//     through a Runner
//   - Supervisor: owns the destinations of one configuration file and
//     replaces them wholesale when the file changes
//
// # Rebuild Cycle
//
// A cycle fetches every source of a destination concurrently through a
// shared Fetcher (normally a *fetch.Cache), assembles the output, compares
// it with the file on disk and rewrites the file only when the body
// differs. The generated-at header line is ignored by the comparison, so a
// cycle with unchanged inputs does not touch the file.
//
// Sources that cannot be fetched at all are listed in an Error block, sources
// served from an expired cache entry in a Warning block. Neither aborts the
// cycle. Failing to read or write the destination does, and the cycle is
// retried on the next trigger.
//
// # Triggers
//
// Destinations are triggered on Start, by a periodic ticker at their update
// interval and by filesystem events on the destination or any of its
// ancestor directories. Supervisors are triggered on Start and by events on
// the configuration file. Every path on the chain is watched separately
// because fsnotify watches are not recursive, and metadata-only events are
// ignored.
//
// Example usage:
//
//	cache := fetch.NewCache()
//	sup := reconciler.NewSupervisor("/etc/txtsync/ads.yaml", cache)
//	if err := sup.Start(); err != nil {
//	    return err
//	}
//	defer sup.Close()
package reconciler
