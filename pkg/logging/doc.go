// Package logging provides subsystem-tagged structured logging for txtsync.
//
// The package is a thin layer over Go's standard slog package. Every entry
// carries a subsystem attribute so that output from the supervisor, the
// destination reconcilers and the fetch cache can be told apart when several
// configuration files are served by one process.
//
// # Log Levels
//   - **Debug**: per-cycle detail (fetch results, skipped watches, no-op cycles)
//   - **Info**: lifecycle events (configuration loaded, destination written)
//   - **Warn**: degraded operation (stale sources, failed sources)
//   - **Error**: aborted cycles (configuration parse failures, destination I/O)
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Supervisor", "Loaded %d destinations from %s", n, path)
//	logging.Error("Destination", err, "Rebuild of %s failed", path)
//
// Init selects between a text and a JSON handler:
//
//	logging.Init(logging.LevelDebug, os.Stderr, logging.FormatJSON)
//
// # Subsystems
//
//   - **Bootstrap**: process startup and shutdown
//   - **Supervisor**: configuration loading and destination set replacement
//   - **Destination**: rebuild cycles for one output file
//   - **ConfigLoader**: parsing and validating configuration files
//   - **FetchCache**: HTTP fetches and stale fallbacks
//   - **Watch**: filesystem watch arming
//   - **Check**: the check subcommand
//
// # Thread Safety
//
// Logging is safe for concurrent use; Init may be called again (tests do)
// and swaps the logger atomically.
package logging
