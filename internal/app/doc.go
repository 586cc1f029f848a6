// Package app provides application bootstrap and lifecycle management for txtsync.
//
// # Architecture Overview
//
//  1. Bootstrap (bootstrap.go): logging setup and service creation
//  2. Configuration (config.go): runtime settings taken from the command line
//  3. Services (services.go): the shared fetch cache and one
//     reconciler.Supervisor per configuration file
//  4. Modes (modes.go): the long running loop with signal handling and
//     systemd notification
//  5. Metrics (metrics.go): optional Prometheus endpoint
//
// # Lifecycle
//
// NewApplication never reads configuration files. Supervisors load their file
// when started and reload it on every change; a file that is missing or
// invalid at startup is logged and picked up once it becomes valid.
//
// Run blocks until its context is cancelled or the process receives SIGINT or
// SIGTERM. Shutdown closes all supervisors concurrently and waits for running
// cycles to finish; requests already in flight are not aborted.
//
// # Systemd
//
// When started by systemd with Type=notify, READY=1 is sent after every
// supervisor has started and STOPPING=1 when shutdown begins. Outside systemd
// the notifications are no-ops.
package app
