package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"txtsync/pkg/logging"
)

// runSupervisors starts every supervisor and blocks until ctx is done or
// the process receives SIGINT or SIGTERM, then shuts down gracefully.
//
// When running under systemd with Type=notify, readiness is reported once
// all supervisors are started and stopping is reported before shutdown.
func runSupervisors(ctx context.Context, config *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if config.MetricsAddress != "" {
		shutdown := startMetricsServer(config.MetricsAddress)
		defer shutdown()
	}

	if err := services.Start(); err != nil {
		logging.Error("Bootstrap", err, "Failed to start supervisors")
		_ = services.Stop()
		return err
	}

	notifySystemd(daemon.SdNotifyReady)
	logging.Info("Bootstrap", "Supervising %d configuration files. Press Ctrl+C to stop.", len(services.Supervisors))

	<-ctx.Done()

	logging.Info("Bootstrap", "Shutting down, waiting for running cycles to finish")
	notifySystemd(daemon.SdNotifyStopping)

	return services.Stop()
}

func notifySystemd(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.Warn("Bootstrap", "Failed to notify systemd (%s): %v", state, err)
		return
	}
	if sent {
		logging.Debug("Bootstrap", "Notified systemd: %s", state)
	}
}
