package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"txtsync/internal/reconciler"
	"txtsync/pkg/logging"
)

// Application represents the main application structure that bootstraps and runs txtsync.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: initialize logging, create the shared cache and supervisors
//  2. Execution phase: run the supervisors until terminated
//
// Example usage:
//
//	cfg := app.NewConfig(false, []string{"/etc/txtsync/ads.yaml"})
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication configures logging and creates the services described by
// cfg. Configuration files are not read here; each supervisor loads its
// file when started and keeps retrying on change, so a missing or broken
// file is not fatal.
func NewApplication(cfg *Config, opts ...reconciler.Option) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stderr
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput
	}
	logging.Init(appLogLevel, logOutput, cfg.LogFormat)

	services, err := InitializeServices(cfg, opts...)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Run executes the application
//
// It blocks until ctx is cancelled or a termination signal arrives, then
// closes every supervisor and waits for in-flight cycles to drain.
func (a *Application) Run(ctx context.Context) error {
	return runSupervisors(ctx, a.config, a.services)
}

// Services exposes the running components, mainly for tests.
func (a *Application) Services() *Services {
	return a.services
}
