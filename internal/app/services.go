package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"txtsync/internal/fetch"
	"txtsync/internal/reconciler"
	"txtsync/pkg/logging"
)

// Services holds the long-lived components of a running application.
type Services struct {
	// Cache is shared by every destination of every supervisor so a source
	// referenced from several files is fetched once.
	Cache *fetch.Cache

	// Supervisors holds one supervisor per configuration file, in command
	// line order.
	Supervisors []*reconciler.Supervisor
}

// InitializeServices creates the fetch cache and one supervisor per
// configuration path. Nothing is started.
func InitializeServices(cfg *Config, opts ...reconciler.Option) (*Services, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("no configuration files given")
	}

	cache := fetch.NewCache(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		fetch.WithUserAgent(cfg.UserAgent),
	)

	services := &Services{Cache: cache}
	seen := make(map[string]bool, len(cfg.ConfigPaths))
	for _, path := range cfg.ConfigPaths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve configuration path %s: %w", path, err)
		}
		if seen[abs] {
			logging.Warn("Bootstrap", "Configuration %s given more than once, supervising it once", abs)
			continue
		}
		seen[abs] = true
		services.Supervisors = append(services.Supervisors, reconciler.NewSupervisor(abs, cache, opts...))
	}

	return services, nil
}

// Start starts every supervisor.
func (s *Services) Start() error {
	for _, sup := range s.Supervisors {
		if err := sup.Start(); err != nil {
			return fmt.Errorf("failed to start supervisor for %s: %w", sup.ConfigPath(), err)
		}
	}
	return nil
}

// Stop closes every supervisor concurrently, each draining its in-flight
// cycles.
func (s *Services) Stop() error {
	var g errgroup.Group
	for _, sup := range s.Supervisors {
		g.Go(func() error {
			if err := sup.Close(); err != nil && !errors.Is(err, reconciler.ErrAlreadyClosed) {
				return fmt.Errorf("failed to stop supervisor for %s: %w", sup.ConfigPath(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Wait blocks until every supervisor and its destinations are idle.
func (s *Services) Wait(ctx context.Context) error {
	errs := make([]error, 0, len(s.Supervisors))
	for _, sup := range s.Supervisors {
		errs = append(errs, sup.Wait(ctx))
	}
	return errors.Join(errs...)
}
