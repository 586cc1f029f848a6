package app

import (
	"io"
	"os"
	"time"

	"txtsync/internal/fetch"
	"txtsync/pkg/logging"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug     bool
	LogFormat logging.Format

	// LogOutput receives log records; defaults to stderr.
	LogOutput io.Writer

	// ConfigPaths are the configuration files to supervise, one
	// supervisor each.
	ConfigPaths []string

	// Source fetching
	HTTPTimeout time.Duration
	UserAgent   string

	// MetricsAddress enables the Prometheus endpoint when set, e.g. ":9090".
	MetricsAddress string
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPaths []string) *Config {
	return &Config{
		Debug:       debug,
		LogFormat:   logging.FormatText,
		LogOutput:   os.Stderr,
		ConfigPaths: configPaths,
		HTTPTimeout: fetch.DefaultHTTPTimeout,
		UserAgent:   fetch.DefaultUserAgent,
	}
}
