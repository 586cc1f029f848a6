package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"txtsync/internal/fetch"
	"txtsync/pkg/logging"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		paths []string
	}{
		{
			name:  "single config",
			debug: false,
			paths: []string{"/etc/txtsync/ads.yaml"},
		},
		{
			name:  "debug with several configs",
			debug: true,
			paths: []string{"a.yaml", "b.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(tt.debug, tt.paths)

			assert.Equal(t, tt.debug, cfg.Debug)
			assert.Equal(t, tt.paths, cfg.ConfigPaths)
			assert.Equal(t, logging.FormatText, cfg.LogFormat)
			assert.Equal(t, os.Stderr, cfg.LogOutput)
			assert.Equal(t, fetch.DefaultHTTPTimeout, cfg.HTTPTimeout)
			assert.Equal(t, fetch.DefaultUserAgent, cfg.UserAgent)
			assert.Empty(t, cfg.MetricsAddress)
		})
	}
}
