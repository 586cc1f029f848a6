package app

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeServices_NoConfigs(t *testing.T) {
	_, err := InitializeServices(NewConfig(false, nil))
	assert.Error(t, err)
}

func TestInitializeServices_OneSupervisorPerPath(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")

	services, err := InitializeServices(NewConfig(false, []string{a, b, a}))
	require.NoError(t, err)
	require.NotNil(t, services.Cache)
	require.Len(t, services.Supervisors, 2)
	assert.Equal(t, a, services.Supervisors[0].ConfigPath())
	assert.Equal(t, b, services.Supervisors[1].ConfigPath())
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	cfg := NewConfig(false, nil)
	cfg.LogOutput = io.Discard

	application, err := NewApplication(cfg)
	assert.Error(t, err)
	assert.Nil(t, application)
}
