package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvPrefix+"_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 7, cfg.Forecast.SeasonalPeriods)
	assert.Equal(t, 8, cfg.Forecast.MinPoints)
	assert.Empty(t, cfg.Data.Roots)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
data:
  roots:
    - /srv/pagos/2024
    - /srv/pagos/2025
forecast:
  default_steps: 12
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(EnvPrefix+"_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"/srv/pagos/2024", "/srv/pagos/2025"}, cfg.Data.Roots)
	assert.Equal(t, 12, cfg.Forecast.DefaultSteps)
	// Untouched fields keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))
	t.Setenv(EnvPrefix+"_CONFIG_FILE", path)
	t.Setenv(EnvPrefix+"_SERVER_PORT", "7070")
	t.Setenv(EnvPrefix+"_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv(EnvPrefix+"_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(EnvPrefix+"_LOGGING_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
