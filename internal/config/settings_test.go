package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	for _, k := range []string{"LOG_LEVEL", "LOG_FORMAT", "CONFIG", "METRICS_FILE"} {
		t.Setenv(EnvPrefix+k, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+k))
	}

	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "auto", s.LogFormat)
	assert.Empty(t, s.ConfigFile)
	assert.Empty(t, s.MetricsFile)
}

func TestLoadSettings_Environment(t *testing.T) {
	t.Setenv("SPREADSCAN_LOG_LEVEL", "debug")
	t.Setenv("SPREADSCAN_LOG_FORMAT", "json")
	t.Setenv("SPREADSCAN_CONFIG", "/etc/spreadscan/venues.yaml")
	t.Setenv("SPREADSCAN_METRICS_FILE", "/tmp/spreadscan.prom")

	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, &Settings{
		LogLevel:    "debug",
		LogFormat:   "json",
		ConfigFile:  "/etc/spreadscan/venues.yaml",
		MetricsFile: "/tmp/spreadscan.prom",
	}, s)
}

func TestLoadSettings_Dotenv(t *testing.T) {
	t.Setenv("SPREADSCAN_METRICS_FILE", "")
	require.NoError(t, os.Unsetenv("SPREADSCAN_METRICS_FILE"))
	t.Setenv("SPREADSCAN_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SPREADSCAN_METRICS_FILE=out.prom\nSPREADSCAN_LOG_LEVEL=debug\n"), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "out.prom", s.MetricsFile)
	assert.Equal(t, "warn", s.LogLevel)
}
