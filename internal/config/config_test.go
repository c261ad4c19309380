package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "reports", cfg.Paths.ReportsDir)
	assert.Equal(t, 30, cfg.Analysis.VolumeFloor)
	assert.InDelta(t, 0.05, cfg.Analysis.Alpha, 1e-12)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
logging:
  level: debug
analysis:
  volume_floor: 50
  alpha: 0.01
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 50, cfg.Analysis.VolumeFloor)
	assert.InDelta(t, 0.01, cfg.Analysis.Alpha, 1e-12)
	// Untouched sections keep their defaults
	assert.Equal(t, 3, cfg.Analysis.RollingWindow)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9090\n")

	t.Setenv("SSI_SERVER_PORT", "7070")
	t.Setenv("SSI_ANALYSIS_ALPHA", "0.10")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.InDelta(t, 0.10, cfg.Analysis.Alpha, 1e-12)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	t.Run("rejects an out of range port", func(t *testing.T) {
		path := writeConfigFile(t, "server:\n  port: 99999\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("rejects an unknown log level", func(t *testing.T) {
		path := writeConfigFile(t, "logging:\n  level: verbose\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("rejects alpha outside the unit interval", func(t *testing.T) {
		path := writeConfigFile(t, "analysis:\n  alpha: 1.5\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestAnalysisParams(t *testing.T) {
	cfg := DefaultConfig()
	params := cfg.Analysis.Params()

	assert.True(t, params.IsValid())
	assert.Equal(t, 30, params.VolumeFloor)
	assert.InDelta(t, 2.0, params.AlertSDMultiplier, 1e-12)
	assert.InDelta(t, 0.80, params.ParetoThreshold, 1e-12)
}
