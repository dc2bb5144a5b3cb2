package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.7, cfg.Safety.ConfidenceThreshold)
	assert.Equal(t, 0.3, cfg.Safety.DriftThreshold)
	assert.False(t, cfg.Safety.AllowWarning)
	assert.Equal(t, 0.8, cfg.Safety.FairnessThreshold)

	assert.True(t, cfg.Monitoring.EnableAlerts)
	assert.Equal(t, 0.7, cfg.Monitoring.AlertThresholds["accuracy"])
	assert.Equal(t, 0.1, cfg.Monitoring.AlertThresholds["error_rate"])
	assert.Equal(t, 1000.0, cfg.Monitoring.AlertThresholds["latency_ms"])
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"safety": {
			"confidence_threshold": 0.85,
			"drift_threshold": 0.2,
			"allow_warning": true,
			"fairness_threshold": 0.9
		},
		"monitoring": {
			"enable_alerts": false
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 0.85, cfg.Safety.ConfidenceThreshold)
	assert.Equal(t, 0.2, cfg.Safety.DriftThreshold)
	assert.True(t, cfg.Safety.AllowWarning)
	assert.Equal(t, 0.9, cfg.Safety.FairnessThreshold)
	assert.False(t, cfg.Monitoring.EnableAlerts)
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `safety:
  confidence_threshold: 0.6
  drift_threshold: 0.4
monitoring:
  enable_alerts: true
  alert_thresholds:
    accuracy: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Safety.ConfidenceThreshold)
	assert.Equal(t, 0.4, cfg.Safety.DriftThreshold)
	assert.Equal(t, 0.5, cfg.Monitoring.AlertThresholds["accuracy"])
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0644))

		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config format")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Safety.ConfidenceThreshold = 0.65
	cfg.Monitoring.AlertThresholds["latency_ms"] = 250.0

	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveToFile(path, cfg))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}

	t.Run("unsupported extension", func(t *testing.T) {
		err := SaveToFile(filepath.Join(t.TempDir(), "config.ini"), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config format")
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SAFETY_CONFIDENCE_THRESHOLD", "0.9")
	t.Setenv("SAFETY_DRIFT_THRESHOLD", "0.15")
	t.Setenv("SAFETY_ALLOW_WARNING", "TRUE")
	t.Setenv("SAFETY_FAIRNESS_THRESHOLD", "0.75")
	t.Setenv("MONITORING_ENABLE_ALERTS", "false")

	cfg := LoadFromEnv(Default())

	assert.Equal(t, 0.9, cfg.Safety.ConfidenceThreshold)
	assert.Equal(t, 0.15, cfg.Safety.DriftThreshold)
	assert.True(t, cfg.Safety.AllowWarning)
	assert.Equal(t, 0.75, cfg.Safety.FairnessThreshold)
	assert.False(t, cfg.Monitoring.EnableAlerts)
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("SAFETY_CONFIDENCE_THRESHOLD", "not-a-number")

	cfg := LoadFromEnv(Default())
	assert.Equal(t, 0.7, cfg.Safety.ConfidenceThreshold)
}
