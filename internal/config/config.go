package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SafetyConfig holds the safety gate thresholds
type SafetyConfig struct {
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`
	DriftThreshold      float64 `json:"drift_threshold" yaml:"drift_threshold"`
	AllowWarning        bool    `json:"allow_warning" yaml:"allow_warning"`
	FairnessThreshold   float64 `json:"fairness_threshold" yaml:"fairness_threshold"`
}

// MonitoringConfig holds the performance monitoring settings.
// MetricsRetentionDays is accepted for compatibility but not enforced:
// history is kept indefinitely.
type MonitoringConfig struct {
	EnableAlerts         bool               `json:"enable_alerts" yaml:"enable_alerts"`
	AlertThresholds      map[string]float64 `json:"alert_thresholds" yaml:"alert_thresholds"`
	MetricsRetentionDays int                `json:"metrics_retention_days" yaml:"metrics_retention_days"`
}

// Config is the top-level configuration document
type Config struct {
	Safety     SafetyConfig     `json:"safety" yaml:"safety"`
	Monitoring MonitoringConfig `json:"monitoring" yaml:"monitoring"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Safety: SafetyConfig{
			ConfidenceThreshold: 0.7,
			DriftThreshold:      0.3,
			AllowWarning:        false,
			FairnessThreshold:   0.8,
		},
		Monitoring: MonitoringConfig{
			EnableAlerts: true,
			AlertThresholds: map[string]float64{
				"accuracy":   0.7,
				"error_rate": 0.1,
				"latency_ms": 1000.0,
			},
			MetricsRetentionDays: 30,
		},
	}
}

// LoadFromFile reads a JSON or YAML configuration file, selected by
// extension. Missing files and unsupported extensions are errors.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}

	return cfg, nil
}

// SaveToFile writes the configuration as JSON or YAML, selected by extension
func SaveToFile(path string, cfg Config) error {
	var data []byte
	var err error

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	default:
		return fmt.Errorf("unsupported config format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// LoadFromEnv applies environment-variable overrides on top of cfg
func LoadFromEnv(cfg Config) Config {
	if v := os.Getenv("SAFETY_CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Safety.ConfidenceThreshold = f
		}
	}
	if v := os.Getenv("SAFETY_DRIFT_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Safety.DriftThreshold = f
		}
	}
	if v := os.Getenv("SAFETY_ALLOW_WARNING"); v != "" {
		cfg.Safety.AllowWarning = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SAFETY_FAIRNESS_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Safety.FairnessThreshold = f
		}
	}
	if v := os.Getenv("MONITORING_ENABLE_ALERTS"); v != "" {
		cfg.Monitoring.EnableAlerts = strings.EqualFold(v, "true")
	}
	return cfg
}
