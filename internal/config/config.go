package config

import (
	"os"
	"strconv"

	"evcore/domain/ev"
	"evcore/internal/errors"
	"evcore/internal/histogram"
)

// Config holds the analysis settings read from the environment. The core
// computations never read this (or any other) ambient state themselves:
// callers load a Config once at the boundary and pass its values explicitly.
type Config struct {
	Anomaly   ev.AnomalyConfig
	Histogram histogram.Options
}

// Load reads analysis configuration from environment variables, falling back
// to the standard defaults, and validates it. Invalid values are rejected
// here rather than silently coerced.
func Load() (*Config, error) {
	anomaly := ev.DefaultAnomalyConfig()
	anomaly.Enabled = getEnvBoolOrDefault("EV_ANOMALY_ENABLED", anomaly.Enabled)
	anomaly.Method = ev.DetectionMethod(getEnvOrDefault("EV_ANOMALY_METHOD", string(anomaly.Method)))
	anomaly.ZScoreThreshold = getEnvFloatOrDefault("EV_ZSCORE_THRESHOLD", anomaly.ZScoreThreshold)
	anomaly.IQRFactor = getEnvFloatOrDefault("EV_IQR_FACTOR", anomaly.IQRFactor)
	anomaly.HighlightOnScatter = getEnvBoolOrDefault("EV_HIGHLIGHT_SCATTER", anomaly.HighlightOnScatter)
	anomaly.HighlightOnHistogram = getEnvBoolOrDefault("EV_HIGHLIGHT_HISTOGRAM", anomaly.HighlightOnHistogram)

	hist := histogram.DefaultOptions()
	hist.BinCount = getEnvIntOrDefault("EV_BIN_COUNT", hist.BinCount)
	hist.HighlightThreshold = getEnvFloatOrDefault("EV_HIGHLIGHT_THRESHOLD", hist.HighlightThreshold)
	hist.DemoFallback = getEnvBoolOrDefault("EV_HISTOGRAM_DEMO_FALLBACK", hist.DemoFallback)

	config := &Config{Anomaly: anomaly, Histogram: hist}
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if err := config.Anomaly.Validate(); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if config.Histogram.BinCount < 1 {
		return errors.ConfigInvalid("EV_BIN_COUNT must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
