package config

import (
	"os"
	"strconv"
	"strings"

	"crosstab/adapters/stats/tests"
	"crosstab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Server   ServerConfig
	Data     DataConfig
}

// AnalysisConfig holds statistical pipeline settings
type AnalysisConfig struct {
	// ExpectedCountThreshold is the Fisher-vs-chi-square cutoff for 2x2
	// tables (default 5)
	ExpectedCountThreshold float64

	// Alpha is the significance level used for interpretation labeling
	// only, never for test selection
	Alpha float64

	// YatesCorrection toggles the 2x2 continuity correction
	YatesCorrection bool

	// Columns restricts pair enumeration; empty means all detected
	// categorical columns
	Columns []string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds dataset input settings
type DataConfig struct {
	File string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Analysis: AnalysisConfig{
			ExpectedCountThreshold: getEnvFloat("CROSSTAB_EXPECTED_COUNT_THRESHOLD", tests.DefaultExpectedCountThreshold),
			Alpha:                  getEnvFloat("CROSSTAB_ALPHA", 0.05),
			YatesCorrection:        getEnvBool("CROSSTAB_YATES", true),
			Columns:                getEnvList("CROSSTAB_COLUMNS"),
		},
		Server: ServerConfig{
			Port: getEnv("CROSSTAB_PORT", "8080"),
		},
		Data: DataConfig{
			File: getEnv("CROSSTAB_DATA_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Analysis.ExpectedCountThreshold <= 0 {
		return errors.ConfigInvalid("expected count threshold must be positive")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("alpha must be in (0, 1)")
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server port must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
