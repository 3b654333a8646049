package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileOverrides is the subset of settings that may be overridden from an
// optional YAML or JSON file, mainly the instrument allow-list.
type fileOverrides struct {
	Symbols        []string `json:"symbols" yaml:"symbols"`
	RiskFraction   *float64 `json:"risk_fraction" yaml:"risk_fraction"`
	HealthPort     *int     `json:"health_port" yaml:"health_port"`
	PrometheusPort *int     `json:"prometheus_port" yaml:"prometheus_port"`
}

// ApplyFile merges overrides from the given file into the configuration.
// YAML is tried first, then JSON.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var overrides fileOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		if err := json.Unmarshal(data, &overrides); err != nil {
			return fmt.Errorf("parse config file (tried YAML and JSON): %w", err)
		}
	}

	if len(overrides.Symbols) > 0 {
		c.Trading.Symbols = overrides.Symbols
	}
	if overrides.RiskFraction != nil {
		c.Trading.RiskFraction = *overrides.RiskFraction
	}
	if overrides.HealthPort != nil {
		c.Monitoring.HealthPort = *overrides.HealthPort
	}
	if overrides.PrometheusPort != nil {
		c.Monitoring.PrometheusPort = *overrides.PrometheusPort
	}
	return nil
}
