package config

import (
	"fmt"

	"github.com/kilianp07/fcbench/core/factory"
)

// BenchmarkConfig holds the runner settings.
type BenchmarkConfig struct {
	// Output is the report file; the extension selects CSV or JSON.
	Output            string `json:"output"`
	ContinueOnFailure bool   `json:"continue_on_failure"`
	Parallelism       int    `json:"parallelism"`
}

// SetDefaults applies sane defaults.
func (c *BenchmarkConfig) SetDefaults() {
	if c.Output == "" {
		c.Output = "results.csv"
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 1
	}
}

// TaskConfig describes one validation task.
type TaskConfig struct {
	// ID is optional; it is synthesized from the dataset and splitter
	// names when empty.
	ID       string               `json:"id"`
	Dataset  factory.ModuleConfig `json:"dataset"`
	Splitter factory.ModuleConfig `json:"splitter"`
	Scorers  []string             `json:"scorers"`
}

// Validate checks mandatory fields.
func (c TaskConfig) Validate() error {
	if c.Dataset.Type == "" {
		return fmt.Errorf("dataset type is required")
	}
	if c.Splitter.Type == "" {
		return fmt.Errorf("splitter type is required")
	}
	if len(c.Scorers) == 0 {
		return fmt.Errorf("at least one scorer is required")
	}
	return nil
}

// EstimatorConfig describes one forecaster.
type EstimatorConfig struct {
	// ID is optional; it is synthesized from the forecaster type tag
	// when empty.
	ID   string         `json:"id"`
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Module returns the factory configuration of the estimator.
func (c EstimatorConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{Type: c.Type, Conf: c.Conf}
}
