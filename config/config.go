package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fcbench/core/metrics"
	"github.com/kilianp07/fcbench/infra/mqtt"
)

// EnvPrefix marks environment overrides: FCB_BENCHMARK__OUTPUT sets
// benchmark.output.
const EnvPrefix = "FCB_"

type Config struct {
	Benchmark   BenchmarkConfig   `json:"benchmark"`
	Tasks       []TaskConfig      `json:"tasks"`
	Estimators  []EstimatorConfig `json:"estimators"`
	Results     ResultsConfig     `json:"results"`
	Leaderboard LeaderboardConfig `json:"leaderboard"`
	Metrics     metrics.Config    `json:"metrics"`
	MQTT        mqtt.Config       `json:"mqtt"`
	Sentry      SentryConfig      `json:"sentry"`
	Server      ServerConfig      `json:"server"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Benchmark.SetDefaults()
	c.Results.SetDefaults()
	c.Server.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	for i, t := range c.Tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tasks[%d]: %w", i, err)
		}
	}
	for i, e := range c.Estimators {
		if e.Type == "" {
			return fmt.Errorf("estimators[%d]: type is required", i)
		}
	}
	if err := c.Results.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}
