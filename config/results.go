package config

import (
	"fmt"
)

// Result store backends.
const (
	BackendNone     = "none"
	BackendJSONL    = "jsonl"
	BackendRotating = "rotating"
	BackendSQLite   = "sqlite"
)

// ResultsConfig defines settings for run history storage and rotation.
type ResultsConfig struct {
	// Backend selects the store type: "jsonl", "rotating", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *ResultsConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "fcbench-runs.db"
		default:
			c.Path = "fcbench-runs.jsonl"
		}
	}
}

// Validate checks mandatory fields.
func (c ResultsConfig) Validate() error {
	switch c.Backend {
	case BackendNone:
		return nil
	case BackendJSONL, BackendRotating, BackendSQLite:
	default:
		return fmt.Errorf("results: unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("results: path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("results: rotation settings must not be negative")
	}
	return nil
}

// LeaderboardConfig enables the SQLite leaderboard when Path is set.
type LeaderboardConfig struct {
	Path string `json:"path"`
}
