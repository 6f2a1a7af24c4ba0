package config

import "fmt"

// ServerConfig configures the results HTTP server.
type ServerConfig struct {
	Addr string `json:"addr"`
	// Token protects /api/results when non-empty.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server: addr is required")
	}
	return nil
}
