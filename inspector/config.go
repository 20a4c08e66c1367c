package inspector

import (
	"github.com/hazyhaar/csspeek/inspector/internal/config"
)

// Config is the top-level inspector configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls the Chrome used by live inspection.
type BrowserConfig = config.BrowserConfig

// SessionConfig controls inspection timing.
type SessionConfig = config.SessionConfig

// SinkConfig defines an output backend.
type SinkConfig = config.SinkConfig

// StateConfig locates the shared detecting flag.
type StateConfig = config.StateConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return config.Default()
}
