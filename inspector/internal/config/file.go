// CLAUDE:SUMMARY Defines inspector config structs and parses YAML configuration files with defaults.
// Package config handles inspector configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level inspector configuration.
type Config struct {
	Browser  BrowserConfig `yaml:"browser"`
	Session  SessionConfig `yaml:"session"`
	Sinks    []SinkConfig  `yaml:"sinks"`
	State    StateConfig   `yaml:"state"`
	HTTP     HTTPConfig    `yaml:"http"`
	LogLevel string        `yaml:"log_level"` // debug | info | warn | error
}

// BrowserConfig controls the Chrome used by live inspection.
type BrowserConfig struct {
	Remote           string   `yaml:"remote"`
	Mode             string   `yaml:"mode"` // headless | headful
	Stealth          bool     `yaml:"stealth"`
	ResourceBlocking []string `yaml:"resource_blocking"`
	XvfbDisplay      string   `yaml:"xvfb_display"`
}

// SessionConfig controls inspection timing.
type SessionConfig struct {
	Throttle      time.Duration `yaml:"throttle"`
	FreezeDelay   time.Duration `yaml:"freeze_delay"`
	OverlayOffset float64       `yaml:"overlay_offset"`
}

// SinkConfig defines an output backend.
type SinkConfig struct {
	Type    string `yaml:"type"` // stdout | webhook
	URL     string `yaml:"url"`  // for webhook
	Retries int    `yaml:"retries"`
	Queue   int    `yaml:"queue"` // async queue size, 0 = synchronous
}

// StateConfig locates the shared detecting flag.
type StateConfig struct {
	Path          string        `yaml:"path"` // sqlite file, empty = in memory
	WatchInterval time.Duration `yaml:"watch_interval"`
}

// HTTPConfig controls the HTTP control API.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) validate() error {
	switch c.Browser.Mode {
	case "", "headless", "headful":
	default:
		return fmt.Errorf("config: browser.mode %q: want headless or headful", c.Browser.Mode)
	}
	for i, s := range c.Sinks {
		switch s.Type {
		case "stdout":
		case "webhook":
			if s.URL == "" {
				return fmt.Errorf("config: sinks[%d]: webhook needs a url", i)
			}
		default:
			return fmt.Errorf("config: sinks[%d]: unknown type %q", i, s.Type)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Browser.Mode == "" {
		c.Browser.Mode = "headless"
	}
	if c.Browser.XvfbDisplay == "" {
		c.Browser.XvfbDisplay = ":99"
	}
	if c.Session.Throttle <= 0 {
		c.Session.Throttle = 100 * time.Millisecond
	}
	if c.Session.FreezeDelay <= 0 {
		c.Session.FreezeDelay = 250 * time.Millisecond
	}
	if c.Session.OverlayOffset == 0 {
		c.Session.OverlayOffset = 20
	}
	if len(c.Sinks) == 0 {
		c.Sinks = []SinkConfig{{Type: "stdout"}}
	}
	if c.State.WatchInterval <= 0 {
		c.State.WatchInterval = time.Second
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = "127.0.0.1:7878"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
