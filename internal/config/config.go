// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the swarmscope configuration.
type Config struct {
	Tail    TailConfig    `toml:"tail"`
	Replay  ReplayConfig  `toml:"replay"`
	Publish PublishConfig `toml:"publish"`

	// RulesFile is an optional YAML overlay of extra roster names, tag
	// patterns and vocabulary entries.
	RulesFile string `toml:"rules_file"`
}

// TailConfig contains live-mode settings.
type TailConfig struct {
	File         string `toml:"file"`          // preconfigured default log path
	RecentBuffer int    `toml:"recent_buffer"` // recent-event window pushed to the renderer
	PollInterval string `toml:"poll_interval"` // fallback poll period, e.g. "500ms"
}

// ReplayConfig contains replay-mode settings.
type ReplayConfig struct {
	Endpoint     string `toml:"endpoint"`      // content-addressed store endpoint
	BaseInterval string `toml:"base_interval"` // per-event interval at 1x, e.g. "2s"
}

// PublishConfig contains the optional live-stream publish settings.
type PublishConfig struct {
	URL     string `toml:"url"`     // NATS URL; empty disables publishing
	Subject string `toml:"subject"` // publish subject
}

// New creates a new config with defaults.
func New() *Config {
	return &Config{
		Tail: TailConfig{
			File:         "swarm.log",
			RecentBuffer: 200,
			PollInterval: "500ms",
		},
		Replay: ReplayConfig{
			BaseInterval: "2s",
		},
	}
}

// LoadFile loads configuration from a TOML file.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads swarmscope.toml from the user config directory, falling
// back to defaults when no file exists.
func LoadDefault() (*Config, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return New(), nil
	}

	path := filepath.Join(dir, "swarmscope", "swarmscope.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// TailPollInterval parses the configured poll period.
func (c *Config) TailPollInterval() (time.Duration, error) {
	return parseInterval(c.Tail.PollInterval, 500*time.Millisecond)
}

// PlaybackBaseInterval parses the configured base interval.
func (c *Config) PlaybackBaseInterval() (time.Duration, error) {
	return parseInterval(c.Replay.BaseInterval, 2*time.Second)
}

func parseInterval(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval %q must be positive", s)
	}
	return d, nil
}
