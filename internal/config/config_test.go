package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	if cfg.Tail.File != "swarm.log" {
		t.Errorf("Tail.File = %q", cfg.Tail.File)
	}
	if cfg.Tail.RecentBuffer != 200 {
		t.Errorf("Tail.RecentBuffer = %d", cfg.Tail.RecentBuffer)
	}
	if cfg.Replay.BaseInterval != "2s" {
		t.Errorf("Replay.BaseInterval = %q", cfg.Replay.BaseInterval)
	}
	if cfg.Publish.URL != "" {
		t.Errorf("publishing should be disabled by default, got %q", cfg.Publish.URL)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swarmscope.toml")
	content := `
rules_file = "/etc/swarmscope/rules.yaml"

[tail]
file = "/var/log/swarm/agents.log"
recent_buffer = 500
poll_interval = "250ms"

[replay]
endpoint = "https://gateway.example/ipfs"
base_interval = "1s"

[publish]
url = "nats://localhost:4222"
subject = "ops.swarm"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Tail.File != "/var/log/swarm/agents.log" {
		t.Errorf("Tail.File = %q", cfg.Tail.File)
	}
	if cfg.Tail.RecentBuffer != 500 {
		t.Errorf("Tail.RecentBuffer = %d", cfg.Tail.RecentBuffer)
	}
	if cfg.Replay.Endpoint != "https://gateway.example/ipfs" {
		t.Errorf("Replay.Endpoint = %q", cfg.Replay.Endpoint)
	}
	if cfg.Publish.Subject != "ops.swarm" {
		t.Errorf("Publish.Subject = %q", cfg.Publish.Subject)
	}
	if cfg.RulesFile != "/etc/swarmscope/rules.yaml" {
		t.Errorf("RulesFile = %q", cfg.RulesFile)
	}

	d, err := cfg.TailPollInterval()
	if err != nil || d != 250*time.Millisecond {
		t.Errorf("TailPollInterval = (%v, %v)", d, err)
	}
	d, err = cfg.PlaybackBaseInterval()
	if err != nil || d != time.Second {
		t.Errorf("PlaybackBaseInterval = (%v, %v)", d, err)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swarmscope.toml")
	if err := os.WriteFile(path, []byte("[tail]\nfile = \"other.log\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tail.File != "other.log" {
		t.Errorf("Tail.File = %q", cfg.Tail.File)
	}
	if cfg.Tail.RecentBuffer != 200 {
		t.Errorf("unset keys should keep defaults, RecentBuffer = %d", cfg.Tail.RecentBuffer)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestIntervals_Invalid(t *testing.T) {
	cfg := New()
	cfg.Tail.PollInterval = "sometimes"
	if _, err := cfg.TailPollInterval(); err == nil {
		t.Error("expected error for unparseable interval")
	}

	cfg.Replay.BaseInterval = "-2s"
	if _, err := cfg.PlaybackBaseInterval(); err == nil {
		t.Error("expected error for non-positive interval")
	}
}

func TestIntervals_EmptyFallsBack(t *testing.T) {
	cfg := &Config{}
	d, err := cfg.TailPollInterval()
	if err != nil || d != 500*time.Millisecond {
		t.Errorf("TailPollInterval = (%v, %v)", d, err)
	}
	d, err = cfg.PlaybackBaseInterval()
	if err != nil || d != 2*time.Second {
		t.Errorf("PlaybackBaseInterval = (%v, %v)", d, err)
	}
}
