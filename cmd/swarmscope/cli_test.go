package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/swarmscope/swarmscope/internal/config"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kongVars())
	if err != nil {
		t.Fatal(err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}
	return &cli, ctx
}

func TestTailCmd_Defaults(t *testing.T) {
	cli, ctx := parse(t, "tail")

	if ctx.Command() != "tail" {
		t.Errorf("command = %q", ctx.Command())
	}
	if cli.Tail.File != "" {
		t.Errorf("file should default from config, got %q", cli.Tail.File)
	}
	if cli.Tail.NoFollow || cli.Tail.NoInteractive {
		t.Error("follow and interactive should default on")
	}
}

func TestTailCmd_AllFlags(t *testing.T) {
	cli, _ := parse(t, "tail",
		"-f", "agents.log",
		"--filter", "consensus",
		"--agent", "Volt",
		"--level", "ERROR",
		"--no-follow",
		"--no-interactive",
		"--publish", "nats://localhost:4222",
		"--subject", "ops.swarm",
		"--rules", "rules.yaml",
		"--config", "swarmscope.toml")

	if cli.Tail.File != "agents.log" {
		t.Errorf("File = %q", cli.Tail.File)
	}
	if cli.Tail.Filter != "consensus" || cli.Tail.Agent != "Volt" || cli.Tail.Level != "ERROR" {
		t.Errorf("predicate flags = %+v", cli.Tail)
	}
	if !cli.Tail.NoFollow || !cli.Tail.NoInteractive {
		t.Errorf("mode flags = %+v", cli.Tail)
	}
	if cli.Tail.Publish != "nats://localhost:4222" || cli.Tail.Subject != "ops.swarm" {
		t.Errorf("publish flags = %+v", cli.Tail)
	}
}

func TestReplayCmd_Defaults(t *testing.T) {
	cli, ctx := parse(t, "replay", "decisions.json")

	if ctx.Command() != "replay <source>" {
		t.Errorf("command = %q", ctx.Command())
	}
	if cli.Replay.Source != "decisions.json" {
		t.Errorf("Source = %q", cli.Replay.Source)
	}
	if cli.Replay.Speed != 1.0 {
		t.Errorf("Speed = %v, want 1.0", cli.Replay.Speed)
	}
	if cli.Replay.Export != "" {
		t.Errorf("Export = %q, want none", cli.Replay.Export)
	}
}

func TestReplayCmd_ExportCSV(t *testing.T) {
	cli, _ := parse(t, "replay", "https://gateway.example/ipfs/bafytest",
		"--export", "csv", "-o", "out.csv", "--speed", "2")

	if cli.Replay.Source != "https://gateway.example/ipfs/bafytest" {
		t.Errorf("Source = %q", cli.Replay.Source)
	}
	if cli.Replay.Export != "csv" || cli.Replay.Output != "out.csv" {
		t.Errorf("export flags = %+v", cli.Replay)
	}
	if cli.Replay.Speed != 2 {
		t.Errorf("Speed = %v", cli.Replay.Speed)
	}
}

func TestReplayCmd_BadExportFormat(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kongVars())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse([]string{"replay", "x.json", "--export", "xml"}); err == nil {
		t.Error("expected parse error for unknown export format")
	}
}

func TestReplayCmd_SourceRequired(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kongVars())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse([]string{"replay"}); err == nil {
		t.Error("expected parse error for missing source")
	}
}

func TestVersionCmd(t *testing.T) {
	_, ctx := parse(t, "version")
	if ctx.Command() != "version" {
		t.Errorf("command = %q", ctx.Command())
	}
}

func TestResolveRules(t *testing.T) {
	cfg := config.New()

	rules, err := resolveRules("", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !rules.KnownType("consensus_reached") {
		t.Error("built-in vocabulary missing")
	}

	// A config-declared file that does not exist falls back to built-ins.
	cfg.RulesFile = filepath.Join(t.TempDir(), "absent.yaml")
	rules, err = resolveRules("", cfg)
	if err != nil {
		t.Fatalf("absent config rules file: %v", err)
	}
	if !rules.KnownType("task_failed") {
		t.Error("fallback vocabulary missing")
	}

	// An explicit --rules path must exist.
	if _, err := resolveRules(filepath.Join(t.TempDir(), "absent.yaml"), cfg); err == nil {
		t.Error("expected error for missing --rules file")
	}

	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "vocabulary:\n  - name: snapshot_taken\n    category: artifact\n    keywords: [\"snapshot taken\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	rules, err = resolveRules(path, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !rules.KnownType("snapshot_taken") {
		t.Error("loaded vocabulary missing")
	}
}

func TestRunTail_UnknownLevel(t *testing.T) {
	err := runTail(&TailCmd{Level: "LOUD"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "TRACE, DEBUG, INFO, WARN or ERROR") {
		t.Errorf("err = %v", err)
	}
}

func TestResolveSource(t *testing.T) {
	cfg := config.New()
	cfg.Replay.Endpoint = "https://gateway.example.com/"

	local := filepath.Join(t.TempDir(), "decisions.json")
	if err := os.WriteFile(local, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		source string
		want   string
	}{
		{"https://other.example.com/log.json", "https://other.example.com/log.json"},
		{local, local},
		{"bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi", "https://gateway.example.com/ipfs/bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"},
	}
	for _, tt := range tests {
		if got := resolveSource(tt.source, cfg); got != tt.want {
			t.Errorf("resolveSource(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}

	bare := config.New()
	if got := resolveSource("some-ref", bare); got != "some-ref" {
		t.Errorf("resolveSource without endpoint = %q", got)
	}
}

func TestPick(t *testing.T) {
	if got := pick("", "a", "b"); got != "a" {
		t.Errorf("pick = %q", got)
	}
	if got := pick("", ""); got != "" {
		t.Errorf("pick = %q", got)
	}
}
