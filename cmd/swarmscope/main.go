// Package main is the entry point for the swarmscope operator console.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/swarmscope/swarmscope/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func init() {
	// Load .env for NATS URLs and similar environment overrides
	_ = godotenv.Load()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("swarmscope"),
		kong.Description("Operator console for swarm-agent logs and recorded consensus decisions."),
		kong.UsageOnError(),
		kongVars(),
	)

	var err error
	switch ctx.Command() {
	case "tail":
		err = runTail(&cli.Tail)
	case "replay <source>":
		err = runReplay(&cli.Replay)
	case "version":
		fmt.Printf("swarmscope version %s (commit: %s, built: %s)\n", version, commit, buildTime)
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads an explicit config file, or falls back to the default
// location with built-in defaults when no file exists.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
