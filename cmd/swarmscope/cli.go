// Package main defines the CLI structure using kong.
package main

import "github.com/alecthomas/kong"

// CLI defines the command-line interface.
type CLI struct {
	Tail    TailCmd    `cmd:"" help:"Follow a swarm log file and classify lines live"`
	Replay  ReplayCmd  `cmd:"" help:"Step through recorded consensus decisions"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// TailCmd follows a log file and renders classified lines.
type TailCmd struct {
	File          string `short:"f" help:"Log file to follow (default from config)"`
	Filter        string `help:"Only show lines whose message contains this text"`
	Agent         string `help:"Only show lines attributed to this agent"`
	Level         string `help:"Only show lines at this severity (TRACE, DEBUG, INFO, WARN, ERROR)"`
	NoFollow      bool   `help:"Classify the existing file contents and exit"`
	NoInteractive bool   `help:"Plain line-by-line output instead of the interactive view"`
	Publish       string `help:"Also publish classified records to this NATS URL" placeholder:"URL"`
	Subject       string `help:"NATS subject for published records"`
	Rules         string `help:"Classification rules file (YAML)"`
	Config        string `help:"Config file path"`
}

// ReplayCmd steps through a recorded decision log.
type ReplayCmd struct {
	Source        string  `arg:"" help:"Decision log: a JSON file path or an http(s) endpoint"`
	Speed         float64 `default:"1.0" help:"Initial playback speed multiplier"`
	Export        string  `enum:",json,csv" default:"" help:"Export the loaded decisions (json or csv)"`
	Output        string  `short:"o" help:"Export destination (default stdout)"`
	NoInteractive bool    `help:"Print a decision summary instead of the interactive view"`
	Config        string  `help:"Config file path"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

// kongVars returns variables for kong (version info).
func kongVars() kong.Vars {
	return kong.Vars{
		"version": version,
	}
}
