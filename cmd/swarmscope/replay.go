package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/swarmscope/swarmscope/internal/config"
	"github.com/swarmscope/swarmscope/internal/playback"
	"github.com/swarmscope/swarmscope/internal/sink"
	"github.com/swarmscope/swarmscope/internal/store"
	"github.com/swarmscope/swarmscope/internal/ui"
)

// runReplay loads a recorded decision log and either prints a summary or
// opens the interactive playback view. With --export the sequence is written
// out, immediately in non-interactive mode or after the session otherwise.
func runReplay(cmd *ReplayCmd) error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}

	source := resolveSource(cmd.Source, cfg)
	st, err := store.Load(source)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyResult):
			fmt.Fprintf(os.Stderr, "warning: no decision records in %s\n", source)
		case errors.Is(err, store.ErrSourceUnavailable):
			return fmt.Errorf("%s unreachable (check the path or endpoint): %w", source, err)
		default:
			return fmt.Errorf("loading %s: %w", source, err)
		}
	}

	if cmd.NoInteractive || !isTerminal(os.Stdout) {
		if cmd.Export != "" {
			return exportStore(st, cmd.Export, cmd.Output)
		}
		base, err := cfg.PlaybackBaseInterval()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		return replaySummary(st, base, cmd.Speed)
	}

	base, err := cfg.PlaybackBaseInterval()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := replayInteractive(st, base, cmd.Speed); err != nil {
		return err
	}
	// The export runs after the session ends so an operator can review the
	// sequence interactively and still capture it on quit.
	if cmd.Export != "" {
		return exportStore(st, cmd.Export, cmd.Output)
	}
	return nil
}

// replaySummary steps the controller through the whole sequence, printing
// one line per decision.
func replaySummary(st *store.Store, base time.Duration, speed float64) error {
	plain := sink.NewPlain(os.Stdout)
	var ctrl *playback.Controller
	ctrl = playback.New(
		playback.WithBaseInterval(base),
		playback.OnChange(func(snap playback.Snapshot) {
			plain.PushReplay(frameFor(ctrl, snap))
		}))

	ctrl.Load(st)
	if speed != 1.0 {
		ctrl.SetSpeed(speed)
	}
	for i := 1; i < st.Len(); i++ {
		ctrl.Advance()
	}
	return nil
}

// replayInteractive opens the full-screen playback view. The controller
// pushes frames into the view; key presses call back into the controller.
func replayInteractive(st *store.Store, base time.Duration, speed float64) error {
	var prog *ui.Program
	var ctrl *playback.Controller
	ctrl = playback.New(
		playback.WithBaseInterval(base),
		playback.OnChange(func(snap playback.Snapshot) {
			if p := prog; p != nil {
				p.PushReplay(frameFor(ctrl, snap))
			}
		}))

	ctrl.Load(st)
	if speed != 1.0 {
		ctrl.SetSpeed(speed)
	}

	prog = ui.NewReplayProgram(st.SourceRef(), ctrl)
	if err := prog.Run(); err != nil {
		return err
	}
	ctrl.Pause()
	return nil
}

// exportStore writes the loaded decisions to dest (stdout when empty).
func exportStore(st *store.Store, format, dest string) error {
	var out io.Writer = os.Stdout
	if dest != "" {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("creating %s: %w", dest, err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		return st.ExportJSON(out)
	case "csv":
		return st.ExportCSV(out)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// resolveSource joins a bare content identifier with the configured gateway
// endpoint. URLs and existing local files pass through untouched.
func resolveSource(source string, cfg *config.Config) string {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source
	}
	if cfg.Replay.Endpoint == "" {
		return source
	}
	if _, err := os.Stat(source); err == nil {
		return source
	}
	return strings.TrimRight(cfg.Replay.Endpoint, "/") + "/ipfs/" + source
}

// frameFor assembles the render frame for the controller's current position.
func frameFor(ctrl *playback.Controller, snap playback.Snapshot) sink.ReplayFrame {
	f := sink.ReplayFrame{Playback: snap}
	if ev, ok := ctrl.Current(); ok {
		f.Event = &ev
		f.Participants = ctrl.Participants()
	}
	return f
}
