package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/swarmscope/swarmscope/internal/classify"
	"github.com/swarmscope/swarmscope/internal/config"
	"github.com/swarmscope/swarmscope/internal/event"
	"github.com/swarmscope/swarmscope/internal/filter"
	"github.com/swarmscope/swarmscope/internal/live"
	"github.com/swarmscope/swarmscope/internal/sink"
	"github.com/swarmscope/swarmscope/internal/stats"
	"github.com/swarmscope/swarmscope/internal/tail"
	"github.com/swarmscope/swarmscope/internal/ui"
)

// runTail follows (or reads) a swarm log file, classifies every line and
// renders the result through the selected sinks.
func runTail(cmd *TailCmd) error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}

	rules, err := resolveRules(cmd.Rules, cfg)
	if err != nil {
		return err
	}

	pred := filter.Predicate{
		FreeTextSubstring: cmd.Filter,
		AgentSubstring:    cmd.Agent,
	}
	if cmd.Level != "" {
		lvl, ok := event.ParseLevel(cmd.Level)
		if !ok {
			return fmt.Errorf("unknown level %q (use TRACE, DEBUG, INFO, WARN or ERROR)", cmd.Level)
		}
		pred.Level = lvl
	}

	file := pick(cmd.File, cfg.Tail.File)
	classifier := classify.New(rules)
	agg := stats.New(stats.TableFrom(rules.Vocabulary))
	registry := event.NewRegistry()

	if cmd.NoFollow {
		return tailOnce(file, classifier, agg, registry, pred)
	}

	pollInterval, err := cfg.TailPollInterval()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	src, err := tail.Open(file, tail.WithPollInterval(pollInterval))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s not found (check the path or pass -f <file>)", file)
		}
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer src.Close()

	var sinks sink.MultiLive
	publisher, err := openPublisher(cmd, cfg)
	if err != nil {
		return err
	}
	if publisher != nil {
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	if cmd.NoInteractive || !isTerminal(os.Stdout) {
		return tailPlain(src, classifier, agg, registry, pred, cfg, sinks)
	}
	return tailInteractive(file, src, classifier, agg, registry, pred, cfg, sinks)
}

// tailOnce classifies the current file contents and prints a summary.
func tailOnce(file string, classifier *classify.Classifier, agg *stats.Aggregator, registry *event.Registry, pred filter.Predicate) error {
	lines, err := tail.ReadAll(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s not found (check the path or pass -f <file>)", file)
		}
		return fmt.Errorf("reading %s: %w", file, err)
	}

	pipe := live.New(classifier, agg, registry, sink.NewPlain(os.Stdout), live.WithPredicate(pred))
	for _, line := range lines {
		pipe.HandleLine(line)
	}

	snap := agg.Current()
	fmt.Fprintf(os.Stderr, "%d lines, %d errors, %d agents seen\n", snap.Total, snap.ErrorCount, registry.Len())
	return nil
}

// tailPlain streams classified lines to stdout until interrupted.
func tailPlain(src *tail.Source, classifier *classify.Classifier, agg *stats.Aggregator, registry *event.Registry, pred filter.Predicate, cfg *config.Config, extra sink.MultiLive) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := append(sink.MultiLive{sink.NewPlain(os.Stdout)}, extra...)
	pipe := live.New(classifier, agg, registry, sinks,
		live.WithPredicate(pred), live.WithHistory(cfg.Tail.RecentBuffer))

	for {
		select {
		case <-ctx.Done():
			return nil
		case line := <-src.Lines():
			pipe.HandleLine(line)
		case err := <-src.Errs():
			pipe.HandleError(err)
		}
	}
}

// tailInteractive runs the full-screen view. Predicate changes from the view
// are forwarded to the pipeline goroutine over a channel so the pipeline
// stays single-writer.
func tailInteractive(file string, src *tail.Source, classifier *classify.Classifier, agg *stats.Aggregator, registry *event.Registry, pred filter.Predicate, cfg *config.Config, extra sink.MultiLive) error {
	predCh := make(chan filter.Predicate, 1)
	prog := ui.NewTailProgram(file, pred, func(p filter.Predicate) {
		select {
		case predCh <- p:
		default:
		}
	})

	sinks := append(sink.MultiLive{prog}, extra...)
	pipe := live.New(classifier, agg, registry, sinks,
		live.WithPredicate(pred), live.WithHistory(cfg.Tail.RecentBuffer))

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case line := <-src.Lines():
				pipe.HandleLine(line)
			case err := <-src.Errs():
				pipe.HandleError(err)
			case p := <-predCh:
				pipe.SetPredicate(p)
			}
		}
	}()

	err := prog.Run()
	close(done)
	return err
}

// openPublisher connects the NATS sink when a URL is configured.
func openPublisher(cmd *TailCmd, cfg *config.Config) (*sink.NATS, error) {
	url := pick(cmd.Publish, cfg.Publish.URL)
	if url == "" {
		return nil, nil
	}
	subject := pick(cmd.Subject, cfg.Publish.Subject, sink.DefaultSubject)
	n, err := sink.NewNATS(url,
		sink.WithSubject(subject),
		sink.WithErrorHandler(func(err error) {
			fmt.Fprintf(os.Stderr, "publish: %v\n", err)
		}))
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return n, nil
}

// resolveRules loads the rules file from the flag or config, falling back
// to the built-in roster and vocabulary. An explicit --rules path must
// exist; a config-declared path that is absent falls back silently.
func resolveRules(flagPath string, cfg *config.Config) (classify.Rules, error) {
	if flagPath != "" {
		rules, err := classify.LoadRules(flagPath)
		if err != nil {
			return classify.Rules{}, fmt.Errorf("loading rules: %w", err)
		}
		return rules, nil
	}
	if cfg.RulesFile == "" {
		return classify.DefaultRules(), nil
	}
	rules, err := classify.LoadRules(cfg.RulesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return classify.DefaultRules(), nil
		}
		return classify.Rules{}, fmt.Errorf("loading rules: %w", err)
	}
	return rules, nil
}

// pick returns the first non-empty value.
func pick(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
