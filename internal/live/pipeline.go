// Package live wires the tail-to-render pipeline: classify, aggregate,
// filter, dispatch.
package live

import (
	"fmt"
	"time"

	"github.com/swarmscope/swarmscope/internal/classify"
	"github.com/swarmscope/swarmscope/internal/event"
	"github.com/swarmscope/swarmscope/internal/filter"
	"github.com/swarmscope/swarmscope/internal/sink"
	"github.com/swarmscope/swarmscope/internal/stats"
)

// Pipeline folds classified lines into the session aggregates and pushes a
// frame per line. It owns the mutable aggregates (stats, registry, history);
// callers must drive it from a single goroutine.
type Pipeline struct {
	classifier *classify.Classifier
	agg        *stats.Aggregator
	registry   *event.Registry
	pred       filter.Predicate

	history    []event.Record // classified records, newest last, capped
	historyMax int
	now        func() time.Time
	out        sink.LiveSink
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHistory caps the retained record window.
func WithHistory(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.historyMax = n
		}
	}
}

// WithPredicate sets the initial display predicate.
func WithPredicate(pred filter.Predicate) Option {
	return func(p *Pipeline) { p.pred = pred }
}

// WithClock sets the timestamp source for advisory frames.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline pushing frames to out.
func New(classifier *classify.Classifier, agg *stats.Aggregator, registry *event.Registry, out sink.LiveSink, opts ...Option) *Pipeline {
	p := &Pipeline{
		classifier: classifier,
		agg:        agg,
		registry:   registry,
		historyMax: 200,
		now:        time.Now,
		out:        out,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HandleLine ingests one raw line: classify, observe, fold, then push a
// frame when the record passes the predicate. Every record folds into stats
// exactly once whether or not it is displayed.
func (p *Pipeline) HandleLine(raw string) {
	rec := p.classifier.Classify(raw)
	p.registry.Observe(&rec)
	p.agg.Fold(&rec)
	p.remember(rec)

	if !filter.Matches(&rec, p.pred) {
		return
	}
	frame := p.frame(p.filtered())
	frame.Line = sink.FormatLine(&rec)
	p.out.PushLive(frame)
}

// HandleError surfaces a transient I/O error as an advisory frame. Advisory
// frames are not ingested records: they fold into nothing.
func (p *Pipeline) HandleError(err error) {
	rec := event.Record{
		Timestamp: p.now(),
		Level:     event.LevelWarn,
		Message:   fmt.Sprintf("tail: %v", err),
		RawText:   err.Error(),
	}
	frame := p.frame(append(p.filtered(), rec))
	frame.Line = sink.FormatLine(&rec)
	p.out.PushLive(frame)
}

// SetPredicate replaces the display predicate and re-filters the retained
// history, so a configuration change reshapes the visible window without
// touching the aggregates.
func (p *Pipeline) SetPredicate(pred filter.Predicate) {
	p.pred = pred
	frame := p.frame(p.filtered())
	frame.Line = ""
	p.out.PushLive(frame)
}

// Reset clears the aggregates and history.
func (p *Pipeline) Reset() {
	p.agg.Reset()
	p.registry.Clear()
	p.history = p.history[:0]
	p.out.PushLive(p.frame(nil))
}

// Predicate returns the active display predicate.
func (p *Pipeline) Predicate() filter.Predicate { return p.pred }

func (p *Pipeline) remember(rec event.Record) {
	p.history = append(p.history, rec)
	if len(p.history) > p.historyMax {
		p.history = p.history[len(p.history)-p.historyMax:]
	}
}

func (p *Pipeline) filtered() []event.Record {
	var out []event.Record
	for i := range p.history {
		if filter.Matches(&p.history[i], p.pred) {
			out = append(out, p.history[i])
		}
	}
	return out
}

func (p *Pipeline) frame(recent []event.Record) sink.LiveFrame {
	return sink.LiveFrame{
		Stats:  p.agg.Current(),
		Agents: p.registry.Agents(),
		Recent: recent,
	}
}
