// Package classify turns raw log lines into typed event records.
package classify

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swarmscope/swarmscope/internal/event"
)

// leveledLine matches "<timestamp> <LEVEL> <rest>" with an optional
// subsecond/zone suffix on the timestamp.
var leveledLine = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\s+` +
		`(ERROR|ERR|FATAL|WARN|WARNING|INFO|DEBUG|TRACE)[:\s]\s*(.*)$`)

// timestampLayouts are tried in order when parsing a leveled-line timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// structuredLine is a permissive view of a JSON log line. Field aliases cover
// the shapes the swarm runtime emits.
type structuredLine struct {
	Timestamp string `json:"timestamp"`
	Ts        string `json:"ts"`
	Time      string `json:"time"`
	Level     string `json:"level"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Msg       string `json:"msg"`
	Agent     string `json:"agent"`
	AgentID   string `json:"agent_id"`
	Type      string `json:"type"`
	EventType string `json:"event_type"`
}

// Classifier parses raw lines into event records. It holds no mutable state;
// the same input always yields a structurally equal record apart from the
// generated ID.
type Classifier struct {
	rules Rules
	now   func() time.Time
	newID func() string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithClock sets the arrival-time source used when a line carries no
// parseable timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// WithIDSource replaces the record ID generator.
func WithIDSource(newID func() string) Option {
	return func(c *Classifier) { c.newID = newID }
}

// New creates a Classifier with the given rule set.
func New(rules Rules, opts ...Option) *Classifier {
	c := &Classifier{
		rules: rules,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify parses a raw line into a record. It never fails: input that looks
// structured but will not parse degrades to a DEBUG record carrying the
// verbatim line and a parse-error marker.
func (c *Classifier) Classify(rawLine string) event.Record {
	rec := event.Record{
		ID:        c.newID(),
		RawText:   rawLine,
		Level:     event.LevelInfo,
		Timestamp: c.now(),
	}

	trimmed := strings.TrimSpace(rawLine)
	switch {
	case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "["):
		c.classifyStructured(trimmed, &rec)
	case c.classifyLeveled(trimmed, &rec):
	default:
		rec.Message = trimmed
	}

	c.extractTags(&rec)
	return rec
}

// classifyStructured handles JSON lines. Arrays are treated as unparseable:
// a record is one occurrence, not a batch.
func (c *Classifier) classifyStructured(trimmed string, rec *event.Record) {
	var line structuredLine
	if err := json.Unmarshal([]byte(trimmed), &line); err != nil {
		rec.Level = event.LevelDebug
		rec.Message = rec.RawText
		rec.ParseErr = true
		return
	}

	rec.Message = firstNonEmpty(line.Message, line.Msg, trimmed)
	if lvl, ok := event.ParseLevel(strings.ToUpper(firstNonEmpty(line.Level, line.Severity))); ok {
		rec.Level = lvl
	}
	if ts, ok := parseTimestamp(firstNonEmpty(line.Timestamp, line.Ts, line.Time)); ok {
		rec.Timestamp = ts
	}
	if agent := firstNonEmpty(line.Agent, line.AgentID); agent != "" {
		rec.AgentTags = append(rec.AgentTags, agent)
	}
	if name := firstNonEmpty(line.EventType, line.Type); name != "" {
		if c.rules.KnownType(name) {
			rec.EventType = name
		}
	}
}

// classifyLeveled handles "<timestamp> <LEVEL> <rest>" lines. Returns false
// when the line does not match the pattern.
func (c *Classifier) classifyLeveled(trimmed string, rec *event.Record) bool {
	m := leveledLine.FindStringSubmatch(trimmed)
	if m == nil {
		return false
	}
	if ts, ok := parseTimestamp(m[1]); ok {
		rec.Timestamp = ts
	}
	if lvl, ok := event.ParseLevel(strings.ToUpper(m[2])); ok {
		rec.Level = lvl
	}
	rec.Message = m[3]
	return true
}

// extractTags runs the ordered tag rules and the vocabulary scan over the
// resolved message. Best-effort: heuristic matches are collected into a set,
// never enforced.
func (c *Classifier) extractTags(rec *event.Record) {
	text := rec.Message
	if text == "" {
		text = rec.RawText
	}

	for _, rule := range c.rules.TagRules {
		for _, m := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			name := m[0]
			if len(m) > 1 {
				name = m[1]
			}
			if rule.RosterOnly {
				if tag, ok := c.rules.canonicalRosterTag(name); ok {
					rec.AgentTags = append(rec.AgentTags, tag)
				}
				continue
			}
			if tag, ok := c.rules.canonicalTag(name); ok {
				rec.AgentTags = append(rec.AgentTags, tag)
			}
		}
	}
	rec.AgentTags = event.NormalizeTags(rec.AgentTags)

	if rec.EventType == "" {
		if name, ok := event.MatchType(c.rules.Vocabulary, text); ok {
			rec.EventType = name
		}
	}
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
