// Package event defines the shared record model for classified log lines
// and recorded consensus decisions.
package event

import (
	"sort"
	"time"
)

// Level is the severity of a record.
type Level string

const (
	LevelError Level = "ERROR"
	LevelWarn  Level = "WARN"
	LevelInfo  Level = "INFO"
	LevelDebug Level = "DEBUG"
	LevelTrace Level = "TRACE"
)

// ParseLevel resolves a level name, accepting the WARNING alias.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "ERROR", "ERR", "FATAL":
		return LevelError, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "INFO":
		return LevelInfo, true
	case "DEBUG":
		return LevelDebug, true
	case "TRACE":
		return LevelTrace, true
	}
	return "", false
}

// Record is a single classified, timestamped occurrence. Records are created
// once per ingested line or stored artifact and never mutated afterwards.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	RawText   string    `json:"raw_text"`
	Message   string    `json:"message"`
	AgentTags []string  `json:"agent_tags,omitempty"` // sorted, unique
	EventType string    `json:"event_type,omitempty"` // from the fixed vocabulary, or empty
	ParseErr  bool      `json:"parse_err,omitempty"`  // input looked structured but would not parse
}

// HasTag reports whether the record carries the given agent tag.
func (r *Record) HasTag(agent string) bool {
	for _, t := range r.AgentTags {
		if t == agent {
			return true
		}
	}
	return false
}

// NormalizeTags sorts and de-duplicates a tag set in place.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	sort.Strings(tags)
	out := tags[:1]
	for _, t := range tags[1:] {
		if t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}

// Decision values for consensus votes.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
	DecisionPending  = "pending"
)

// Status is the lifecycle state of a recorded consensus decision.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// Vote is one agent's recorded decision on a consensus round.
type Vote struct {
	Agent     string    `json:"agent"`
	Decision  string    `json:"decision"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ConsensusEvent specializes Record with the participant and vote data of a
// recorded collective decision. Immutable once loaded.
type ConsensusEvent struct {
	Record

	Participants []string `json:"participants"`
	Votes        []Vote   `json:"votes,omitempty"`
	Status       Status   `json:"status"`
	Links        []string `json:"links,omitempty"` // CIDs of related artifacts
}

// VoteFor returns the vote cast by the given participant, if any.
func (e *ConsensusEvent) VoteFor(agent string) (Vote, bool) {
	for _, v := range e.Votes {
		if v.Agent == agent {
			return v, true
		}
	}
	return Vote{}, false
}
