// Package filter evaluates display predicates against classified records.
package filter

import (
	"strings"

	"github.com/swarmscope/swarmscope/internal/event"
)

// Predicate is a conjunction of optional clauses. The zero value matches
// every record, so historical records can be re-filtered whenever the
// configuration changes.
type Predicate struct {
	Level             event.Level // exact match when non-empty
	AgentSubstring    string      // case-insensitive, against message and tags
	FreeTextSubstring string      // case-insensitive, against message
}

// IsZero reports whether no clause is configured.
func (p Predicate) IsZero() bool {
	return p.Level == "" && p.AgentSubstring == "" && p.FreeTextSubstring == ""
}

// Matches evaluates the predicate. All configured clauses must hold.
func Matches(rec *event.Record, p Predicate) bool {
	if p.Level != "" && rec.Level != p.Level {
		return false
	}
	if p.AgentSubstring != "" && !matchesAgent(rec, p.AgentSubstring) {
		return false
	}
	if p.FreeTextSubstring != "" &&
		!strings.Contains(strings.ToLower(rec.Message), strings.ToLower(p.FreeTextSubstring)) {
		return false
	}
	return true
}

func matchesAgent(rec *event.Record, sub string) bool {
	needle := strings.ToLower(sub)
	if strings.Contains(strings.ToLower(rec.Message), needle) {
		return true
	}
	for _, tag := range rec.AgentTags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
