// Package stats folds classified records into running counters.
package stats

import (
	"github.com/swarmscope/swarmscope/internal/event"
)

// Snapshot is an immutable copy of the running counters.
type Snapshot struct {
	Total      int
	ErrorCount int
	PerCategory map[event.Category]int
}

// CategoryTable maps event-type names to stat buckets. The default table is
// derived from the vocabulary's explicit category fields.
type CategoryTable map[string]event.Category

// DefaultCategoryTable builds the table from the fixed vocabulary.
func DefaultCategoryTable() CategoryTable {
	table := make(CategoryTable, len(event.Vocabulary))
	for _, t := range event.Vocabulary {
		table[t.Name] = t.Category
	}
	return table
}

// TableFrom builds the table from an explicit vocabulary, typically one
// extended by a rules file.
func TableFrom(vocab []event.Type) CategoryTable {
	table := make(CategoryTable, len(vocab))
	for _, t := range vocab {
		table[t.Name] = t.Category
	}
	return table
}

// Aggregator owns the live-mode counters. It is owned by the tail pipeline;
// other components only receive snapshots.
type Aggregator struct {
	table       CategoryTable
	total       int
	errorCount  int
	perCategory map[event.Category]int
}

// New creates an Aggregator with the given category table.
func New(table CategoryTable) *Aggregator {
	return &Aggregator{
		table:       table,
		perCategory: make(map[event.Category]int),
	}
}

// Fold counts one record: total always, errorCount iff the level is ERROR,
// and the category bucket iff the record carries a known event type.
func (a *Aggregator) Fold(rec *event.Record) {
	a.total++
	if rec.Level == event.LevelError {
		a.errorCount++
	}
	if rec.EventType != "" {
		if cat, ok := a.table[rec.EventType]; ok {
			a.perCategory[cat]++
		}
	}
}

// Current returns a copy of the counters.
func (a *Aggregator) Current() Snapshot {
	per := make(map[event.Category]int, len(a.perCategory))
	for k, v := range a.perCategory {
		per[k] = v
	}
	return Snapshot{Total: a.total, ErrorCount: a.errorCount, PerCategory: per}
}

// Reset zeroes all counters.
func (a *Aggregator) Reset() {
	a.total = 0
	a.errorCount = 0
	a.perCategory = make(map[event.Category]int)
}
