// Package store loads and freezes recorded consensus decision sequences.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swarmscope/swarmscope/internal/event"
)

// Sentinel errors for the load path.
var (
	// ErrSourceUnavailable means the content-addressed store (or file) could
	// not be reached at all. Fatal at startup.
	ErrSourceUnavailable = errors.New("decision source unavailable")

	// ErrEmptyResult means the fetch succeeded but returned zero records.
	// Non-fatal; callers show an empty state.
	ErrEmptyResult = errors.New("decision source returned no records")
)

// Store holds a fixed, timestamp-ordered sequence of consensus events. The
// sequence is frozen at load time and immutable for the session. Timestamps
// are expected non-decreasing from the source; the store does not reorder.
type Store struct {
	sourceRef string
	events    []event.ConsensusEvent
	loadedAt  time.Time
}

// Option configures loading.
type Option func(*loader)

type loader struct {
	client *http.Client
	now    func() time.Time
}

// WithHTTPClient replaces the HTTP client used for endpoint refs.
func WithHTTPClient(c *http.Client) Option {
	return func(l *loader) { l.client = c }
}

// WithClock replaces the load-time clock.
func WithClock(now func() time.Time) Option {
	return func(l *loader) { l.now = now }
}

// Load performs the one-shot fetch-and-freeze. The ref is either a local
// file path or an http(s) URL of a content-addressed gateway object (for
// example <endpoint>/ipfs/<cid>). A reachable source with zero records
// returns the empty store together with ErrEmptyResult.
func Load(sourceRef string, opts ...Option) (*Store, error) {
	l := &loader{
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(sourceRef, "http://") || strings.HasPrefix(sourceRef, "https://") {
		data, err = l.fetch(sourceRef)
	} else {
		data, err = os.ReadFile(sourceRef)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
	}
	if err != nil {
		return nil, err
	}

	events, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", sourceRef, err)
	}

	st := &Store{sourceRef: sourceRef, events: events, loadedAt: l.now()}
	if len(events) == 0 {
		return st, ErrEmptyResult
	}
	return st, nil
}

func (l *loader) fetch(url string) ([]byte, error) {
	resp, err := l.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrSourceUnavailable, url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return data, nil
}

// decode accepts either a bare JSON array of events or an envelope object
// with an "events" field.
func decode(data []byte) ([]event.ConsensusEvent, error) {
	var events []event.ConsensusEvent
	if err := json.Unmarshal(data, &events); err != nil {
		var envelope struct {
			Events []event.ConsensusEvent `json:"events"`
		}
		if envErr := json.Unmarshal(data, &envelope); envErr != nil {
			return nil, err
		}
		events = envelope.Events
	}

	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
		if events[i].Level == "" {
			events[i].Level = event.LevelInfo
		}
		if events[i].Status == "" {
			events[i].Status = event.StatusPending
		}
	}
	return events, nil
}

// SourceRef returns the reference the store was loaded from.
func (s *Store) SourceRef() string { return s.sourceRef }

// Len returns the number of stored events.
func (s *Store) Len() int { return len(s.events) }

// At returns the event at index i.
func (s *Store) At(i int) event.ConsensusEvent { return s.events[i] }

// Events returns the frozen sequence. Callers must not modify it.
func (s *Store) Events() []event.ConsensusEvent { return s.events }
