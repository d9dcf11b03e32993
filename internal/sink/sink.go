// Package sink defines the push-only render contract. The core never queries
// a renderer; it pushes frames, which keeps every pipeline headlessly
// testable and lets multiple sinks attach at once.
package sink

import (
	"github.com/swarmscope/swarmscope/internal/event"
	"github.com/swarmscope/swarmscope/internal/playback"
	"github.com/swarmscope/swarmscope/internal/stats"
)

// LiveFrame is pushed once per classified line in live mode.
type LiveFrame struct {
	Stats  stats.Snapshot
	Agents []string
	Recent []event.Record // newest last
	Line   string         // pre-formatted newest line
}

// Newest returns the most recent record in the frame.
func (f *LiveFrame) Newest() (event.Record, bool) {
	if len(f.Recent) == 0 {
		return event.Record{}, false
	}
	return f.Recent[len(f.Recent)-1], true
}

// ReplayFrame is pushed on every playback state change.
type ReplayFrame struct {
	Playback     playback.Snapshot
	Event        *event.ConsensusEvent // nil when the sequence is empty
	Participants []playback.ParticipantStatus
}

// LiveSink consumes live-mode frames.
type LiveSink interface {
	PushLive(LiveFrame)
}

// ReplaySink consumes replay-mode frames.
type ReplaySink interface {
	PushReplay(ReplayFrame)
}

// MultiLive fans a frame out to several sinks in order.
type MultiLive []LiveSink

func (m MultiLive) PushLive(f LiveFrame) {
	for _, s := range m {
		s.PushLive(f)
	}
}

// MultiReplay fans a frame out to several sinks in order.
type MultiReplay []ReplaySink

func (m MultiReplay) PushReplay(f ReplayFrame) {
	for _, s := range m {
		s.PushReplay(f)
	}
}
