package sink

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/swarmscope/swarmscope/internal/event"
	"github.com/swarmscope/swarmscope/internal/playback"
)

func TestFormatLine(t *testing.T) {
	rec := event.Record{
		Timestamp: time.Date(2026, 3, 1, 10, 22, 1, 0, time.UTC),
		Level:     event.LevelError,
		Message:   "task failed",
		AgentTags: []string{"Otto", "Volt"},
		EventType: "task_failed",
	}

	got := FormatLine(&rec)
	want := "10:22:01 │ ERROR │ task failed  [Otto, Volt]  (task_failed)"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestFormatLine_ParseError(t *testing.T) {
	rec := event.Record{
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Level:     event.LevelDebug,
		Message:   `{"broken":`,
		ParseErr:  true,
	}

	got := FormatLine(&rec)
	if !strings.Contains(got, "[unparsed]") {
		t.Errorf("parse failures must be visibly marked: %q", got)
	}
	if !strings.Contains(got, `{"broken":`) {
		t.Errorf("verbatim content must survive: %q", got)
	}
}

func TestPlain_PushLive(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf)

	p.PushLive(LiveFrame{Line: "10:00:00 │ INFO  │ hello"})
	if got := buf.String(); got != "10:00:00 │ INFO  │ hello\n" {
		t.Errorf("got %q", got)
	}
}

func TestPlain_PushReplay(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf)

	ev := &event.ConsensusEvent{
		Record: event.Record{
			Timestamp: time.Date(2026, 3, 1, 10, 1, 0, 0, time.UTC),
			EventType: "consensus_reached",
		},
		Status: event.StatusApproved,
	}
	p.PushReplay(ReplayFrame{
		Playback: playback.Snapshot{Position: 1, Length: 2},
		Event:    ev,
		Participants: []playback.ParticipantStatus{
			{Agent: "Lyra", Decision: event.DecisionApproved},
			{Agent: "Otto", Decision: event.DecisionPending},
		},
	})

	got := buf.String()
	want := "[2/2] 2026-03-01T10:01:00Z consensus_reached approved Lyra=approved Otto=pending\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestPlain_PushReplayEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPlain(&buf).PushReplay(ReplayFrame{Playback: playback.Snapshot{Position: -1}})
	if !strings.Contains(buf.String(), "empty") {
		t.Errorf("empty sequence not surfaced: %q", buf.String())
	}
}

type captureLive struct{ frames []LiveFrame }

func (c *captureLive) PushLive(f LiveFrame) { c.frames = append(c.frames, f) }

func TestMultiLive_FanOut(t *testing.T) {
	a, b := &captureLive{}, &captureLive{}
	m := MultiLive{a, b}

	m.PushLive(LiveFrame{Line: "x"})
	if len(a.frames) != 1 || len(b.frames) != 1 {
		t.Errorf("fan-out reached %d/%d sinks", len(a.frames), len(b.frames))
	}
}

func TestLiveFrame_Newest(t *testing.T) {
	f := LiveFrame{Recent: []event.Record{{ID: "a"}, {ID: "b"}}}
	rec, ok := f.Newest()
	if !ok || rec.ID != "b" {
		t.Errorf("Newest = (%q, %v), want b", rec.ID, ok)
	}

	if _, ok := (&LiveFrame{}).Newest(); ok {
		t.Error("empty frame has no newest record")
	}
}
