package event

import (
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"ERROR", LevelError, true},
		{"ERR", LevelError, true},
		{"FATAL", LevelError, true},
		{"WARN", LevelWarn, true},
		{"WARNING", LevelWarn, true},
		{"INFO", LevelInfo, true},
		{"DEBUG", LevelDebug, true},
		{"TRACE", LevelTrace, true},
		{"info", "", false},
		{"NOTICE", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Volt", "Echo", "Volt", "Arc"})
	want := []string{"Arc", "Echo", "Volt"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if NormalizeTags(nil) != nil {
		t.Error("expected nil for empty input")
	}
}

func TestHasTag(t *testing.T) {
	rec := Record{AgentTags: []string{"Echo", "Volt"}}
	if !rec.HasTag("Volt") {
		t.Error("expected Volt tag")
	}
	if rec.HasTag("volt") {
		t.Error("tag lookup should be exact")
	}
}

func TestMatchType_DeclarationOrder(t *testing.T) {
	// "voted" (consensus_vote) is declared before "task failed"
	// (task_failed), so it wins even though both keywords appear.
	name, ok := MatchType(Vocabulary, "Sentinel voted after the task failed")
	if !ok || name != "consensus_vote" {
		t.Errorf("got (%q, %v), want consensus_vote", name, ok)
	}
}

func TestMatchType_CaseInsensitive(t *testing.T) {
	name, ok := MatchType(Vocabulary, "CONSENSUS REACHED on block 42")
	if !ok || name != "consensus_reached" {
		t.Errorf("got (%q, %v), want consensus_reached", name, ok)
	}
}

func TestMatchType_NoMatch(t *testing.T) {
	if name, ok := MatchType(Vocabulary, "nothing interesting here"); ok {
		t.Errorf("unexpected match %q", name)
	}
}

func TestTypeCategory(t *testing.T) {
	cat, ok := TypeCategory("task_failed")
	if !ok || cat != CategoryTask {
		t.Errorf("got (%q, %v), want task", cat, ok)
	}
	if _, ok := TypeCategory("nonexistent"); ok {
		t.Error("unexpected category for unknown type")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	r.Observe(&Record{Timestamp: t0, AgentTags: []string{"Volt", "Echo"}})
	r.Observe(&Record{Timestamp: t0.Add(time.Minute), AgentTags: []string{"Volt"}})

	agents := r.Agents()
	if len(agents) != 2 || agents[0] != "Echo" || agents[1] != "Volt" {
		t.Fatalf("agents = %v, want [Echo Volt]", agents)
	}

	seen, ok := r.FirstSeen("Volt")
	if !ok || !seen.Equal(t0) {
		t.Errorf("FirstSeen(Volt) = (%v, %v), want first observation kept", seen, ok)
	}

	r.Clear()
	if r.Len() != 0 {
		t.Error("expected empty registry after Clear")
	}
}

func TestVoteFor(t *testing.T) {
	ev := ConsensusEvent{
		Votes: []Vote{
			{Agent: "Lyra", Decision: DecisionApproved},
			{Agent: "Otto", Decision: DecisionRejected, Reason: "stale data"},
		},
	}

	v, ok := ev.VoteFor("Otto")
	if !ok || v.Decision != DecisionRejected || v.Reason != "stale data" {
		t.Errorf("VoteFor(Otto) = (%+v, %v)", v, ok)
	}
	if _, ok := ev.VoteFor("Theory"); ok {
		t.Error("unexpected vote for non-participant")
	}
}
