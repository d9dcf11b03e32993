package event

import "strings"

// Category is the coarse stat bucket an event type belongs to. Each vocabulary
// entry names its category explicitly rather than relying on name substrings.
type Category string

const (
	CategoryConsensus Category = "consensus"
	CategoryAgent     Category = "agent"
	CategoryTask      Category = "task"
	CategoryArtifact  Category = "artifact"
)

// Type is one entry of the fixed event vocabulary. Keywords are matched
// case-insensitively as substrings of the classified message.
type Type struct {
	Name     string
	Category Category
	Keywords []string
}

// Vocabulary is the fixed event-type vocabulary in declaration order. During
// classification the earliest-declared matching entry wins, regardless of
// where its keyword appears in the text.
var Vocabulary = []Type{
	{Name: "consensus_proposed", Category: CategoryConsensus, Keywords: []string{"consensus proposed", "proposal submitted", "submitting proposal"}},
	{Name: "consensus_vote", Category: CategoryConsensus, Keywords: []string{"vote cast", "casting vote", "voted"}},
	{Name: "consensus_reached", Category: CategoryConsensus, Keywords: []string{"consensus reached", "quorum reached", "decision finalized"}},
	{Name: "consensus_rejected", Category: CategoryConsensus, Keywords: []string{"consensus rejected", "quorum failed", "decision rejected"}},
	{Name: "agent_registered", Category: CategoryAgent, Keywords: []string{"agent registered", "registration complete"}},
	{Name: "agent_online", Category: CategoryAgent, Keywords: []string{"agent online", "came online", "heartbeat ok"}},
	{Name: "agent_offline", Category: CategoryAgent, Keywords: []string{"agent offline", "went offline", "heartbeat lost"}},
	{Name: "agent_thinking", Category: CategoryAgent, Keywords: []string{"thinking", "reasoning about"}},
	{Name: "task_started", Category: CategoryTask, Keywords: []string{"task started", "phase_start", "executing task"}},
	{Name: "task_completed", Category: CategoryTask, Keywords: []string{"task completed", "phase_complete", "task succeeded"}},
	{Name: "task_failed", Category: CategoryTask, Keywords: []string{"task failed", "execution failed", "task error"}},
	{Name: "report_generated", Category: CategoryArtifact, Keywords: []string{"report generated", "report_complete"}},
	{Name: "artifact_pinned", Category: CategoryArtifact, Keywords: []string{"pinned", "ipfs_cid", "stored to ipfs"}},
}

// Roster is the built-in set of swarm agent identities recognized during tag
// extraction.
var Roster = []string{
	"Theory", "Echo", "Verdict", "Lyra", "Sentinel", "Core", "Beacon",
	"Lens", "Arc", "Luma", "Otto", "Volt", "Vitals",
}

// TypeCategory maps an event-type name to its category. Unknown names return
// false.
func TypeCategory(name string) (Category, bool) {
	for _, t := range Vocabulary {
		if t.Name == name {
			return t.Category, true
		}
	}
	return "", false
}

// MatchType scans the vocabulary in declaration order and returns the name of
// the first entry with a keyword contained in text.
func MatchType(vocab []Type, text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, t := range vocab {
		for _, kw := range t.Keywords {
			if strings.Contains(lower, kw) {
				return t.Name, true
			}
		}
	}
	return "", false
}
