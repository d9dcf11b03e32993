package event

import (
	"sort"
	"time"
)

// Registry tracks agent identities observed during a live session. It is
// owned by the tail pipeline; other components only receive snapshots.
type Registry struct {
	firstSeen map[string]time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{firstSeen: make(map[string]time.Time)}
}

// Observe records the agents tagged on a classified record. Already-known
// agents keep their original first-seen time.
func (r *Registry) Observe(rec *Record) {
	for _, tag := range rec.AgentTags {
		if _, ok := r.firstSeen[tag]; !ok {
			r.firstSeen[tag] = rec.Timestamp
		}
	}
}

// Agents returns the observed identities sorted by name.
func (r *Registry) Agents() []string {
	out := make([]string, 0, len(r.firstSeen))
	for name := range r.firstSeen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct agents observed.
func (r *Registry) Len() int { return len(r.firstSeen) }

// FirstSeen returns when the agent was first observed.
func (r *Registry) FirstSeen(agent string) (time.Time, bool) {
	t, ok := r.firstSeen[agent]
	return t, ok
}

// Clear forgets all observed agents.
func (r *Registry) Clear() {
	r.firstSeen = make(map[string]time.Time)
}
