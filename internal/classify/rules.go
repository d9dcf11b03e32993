package classify

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/swarmscope/swarmscope/internal/event"
)

// TagRule is one entry of the ordered tag-extraction rule list. Patterns with
// a capture group tag the captured word; patterns without one tag the whole
// match. RosterOnly rules drop matches that are not known roster agents.
type TagRule struct {
	Pattern    *regexp.Regexp
	RosterOnly bool
}

// Rules bundles the tag rules, the event vocabulary and the agent roster used
// by a Classifier.
type Rules struct {
	TagRules   []TagRule
	Vocabulary []event.Type

	roster map[string]string // lowercased name -> canonical casing
}

// DefaultRules returns the built-in rule set: the fixed roster as an exact
// word-boundary rule, the two agent label patterns, and the full vocabulary.
func DefaultRules() Rules {
	return buildRules(event.Roster, nil, event.Vocabulary)
}

func buildRules(roster []string, extraPatterns []*regexp.Regexp, vocab []event.Type) Rules {
	r := Rules{Vocabulary: vocab, roster: make(map[string]string, len(roster))}
	for _, name := range roster {
		r.roster[strings.ToLower(name)] = name
	}

	quoted := make([]string, len(roster))
	for i, name := range roster {
		quoted[i] = regexp.QuoteMeta(name)
	}
	r.TagRules = []TagRule{
		{Pattern: regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`), RosterOnly: true},
		{Pattern: regexp.MustCompile(`(?i)agent[_ ]?(?:id|name):\s*([A-Za-z0-9_-]+)`)},
		{Pattern: regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z0-9_-]*)\s+agent\b`)},
	}
	for _, p := range extraPatterns {
		r.TagRules = append(r.TagRules, TagRule{Pattern: p})
	}
	return r
}

// KnownType reports whether name is declared in the rule set's vocabulary,
// built-in or loaded from a rules file.
func (r *Rules) KnownType(name string) bool {
	for _, t := range r.Vocabulary {
		if t.Name == name {
			return true
		}
	}
	return false
}

// canonicalTag resolves a raw match to a tag. Roster names are canonicalized
// to their declared casing regardless of how the line spelled them.
func (r *Rules) canonicalTag(name string) (string, bool) {
	if canon, ok := r.roster[strings.ToLower(name)]; ok {
		return canon, true
	}
	return name, true
}

func (r *Rules) canonicalRosterTag(name string) (string, bool) {
	canon, ok := r.roster[strings.ToLower(name)]
	return canon, ok
}

// fileRules is the YAML overlay shape.
type fileRules struct {
	Roster     []string `yaml:"roster"`
	Patterns   []string `yaml:"patterns"`
	Vocabulary []struct {
		Name     string   `yaml:"name"`
		Category string   `yaml:"category"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"vocabulary"`
}

// LoadRules reads a YAML rules file and layers it over the built-in rules:
// extra roster names extend the roster rule, extra patterns append to the
// rule list, extra vocabulary entries append after the built-in vocabulary.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var fr fileRules
	if err := yaml.Unmarshal(data, &fr); err != nil {
		return Rules{}, fmt.Errorf("parse rules file: %w", err)
	}

	roster := append(append([]string{}, event.Roster...), fr.Roster...)

	var patterns []*regexp.Regexp
	for _, p := range fr.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return Rules{}, fmt.Errorf("rules pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	vocab := append([]event.Type{}, event.Vocabulary...)
	for _, v := range fr.Vocabulary {
		cat := event.Category(v.Category)
		switch cat {
		case event.CategoryConsensus, event.CategoryAgent, event.CategoryTask, event.CategoryArtifact:
		default:
			return Rules{}, fmt.Errorf("rules vocabulary %q: unknown category %q", v.Name, v.Category)
		}
		lowered := make([]string, len(v.Keywords))
		for i, kw := range v.Keywords {
			lowered[i] = strings.ToLower(kw)
		}
		vocab = append(vocab, event.Type{Name: v.Name, Category: cat, Keywords: lowered})
	}

	return buildRules(roster, patterns, vocab), nil
}
