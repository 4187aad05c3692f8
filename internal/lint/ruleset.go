package lint

import (
	"maps"
	"slices"
)

// RuleConfig is the resolved entry of one rule.
type RuleConfig struct {
	Level   Level
	Options Options
}

// RuleSet maps rule ids to their configuration. It is plain data.
type RuleSet map[string]RuleConfig

// Merge returns a copy of s with every entry of over applied on top.
// An override without options keeps the options already configured.
func (s RuleSet) Merge(over RuleSet) RuleSet {
	out := maps.Clone(s)
	if out == nil {
		out = make(RuleSet, len(over))
	}
	for id, rc := range over {
		if prev, ok := out[id]; ok && rc.Options.IsZero() {
			rc.Options = prev.Options
		}
		out[id] = rc
	}
	return out
}

// IDs returns the configured ids in sorted order.
func (s RuleSet) IDs() []string {
	return slices.Sorted(maps.Keys(s))
}
