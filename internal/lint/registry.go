package lint

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps rule ids to implementations. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds rule; ids must be unique.
func (r *Registry) Register(rule Rule) error {
	id := rule.Meta().ID
	if id == "" {
		return fmt.Errorf("rule without id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.rules[id]; dup {
		return fmt.Errorf("rule %q registered twice", id)
	}
	r.rules[id] = rule
	return nil
}

func (r *Registry) MustRegister(rules ...Rule) {
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Lookup(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.rules))
}

// All returns the registered rules sorted by id.
func (r *Registry) All() []Rule {
	ids := r.IDs()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.rules[id])
	}
	return out
}

// Defaults returns a rule set with every rule at its default level.
func (r *Registry) Defaults() RuleSet {
	set := make(RuleSet)
	for _, rule := range r.All() {
		m := rule.Meta()
		set[m.ID] = RuleConfig{Level: m.DefaultLevel}
	}
	return set
}
