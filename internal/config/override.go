package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"yamlcheck/internal/lint"
)

// ParseRuleFlag reads a command-line override of the form
//
//	id=severity
//	id=severity:options
//
// where options is a YAML flow value: a sequence of positional arguments,
// optionally ending in a mapping, or a single mapping.
func ParseRuleFlag(s string) (string, lint.RuleConfig, error) {
	key, spec, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" || spec == "" {
		return "", lint.RuleConfig{}, fmt.Errorf("%w: %q: expected id=severity[:options]", ErrBadEntry, s)
	}
	sev, opts, hasOpts := strings.Cut(spec, ":")
	entry := []any{strings.TrimSpace(sev)}
	if hasOpts {
		var v any
		if err := yaml.Unmarshal([]byte(opts), &v); err != nil {
			return "", lint.RuleConfig{}, fmt.Errorf("%w: %q: %w", ErrBadEntry, s, err)
		}
		if list, isList := v.([]any); isList {
			entry = append(entry, list...)
		} else if v != nil {
			entry = append(entry, v)
		}
	}
	rc, err := decodeEntry(entry)
	if err != nil {
		return "", lint.RuleConfig{}, fmt.Errorf("rule %q: %w", key, err)
	}
	return RuleID(key), rc, nil
}

// Override applies command-line rule entries on top of the file's table.
func (c *Config) Override(flags []string) error {
	over := lint.RuleSet{}
	for _, f := range flags {
		id, rc, err := ParseRuleFlag(f)
		if err != nil {
			return err
		}
		over[id] = rc
	}
	c.Rules = c.Rules.Merge(over)
	return nil
}

// RuleSet is the table handed to the engine: the registry defaults with the
// configured entries on top.
func (c *Config) RuleSet(reg *lint.Registry) lint.RuleSet {
	return reg.Defaults().Merge(c.Rules)
}
