package config

import (
	"fmt"
	"maps"
	"strings"

	"yamlcheck/internal/lint"
)

// pluginPrefix is accepted in front of rule ids for configurations written
// against the eslint plugin.
const pluginPrefix = "yml/"

// RuleID strips the plugin prefix.
func RuleID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), pluginPrefix)
}

// ruleSetBuilder collects entries and rejects an id given twice.
type ruleSetBuilder struct {
	set lint.RuleSet
	raw map[string]string
}

func newRuleSetBuilder() *ruleSetBuilder {
	return &ruleSetBuilder{set: lint.RuleSet{}, raw: map[string]string{}}
}

func (b *ruleSetBuilder) add(key string, v any) error {
	id := RuleID(key)
	if prev, dup := b.raw[id]; dup {
		return fmt.Errorf("rules: %q and %q name the same rule", prev, key)
	}
	rc, err := decodeEntry(v)
	if err != nil {
		return fmt.Errorf("rules: %q: %w", key, err)
	}
	b.raw[id] = key
	b.set[id] = rc
	return nil
}

// decodeEntry interprets one rule entry. Three forms are accepted:
//
//	"error"                                  severity only
//	["error", 2, {indentBlockSequences: true}] eslint array
//	{severity: "error", width: 2}            table
func decodeEntry(v any) (lint.RuleConfig, error) {
	switch x := v.(type) {
	case []any:
		if len(x) == 0 {
			return lint.RuleConfig{}, fmt.Errorf("%w: empty array", ErrBadEntry)
		}
		lvl, err := lint.ParseLevel(x[0])
		if err != nil {
			return lint.RuleConfig{}, err
		}
		rc := lint.RuleConfig{Level: lvl}
		args := x[1:]
		if n := len(args); n > 0 {
			if named, ok := asTable(args[n-1]); ok {
				rc.Options.Named = named
				args = args[:n-1]
			}
		}
		if len(args) > 0 {
			rc.Options.Positional = append([]any(nil), args...)
		}
		return rc, nil
	case map[string]any:
		sev, ok := x["severity"]
		if !ok {
			return lint.RuleConfig{}, fmt.Errorf("%w: table entry needs a severity", ErrBadEntry)
		}
		lvl, err := lint.ParseLevel(sev)
		if err != nil {
			return lint.RuleConfig{}, err
		}
		rc := lint.RuleConfig{Level: lvl}
		if len(x) > 1 {
			rc.Options.Named = maps.Clone(x)
			delete(rc.Options.Named, "severity")
		}
		return rc, nil
	default:
		lvl, err := lint.ParseLevel(v)
		if err != nil {
			return lint.RuleConfig{}, err
		}
		return lint.RuleConfig{Level: lvl}, nil
	}
}

func asTable(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
