package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Files       []string  `yaml:"files"`
	Ignores     []string  `yaml:"ignores"`
	YAMLVersion string    `yaml:"yamlVersion"`
	Rules       yaml.Node `yaml:"rules"`
}

func parseYAML(data []byte) (*Config, error) {
	var f yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	b := newRuleSetBuilder()
	switch f.Rules.Kind {
	case 0:
	case yaml.MappingNode:
		for i := 0; i+1 < len(f.Rules.Content); i += 2 {
			key, val := f.Rules.Content[i], f.Rules.Content[i+1]
			var v any
			if err := val.Decode(&v); err != nil {
				return nil, fmt.Errorf("line %d: rules: %q: %w", val.Line, key.Value, err)
			}
			if err := b.add(key.Value, v); err != nil {
				return nil, fmt.Errorf("line %d: %w", key.Line, err)
			}
		}
	default:
		return nil, fmt.Errorf("line %d: rules: expected a mapping", f.Rules.Line)
	}

	r := raw{
		files:      f.Files,
		ignores:    f.Ignores,
		version:    f.YAMLVersion,
		hasFiles:   f.Files != nil,
		hasIgnores: f.Ignores != nil,
	}
	return r.build(b.set)
}
