package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
)

type tomlFile struct {
	Files       []string                  `toml:"files"`
	Ignores     []string                  `toml:"ignores"`
	YAMLVersion string                    `toml:"yamlVersion"`
	Rules       map[string]toml.Primitive `toml:"rules"`
}

func parseTOML(data []byte) (*Config, error) {
	var f tomlFile
	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	b := newRuleSetBuilder()
	for _, key := range slices.Sorted(maps.Keys(f.Rules)) {
		// записи бывают строкой, массивом и таблицей: тип узнаём после декодирования
		var v any
		if err := meta.PrimitiveDecode(f.Rules[key], &v); err != nil {
			return nil, fmt.Errorf("rules: %q: %w", key, err)
		}
		if err := b.add(key, v); err != nil {
			return nil, err
		}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w %q", ErrUnknownKey, undecoded[0].String())
	}
	r := raw{
		files:      f.Files,
		ignores:    f.Ignores,
		version:    f.YAMLVersion,
		hasFiles:   meta.IsDefined("files"),
		hasIgnores: meta.IsDefined("ignores"),
	}
	return r.build(b.set)
}

// EncodeTOML writes cfg in the TOML format Load reads.
func EncodeTOML(cfg *Config) ([]byte, error) {
	rules := make(map[string]any, len(cfg.Rules))
	for id, rc := range cfg.Rules {
		if rc.Options.IsZero() {
			rules[id] = rc.Level.String()
			continue
		}
		entry := []any{rc.Level.String()}
		entry = append(entry, rc.Options.Positional...)
		if len(rc.Options.Named) > 0 {
			entry = append(entry, rc.Options.Named)
		}
		rules[id] = entry
	}
	doc := struct {
		Files       []string       `toml:"files"`
		Ignores     []string       `toml:"ignores"`
		YAMLVersion string         `toml:"yamlVersion"`
		Rules       map[string]any `toml:"rules"`
	}{cfg.Files, cfg.Ignores, cfg.YAMLVersion, rules}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
