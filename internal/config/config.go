// Package config loads the linter configuration: which files to lint, which
// to skip, and the rule table.
//
// A configuration is found by walking up from the working directory to the
// first .yamlcheck.toml, .yamlcheck.yaml or .yamlcheck.yml. Without one the
// built-in Default applies.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yamlcheck/internal/lint"
	"yamlcheck/internal/rules"
)

// FileNames are the configuration files looked for, in order of preference.
var FileNames = []string{".yamlcheck.toml", ".yamlcheck.yaml", ".yamlcheck.yml"}

// Supported values of yamlVersion.
const (
	YAML12 = "1.2"
	YAML11 = "1.1"
)

var (
	// ErrUnknownKey is returned for a top-level key the loader does not know.
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrBadEntry is returned for a rule entry of the wrong shape.
	ErrBadEntry = errors.New("malformed rule entry")
)

// Config is a loaded configuration.
type Config struct {
	// Path is the file it came from, empty for the default.
	Path string
	// Root is the directory files and ignores are relative to.
	Root        string
	Files       []string
	Ignores     []string
	YAMLVersion string
	Rules       lint.RuleSet
}

// Default mirrors the configuration the linter was first written for.
func Default() *Config {
	return &Config{
		Files:       []string{"**/*.yaml", "**/*.yml"},
		Ignores:     []string{"node_modules/**", ".git/**"},
		YAMLVersion: YAML12,
		Rules: lint.RuleSet{
			rules.IndentID: {Level: lint.LevelError, Options: lint.Options{
				Positional: []any{2},
				Named:      map[string]any{"indentBlockSequences": true},
			}},
			rules.NoEmptyKeyID:          {Level: lint.LevelError},
			rules.NoTabIndentID:         {Level: lint.LevelError},
			rules.QuestionIndicatorID:   {Level: lint.LevelOff},
			rules.ColonIndicatorID:      {Level: lint.LevelOff},
			rules.HyphenIndicatorID:     {Level: lint.LevelOff},
			rules.SortKeysID:            {Level: lint.LevelOff},
			rules.SortSequenceValuesID:  {Level: lint.LevelOff},
			rules.PlainScalarID:         {Level: lint.LevelOff},
			rules.QuotesID:              {Level: lint.LevelOff},
			rules.NoEmptyMappingValueID: {Level: lint.LevelOff},
		},
	}
}

// Find walks up from startDir to locate a configuration file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads the file at path, or the one found from startDir, or the
// default when there is none. The default is rooted at startDir.
func Resolve(path, startDir string) (*Config, error) {
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			cfg := Default()
			root, err := filepath.Abs(cmp.Or(startDir, "."))
			if err != nil {
				return nil, err
			}
			cfg.Root = root
			return cfg, nil
		}
		path = found
	}
	return Load(path)
}

// Load reads one configuration file. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		cfg, err = parseTOML(data)
	case ".yaml", ".yml":
		cfg, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("%s: unsupported configuration format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	return cfg, nil
}

// raw is the decoded file before rule entries are interpreted.
type raw struct {
	files, ignores []string
	version        string
	hasFiles       bool
	hasIgnores     bool
}

func (r raw) build(rules lint.RuleSet) (*Config, error) {
	cfg := Default()
	if r.hasFiles {
		cfg.Files = r.files
	}
	if r.hasIgnores {
		cfg.Ignores = r.ignores
	}
	switch r.version {
	case "":
	case YAML11, YAML12:
		cfg.YAMLVersion = r.version
	default:
		return nil, fmt.Errorf("yamlVersion: unsupported version %q", r.version)
	}
	if len(cfg.Files) == 0 {
		return nil, errors.New("files: at least one pattern is required")
	}
	for _, p := range append(append([]string(nil), cfg.Files...), cfg.Ignores...) {
		if !validPattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	cfg.Rules = rules
	return cfg, nil
}
